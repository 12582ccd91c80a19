package app

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/tturner/dexterm/internal/catalog"
	"github.com/tturner/dexterm/internal/errors"
	"github.com/tturner/dexterm/internal/metrics"
	"github.com/tturner/dexterm/internal/progress"
)

// Output formats for list.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ListOptions configures RunList.
type ListOptions struct {
	Query      string
	PageSize   int // 0 uses catalog.page_size
	Format     string
	MetricsCSV string
	NoProgress bool
}

// LoadEntries loads the catalog with an optional stderr progress bar. A
// *catalog.PartialError is returned alongside the entries that did load.
func LoadEntries(ctx context.Context, env *Env, pageSize int, showProgress bool) ([]catalog.Entry, error) {
	if pageSize == 0 {
		pageSize = env.Config.Catalog.PageSize
	}
	env.Logger.LogStartup("list", env.Client.BaseURL(), pageSize, env.Config.Catalog.JoinPolicy, env.Config.Path)

	var extra []catalog.Option
	var bar *progress.Bar
	if showProgress {
		bar = progress.NewBar(pageSize, "Loading catalog")
		bar.SetOutput(env.Stderr)
		extra = append(extra, catalog.WithProgress(bar.Track))
	}

	entries, err := env.NewLoader(extra...).Load(ctx, pageSize)
	if bar != nil {
		bar.Finish()
	}
	var pe *catalog.PartialError
	if err != nil && !stderrors.As(err, &pe) {
		if stderrors.Is(err, catalog.ErrInvalidPageSize) {
			return nil, err
		}
		return nil, errors.WrapNetworkError(err, env.Client.BaseURL())
	}
	return entries, err
}

// RunList loads, filters and prints the catalog.
func RunList(ctx context.Context, env *Env, opts ListOptions) error {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = FormatTable
	}
	if format != FormatTable && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("unknown format %q (expected table, json or yaml)", opts.Format)
	}

	entries, err := LoadEntries(ctx, env, opts.PageSize, !opts.NoProgress)

	// Metrics are written even for a failed load; the failing request is in them.
	if opts.MetricsCSV != "" {
		if werr := writeMetrics(env, opts.MetricsCSV); werr != nil {
			if err != nil {
				env.Logger.Error("write metrics: %v", werr)
				return err
			}
			return werr
		}
	}

	var pe *catalog.PartialError
	if err != nil && !stderrors.As(err, &pe) {
		return err
	}
	if pe != nil {
		fmt.Fprintf(env.Stderr, "warning: %v\n", pe)
	}

	entries = catalog.Filter(entries, opts.Query)
	switch format {
	case FormatJSON:
		return writeJSON(env.Stdout, entries)
	case FormatYAML:
		return writeYAML(env.Stdout, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintf(env.Stdout, "No entries match %q\n", opts.Query)
		return nil
	}
	fmt.Fprintln(env.Stdout, EntryTable(entries))
	return nil
}

// EntryTable renders entries as a bordered table.
func EntryTable(entries []catalog.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{"#" + e.Number(), catalog.DisplayName(e.Name), catalog.TypeLabel(e.Types), e.Color()})
	}
	// Row 0 is the header; data rows start at 1.
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("No.", "Name", "Types", "Colour").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return header
			}
			return cell
		}).
		String()
}

func writeJSON(w io.Writer, entries []catalog.Entry) error {
	if entries == nil {
		entries = []catalog.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func writeYAML(w io.Writer, entries []catalog.Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeMetrics(env *Env, path string) error {
	w, err := metrics.NewWriter(path, "")
	if err != nil {
		return err
	}
	if err := w.WriteAll(env.Sink.Metrics()); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	env.Logger.Info("Wrote %d request metrics to %s", len(env.Sink.Metrics()), path)
	fmt.Fprint(env.Stderr, metrics.FormatSummary(env.Sink.Summary()))
	return nil
}
