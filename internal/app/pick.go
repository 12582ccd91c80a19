package app

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/tturner/dexterm/internal/catalog"
)

// ErrNoMatches is returned by RunPick when the query leaves nothing to pick.
var ErrNoMatches = stderrors.New("no entries match the query")

// Chooser asks the user to pick one entry.
type Chooser func(entries []catalog.Entry) (catalog.Entry, error)

// PickOptions configures RunPick.
type PickOptions struct {
	Query    string
	PageSize int
	Show     ShowOptions // Key and From are filled from the choice

	// Choose defaults to an interactive huh select.
	Choose Chooser
}

// RunPick loads the list, lets the user choose an entry, then shows it.
func RunPick(ctx context.Context, env *Env, opts PickOptions) error {
	entries, err := LoadEntries(ctx, env, opts.PageSize, false)
	var pe *catalog.PartialError
	if err != nil && !stderrors.As(err, &pe) {
		return err
	}

	entries = catalog.Filter(entries, opts.Query)
	if len(entries) == 0 {
		return fmt.Errorf("%w: %q", ErrNoMatches, opts.Query)
	}

	choose := opts.Choose
	if choose == nil {
		choose = huhChooser
	}
	chosen, err := choose(entries)
	if err != nil {
		return err
	}

	show := opts.Show
	show.From = ""
	show.Key = fmt.Sprint(chosen.ID)
	return RunShow(ctx, env, show)
}

func huhChooser(entries []catalog.Entry) (catalog.Entry, error) {
	options := make([]huh.Option[int], 0, len(entries))
	for i, e := range entries {
		label := fmt.Sprintf("#%s %-14s %s", e.Number(), catalog.DisplayName(e.Name), catalog.TypeLabel(e.Types))
		options = append(options, huh.NewOption(label, i))
	}

	var idx int
	err := huh.NewSelect[int]().
		Title("Pick an entry").
		Options(options...).
		Height(15).
		Value(&idx).
		Run()
	if err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return catalog.Entry{}, fmt.Errorf("pick cancelled")
		}
		return catalog.Entry{}, err
	}
	return entries[idx], nil
}
