package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tturner/dexterm/internal/catalog"
	"github.com/tturner/dexterm/internal/errors"
	"github.com/tturner/dexterm/internal/sprite"
)

// ShowOptions configures RunShow. Exactly one of Key and From is used; From
// wins when both are set.
type ShowOptions struct {
	Key      string // national number or name
	From     string // encoded catalog.Transfer
	Tab      string
	Markdown bool
	Style    string // glamour style for Markdown, "" for auto
	Sprite   bool
}

// FetchDetail resolves a number, a name or a transfer record to a Detail.
func FetchDetail(ctx context.Context, env *Env, key, from string) (catalog.Detail, error) {
	loader := env.NewLoader()

	if from != "" {
		t, err := catalog.DecodeTransfer(from)
		if err != nil {
			return catalog.Detail{}, err
		}
		key = strconv.Itoa(t.ID)
	}

	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return catalog.Detail{}, fmt.Errorf("an id or name is required")
	}

	var (
		d   catalog.Detail
		err error
	)
	if id, convErr := strconv.Atoi(strings.TrimLeft(key, "#")); convErr == nil {
		if id < 1 {
			return catalog.Detail{}, fmt.Errorf("invalid id %d", id)
		}
		d, err = loader.LoadDetail(ctx, id)
	} else {
		d, err = loader.LoadDetailByName(ctx, key)
	}
	if err != nil {
		if errors.IsNotFound(err) {
			return catalog.Detail{}, errors.WrapNotFound(err, key)
		}
		return catalog.Detail{}, errors.WrapNetworkError(err, env.Client.BaseURL())
	}
	return d, nil
}

// RunShow fetches one entry and prints the chosen tabs.
func RunShow(ctx context.Context, env *Env, opts ShowOptions) error {
	tabs, err := ParseTab(opts.Tab)
	if err != nil {
		return err
	}

	d, err := FetchDetail(ctx, env, opts.Key, opts.From)
	if err != nil {
		return err
	}
	env.Logger.Verbose("Showing %s (#%d)", d.Name, d.ID)

	if opts.Sprite {
		art, err := sprite.Load(ctx, env.Client, d.ImageURL, env.Config.UI.SpriteWidth)
		if err != nil {
			// Artwork is decoration; the text still prints.
			env.Logger.Info("Sprite for %s unavailable: %v", d.Name, err)
		} else {
			fmt.Fprintln(env.Stdout, art)
		}
	}

	if opts.Markdown {
		out, err := RenderMarkdown(DetailMarkdown(d, tabs), opts.Style, 80)
		if err != nil {
			return err
		}
		fmt.Fprint(env.Stdout, out)
		return nil
	}
	fmt.Fprint(env.Stdout, RenderDetailText(d, tabs))
	return nil
}
