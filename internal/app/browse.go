package app

import (
	"context"

	"github.com/tturner/dexterm/internal/tui"
)

// BrowseOptions configures RunBrowse.
type BrowseOptions struct {
	Query    string
	PageSize int
}

// TUIOptions maps the environment onto the interactive catalog's options.
func TUIOptions(env *Env, opts BrowseOptions) tui.Options {
	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = env.Config.Catalog.PageSize
	}
	return tui.Options{
		Loader:      env.NewLoader(),
		PageSize:    pageSize,
		Query:       opts.Query,
		Images:      env.Client,
		Sprites:     env.Config.UI.Sprites,
		SpriteWidth: env.Config.UI.SpriteWidth,
		Source:      env.Client.BaseURL(),
		Logger:      env.Logger,
	}
}

// RunBrowse starts the interactive catalog. env should be built with Quiet
// so logging stays off the alternate screen.
func RunBrowse(ctx context.Context, env *Env, opts BrowseOptions) error {
	topts := TUIOptions(env, opts)
	env.Logger.LogStartup("browse", env.Client.BaseURL(), topts.PageSize, env.Config.Catalog.JoinPolicy, env.Config.Path)
	return tui.Run(ctx, topts)
}
