// Package tui is the interactive list screen.
package tui

import (
	"context"
	"errors"

	"shoplist-cli/internal/items"
	"shoplist-cli/internal/logging"
	"shoplist-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Options struct {
	Store  store.Store
	Repo   *items.Repository
	Logger *log.Logger

	// Theme and Glyphs come from the [tui] config section; env vars win.
	Theme  string
	Glyphs string

	// Watch reloads the list when another process writes the store dir.
	Watch bool
}

func Run(ctx context.Context, opts Options) error {
	if opts.Repo == nil {
		return errors.New("tui: nil repository")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(opts.Store, opts.Repo, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Watch && opts.Store.Dir != "" {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := store.Watch(wctx, opts.Store.Dir, func() { p.Send(storeChangedMsg{}) })
			if err != nil && wctx.Err() == nil {
				logger.Warn("store watcher stopped", "dir", opts.Store.Dir, "err", err)
			}
		}()
	}

	final, err := p.Run()
	if fm, ok := final.(appModel); ok {
		fm.saveState()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
