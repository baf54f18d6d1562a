package cli

import (
	"strings"

	"shoplist-cli/internal/controller"
	"shoplist-cli/internal/items"
	"shoplist-cli/internal/listview"
	"shoplist-cli/internal/model"
	"shoplist-cli/internal/store"

	"github.com/spf13/cobra"
)

// session drives the same controller the TUI and web UI use, so the CLI
// applies identical validation and capitalization.
type session struct {
	repo   *items.Repository
	store  store.Store
	view   *listview.List
	prompt *cliPrompter
	ctrl   *controller.Controller
}

func openSession(cmd *cobra.Command, app *App, yes bool) (*session, error) {
	repo, _, st, err := openRepo(app)
	if err != nil {
		return nil, err
	}
	s := &session{
		repo:   repo,
		store:  st,
		view:   listview.New(),
		prompt: &cliPrompter{in: cmd.InOrStdin(), out: cmd.ErrOrStderr(), yes: yes},
	}
	s.ctrl = controller.New(repo, s.view, s.prompt, app.log())
	if err := s.ctrl.Dispatch(controller.Load()); err != nil {
		return nil, err
	}
	return s, nil
}

// find matches name exactly, then with the capitalization applied on add.
func (s *session) find(name string) *listview.Row {
	if r := s.view.Find(name); r != nil {
		return r
	}
	return s.view.Find(model.Capitalize(strings.TrimSpace(name)))
}

// dispatch runs ev and turns a declined confirmation into an error.
func (s *session) dispatch(ev controller.Event) error {
	if err := s.ctrl.Dispatch(ev); err != nil {
		return err
	}
	if s.prompt.declined {
		return s.prompt.err
	}
	return nil
}
