package cli

import (
	"strings"

	"shoplist-cli/internal/controller"
	"shoplist-cli/internal/model"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item", "i"},
		Short:   "List and change items",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsEditCmd(app))
	cmd.AddCommand(newItemsSetBoughtCmd(app, "bought", "Mark an item as bought", func(bool) bool { return true }))
	cmd.AddCommand(newItemsSetBoughtCmd(app, "unbought", "Mark an item as not bought", func(bool) bool { return false }))
	cmd.AddCommand(newItemsSetBoughtCmd(app, "toggle", "Flip the bought flag of an item", func(b bool) bool { return !b }))
	cmd.AddCommand(newItemsRemoveCmd(app))
	cmd.AddCommand(newItemsClearCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var filter string
	var boughtOnly, pendingOnly bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			if filter != "" {
				_ = s.ctrl.Dispatch(controller.FilterInput(filter))
			}
			list := []model.Item{}
			for _, r := range s.view.Visible() {
				if boughtOnly && !r.Bought() || pendingOnly && r.Bought() {
					continue
				}
				list = append(list, r.Item())
			}
			return writeOut(cmd, app, listEnvelope(list, map[string]any{"dir": s.store.Dir}))
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only items whose name contains this text (case-insensitive)")
	cmd.Flags().BoolVar(&boughtOnly, "bought", false, "Only bought items")
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Only items not bought yet")
	cmd.MarkFlagsMutuallyExclusive("bought", "pending")
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "add <name...>",
		Short:   "Add an item",
		Example: "  shoplist items add oat milk",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.dispatch(controller.Submit(strings.Join(args, " "))); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, listEnvelope(s.view.Items(), map[string]any{"changed": true}))
		},
	}
}

func newItemsEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <name> <new-name>",
		Short: "Rename an item (the bought flag is reset)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			row := s.find(args[0])
			if row == nil {
				return writeOut(cmd, app, notFound(s, args[0]))
			}
			if err := s.dispatch(controller.ClickRow(row)); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.dispatch(controller.Submit(args[1])); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, listEnvelope(s.view.Items(), map[string]any{"changed": true}))
		},
	}
}

func newItemsSetBoughtCmd(app *App, use, short string, next func(bool) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			name := strings.Join(args, " ")
			row := s.find(name)
			if row == nil {
				return writeOut(cmd, app, notFound(s, name))
			}
			changed := next(row.Bought()) != row.Bought()
			if changed {
				if err := s.dispatch(controller.ClickToggle(row)); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, listEnvelope(s.view.Items(), map[string]any{"changed": changed}))
		},
	}
}

func newItemsRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove an item",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, yes)
			if err != nil {
				return writeErr(cmd, err)
			}
			name := strings.Join(args, " ")
			row := s.find(name)
			if row == nil {
				return writeOut(cmd, app, notFound(s, name))
			}
			if err := s.dispatch(controller.ClickRemove(row)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, listEnvelope(s.view.Items(), map[string]any{"changed": true}))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newItemsClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, yes)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.dispatch(controller.ClearAll()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, listEnvelope(s.view.Items(), map[string]any{"changed": true}))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// notFound is not an error: a missing item leaves the list as it is.
func notFound(s *session, name string) envelope {
	env := listEnvelope(s.view.Items(), map[string]any{"changed": false, "notFound": name})
	env.Hints = []string{"shoplist items list"}
	return env
}
