package cli

import (
	"shoplist-cli/internal/store"

	"github.com/spf13/cobra"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage named lists under ~/.shoplist/lists",
	}
	cmd.AddCommand(newListsLsCmd(app))
	cmd.AddCommand(newListsUseCmd(app))
	return cmd
}

func newListsLsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List named lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := store.ListNames()
			if err != nil {
				return writeErr(cmd, err)
			}
			current := app.config().CurrentList
			if current == "" {
				current = "default"
			}
			text := ""
			for _, n := range names {
				mark := "  "
				if n == current {
					mark = "* "
				}
				text += mark + n + "\n"
			}
			return writeOut(cmd, app, envelope{
				Data: map[string]any{"lists": names, "current": current},
				text: text,
			})
		},
	}
}

func newListsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a named list the current one (creating it if needed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeListName(args[0])
			if err != nil {
				return writeErr(cmd, errInvalidInput("%v", err))
			}
			dir, err := store.ListDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (store.Store{Dir: dir}).Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			cfg := app.config()
			cfg.CurrentList = name
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.log().Info("switched list", "list", name)
			return writeOut(cmd, app, envelope{
				Data: map[string]any{"current": name, "dir": dir},
				text: "using " + name + " (" + dir + ")",
			})
		},
	}
}
