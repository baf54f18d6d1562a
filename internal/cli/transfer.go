package cli

import (
	"io"
	"os"
	"strings"

	"shoplist-cli/internal/model"
	"shoplist-cli/internal/schema"
	"shoplist-cli/internal/store"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace (or merge into) the list from a JSON export",
		Long: strings.TrimSpace(`
Import a list from a JSON array. Both layouts are accepted:

  [{"name": "Milk", "bought": false}]
  ["Milk", "Eggs"]

The file is validated first; nothing is written when it has issues.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			rep, err := schema.Validate(raw)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !rep.Valid {
				_ = writeOut(cmd, app, envelope{Data: rep, text: rep.String()})
				return writeErr(cmd, errInvalidInput("import: %s has %d issue(s)", args[0], len(rep.Issues)))
			}
			incoming, err := store.DecodeItems(raw)
			if err != nil {
				return writeErr(cmd, errInvalidInput("import: %v", err))
			}

			repo, _, _, err := openRepo(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			next := incoming
			skipped := 0
			if merge {
				next, err = repo.List()
				if err != nil {
					return writeErr(cmd, err)
				}
				for _, it := range incoming {
					if model.IndexOf(next, it.Name) >= 0 {
						skipped++
						continue
					}
					next = append(next, it)
				}
			}
			if err := repo.ReplaceAll(next); err != nil {
				return writeErr(cmd, err)
			}
			app.log().Info("imported list", "items", len(incoming), "merge", merge, "skipped", skipped)
			return writeOut(cmd, app, listEnvelope(next, map[string]any{
				"imported": len(incoming) - skipped,
				"skipped":  skipped,
				"legacy":   rep.Legacy,
			}))
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Append items whose names are not on the list yet")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the list as a JSON array (the stored layout)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _, _, err := openRepo(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			list, err := repo.List()
			if err != nil {
				return writeErr(cmd, err)
			}
			if list == nil {
				list = []model.Item{}
			}
			// Always JSON: the output is meant to be fed back to import.
			return writeJSONOut(cmd, app, list)
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
