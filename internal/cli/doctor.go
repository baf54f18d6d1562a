package cli

import (
	"shoplist-cli/internal/schema"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the stored list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, is, st, err := openRepo(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			raw, _, err := is.Raw()
			if err != nil {
				return writeErr(cmd, err)
			}
			report, err := schema.Validate([]byte(raw))
			if err != nil {
				return writeErr(cmd, err)
			}

			hints := []string{"shoplist items list"}
			if !report.Valid {
				hints = append(hints, "shoplist export > list.json", "shoplist import --merge list.json")
			}
			if err := writeOut(cmd, app, envelope{
				Data:  report,
				Meta:  map[string]any{"dir": st.Dir, "issues": len(report.Issues)},
				Hints: hints,
				text:  report.String(),
			}); err != nil {
				return err
			}

			if fail && !report.Valid {
				return errDoctorIssues
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if issues are found")
	return cmd
}
