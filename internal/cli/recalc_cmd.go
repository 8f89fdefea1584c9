package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newRecalcCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recalc DRAFT",
		Short: "Recalculate a deal draft file and show its figures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDraft(args[0])
			if err != nil {
				return err
			}
			d.Recalculate()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}

			f := app.formatter()
			fmt.Fprint(out, f.Draft(d))
			if err := d.Validate(); err != nil {
				fmt.Fprintf(out, "\n%s\n%s\n", f.Error("not ready to submit:"), err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the recalculated draft as JSON")
	return cmd
}
