package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prism-talent/deal-desk/internal/agentsplit"
)

func newSplitCmd(app *App) *cobra.Command {
	var (
		current map[string]string
		pool    float64
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Work out agent split percentages",
	}
	cmd.PersistentFlags().StringToStringVar(&current, "splits", nil, "current mapping as payee=percent pairs")
	cmd.PersistentFlags().Float64Var(&pool, "pool", 0, "commission pool shown as per-payee amounts")

	show := func(cmd *cobra.Command, s agentsplit.Splits) error {
		if pool < 0 {
			return fmt.Errorf("pool must not be negative")
		}
		fmt.Fprint(cmd.OutOrStdout(), app.formatter().Splits(s, pool, nil))
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "equal PAYEE...",
			Short: "Give every payee the same share",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return show(cmd, agentsplit.Equal(args))
			},
		},
		&cobra.Command{
			Use:   "add PAYEE",
			Short: "Add a payee and re-equalize",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return show(cmd, agentsplit.Add(agentsplit.Splits(current), args[0]))
			},
		},
		&cobra.Command{
			Use:   "remove PAYEE",
			Short: "Remove a payee and re-equalize the rest",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return show(cmd, agentsplit.Remove(agentsplit.Splits(current), args[0]))
			},
		},
		&cobra.Command{
			Use:   "set PAYEE PERCENT",
			Short: "Override one payee's percentage",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return show(cmd, agentsplit.Set(agentsplit.Splits(current), args[0], args[1]))
			},
		},
	)
	return cmd
}
