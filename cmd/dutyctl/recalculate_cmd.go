package main

import (
	"github.com/spf13/cobra"
)

func newRecalculateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate",
		Short: "Recompute every fairness record from the full assignment history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Fairness.Recalculate(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(res)
		},
	}
}
