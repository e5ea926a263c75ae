package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"duty-tracker/internal/dto"
)

func newDistributionCmd() *cobra.Command {
	var (
		req  dto.DistributionRequest
		xlsx string
	)

	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Print post-type distribution, or write it to an Excel file with --xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if xlsx == "" {
				res, err := a.svc.Distribution.Get(cmd.Context(), &req)
				if err != nil {
					return err
				}
				return writeJSON(res)
			}

			buf, _, err := a.svc.Export.ExportDistribution(cmd.Context(), &req)
			if err != nil {
				return err
			}
			if err := os.WriteFile(xlsx, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("写入 %s 失败: %w", xlsx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已写入 %s\n", xlsx)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.From, "from", "", "Start duty date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.To, "to", "", "End duty date, inclusive (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&req.PerPerson, "per-person", false, "Include per-person breakdown")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Write an Excel report to this path instead of printing JSON")
	return cmd
}
