package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/service"
)

func newImportCmd() *cobra.Command {
	var (
		dutyDate string
		file     string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a pasted duty roster chat message",
		Long: "Reads the chat text from --file (or stdin when --file is \"-\" or omitted),\n" +
			"creates assignments for every line that resolves, and prints per-line errors.",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := time.Parse(dto.DateLayout, dutyDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", dutyDate, err)
			}
			text, err := readInput(file)
			if err != nil {
				return err
			}

			if dryRun {
				return writeJSON(service.ParseChat(text, day))
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Import.ImportChat(cmd.Context(), &dto.ImportChatRequest{DutyDate: dutyDate, ChatText: text})
			if err != nil {
				return err
			}
			if err := writeJSON(res); err != nil {
				return err
			}
			if res.CreatedCount == 0 && len(res.Errors) > 0 {
				return fmt.Errorf("没有导入任何排班，%d 行失败", len(res.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dutyDate, "date", time.Now().Format(dto.DateLayout), "Duty date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&file, "file", "-", "Chat text file, - for stdin")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only parse and print drafts, no database access")
	return cmd
}

func readInput(file string) (string, error) {
	var (
		b   []byte
		err error
	)
	if file == "" || file == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("读取导入文本失败: %w", err)
	}
	return string(b), nil
}
