package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voidrunner/voidrunner/internal/output"
)

var (
	historyOutput string
	historyTask   string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the local request journal",
	Long: `Show recent scheduler dispatches from the local journal. Every
completed request is recorded with its task name, status code, attempt
count and duration, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(historyOutput)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		entries, err := db.ListRequests(cmd.Context(), historyTask, historyLimit)
		if err != nil {
			return err
		}

		rendered, err := output.RenderHistory(format, entries)
		if err != nil {
			return err
		}

		fmt.Println(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyOutput, "output-format", string(output.FormatTable), "Output format: table|json")
	historyCmd.Flags().StringVar(&historyTask, "task", "", "filter by task name")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum entries to show")
}
