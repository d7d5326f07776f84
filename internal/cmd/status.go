package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voidrunner/voidrunner/internal/output"
)

var statusOutput string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agent, fleet and scheduler status",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(statusOutput)
		if err != nil {
			return err
		}

		sess, err := newSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer sess.Close()

		agent, err := sess.Client.GetAgent(cmd.Context())
		if err != nil {
			return err
		}

		ships, err := sess.Client.ListShips(cmd.Context())
		if err != nil {
			return err
		}

		rendered, err := output.RenderAgentStatus(format, output.AgentStatus{
			Agent: *agent,
			Ships: ships,
			Stats: sess.Scheduler.Stats(),
		})
		if err != nil {
			return err
		}

		fmt.Println(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusOutput, "output-format", string(output.FormatTable), "Output format: table|json")
}
