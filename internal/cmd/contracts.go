package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/observability"
	"github.com/voidrunner/voidrunner/internal/output"
)

var contractsOutput string

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "Inspect and accept contracts",
}

var contractsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the agent's contracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(contractsOutput)
		if err != nil {
			return err
		}

		sess, err := newSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer sess.Close()

		contracts, err := sess.Client.ListContracts(cmd.Context())
		if err != nil {
			return err
		}

		rendered, err := output.RenderContracts(format, contracts)
		if err != nil {
			return err
		}

		fmt.Println(rendered)
		return nil
	},
}

var contractsAcceptCmd = &cobra.Command{
	Use:   "accept <contract-id>",
	Short: "Accept a contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer sess.Close()

		contract, err := sess.Client.AcceptContract(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		observability.CLILogger.Info("Contract accepted",
			zap.String("contract", contract.ID),
			zap.String("type", contract.Type))

		fmt.Printf("Accepted contract %s\n", contract.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contractsCmd)
	contractsCmd.AddCommand(contractsListCmd)
	contractsCmd.AddCommand(contractsAcceptCmd)

	contractsListCmd.Flags().StringVar(&contractsOutput, "output-format", string(output.FormatTable), "Output format: table|json")
}
