package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core/game"
	"github.com/voidrunner/voidrunner/internal/observability"
)

var (
	registerSymbol  string
	registerFaction string
	registerEmail   string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new agent with the game service",
	Long: `Register a new agent and store its access token locally.

When --symbol is omitted a random callsign is generated. Registration
is refused while a stored agent token exists; delete the local store to
start over.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer sess.Close()

		registrar := &game.Registrar{
			Client: sess.Client,
			Store:  sess.Store,
			Logger: sess.Logger,
		}

		reg, err := registrar.Register(cmd.Context(), registerSymbol, registerFaction, registerEmail)
		if err != nil {
			if errors.Is(err, game.ErrAlreadyRegistered) {
				observability.CLILogger.Warn("An agent token is already stored; remove the local store to register a new agent")
			}
			return err
		}

		observability.CLILogger.Info("Agent registered",
			zap.String("symbol", reg.Agent.Symbol),
			zap.String("faction", reg.Agent.StartingFaction),
			zap.String("headquarters", reg.Agent.Headquarters))

		fmt.Printf("Registered agent %s (faction %s)\n", reg.Agent.Symbol, reg.Agent.StartingFaction)
		fmt.Printf("Headquarters: %s\n", reg.Agent.Headquarters)
		fmt.Printf("Starting contract: %s\n", reg.Contract.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringVar(&registerSymbol, "symbol", "", "agent callsign (3-14 chars, A-Z 0-9 _; random when omitted)")
	registerCmd.Flags().StringVar(&registerFaction, "faction", game.DefaultFaction, "starting faction")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email (only needed for reserved callsigns)")
}
