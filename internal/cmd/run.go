package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core/game"
	"github.com/voidrunner/voidrunner/internal/observability"
)

var (
	runPlanFile   string
	runInterval   time.Duration
	runIterations int
	runContracts  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the automation loop",
	Long: `Run the trading loop: refresh agent and fleet state, work contract
deliveries, and execute mining assignments from the plan file.

The loop runs until interrupted (Ctrl+C) or until --iterations sweeps
have completed. All remote calls go through the rate-limited scheduler,
so the loop never exceeds the service quota.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sess, err := newSession(ctx, true)
		if err != nil {
			return err
		}
		defer sess.Close()

		var plan *game.Plan
		if runPlanFile != "" {
			plan, err = game.LoadPlan(runPlanFile)
			if err != nil {
				return err
			}
		} else {
			plan = &game.Plan{Contracts: runContracts}
		}

		if cmd.Flags().Changed("interval") {
			plan.Interval = runInterval
		}
		if cmd.Flags().Changed("iterations") {
			plan.Iterations = runIterations
		}
		if cmd.Flags().Changed("contracts") {
			plan.Contracts = runContracts
		}

		trader := game.NewTrader(sess.Client, sess.Logger)
		trader.Surveys.Cache = sess.Store

		if err := trader.Initialize(ctx); err != nil {
			return err
		}

		agent := trader.Agent()
		observability.CLILogger.Info("Automation loop starting",
			zap.String("agent", agent.Symbol),
			zap.Int64("credits", agent.Credits),
			zap.Int("mining_assignments", len(plan.Mining)))

		return trader.Run(ctx, plan)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runPlanFile, "plan", "", "YAML plan file with mining assignments")
	runCmd.Flags().DurationVar(&runInterval, "interval", game.DefaultSweepInterval, "pause between sweeps")
	runCmd.Flags().IntVar(&runIterations, "iterations", 0, "stop after this many sweeps (0 = run until interrupted)")
	runCmd.Flags().BoolVar(&runContracts, "contracts", true, "work contract acceptance and fulfillment")
}
