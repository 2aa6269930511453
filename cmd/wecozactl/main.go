package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/yourdesigncoza/wecoza-core-sub001/cmd/wecozactl/commands"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/configs"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

var logJSON bool

var rootCmd = &cobra.Command{
	Use:   "wecozactl",
	Short: "Operator tooling for learner progressions",
	Long: `wecozactl - operator tooling for learner progressions.

Examples:
  wecozactl migrate
  wecozactl export regulatory --from 2026-01-01 --to 2026-03-31 --status completed --out q1.csv
  wecozactl stats --employer-id 12
  wecozactl reverse-session 8812
  wecozactl seed --dir internals/seeds`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configs.LoadEnv()
		if err := logger.Initialize(logJSON); err != nil {
			return errors.Wrap(err, "initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit JSON logs")

	rootCmd.AddCommand(commands.MigrateCmd)
	rootCmd.AddCommand(commands.ExportCmd)
	rootCmd.AddCommand(commands.StatsCmd)
	rootCmd.AddCommand(commands.ReverseSessionCmd)
	rootCmd.AddCommand(commands.SeedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
