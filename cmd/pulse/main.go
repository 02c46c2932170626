package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.3.0"

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           "pulse",
		Short:         "Market dashboard signal engine",
		Long:          "MarketPulse computes trend bias, RSI, momentum, relative strength and basket readings for a configured universe.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultPath, "Path to the YAML config")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run evaluation cycles on the configured cron schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runOnStart, _ := cmd.Flags().GetBool("run-on-start")
			return runDaemon(cfgPath, runOnStart)
		},
	}
	runCmd.Flags().Bool("run-on-start", os.Getenv("RUN_ON_START") == "true", "Execute one cycle immediately")

	onceCmd := &cobra.Command{
		Use:   "once",
		Short: "Run one evaluation cycle and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, _ := cmd.Flags().GetString("provider")
			return runOnce(cmd.Context(), cfgPath, provider, cmd.OutOrStdout())
		},
	}
	onceCmd.Flags().String("provider", "", "Override data_source.provider (yahoo|mock)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cfgPath, "")
			if err != nil {
				return err
			}
			u := cfg.Universe.Build()
			fmt.Fprintf(cmd.OutOrStdout(), "config ok: %d symbols, %d baskets, %d cohorts, scorecard %t, rotation %t\n",
				len(u.Symbols()), len(u.Baskets), len(u.Cohorts), len(u.Scorecard) > 0, u.Rotation != nil)
			return nil
		},
	}

	lastCmd := &cobra.Command{
		Use:   "last",
		Short: "Print the snapshot of the previous cycle without fetching",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printLast(cfgPath, cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(runCmd, onceCmd, validateCmd, lastCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
