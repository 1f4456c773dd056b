package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"transit/config"
	"transit/debug"
)

var (
	logPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "transit",
	Short: "A grid editor for a four-track step sequencer",
	Long: `transit turns a monome grid (via serialosc), a Novation Launchpad or an
on-screen grid into an editor for four tracks of sixteen sequences, each with
up to sixty-four stages.

Hold the meta key and press a track key to edit that track; press meta again
to return to play mode.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logPath != "" {
			if err := debug.Enable(logPath); err != nil {
				return fmt.Errorf("enable log: %w", err)
			}
		}
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debug.Disable()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write a debug log (default path when given without a value)")
	rootCmd.PersistentFlags().Lookup("log").NoOptDefVal = debug.DefaultPath()
}
