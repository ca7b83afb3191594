package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-vox/logging"
	"github.com/RyanBlaney/sonido-vox/vocal"
	"github.com/RyanBlaney/sonido-vox/vocal/config"
)

var (
	configPath string
	sourceHint string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sonido-vox",
		Short: "Vocal quality analysis",
		Long:  "Analyzes vocal recordings for clarity, timbre and vocal type.",
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a vocal recording and print the JSON result",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file overriding defaults")
	analyzeCmd.Flags().StringVarP(&sourceHint, "source", "s", "", "recording source hint (kakaotalk, instagram, amr, ...)")
	analyzeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if verbose {
		logging.SetGlobalLogger(logging.NewDefaultLoggerWithLevel(logging.DebugLevel))
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer := vocal.NewAnalyzer(cfg)
	result, err := analyzer.AnalyzeFile(ctx, args[0], sourceHint)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", args[0], err)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
