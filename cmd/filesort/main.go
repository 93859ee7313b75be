// Filesort sorts large text files line by line, ignoring case.
//
// Usage:
//
//	filesort sort -f data.txt [-f more.txt] [-o out.txt] [--verify] [--jobs N]
//	filesort check data_sorted.txt
//	filesort fingerprint data.txt data_sorted.txt
//	filesort config show
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bglogos/FileSort/internal/config"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "filesort",
		Short: "Sort text files of any size, line by line, ignoring case",
		Long: `filesort orders the lines of a text file case-insensitively.

Files below the threshold are sorted in memory. Larger files are split by
line prefix into scratch buckets beside the input, each small enough to sort
in memory, and the buckets are concatenated in order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			a.cfg = cfg

			a.logger, err = buildLogger(cfg.Logging, a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "filesort.yaml", "Config file (missing file means defaults)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newSortCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newFingerprintCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

func buildLogger(c config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if c.Format == "console" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	level, err := zapcore.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
