package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	filesort "github.com/bglogos/FileSort"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Verify that files are sorted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var unsorted int
			for _, path := range args {
				status := "sorted"
				if !filesort.IsSorted(path) {
					status = "not sorted"
					unsorted++
				}
				a.logger.Debug("checked", zap.String("file", path), zap.String("status", status))
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, status)
			}
			if unsorted > 0 {
				return fmt.Errorf("%d of %d files not sorted", unsorted, len(args))
			}
			return nil
		},
	}
}

func newFingerprintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <file>...",
		Short: "Print an order-independent digest of each file's lines",
		Long: `Prints a digest that depends only on which lines a file holds, not on their
order. A file and its sorted output print the same digest.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				d, err := filesort.Fingerprint(path)
				if err != nil {
					return err
				}
				a.logger.Debug("fingerprinted", zap.String("file", path), zap.Uint64("lines", d.Lines))
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", d, path)
			}
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	})
	return configCmd
}
