package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	filesort "github.com/bglogos/FileSort"
	"github.com/bglogos/FileSort/internal/config"
)

var errInvalidSort = errors.New("sorting is invalid")

type sortFlags struct {
	files     []string
	output    string
	verify    bool
	jobs      int
	threshold string
	codec     string
	workspace string
}

func newSortCmd(a *app) *cobra.Command {
	var f sortFlags
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort one or more files",
		Long: `Sorts each file given with -f. The result goes to -o, or to the input name
with "_sorted" before the extension. Several files are sorted concurrently.

Example:
  filesort sort -f data.txt --threshold 256MiB --codec lz4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applySortFlags(cmd, a.cfg, &f)
			return runSort(cmd, a, f)
		},
	}
	cmd.Flags().StringSliceVarP(&f.files, "file", "f", nil, "Text file to sort (repeatable)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (single input only)")
	cmd.Flags().BoolVar(&f.verify, "verify", true, "Check the output order after sorting")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "Concurrent sorts (0 = number of CPUs)")
	cmd.Flags().StringVar(&f.threshold, "threshold", "", "In-memory limit, e.g. 100MiB")
	cmd.Flags().StringVar(&f.codec, "codec", "", "Bucket compression: none, lz4, zstd")
	cmd.Flags().StringVar(&f.workspace, "workspace", "", "Parent directory for scratch buckets")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// applySortFlags merges explicitly set flags over the loaded configuration.
func applySortFlags(cmd *cobra.Command, cfg *config.Config, f *sortFlags) {
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Sort.Threshold = f.threshold
	}
	if flags.Changed("codec") {
		cfg.Sort.Codec = f.codec
	}
	if flags.Changed("workspace") {
		cfg.Sort.WorkspaceDir = f.workspace
	}
	if flags.Changed("jobs") {
		cfg.Sort.Jobs = f.jobs
	}
	if flags.Changed("verify") {
		cfg.Sort.Verify = f.verify
	}
}

func newSorter(a *app) (*filesort.Sorter, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	threshold, err := a.cfg.ThresholdBytes()
	if err != nil {
		return nil, err
	}
	codec, err := filesort.ParseCodec(a.cfg.Sort.Codec)
	if err != nil {
		return nil, err
	}
	return filesort.New(
		filesort.WithThreshold(threshold),
		filesort.WithWorkspaceDir(a.cfg.Sort.WorkspaceDir),
		filesort.WithCodec(codec),
		filesort.WithMmap(a.cfg.Sort.Mmap),
		filesort.WithLogger(a.logger),
	)
}

func runSort(cmd *cobra.Command, a *app, f sortFlags) error {
	if f.output != "" && len(f.files) > 1 {
		return fmt.Errorf("--output needs exactly one --file, got %d", len(f.files))
	}
	s, err := newSorter(a)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var results []*filesort.Result
	if len(f.files) == 1 {
		out := f.output
		if out == "" {
			out = filesort.SortedName(f.files[0])
		}
		res, err := s.Sort(ctx, f.files[0], out)
		if err != nil {
			return err
		}
		results = []*filesort.Result{res}
	} else {
		results, err = s.SortFiles(ctx, f.files, a.cfg.Sort.Jobs)
		if err != nil {
			return err
		}
	}

	var invalid int
	for _, res := range results {
		printResult(cmd.OutOrStdout(), res)
		if !a.cfg.Sort.Verify {
			continue
		}
		if s.IsSorted(res.Output) {
			a.logger.Info("sorting is valid", zap.String("file", res.Output))
		} else {
			a.logger.Error("sorting is invalid", zap.String("file", res.Output))
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d outputs", errInvalidSort, invalid, len(results))
	}
	return nil
}

func printResult(w io.Writer, res *filesort.Result) {
	fmt.Fprintf(w, "%s -> %s: %s lines, %s, %s",
		res.Input, res.Output,
		humanize.Comma(res.Lines), humanize.IBytes(uint64(res.Bytes)), res.Path)
	if res.Path == filesort.PathExternal {
		fmt.Fprintf(w, " (%d range, %d literal buckets, depth %d)",
			res.RangeBuckets, res.LiteralBuckets, res.MaxDepth)
	}
	fmt.Fprintf(w, " in %s, xxhash %016x\n", res.Duration.Round(time.Millisecond), res.Checksum)
}
