package filesort

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	sorterrors "github.com/bglogos/FileSort/errors"
	"github.com/bglogos/FileSort/internal/fs"
	"github.com/bglogos/FileSort/internal/lineio"
)

// Path is the strategy a sort took.
type Path uint8

const (
	// PathInMemory means the input was smaller than the threshold and was
	// sorted in a single pass.
	PathInMemory Path = iota + 1
	// PathExternal means the input was partitioned into workspace buckets.
	PathExternal
)

func (p Path) String() string {
	switch p {
	case PathInMemory:
		return "in-memory"
	case PathExternal:
		return "external"
	default:
		return fmt.Sprintf("Path(%d)", uint8(p))
	}
}

// Result reports what one Sort did.
type Result struct {
	Input  string
	Output string
	Path   Path

	Lines int64 // lines written to the output
	Bytes int64 // bytes written to the output, terminators included

	// External path only.
	RangeBuckets   int // range buckets finalized
	LiteralBuckets int // literal buckets created
	Splits         int // oversized buckets partitioned again
	MaxDepth       int // deepest partitioning level reached

	// Checksum is the xxhash64 of the output bytes.
	Checksum uint64
	Duration time.Duration
}

// Sorter sorts text files line by line under Compare. A Sorter holds only
// configuration; it is safe to call Sort from several goroutines.
type Sorter struct {
	cfg *config
}

// New creates a Sorter.
func New(opts ...Option) (*Sorter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.threshold <= 0 {
		return nil, fmt.Errorf("%w: %d", sorterrors.ErrInvalidThreshold, cfg.threshold)
	}
	if _, err := lineio.ParseCodec(cfg.codec.String()); err != nil {
		return nil, err
	}
	if cfg.fsys == nil {
		cfg.fsys = fs.Default
	}
	return &Sorter{cfg: cfg}, nil
}

// Threshold returns the configured in-memory limit in bytes.
func (s *Sorter) Threshold() int64 { return s.cfg.threshold }

// Sort writes the lines of input to output in ascending Compare order. Equal
// lines keep their input order. output may name the input itself.
//
// Files smaller than the threshold are sorted in memory. Larger files are
// split by character prefix into workspace buckets that each fit the
// threshold, and the buckets are concatenated in key order. The workspace is
// removed before Sort returns, whatever the outcome. On error the content of
// output is undefined.
func (s *Sorter) Sort(ctx context.Context, input, output string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	fsys := s.cfg.fsys

	info, err := fsys.Stat(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", sorterrors.ErrNotFound, input, err)
		}
		return nil, ioFailure("stat", input, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", sorterrors.ErrIOFailure, input)
	}
	if err := fsys.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, ioFailure("mkdir", filepath.Dir(output), err)
	}

	r := &sortRun{
		cfg:    s.cfg,
		fsys:   fsys,
		log:    s.cfg.log.With(zap.String("input", input)),
		input:  input,
		output: output,
		digest: xxhash.New(),
		res:    &Result{Input: input, Output: output},
	}

	if info.Size() < s.cfg.threshold {
		r.res.Path = PathInMemory
		r.log.Info("sorting in memory",
			zap.Int64("size", info.Size()),
			zap.Int64("threshold", s.cfg.threshold))
		err = r.sortInMemory(ctx)
	} else {
		r.res.Path = PathExternal
		r.log.Info("sorting externally",
			zap.Int64("size", info.Size()),
			zap.Int64("threshold", s.cfg.threshold),
			zap.Stringer("codec", s.cfg.codec))
		err = r.sortExternal(ctx)
	}
	if err != nil {
		r.log.Error("sort failed", zap.Error(err))
		return nil, err
	}

	r.res.Checksum = r.digest.Sum64()
	r.res.Duration = time.Since(start)
	r.log.Info("sort complete",
		zap.Stringer("path", r.res.Path),
		zap.Int64("lines", r.res.Lines),
		zap.Int64("bytes", r.res.Bytes),
		zap.Int("range_buckets", r.res.RangeBuckets),
		zap.Int("literal_buckets", r.res.LiteralBuckets),
		zap.Int("max_depth", r.res.MaxDepth),
		zap.Duration("duration", r.res.Duration))
	return r.res, nil
}

// sortRun is the mutable state of one Sort call.
type sortRun struct {
	cfg    *config
	fsys   fs.FileSystem
	log    *zap.Logger
	input  string
	output string
	ws     *workspace
	index  *bucketIndex
	digest *xxhash.Digest
	res    *Result
	probe  bucket
}

func (r *sortRun) sortInMemory(ctx context.Context) error {
	lines, term, err := r.loadLines(r.input, CodecNone, false)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sortLines(lines)
	n, err := r.writeLines(r.output, CodecNone, term, lines, r.digest, r.cfg.sync)
	if err != nil {
		return err
	}
	r.res.Lines = int64(len(lines))
	r.res.Bytes = n
	return nil
}

func (r *sortRun) sortExternal(ctx context.Context) error {
	term, err := detectTerminator(r.fsys, r.input)
	if err != nil {
		return err
	}
	parent := r.cfg.workspaceDir
	if parent == "" {
		parent = filepath.Dir(r.input)
	}
	ws, err := newWorkspace(r.fsys, parent, r.input, r.cfg.codec, term, r.log)
	if err != nil {
		return err
	}
	defer ws.remove()

	r.ws = ws
	r.index = newBucketIndex()
	if err := r.partition(ctx); err != nil {
		return err
	}
	return r.merge(ctx)
}

// detectTerminator reports the terminator of the first line of path.
func detectTerminator(fsys fs.FileSystem, path string) (term lineio.Terminator, err error) {
	lr, err := openLineFile(fsys, path, CodecNone)
	if err != nil {
		return term, err
	}
	defer func() { err = errors.Join(err, lr.Close()) }()
	if _, _, err := lr.next(); err != nil {
		return term, err
	}
	return lr.Terminator(), nil
}
