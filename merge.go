package filesort

import (
	"bufio"
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/bglogos/FileSort/internal/fs"
)

const mergeBufferSize = 1 << 20

// merge concatenates every indexed bucket into the output following the merge
// plan. Each bucket file is deleted as soon as it has been copied.
func (r *sortRun) merge(ctx context.Context) (err error) {
	plan := r.index.plan()
	total := r.index.size()
	r.log.Info("merging buckets",
		zap.Int("entries", len(plan)),
		zap.Int("range_buckets", r.index.ranges.Len()),
		zap.Int("literal_buckets", r.index.literals.Len()),
		zap.Int64("bytes", total))

	f, err := fs.Create(r.fsys, r.output)
	if err != nil {
		return ioFailure("create", r.output, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, ioFailure("close", r.output, cerr))
		}
	}()
	if err := reserveSpace(f, total); err != nil {
		r.log.Debug("space reservation unavailable", zap.String("file", r.output), zap.Error(err))
	}

	bw := bufio.NewWriterSize(io.MultiWriter(f, r.digest), mergeBufferSize)
	for _, e := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.kind == literalThenRange {
			r.log.Debug("literal joins range", zap.String("key", e.key()))
		}
		for _, b := range e.buckets() {
			n, err := r.ws.copyTo(bw, b)
			if err != nil {
				return err
			}
			r.res.Bytes += n
			r.res.Lines += b.lines
			if err := r.ws.discard(b); err != nil {
				return err
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return ioFailure("flush", r.output, err)
	}
	if r.cfg.sync {
		if err := f.Sync(); err != nil {
			return ioFailure("sync", r.output, err)
		}
	}
	return nil
}
