package filesort

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	sorterrors "github.com/bglogos/FileSort/errors"
	"github.com/bglogos/FileSort/internal/fs"
	"github.com/bglogos/FileSort/internal/lineio"
)

type bucketKind uint8

const (
	rangeBucket bucketKind = iota
	literalBucket
)

func (k bucketKind) String() string {
	if k == literalBucket {
		return "literal"
	}
	return "range"
}

// bucket is an append-only run of lines stored in one workspace file.
//
// A range bucket holds the lines whose first depth characters equal key under
// Compare; len(key) in characters is depth. A literal bucket holds lines equal
// to key under Compare that were shorter than the depth they were met at.
type bucket struct {
	kind  bucketKind
	key   string
	depth int
	path  string
	size  int64 // decoded bytes, terminators included
	lines int64
	w     *lineFileWriter // open write side, nil when closed
}

func bucketLess(a, b *bucket) bool { return Compare(a.key, b.key) < 0 }

// workspace is the scratch directory of one sort. It owns every bucket file
// and hands out names from per-kind counters.
type workspace struct {
	fsys  fs.FileSystem
	dir   string
	codec Codec
	term  lineio.Terminator
	log   *zap.Logger
	seq   [2]int
}

func newWorkspace(fsys fs.FileSystem, parent, input string, codec Codec, term lineio.Terminator, log *zap.Logger) (*workspace, error) {
	if err := fsys.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", sorterrors.ErrWorkspace, parent, err)
	}
	pattern := "." + strings.ReplaceAll(filepath.Base(input), "*", "_") + ".workspace-*"
	dir, err := fsys.MkdirTemp(parent, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", sorterrors.ErrWorkspace, parent, err)
	}
	log.Debug("workspace created", zap.String("dir", dir), zap.Stringer("codec", codec))
	return &workspace{fsys: fsys, dir: dir, codec: codec, term: term, log: log}, nil
}

func (w *workspace) newBucket(kind bucketKind, key string, depth int) *bucket {
	w.seq[kind]++
	b := &bucket{
		kind:  kind,
		key:   strings.Clone(key),
		depth: depth,
		path:  filepath.Join(w.dir, fmt.Sprintf("%s-%06d.part", kind, w.seq[kind])),
	}
	w.log.Debug("bucket created",
		zap.Stringer("kind", kind),
		zap.String("key", b.key),
		zap.Int("depth", depth),
		zap.String("file", b.path))
	return b
}

// writeLine writes line to b, opening its write side first if needed. opened
// reports whether this call opened it, so the caller can scope the handle.
func (w *workspace) writeLine(b *bucket, line string) (opened bool, err error) {
	if b.w == nil {
		// A bucket that already has content is extended, never truncated.
		b.w, err = createLineFile(w.fsys, b.path, b.lines > 0, w.codec, w.term, nil)
		if err != nil {
			return false, err
		}
		opened = true
	}
	before := b.w.Written()
	if err := b.w.writeLine(line); err != nil {
		return opened, err
	}
	b.size += b.w.Written() - before
	b.lines++
	return opened, nil
}

// closeBucket flushes and releases b's write side.
func (w *workspace) closeBucket(b *bucket) error {
	if b.w == nil {
		return nil
	}
	err := b.w.Close()
	b.w = nil
	return err
}

// copyTo appends the decoded bytes of b to dst unchanged.
func (w *workspace) copyTo(dst io.Writer, b *bucket) (int64, error) {
	f, err := fs.Open(w.fsys, b.path)
	if err != nil {
		return 0, ioFailure("open", b.path, err)
	}
	defer f.Close()
	adviseSequential(f)

	cr, err := w.codec.NewReader(f)
	if err != nil {
		return 0, ioFailure("decode", b.path, err)
	}
	defer cr.Close()

	n, err := io.Copy(dst, cr)
	if err != nil {
		return n, ioFailure("copy", b.path, err)
	}
	return n, nil
}

// discard deletes the backing file of a bucket whose content now lives
// elsewhere.
func (w *workspace) discard(b *bucket) error {
	if err := w.fsys.Remove(b.path); err != nil {
		return ioFailure("delete", b.path, err)
	}
	return nil
}

// remove deletes the workspace directory. Failures are logged, not returned.
func (w *workspace) remove() {
	if err := w.fsys.RemoveAll(w.dir); err != nil {
		w.log.Warn("workspace cleanup failed", zap.String("dir", w.dir), zap.Error(err))
		return
	}
	w.log.Debug("workspace removed", zap.String("dir", w.dir))
}
