package filesort

import (
	"errors"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	"go.uber.org/zap"

	"github.com/bglogos/FileSort/internal/fs"
	"github.com/bglogos/FileSort/internal/lineio"
)

// sortLines orders lines by Compare, keeping equal lines in input order.
func sortLines(lines []string) {
	slices.SortStableFunc(lines, Compare)
}

// sortBucket sorts a closed range bucket in place.
func (r *sortRun) sortBucket(b *bucket) error {
	lines, _, err := r.loadLines(b.path, r.ws.codec, true)
	if err != nil {
		return err
	}
	sortLines(lines)
	n, err := r.writeLines(b.path, r.ws.codec, r.ws.term, lines, nil, false)
	if err != nil {
		return err
	}
	b.size = n
	r.log.Debug("bucket sorted",
		zap.String("key", b.key),
		zap.Int("depth", b.depth),
		zap.Int("lines", len(lines)),
		zap.Int64("size", n))
	return nil
}

// loadLines reads every line of path into memory. The whole file is read
// before it returns, so path may be rewritten afterwards. A raw load keeps a
// leading byte order mark, as workspace files need.
func (r *sortRun) loadLines(path string, codec Codec, raw bool) ([]string, lineio.Terminator, error) {
	if r.cfg.mmap && codec == CodecNone {
		f, err := fs.Open(r.fsys, path)
		if err != nil {
			return nil, lineio.LF, ioFailure("open", path, err)
		}
		if osf, ok := f.(*os.File); ok {
			lines, term, err := loadMapped(osf, raw)
			if err = errors.Join(err, f.Close()); err != nil {
				return nil, lineio.LF, ioFailure("map", path, err)
			}
			return lines, term, nil
		}
		if err := f.Close(); err != nil {
			return nil, lineio.LF, ioFailure("close", path, err)
		}
	}

	open := openLineFile
	if raw {
		open = openBucketFile
	}
	lr, err := open(r.fsys, path, codec)
	if err != nil {
		return nil, lineio.LF, err
	}
	var lines []string
	for {
		line, ok, err := lr.next()
		if err != nil {
			return nil, lineio.LF, errors.Join(err, lr.Close())
		}
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	term := lr.Terminator()
	if err := lr.Close(); err != nil {
		return nil, lineio.LF, err
	}
	return lines, term, nil
}

// loadMapped splits a read-only mapping of f. The split copies each line, so
// nothing refers to the mapping once it is unmapped.
func loadMapped(f *os.File, raw bool) ([]string, lineio.Terminator, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, lineio.LF, err
	}
	if info.Size() == 0 {
		return nil, lineio.LF, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, lineio.LF, err
	}
	split := lineio.SplitLines
	if raw {
		split = lineio.SplitRawLines
	}
	lines, term := split(m)
	if err := m.Unmap(); err != nil {
		return nil, lineio.LF, err
	}
	return lines, term, nil
}

// writeLines truncates path and writes lines to it with term after each.
func (r *sortRun) writeLines(path string, codec Codec, term lineio.Terminator, lines []string, digest *xxhash.Digest, sync bool) (int64, error) {
	w, err := createLineFile(r.fsys, path, false, codec, term, digest)
	if err != nil {
		return 0, err
	}
	w.sync = sync
	for _, line := range lines {
		if err := w.writeLine(line); err != nil {
			return 0, errors.Join(err, w.Close())
		}
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return w.Written(), nil
}
