package filesort

import (
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	sorterrors "github.com/bglogos/FileSort/errors"
	"github.com/bglogos/FileSort/internal/fs"
	"github.com/bglogos/FileSort/internal/lineio"
)

// ioFailure tags a storage error with ErrIOFailure. Errors that already carry
// the tag are returned unchanged.
func ioFailure(op, path string, err error) error {
	if errors.Is(err, sorterrors.ErrIOFailure) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %w", sorterrors.ErrIOFailure, op, path, err)
}

// lineFileReader is a scoped read handle: file, optional decoder, line reader.
type lineFileReader struct {
	*lineio.Reader
	path string
	f    fs.File
	cr   io.ReadCloser
}

// openLineFile opens a user file. A leading byte order mark is skipped.
func openLineFile(fsys fs.FileSystem, path string, codec Codec) (*lineFileReader, error) {
	return openLines(fsys, path, codec, lineio.NewReader)
}

// openBucketFile opens a workspace file. Lines come back byte for byte, so a
// line that starts with U+FEFF keeps it even when it is first in the bucket.
func openBucketFile(fsys fs.FileSystem, path string, codec Codec) (*lineFileReader, error) {
	return openLines(fsys, path, codec, lineio.NewRawReader)
}

func openLines(fsys fs.FileSystem, path string, codec Codec, newReader func(io.Reader) *lineio.Reader) (*lineFileReader, error) {
	f, err := fs.Open(fsys, path)
	if err != nil {
		return nil, ioFailure("open", path, err)
	}
	adviseSequential(f)
	cr, err := codec.NewReader(f)
	if err != nil {
		return nil, errors.Join(ioFailure("decode", path, err), f.Close())
	}
	return &lineFileReader{Reader: newReader(cr), path: path, f: f, cr: cr}, nil
}

func (r *lineFileReader) next() (string, bool, error) {
	line, ok, err := r.ReadLine()
	if err != nil {
		return "", false, ioFailure("read", r.path, err)
	}
	return line, ok, nil
}

func (r *lineFileReader) Close() error {
	if err := errors.Join(r.cr.Close(), r.f.Close()); err != nil {
		return ioFailure("close", r.path, err)
	}
	return nil
}

// lineFileWriter is a scoped write handle: file, optional encoder, line writer.
type lineFileWriter struct {
	*lineio.Writer
	path string
	f    fs.File
	cw   io.WriteCloser
	sync bool
}

// createLineFile opens path for writing. With appendMode the file is extended
// rather than truncated. A non-nil digest receives every byte of line data as
// it is written, before encoding.
func createLineFile(fsys fs.FileSystem, path string, appendMode bool, codec Codec, term lineio.Terminator, digest *xxhash.Digest) (*lineFileWriter, error) {
	open := fs.Create
	if appendMode {
		open = fs.Append
	}
	f, err := open(fsys, path)
	if err != nil {
		return nil, ioFailure("create", path, err)
	}
	cw, err := codec.NewWriter(f)
	if err != nil {
		return nil, errors.Join(ioFailure("encode", path, err), f.Close())
	}
	var dst io.Writer = cw
	if digest != nil {
		dst = io.MultiWriter(cw, digest)
	}
	return &lineFileWriter{Writer: lineio.NewWriter(dst, term), path: path, f: f, cw: cw}, nil
}

func (w *lineFileWriter) writeLine(line string) error {
	if err := w.WriteLine(line); err != nil {
		return ioFailure("write", w.path, err)
	}
	return nil
}

// Close flushes buffered lines and the encoder, then closes the file. Every
// step runs even if an earlier one failed.
func (w *lineFileWriter) Close() error {
	err := w.Flush()
	err = errors.Join(err, w.cw.Close())
	if w.sync && err == nil {
		err = w.f.Sync()
	}
	err = errors.Join(err, w.f.Close())
	if err != nil {
		return ioFailure("flush", w.path, err)
	}
	return nil
}
