// Package lineio reads and writes line-oriented text.
//
// A line is the byte sequence between terminators. "\n" and "\r\n" are both
// recognised on input; the first terminator seen decides the convention that
// [Reader.Terminator] reports, so a writer can reproduce it. [NewReader] skips
// a UTF-8 byte order mark at the very start of a stream; [NewRawReader] keeps
// it as part of the first line.
package lineio

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Terminator is a line terminator convention.
type Terminator uint8

const (
	LF Terminator = iota
	CRLF
)

func (t Terminator) String() string {
	if t == CRLF {
		return "\r\n"
	}
	return "\n"
}

// BOM is the UTF-8 encoding of U+FEFF.
const BOM = "\uFEFF"

const readBufferSize = 64 << 10

// Reader yields lines from an underlying reader.
type Reader struct {
	br      *bufio.Reader
	term    Terminator
	termSet bool
	started bool
	raw     bool
	read    int64
}

// NewReader returns a Reader over r that skips a leading byte order mark.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, readBufferSize)}
}

// NewRawReader returns a Reader over r that returns every byte of the stream,
// a leading U+FEFF included.
func NewRawReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, readBufferSize), raw: true}
}

// ReadLine returns the next line without its terminator. ok is false once the
// stream is exhausted. A final line without a terminator is still returned.
func (r *Reader) ReadLine() (line string, ok bool, err error) {
	if !r.started {
		r.started = true
		if !r.raw {
			if err := r.skipBOM(); err != nil {
				return "", false, err
			}
		}
	}

	s, err := r.br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	if len(s) == 0 {
		return "", false, nil
	}
	r.read += int64(len(s))

	line, term, hasTerm := trimTerminator(s)
	if hasTerm && !r.termSet {
		r.term, r.termSet = term, true
	}
	return line, true, nil
}

func (r *Reader) skipBOM() error {
	head, err := r.br.Peek(len(BOM))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return err
	}
	if string(head) == BOM {
		_, _ = r.br.Discard(len(BOM))
		r.read += int64(len(BOM))
	}
	return nil
}

// Terminator reports the convention of the first terminated line read so far,
// LF if none has been seen.
func (r *Reader) Terminator() Terminator { return r.term }

// BytesRead returns the number of bytes consumed, terminators included.
func (r *Reader) BytesRead() int64 { return r.read }

func trimTerminator(s string) (line string, term Terminator, ok bool) {
	n := len(s)
	if n == 0 || s[n-1] != '\n' {
		return s, LF, false
	}
	if n >= 2 && s[n-2] == '\r' {
		return s[:n-2], CRLF, true
	}
	return s[:n-1], LF, true
}

// SplitLines splits an in-memory buffer with the same rules as [NewReader]:
// leading BOM skipped, "\n" or "\r\n" terminators removed, a trailing
// unterminated line kept. The returned strings do not alias data.
func SplitLines(data []byte) ([]string, Terminator) {
	return SplitRawLines(bytes.TrimPrefix(data, []byte(BOM)))
}

// SplitRawLines is SplitLines without the byte order mark handling, matching
// [NewRawReader].
func SplitRawLines(data []byte) ([]string, Terminator) {
	var (
		lines   []string
		term    Terminator
		termSet bool
	)
	if n := bytes.Count(data, []byte{'\n'}); n > 0 {
		lines = make([]string, 0, n+1)
	}
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, string(data))
			break
		}
		end, t := i, LF
		if i > 0 && data[i-1] == '\r' {
			end, t = i-1, CRLF
		}
		if !termSet {
			term, termSet = t, true
		}
		lines = append(lines, string(data[:end]))
		data = data[i+1:]
	}
	return lines, term
}

// Writer writes terminated lines through a buffer.
type Writer struct {
	bw      *bufio.Writer
	term    string
	written int64
}

// NewWriter returns a Writer that terminates every line with term.
func NewWriter(w io.Writer, term Terminator) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, readBufferSize), term: term.String()}
}

// WriteLine writes line followed by the terminator.
func (w *Writer) WriteLine(line string) error {
	if _, err := w.bw.WriteString(line); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(w.term); err != nil {
		return err
	}
	w.written += int64(len(line) + len(w.term))
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error { return w.bw.Flush() }

// Written returns the number of bytes accepted, terminators included.
func (w *Writer) Written() int64 { return w.written }
