package lineio

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	sorterrors "github.com/bglogos/FileSort/errors"
)

// Codec selects how workspace bucket files are encoded on disk. Bucket sizes
// are always measured in decoded bytes, so the codec never changes how the
// input is partitioned.
type Codec uint8

const (
	// CodecNone stores buckets as plain text.
	CodecNone Codec = iota
	// CodecLZ4 stores buckets as LZ4 frames (fast, modest ratio).
	CodecLZ4
	// CodecZstd stores buckets as zstd frames (better ratio, more CPU).
	CodecZstd
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecLZ4:
		return "lz4"
	case CodecZstd:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// ParseCodec maps a configuration name to a Codec. The empty string is none.
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "plain":
		return CodecNone, nil
	case "lz4":
		return CodecLZ4, nil
	case "zstd", "zst":
		return CodecZstd, nil
	default:
		return CodecNone, fmt.Errorf("%w: %q", sorterrors.ErrUnknownCodec, name)
	}
}

// NewWriter wraps w with the codec's encoder. Closing the returned writer
// flushes the final frame but does not close w.
func (c Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CodecNone:
		return nopWriteCloser{w}, nil
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	case CodecZstd:
		// One sort is single threaded; keep the encoder synchronous.
		return zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.SpeedFastest),
			zstd.WithEncoderConcurrency(1))
	default:
		return nil, fmt.Errorf("%w: %s", sorterrors.ErrUnknownCodec, c)
	}
}

// NewReader wraps r with the codec's decoder. Closing the returned reader
// releases decoder state but does not close r.
func (c Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CodecNone:
		return io.NopCloser(r), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CodecZstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{dec}, nil
	default:
		return nil, fmt.Errorf("%w: %s", sorterrors.ErrUnknownCodec, c)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type zstdReadCloser struct{ dec *zstd.Decoder }

func (z zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z zstdReadCloser) Close() error {
	z.dec.Close()
	return nil
}
