package filesort

import (
	"fmt"
	"math/bits"

	"github.com/zeebo/xxh3"

	"github.com/bglogos/FileSort/internal/fs"
)

// Digest is an order-independent summary of the lines of a file: two files
// hold the same multiset of lines exactly when their digests match, up to
// hash collisions. Terminators and a leading byte order mark are not part of a
// line.
type Digest struct {
	Lines uint64
	Sum   xxh3.Uint128 // sum of the xxh3-128 hash of every line, mod 2^128
}

func (d Digest) String() string {
	return fmt.Sprintf("%016x%016x/%d", d.Sum.Hi, d.Sum.Lo, d.Lines)
}

func (d *Digest) add(line string) {
	h := xxh3.HashString128(line)
	var carry uint64
	d.Sum.Lo, carry = bits.Add64(d.Sum.Lo, h.Lo, 0)
	d.Sum.Hi, _ = bits.Add64(d.Sum.Hi, h.Hi, carry)
	d.Lines++
}

// Fingerprint computes the Digest of the local file at path.
func Fingerprint(path string) (Digest, error) {
	return fingerprint(fs.Default, path)
}

// Fingerprint is like the package-level Fingerprint but reads through the
// Sorter's file system.
func (s *Sorter) Fingerprint(path string) (Digest, error) {
	return fingerprint(s.cfg.fsys, path)
}

func fingerprint(fsys fs.FileSystem, path string) (d Digest, err error) {
	lr, err := openLineFile(fsys, path, CodecNone)
	if err != nil {
		return d, err
	}
	defer lr.Close()
	for {
		line, ok, err := lr.next()
		if err != nil {
			return Digest{}, err
		}
		if !ok {
			return d, nil
		}
		d.add(line)
	}
}
