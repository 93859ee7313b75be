//go:build darwin

package filesort

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/bglogos/FileSort/internal/fs"
)

// reserveSpace allocates size bytes of disk blocks for f with F_PREALLOCATE.
// The file length is left alone.
func reserveSpace(f fs.File, size int64) error {
	osf, ok := f.(*os.File)
	if !ok || size <= 0 {
		return nil
	}
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Offset:  0,
		Length:  size,
	}
	return unix.FcntlFstore(osf.Fd(), unix.F_PREALLOCATE, &fst)
}
