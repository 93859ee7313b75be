//go:build linux

package filesort

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/bglogos/FileSort/internal/fs"
)

// reserveSpace allocates size bytes of disk blocks for f without changing its
// length, so a full disk fails before the merge starts writing.
func reserveSpace(f fs.File, size int64) error {
	osf, ok := f.(*os.File)
	if !ok || size <= 0 {
		return nil
	}
	return unix.Fallocate(int(osf.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, size)
}
