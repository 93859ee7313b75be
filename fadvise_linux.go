//go:build linux

package filesort

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/bglogos/FileSort/internal/fs"
)

// adviseSequential hints to the kernel that f will be read front to back.
// Best-effort: files that are not local and errors are ignored.
func adviseSequential(f fs.File) {
	if osf, ok := f.(*os.File); ok {
		_ = unix.Fadvise(int(osf.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
	}
}
