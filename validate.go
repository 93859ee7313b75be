package filesort

import (
	"github.com/bglogos/FileSort/internal/fs"
)

// IsSorted reports whether the lines of the local file at path are in
// ascending Compare order. A leading byte order mark is ignored. Empty lines
// never fail the check but reset the line they are compared against. Missing
// or unreadable files report false.
func IsSorted(path string) bool {
	return isSorted(fs.Default, path)
}

// IsSorted is like the package-level IsSorted but reads through the Sorter's
// file system.
func (s *Sorter) IsSorted(path string) bool {
	return isSorted(s.cfg.fsys, path)
}

func isSorted(fsys fs.FileSystem, path string) bool {
	lr, err := openLineFile(fsys, path, CodecNone)
	if err != nil {
		return false
	}
	defer lr.Close()

	previous := ""
	for {
		line, ok, err := lr.next()
		if err != nil {
			return false
		}
		if !ok {
			return true
		}
		if line != "" && Compare(previous, line) > 0 {
			return false
		}
		previous = line
	}
}
