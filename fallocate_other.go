//go:build !linux && !darwin

package filesort

import "github.com/bglogos/FileSort/internal/fs"

// reserveSpace is a no-op where no native preallocation exists.
func reserveSpace(fs.File, int64) error { return nil }
