//go:build !linux

package filesort

import "github.com/bglogos/FileSort/internal/fs"

// adviseSequential is a no-op on non-Linux platforms.
func adviseSequential(fs.File) {}
