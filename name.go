package filesort

import "path/filepath"

// SortedSuffix is appended to the base name of a sorted file.
const SortedSuffix = "sorted"

// SortedName returns the default output name for input: the suffix is joined
// to the base name with an underscore, before the extension.
//
//	SortedName("dir/data.txt") == "dir/data_sorted.txt"
func SortedName(input string) string {
	dir, base := filepath.Split(input)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	if stem == "" {
		// Dot files such as ".profile" have no extension to preserve.
		stem, ext = base, ""
	}
	return dir + stem + "_" + SortedSuffix + ext
}
