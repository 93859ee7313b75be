package filesort

import (
	"path/filepath"
	"testing"
)

func TestSortedName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"data.txt", "data_sorted.txt"},
		{filepath.Join("dir", "data.txt"), filepath.Join("dir", "data_sorted.txt")},
		{"archive.tar.gz", "archive.tar_sorted.gz"},
		{"README", "README_sorted"},
		{".profile", ".profile_sorted"},
		{filepath.Join("a.b", "c"), filepath.Join("a.b", "c_sorted")},
	}
	for _, tc := range tests {
		if got := SortedName(tc.in); got != tc.want {
			t.Errorf("SortedName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
