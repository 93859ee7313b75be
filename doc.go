// Package filesort sorts text files of any size line by line, in
// case-insensitive character order, with bounded memory.
//
// Files smaller than a threshold T (100 MiB by default) are read, sorted and
// written in one pass. Larger files are sorted externally: lines are spread
// into workspace buckets keyed by their first characters, buckets larger than
// T are split again one character deeper, and every bucket that fits is sorted
// in memory. Concatenating the buckets in key order yields the sorted file.
//
// # Basic Usage
//
// Sorting a file:
//
//	s, err := filesort.New(filesort.WithThreshold(64 << 20))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := s.Sort(ctx, "data.txt", filesort.SortedName("data.txt"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d lines via %s path\n", res.Lines, res.Path)
//
// Checking the result:
//
//	if !filesort.IsSorted("data_sorted.txt") {
//	    log.Fatal("not sorted")
//	}
//	before, _ := filesort.Fingerprint("data.txt")
//	after, _ := filesort.Fingerprint("data_sorted.txt")
//	fmt.Println(before == after)
//
// # Ordering
//
// [Compare] folds each character to a single case and compares code points. A
// line sorts before every longer line it is a prefix of. Lines that compare
// equal keep their input order, so sorting a sorted file changes nothing.
//
// # Package Structure
//
//   - Public API: sorter.go (New, Sort, Result), batch.go (SortFiles),
//     validate.go (IsSorted), checksum.go (Fingerprint), name.go (SortedName)
//   - Configuration: sorter_options.go (Option, With* functions)
//   - Ordering: compare.go (Compare, prefix extraction)
//   - External sort: partition.go (work list), index.go (bucket index, merge
//     plan), merge.go, inmem.go, workspace.go, handles.go
//   - Storage: internal/fs (file system abstraction, fault injection),
//     internal/lineio (line reader and writer, bucket codecs)
//   - Platform: fadvise_*.go, fallocate_*.go (OS-specific hints)
package filesort
