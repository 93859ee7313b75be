// Package errors defines all exported error sentinels for the filesort library.
//
// This is the single source of truth for error values. The top-level filesort
// package, the internal storage packages and the command line tools import from
// here, so errors.Is checks work across package boundaries.
package errors

import "errors"

// Sort errors
var (
	// ErrNotFound is returned when the input path does not exist. The
	// underlying os error is wrapped as well, so errors.Is(err, fs.ErrNotExist)
	// also holds.
	ErrNotFound = errors.New("filesort: input file not found")

	// ErrIOFailure wraps every read, write, flush, delete or copy failure
	// reported by the storage layer. Any such failure aborts the whole sort.
	ErrIOFailure = errors.New("filesort: storage I/O failure")

	// ErrWorkspace is returned when the scratch directory for a sort cannot be
	// created.
	ErrWorkspace = errors.New("filesort: cannot create workspace")

	// ErrIndexCorrupted is returned when a range key would be finalized twice.
	// Trie positions are unique, so this indicates a partitioning bug.
	ErrIndexCorrupted = errors.New("filesort: range key finalized twice")
)

// Configuration errors
var (
	ErrInvalidThreshold = errors.New("filesort: threshold must be positive")
	ErrUnknownCodec     = errors.New("filesort: unknown workspace codec")
	ErrInvalidJobs      = errors.New("filesort: jobs must not be negative")
)
