// Package fs provides the filesystem abstraction the sorter runs on.
//
// The package defines two interfaces:
//
//   - [File]: an open file with read/write/sync capabilities
//   - [FileSystem]: open, stat, remove and directory operations
//
// # Implementations
//
//   - [LocalFS]: production implementation on top of the os package
//   - [FaultyFS]: test wrapper that injects I/O errors by file name pattern
//
// # Usage
//
// Production code uses fs.Default (which is [LocalFS]):
//
//	f, err := fs.Default.OpenFile(path, os.O_RDONLY, 0)
//
// Tests wrap it with [FaultyFS] to simulate failures of individual bucket files:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("range-", fs.Fault{FailWrite: true, AfterBytes: 64})
//	// hand ffs to filesort.WithFileSystem
//
// Operations take no context.Context: local file operations are not
// interruptible at the syscall level. Cancellation is checked by callers
// between lines.
package fs
