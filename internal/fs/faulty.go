package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is the error returned by injected faults when the rule does not
// carry its own.
var ErrInjected = errors.New("injected fault error")

// Fault defines the failure behaviour of files whose name matches a rule.
type Fault struct {
	FailOpen   bool
	FailRead   bool
	FailWrite  bool  // writes fail once AfterBytes have been written to the file
	AfterBytes int64 // only meaningful with FailWrite
	FailSync   bool
	FailClose  bool
	FailRemove bool // applies to Remove and RemoveAll
	Err        error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

type rule struct {
	pattern string
	fault   Fault
}

// FaultyFS is a FileSystem wrapper that can inject errors.
type FaultyFS struct {
	FS FileSystem

	mu          sync.Mutex
	rules       []rule // last matching rule wins
	written     int64
	globalLimit int64
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:          fs,
		globalLimit: -1,
	}
}

// AddRule adds a fault injection rule for file names containing pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{pattern: pattern, fault: fault})
}

// SetLimit fails every write once limit bytes were written across all files.
// A negative limit disables the budget.
func (f *FaultyFS) SetLimit(limit int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.globalLimit = limit
}

// Written returns the total bytes written through this file system.
func (f *FaultyFS) Written() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

func (f *FaultyFS) match(name string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var (
		fault Fault
		found bool
	)
	for _, r := range f.rules {
		if strings.Contains(name, r.pattern) {
			fault, found = r.fault, true
		}
	}
	return fault, found
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	fault, _ := f.match(name)
	if fault.FailOpen {
		return nil, &os.PathError{Op: "open", Path: name, Err: fault.err()}
	}
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, fault: fault}, nil
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) {
	return f.FS.Stat(name)
}

func (f *FaultyFS) Remove(name string) error {
	if fault, _ := f.match(name); fault.FailRemove {
		return &os.PathError{Op: "remove", Path: name, Err: fault.err()}
	}
	return f.FS.Remove(name)
}

func (f *FaultyFS) RemoveAll(path string) error {
	if fault, _ := f.match(path); fault.FailRemove {
		return &os.PathError{Op: "removeall", Path: path, Err: fault.err()}
	}
	return f.FS.RemoveAll(path)
}

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) MkdirTemp(dir, pattern string) (string, error) {
	if fault, ok := f.match(pattern); ok && fault.FailOpen {
		return "", &os.PathError{Op: "mkdirtemp", Path: dir, Err: fault.err()}
	}
	return f.FS.MkdirTemp(dir, pattern)
}

type faultyFile struct {
	File
	fs      *FaultyFS
	fault   Fault
	written int64
}

func (ff *faultyFile) Read(p []byte) (int, error) {
	if ff.fault.FailRead {
		return 0, ff.fault.err()
	}
	return ff.File.Read(p)
}

func (ff *faultyFile) Write(p []byte) (n int, err error) {
	// Per-file limit first, so a rejected write does not consume the global budget.
	if ff.fault.FailWrite && ff.written+int64(len(p)) > ff.fault.AfterBytes {
		return 0, ff.fault.err()
	}

	ff.fs.mu.Lock()
	globalExceeded := ff.fs.globalLimit >= 0 && ff.fs.written+int64(len(p)) > ff.fs.globalLimit
	if !globalExceeded {
		ff.fs.written += int64(len(p))
	}
	ff.fs.mu.Unlock()

	if globalExceeded {
		return 0, ErrInjected
	}

	n, err = ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailSync {
		return ff.fault.err()
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailClose {
		_ = ff.File.Close()
		return ff.fault.err()
	}
	return ff.File.Close()
}
