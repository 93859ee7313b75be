package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := Create(lfs, fpath)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	assert.Equal(t, fpath, f.Name())
	assert.NoError(t, f.Close())

	a, err := Append(lfs, fpath)
	require.NoError(t, err)
	_, err = a.Write([]byte(" world"))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	r, err := Open(lfs, fpath)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "hello world", string(data))

	ws, err := lfs.MkdirTemp(dir, ".ws-*")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(ws), ".ws-"))

	assert.NoError(t, lfs.Remove(fpath))
	_, err = lfs.Stat(fpath)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, lfs.RemoveAll(dir))
	_, err = lfs.Stat(ws)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_GlobalLimit(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.SetLimit(5)

	f, err := Create(ffs, filepath.Join(tmp, "faulty.txt"))
	require.NoError(t, err)

	n, err := f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 0, n)

	assert.Equal(t, int64(5), ffs.Written())
	assert.NoError(t, f.Close())
}

func TestFaultyFS_Rules(t *testing.T) {
	tmp := t.TempDir()
	boom := errors.New("boom")
	ffs := NewFaultyFS(nil)
	ffs.AddRule("range-", Fault{FailWrite: true, AfterBytes: 3, Err: boom})
	ffs.AddRule("literal-", Fault{FailOpen: true})
	ffs.AddRule("sync", Fault{FailSync: true})
	ffs.AddRule("close", Fault{FailClose: true})
	ffs.AddRule("read", Fault{FailRead: true})

	f, err := Create(ffs, filepath.Join(tmp, "range-000001.part"))
	require.NoError(t, err)
	_, err = f.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = f.Write([]byte("d"))
	assert.ErrorIs(t, err, boom)
	require.NoError(t, f.Close())

	_, err = Create(ffs, filepath.Join(tmp, "literal-000001.part"))
	assert.ErrorIs(t, err, ErrInjected)

	s, err := Create(ffs, filepath.Join(tmp, "sync.txt"))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Sync(), ErrInjected)
	require.NoError(t, s.Close())

	c, err := Create(ffs, filepath.Join(tmp, "close.txt"))
	require.NoError(t, err)
	assert.ErrorIs(t, c.Close(), ErrInjected)

	rp := filepath.Join(tmp, "read.txt")
	require.NoError(t, os.WriteFile(rp, []byte("x"), 0o644))
	r, err := Open(ffs, rp)
	require.NoError(t, err)
	_, err = io.ReadAll(r)
	assert.ErrorIs(t, err, ErrInjected)
	require.NoError(t, r.Close())
}

func TestFaultyFS_LastRuleWins(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule(".part", Fault{FailOpen: true})
	ffs.AddRule("range-", Fault{})

	f, err := Create(ffs, filepath.Join(tmp, "range-000001.part"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Create(ffs, filepath.Join(tmp, "literal-000001.part"))
	assert.Error(t, err)
}

func TestFaultyFS_Remove(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("keep", Fault{FailRemove: true})

	dir := filepath.Join(tmp, "keep")
	require.NoError(t, ffs.MkdirAll(dir, 0o755))
	assert.ErrorIs(t, ffs.RemoveAll(dir), ErrInjected)
	_, err := ffs.Stat(dir)
	assert.NoError(t, err)

	other := filepath.Join(tmp, "other.txt")
	require.NoError(t, os.WriteFile(other, nil, 0o644))
	assert.NoError(t, ffs.Remove(other))
}
