package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bglogos/FileSort/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "error")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSortCmd_DefaultOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "data.txt", "banana\nApple\ncherry\napple\n")

	out, err := execute(t, "sort", "-f", in)
	require.NoError(t, err)
	assert.Contains(t, out, "data_sorted.txt")
	assert.Contains(t, out, "4 lines")

	got, err := os.ReadFile(filepath.Join(dir, "data_sorted.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Apple\napple\nbanana\ncherry\n", string(got))
}

func TestSortCmd_ExternalWithCodec(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	for _, w := range []string{"delta", "Alpha", "charlie", "bravo", "alpha", "echo", "Delta"} {
		for range 20 {
			b.WriteString(w + "\n")
		}
	}
	in := writeFile(t, dir, "words.txt", b.String())
	outPath := filepath.Join(dir, "out", "words.txt")

	out, err := execute(t, "sort", "-f", in, "-o", outPath, "--threshold", "100B", "--codec", "zstd")
	require.NoError(t, err)
	assert.Contains(t, out, "external")

	check, err := execute(t, "check", outPath)
	require.NoError(t, err)
	assert.Contains(t, check, "sorted")

	fp, err := execute(t, "fingerprint", in, outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(fp), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Fields(lines[0])[0], strings.Fields(lines[1])[0])
}

func TestSortCmd_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "z\ny\nx\n")
	b := writeFile(t, dir, "b.txt", "3\n1\n2\n")

	_, err := execute(t, "sort", "-f", a, "-f", b, "--jobs", "2")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "a_sorted.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x\ny\nz\n", string(got))
	got, err = os.ReadFile(filepath.Join(dir, "b_sorted.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", string(got))
}

func TestSortCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "b\na\n")

	_, err := execute(t, "sort", "-f", filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	_, err = execute(t, "sort", "-f", a, "-f", a, "-o", filepath.Join(dir, "x.txt"))
	assert.Error(t, err)

	_, err = execute(t, "sort", "-f", a, "--codec", "gzip")
	assert.Error(t, err)

	_, err = execute(t, "sort")
	assert.Error(t, err, "--file is required")
}

func TestCheckCmd_Unsorted(t *testing.T) {
	dir := t.TempDir()
	sorted := writeFile(t, dir, "s.txt", "a\nB\nc\n")
	unsorted := writeFile(t, dir, "u.txt", "b\na\n")

	out, err := execute(t, "check", sorted, unsorted)
	require.Error(t, err)
	assert.Contains(t, out, "s.txt: sorted")
	assert.Contains(t, out, "u.txt: not sorted")
}

func TestConfigShow(t *testing.T) {
	t.Setenv(config.EnvCodec, "lz4")
	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "codec: lz4")
	assert.Contains(t, out, "threshold: 100MiB")
}
