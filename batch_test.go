package filesort

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	sorterrors "github.com/bglogos/FileSort/errors"
)

func TestSortFiles(t *testing.T) {
	rng := newTestRNG(t)
	dir := t.TempDir()

	var inputs []string
	var wants []string
	for i := range 5 {
		lines := randomLines(rng, 400, 6, 4)
		inputs = append(inputs, writeInput(t, dir, fmt.Sprintf("part%d.txt", i), joinLines(lines, "\n")))
		wants = append(wants, joinLines(asciiOrder(lines), "\n"))
	}

	s := mustNew(t, WithThreshold(512), WithCodec(CodecLZ4))
	results, err := s.SortFiles(context.Background(), inputs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}
	for i, res := range results {
		if res.Input != inputs[i] || res.Output != SortedName(inputs[i]) {
			t.Errorf("result %d: %s -> %s", i, res.Input, res.Output)
		}
		if got := readFile(t, res.Output); got != wants[i] {
			t.Errorf("%s: output mismatch", res.Output)
		}
	}
	assertNoWorkspace(t, dir)
}

func TestSortFilesErrors(t *testing.T) {
	dir := t.TempDir()
	ok := writeInput(t, dir, "ok.txt", "b\na\n")
	s := mustNew(t)

	if _, err := s.SortFiles(context.Background(), []string{ok}, -1); !errors.Is(err, sorterrors.ErrInvalidJobs) {
		t.Errorf("jobs -1: got %v, want ErrInvalidJobs", err)
	}

	_, err := s.SortFiles(context.Background(), []string{ok, filepath.Join(dir, "missing.txt")}, 0)
	if !errors.Is(err, sorterrors.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	results, err := s.SortFiles(context.Background(), nil, 0)
	if err != nil || len(results) != 0 {
		t.Errorf("no inputs: got %v, %v", results, err)
	}
}
