package filesort

import (
	"cmp"
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// randomLines returns n lines of up to maxLen letters drawn from the first
// alphabet letters in both cases. A small alphabet forces long shared
// prefixes. Roughly one line in fifty is empty.
func randomLines(rng *rand.Rand, n, maxLen, alphabet int) []string {
	lines := make([]string, n)
	var b strings.Builder
	for i := range lines {
		if rng.IntN(50) == 0 {
			continue
		}
		b.Reset()
		for range rng.IntN(maxLen) + 1 {
			c := rng.IntN(2 * alphabet)
			if c < alphabet {
				b.WriteByte(byte('a' + c))
			} else {
				b.WriteByte(byte('A' + c - alphabet))
			}
		}
		lines[i] = b.String()
	}
	return lines
}

// asciiOrder sorts ASCII lines the way Compare does, through an independent
// route: stable sort on the lower-cased bytes.
func asciiOrder(lines []string) []string {
	out := slices.Clone(lines)
	slices.SortStableFunc(out, func(a, b string) int {
		return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}

// joinLines terminates every line with term.
func joinLines(lines []string, term string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString(term)
	}
	return b.String()
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func mustNew(t *testing.T, opts ...Option) *Sorter {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// assertNoWorkspace fails if a scratch directory is left in dir.
func assertNoWorkspace(t *testing.T, dir string) {
	t.Helper()
	left, err := filepath.Glob(filepath.Join(dir, ".*.workspace-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(left) > 0 {
		t.Errorf("workspace not removed: %v", left)
	}
}
