package filesort

import (
	"fmt"

	"github.com/google/btree"

	sorterrors "github.com/bglogos/FileSort/errors"
)

// btreeDegree is the fan-out of the ordered bucket maps.
const btreeDegree = 32

// bucketIndex holds every finalized bucket of one partitioning run in two maps
// ordered by Compare. Lookups are by Compare equality, so lines that differ
// only in case share an entry.
//
// Key lengths differ between the maps: a range key is exactly as long as the
// depth it was finalized at, a literal key is shorter than the depth it was
// captured at.
type bucketIndex struct {
	ranges   *btree.BTreeG[*bucket]
	literals *btree.BTreeG[*bucket]
	probe    bucket
}

func newBucketIndex() *bucketIndex {
	return &bucketIndex{
		ranges:   btree.NewG(btreeDegree, bucketLess),
		literals: btree.NewG(btreeDegree, bucketLess),
	}
}

// literal returns the literal bucket whose key equals line under Compare.
func (x *bucketIndex) literal(line string) (*bucket, bool) {
	x.probe.key = line
	b, ok := x.literals.Get(&x.probe)
	x.probe.key = ""
	return b, ok
}

func (x *bucketIndex) addLiteral(b *bucket) {
	x.literals.ReplaceOrInsert(b)
}

// finalizeRange records a sorted range bucket. Each trie position is finalized
// once, so a second bucket under an equal key means the partition is broken.
func (x *bucketIndex) finalizeRange(b *bucket) error {
	if old, found := x.ranges.Get(b); found {
		return fmt.Errorf("%w: key %q in %s and %s", sorterrors.ErrIndexCorrupted, b.key, old.path, b.path)
	}
	x.ranges.ReplaceOrInsert(b)
	return nil
}

// size is the decoded byte total of all indexed buckets.
func (x *bucketIndex) size() int64 {
	var n int64
	sum := func(b *bucket) bool {
		n += b.size
		return true
	}
	x.ranges.Ascend(sum)
	x.literals.Ascend(sum)
	return n
}

type mergeKind uint8

const (
	literalOnly mergeKind = iota + 1
	rangeOnly
	literalThenRange
)

func (k mergeKind) String() string {
	switch k {
	case literalOnly:
		return "literal"
	case rangeOnly:
		return "range"
	case literalThenRange:
		return "literal+range"
	default:
		return fmt.Sprintf("mergeKind(%d)", uint8(k))
	}
}

// mergeEntry is one step of the final concatenation.
type mergeEntry struct {
	kind    mergeKind
	literal *bucket
	rng     *bucket
}

func (e mergeEntry) key() string {
	if e.literal != nil {
		return e.literal.key
	}
	return e.rng.key
}

// buckets returns the entry's buckets in output order. A literal line sorts
// before every longer line sharing its characters, so literal content leads.
func (e mergeEntry) buckets() []*bucket {
	switch e.kind {
	case literalOnly:
		return []*bucket{e.literal}
	case rangeOnly:
		return []*bucket{e.rng}
	default:
		return []*bucket{e.literal, e.rng}
	}
}

// plan walks both maps in ascending key order and tags every step. A literal
// and a range whose keys are the same string are combined into one
// literalThenRange entry. Keys that are only equal under Compare stay separate,
// literal first.
func (x *bucketIndex) plan() []mergeEntry {
	lits := collect(x.literals)
	rngs := collect(x.ranges)

	plan := make([]mergeEntry, 0, len(lits)+len(rngs))
	i, j := 0, 0
	for i < len(lits) || j < len(rngs) {
		switch {
		case j == len(rngs):
			plan = append(plan, mergeEntry{kind: literalOnly, literal: lits[i]})
			i++
		case i == len(lits):
			plan = append(plan, mergeEntry{kind: rangeOnly, rng: rngs[j]})
			j++
		default:
			l, r := lits[i], rngs[j]
			c := Compare(l.key, r.key)
			switch {
			case c == 0 && l.key == r.key:
				plan = append(plan, mergeEntry{kind: literalThenRange, literal: l, rng: r})
				i++
				j++
			case c <= 0:
				plan = append(plan, mergeEntry{kind: literalOnly, literal: l})
				i++
			default:
				plan = append(plan, mergeEntry{kind: rangeOnly, rng: r})
				j++
			}
		}
	}
	return plan
}

func collect(t *btree.BTreeG[*bucket]) []*bucket {
	out := make([]*bucket, 0, t.Len())
	t.Ascend(func(b *bucket) bool {
		out = append(out, b)
		return true
	})
	return out
}
