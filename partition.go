package filesort

import (
	"context"
	"errors"

	"github.com/google/btree"
	"go.uber.org/zap"
)

// contextCheckInterval is how often, in lines, partitioning checks for
// cancellation.
const contextCheckInterval = 10000

// workItem is one pending partitioning step. A nil src is the input file.
type workItem struct {
	src   *bucket
	depth int
}

// partition splits the input into finalized buckets. Oversized buckets go on
// a LIFO work list one level deeper; every step consumes its source, and a
// workspace source is deleted once its lines have been redistributed.
func (r *sortRun) partition(ctx context.Context) error {
	stack := []workItem{{depth: 1}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := r.split(ctx, item)
		if err != nil {
			return err
		}
		if item.src != nil {
			if err := r.ws.discard(item.src); err != nil {
				return err
			}
		}
		stack = append(stack, children...)
	}
	return nil
}

// split routes every line of item's source by its first item.depth
// characters. Lines shorter than that land in the shared literal index; the
// rest land in range buckets local to this step. Afterwards each local bucket
// is either returned for another split or sorted and finalized.
func (r *sortRun) split(ctx context.Context, item workItem) (children []workItem, err error) {
	depth := item.depth
	if depth > r.res.MaxDepth {
		r.res.MaxDepth = depth
	}

	src, open := r.input, openLineFile
	codec := CodecNone
	if item.src != nil {
		src, codec, open = item.src.path, r.ws.codec, openBucketFile
		r.log.Debug("bucket split",
			zap.String("key", item.src.key),
			zap.Int("depth", depth),
			zap.Int64("size", item.src.size),
			zap.Int64("lines", item.src.lines))
	}
	lr, err := open(r.fsys, src, codec)
	if err != nil {
		return nil, err
	}

	local := btree.NewG(btreeDegree, bucketLess)
	var written []*bucket
	release := func() error {
		errs := []error{lr.Close()}
		for _, b := range written {
			errs = append(errs, r.ws.closeBucket(b))
		}
		written = nil
		return errors.Join(errs...)
	}

	for n := 1; ; n++ {
		if n%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Join(err, release())
			}
			r.log.Debug("partition progress",
				zap.String("source", src),
				zap.Int("depth", depth),
				zap.Int("lines", n),
				zap.Int64("bytes", lr.BytesRead()))
		}
		line, ok, err := lr.next()
		if err != nil {
			return nil, errors.Join(err, release())
		}
		if !ok {
			break
		}

		b := r.route(local, line, depth)
		opened, err := r.ws.writeLine(b, line)
		if opened {
			written = append(written, b)
		}
		if err != nil {
			return nil, errors.Join(err, release())
		}
	}
	consumed := lr.BytesRead()
	if err := release(); err != nil {
		return nil, err
	}
	r.log.Debug("source consumed",
		zap.String("source", src),
		zap.Int("depth", depth),
		zap.Int64("bytes", consumed),
		zap.Int("buckets", local.Len()))

	local.Ascend(func(b *bucket) bool {
		if b.size > r.cfg.threshold {
			r.res.Splits++
			children = append(children, workItem{src: b, depth: depth + 1})
			return true
		}
		if err = r.sortBucket(b); err != nil {
			return false
		}
		if err = r.index.finalizeRange(b); err != nil {
			return false
		}
		r.res.RangeBuckets++
		return true
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

// route returns the bucket line belongs to at depth, creating it on first use.
func (r *sortRun) route(local *btree.BTreeG[*bucket], line string, depth int) *bucket {
	prefix, ok := cutPrefix(line, depth)
	if !ok {
		if b, found := r.index.literal(line); found {
			return b
		}
		b := r.ws.newBucket(literalBucket, line, depth)
		r.index.addLiteral(b)
		r.res.LiteralBuckets++
		return b
	}

	r.probe.key = prefix
	b, found := local.Get(&r.probe)
	r.probe.key = ""
	if found {
		return b
	}
	b = r.ws.newBucket(rangeBucket, prefix, depth)
	local.ReplaceOrInsert(b)
	return b
}
