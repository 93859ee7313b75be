package filesort

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	sorterrors "github.com/bglogos/FileSort/errors"
)

// SortFiles sorts every input to SortedName(input), running up to jobs sorts
// at once; 0 means GOMAXPROCS. Each sort has its own workspace. The first
// failure cancels the sorts still running and is returned. Results are in
// input order.
func (s *Sorter) SortFiles(ctx context.Context, inputs []string, jobs int) ([]*Result, error) {
	if jobs < 0 {
		return nil, fmt.Errorf("%w: %d", sorterrors.ErrInvalidJobs, jobs)
	}
	if jobs == 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, input := range inputs {
		g.Go(func() error {
			res, err := s.Sort(ctx, input, SortedName(input))
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
