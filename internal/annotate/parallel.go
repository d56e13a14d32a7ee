package annotate

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/omicsdb/mzannotate/internal/hmdb"
)

// RunParallel partitions the catalog stream over the given number of worker
// goroutines, each applying the shared read-only strategy. Matches are merged
// into the emitter in arbitrary order; only the order of matches within one
// catalog record is preserved. The record count is returned.
func RunParallel(ctx context.Context, r *hmdb.Reader, s Strategy, workers int, em *Emitter) (int, error) {
	if workers <= 1 {
		return Run(r, s, em)
	}

	g, ctx := errgroup.WithContext(ctx)
	recs := make(chan hmdb.Record, workers)
	results := make(chan []Match, workers)

	// Collector runs outside the group: it must keep draining until every
	// worker is done, which is signalled by closing results after g.Wait.
	collectDone := make(chan struct{})
	go func() {
		defer close(collectDone)
		for ms := range results {
			em.Add(ms...)
		}
	}()

	var n int
	g.Go(func() error {
		defer close(recs)
		for {
			rec, err := r.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			n++
			select {
			case recs <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for rec := range recs {
				ms := s.Annotate(rec)
				if len(ms) == 0 {
					continue
				}
				select {
				case results <- ms:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	err := g.Wait()
	close(results)
	<-collectDone
	return n, err
}
