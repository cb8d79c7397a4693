package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchItem is the result of one code in a batch lookup
type BatchItem struct {
	Code     string
	Result   LookupResult
	Duration time.Duration
}

// LookupBatch runs lookup for every code with at most limit in flight.
// Results keep the order of codes; a failed code never stops the others.
func LookupBatch(ctx context.Context, codes []string, limit int, lookup LookupFunc) []BatchItem {
	if limit < 1 {
		limit = 1
	}

	items := make([]BatchItem, len(codes))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, code := range codes {
		i, code := i, code
		g.Go(func() error {
			start := time.Now()
			result := lookup(ctx, code)
			items[i] = BatchItem{Code: code, Result: result, Duration: time.Since(start)}
			return nil
		})
	}

	_ = g.Wait()
	return items
}
