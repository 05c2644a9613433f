package enrich

import (
	"context"
	"sync"

	"github.com/shpitdev/syllabus-catalog/internal/catalog"
)

// All fans out one enrichment unit per topic and reassembles results in
// input order.
//
// Fan-out is total: every topic gets its own goroutine immediately, since
// the only bounded resource (the video-lookup pool) is enforced inside the
// Enricher. Each unit writes into its own index of the pre-sized slice, so
// output order equals input order no matter how completion interleaves.
// Units are independent; a fully degraded unit never cancels its siblings.
func All(ctx context.Context, topics []string, e *Enricher) catalog.Collection {
	out := make(catalog.Collection, len(topics))

	var wg sync.WaitGroup
	for i, topic := range topics {
		wg.Add(1)
		go func(idx int, topic string) {
			defer wg.Done()
			out[idx] = e.Enrich(ctx, topic)
		}(i, topic)
	}
	wg.Wait()

	return out
}
