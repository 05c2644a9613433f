package videos

import (
	"context"
)

// ViewsUnavailable is recorded when the source omits a view count.
const ViewsUnavailable = "N/A"

// Record is one instructional video result. Immutable once constructed.
type Record struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Views    string `json:"views"`
}

// Searcher looks up instructional videos for a query, returning at most
// maxResults records in source order.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Record, error)
}
