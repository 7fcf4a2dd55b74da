package search

import (
	"context"

	"github.com/kailas-cloud/searchgate/internal/db"
)

// Store is the engine contract consumed by the search service (ISP).
type Store interface {
	Search(ctx context.Context, q *db.Query) (*db.Result, error)
	Del(ctx context.Context, key string) error
}

// Result is the response envelope: typed records plus the total match
// count and the applied page window. Owned by the caller, discarded at
// request completion.
type Result[R any] struct {
	Total   int `json:"total"`
	Offset  int `json:"offset"`
	Limit   int `json:"limit"`
	Results []R `json:"results"`
}
