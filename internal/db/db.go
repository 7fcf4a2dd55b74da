// Package db defines the narrow contract the gateway holds against the
// external search engine. The query pipeline depends on this package only,
// never on a concrete client.
package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain/query"
)

// Query is a built query description bound to a named index.
type Query struct {
	Index string
	Desc  query.Description
}

// Result is the engine's answer: raw hits plus the total match count.
type Result struct {
	Total   int
	Entries []Entry
}

// Entry is a single raw hit before deserialization.
type Entry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// Store is the engine contract consumed by the executor.
type Store interface {
	// Search executes a structured query against the named index.
	Search(ctx context.Context, q *Query) (*Result, error)

	// Del removes a document by key.
	Del(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}
