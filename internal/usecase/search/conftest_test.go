package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/domain/schema"
	"github.com/kailas-cloud/searchgate/internal/resource"
)

// --- Mock store ---

type mockStore struct {
	searchFn func(ctx context.Context, q *db.Query) (*db.Result, error)
	delFn    func(ctx context.Context, key string) error

	lastQuery  *db.Query
	lastDelKey string
}

func (m *mockStore) Search(ctx context.Context, q *db.Query) (*db.Result, error) {
	m.lastQuery = q
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.Result{}, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	m.lastDelKey = key
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

// --- Test resource ---

type rec struct {
	ID   int    `json:"id"`
	Role string `json:"role"`
}

var _ resource.Record = (*rec)(nil)

var recSchema = schema.MustNew(
	schema.Field{Name: "id", Kind: schema.Numeric, Unique: true},
	schema.Field{Name: "role", Kind: schema.Keyword},
)

func (*rec) Schema() schema.Schema { return recSchema }

func (*rec) IndexName() string { return "recs" }

func (r *rec) Fields() map[string]string {
	return map[string]string{
		"id":   strconv.Itoa(r.ID),
		"role": r.Role,
	}
}

func (r *rec) FromHit(fields map[string]string) error {
	raw, ok := fields["id"]
	if !ok {
		return fmt.Errorf("hit is missing id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("malformed id %q: %w", raw, err)
	}
	r.ID = id
	r.Role = fields["role"]
	return nil
}
