package search

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/domain"
)

func newTestService(store *mockStore, strict bool) *Service[rec, *rec] {
	return New[rec](store, Config{
		KeyPrefix: "test:",
		Strict:    strict,
	}, zap.NewNop())
}

func entry(key, id, role string) db.Entry {
	return db.Entry{Key: key, Fields: map[string]string{"id": id, "role": role}}
}

func TestSearch_Envelope(t *testing.T) {
	store := &mockStore{
		searchFn: func(_ context.Context, _ *db.Query) (*db.Result, error) {
			return &db.Result{
				Total: 42,
				Entries: []db.Entry{
					entry("test:recs:1", "1", "DevOps"),
					entry("test:recs:2", "2", "Fullstack"),
				},
			}, nil
		},
	}
	svc := newTestService(store, false)

	res, err := svc.Search(context.Background(), url.Values{"limit": {"2"}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if res.Total != 42 {
		t.Errorf("total: got %d, want 42", res.Total)
	}
	if res.Limit != 2 {
		t.Errorf("limit: got %d, want 2", res.Limit)
	}
	if res.Offset != 0 {
		t.Errorf("offset: got %d, want 0", res.Offset)
	}
	if len(res.Results) != 2 {
		t.Fatalf("results: got %d, want 2", len(res.Results))
	}
	if res.Results[0].ID != 1 || res.Results[0].Role != "DevOps" {
		t.Errorf("first result: got %+v", res.Results[0])
	}
}

func TestSearch_IndexNameCarriesPrefix(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store, false)

	if _, err := svc.Search(context.Background(), url.Values{}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if store.lastQuery.Index != "test:recs:idx" {
		t.Errorf("index: got %q, want test:recs:idx", store.lastQuery.Index)
	}
}

func TestSearch_ValidationFailsBeforeEngine(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store, false)

	_, err := svc.Search(context.Background(), url.Values{"bogus": {"x"}})
	if !errors.Is(err, domain.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if store.lastQuery != nil {
		t.Error("engine must not be reached on validation failure")
	}
}

func TestSearch_DropsUndecodableHit(t *testing.T) {
	store := &mockStore{
		searchFn: func(_ context.Context, _ *db.Query) (*db.Result, error) {
			return &db.Result{
				Total: 2,
				Entries: []db.Entry{
					entry("test:recs:1", "1", "DevOps"),
					{Key: "test:recs:broken", Fields: map[string]string{"role": "no-id"}},
				},
			}, nil
		},
	}
	svc := newTestService(store, false)

	res, err := svc.Search(context.Background(), url.Values{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 1 {
		t.Fatalf("results: got %d, want 1", len(res.Results))
	}
	// Total still reflects the engine's count, not the decoded count.
	if res.Total != 2 {
		t.Errorf("total: got %d, want 2", res.Total)
	}
}

func TestSearch_StrictModeEscalates(t *testing.T) {
	store := &mockStore{
		searchFn: func(_ context.Context, _ *db.Query) (*db.Result, error) {
			return &db.Result{
				Total:   1,
				Entries: []db.Entry{{Key: "test:recs:broken", Fields: map[string]string{}}},
			}, nil
		},
	}
	svc := newTestService(store, true)

	_, err := svc.Search(context.Background(), url.Values{})
	if !errors.Is(err, domain.ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex, got %v", err)
	}
}

func TestSearch_EngineUnavailablePassesThrough(t *testing.T) {
	store := &mockStore{
		searchFn: func(_ context.Context, _ *db.Query) (*db.Result, error) {
			return nil, &db.Error{Op: db.OpSearch, Err: domain.ErrUnavailable}
		},
	}
	svc := newTestService(store, false)

	_, err := svc.Search(context.Background(), url.Values{})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestDelete_KeyComposition(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store, false)

	if err := svc.Delete(context.Background(), "17"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.lastDelKey != "test:recs:17" {
		t.Errorf("key: got %q, want test:recs:17", store.lastDelKey)
	}
}

func TestDelete_EmptyID(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store, false)

	err := svc.Delete(context.Background(), "")
	if !errors.Is(err, domain.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if store.lastDelKey != "" {
		t.Error("engine must not be reached for an empty id")
	}
}

func TestDelete_EngineError(t *testing.T) {
	store := &mockStore{
		delFn: func(_ context.Context, _ string) error {
			return &db.Error{Op: db.OpDel, Err: domain.ErrUnavailable}
		},
	}
	svc := newTestService(store, false)

	if err := svc.Delete(context.Background(), "17"); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestIndexName(t *testing.T) {
	svc := newTestService(&mockStore{}, false)
	if svc.IndexName() != "recs" {
		t.Errorf("IndexName: got %q, want recs", svc.IndexName())
	}
}
