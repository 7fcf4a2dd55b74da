package chi

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/resource/talent"
	searchuc "github.com/kailas-cloud/searchgate/internal/usecase/search"
)

// --- Mocks ---

type mockStore struct {
	searchFn func(ctx context.Context, q *db.Query) (*db.Result, error)
	delFn    func(ctx context.Context, key string) error

	lastDelKey string
}

func (m *mockStore) Search(ctx context.Context, q *db.Query) (*db.Result, error) {
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

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// newTestRouter mounts a talent route group over the mock store.
func newTestRouter(store *mockStore) chi.Router {
	svc := searchuc.New[talent.Talent](store, searchuc.Config{KeyPrefix: "test:"}, zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/talents", Routes(svc, zap.NewNop()))
	return r
}

func doRequest(r chi.Router, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}
