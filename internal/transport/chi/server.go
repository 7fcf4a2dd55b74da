// Package chi exposes the gateway over HTTP: one search/delete route pair
// per resource, plus health and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/resource"
	healthuc "github.com/kailas-cloud/searchgate/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchgate/internal/usecase/search"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned to clients.
const (
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeUnavailable      = "engine_unavailable"
	codeCorruptIndex     = "corrupt_index"
	codeNotImplemented   = "not_implemented"
	codeInternal         = "internal_error"
)

// Routes builds the route group for one resource:
//
//	GET    /   search
//	POST   /   ingestion — out of scope, 501
//	DELETE /{id} remove one document
func Routes[R any, PR resource.Ptr[R]](svc *searchuc.Service[R, PR], logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		res, err := svc.Search(req.Context(), req.URL.Query())
		if err != nil {
			handleDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	r.Post("/", func(w http.ResponseWriter, _ *http.Request) {
		// Index population happens out of band; the route exists so the
		// write-method auth split is observable.
		writeError(w, http.StatusNotImplemented, codeNotImplemented, "indexing is not implemented")
	})

	r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
		if err := svc.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
			handleDomainError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// HealthHandler reports the aggregated component status.
func HealthHandler(svc *healthuc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := svc.Check(r.Context())
		status := http.StatusOK
		if report.Status != healthuc.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	}
}

// MetricsHandler serves the prometheus registry.
func MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	}
}

// handleDomainError maps error sentinels onto HTTP statuses. Validation
// errors name the offending field; engine faults never leak internals.
func handleDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrTypeMismatch),
		errors.Is(err, domain.ErrOutOfRange):
		writeError(w, http.StatusUnprocessableEntity, codeValidationFailed, validationMessage(err))

	case errors.Is(err, domain.ErrUnavailable):
		logger.Warn("engine unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "search engine unavailable")

	case errors.Is(err, domain.ErrBadQuery):
		// A rejected query is a builder defect, not a client problem.
		logger.Error("engine rejected query", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")

	case errors.Is(err, domain.ErrCorruptIndex):
		logger.Error("undecodable hit in strict mode", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeCorruptIndex, "index corruption detected")

	case errors.Is(err, domain.ErrNotImplemented):
		writeError(w, http.StatusNotImplemented, codeNotImplemented, "not implemented")

	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func validationMessage(err error) string {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return "invalid filter"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
