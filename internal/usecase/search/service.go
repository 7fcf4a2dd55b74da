// Package search runs the request-to-result pipeline for one resource
// type: parse the raw filter map, build the query, execute it, and re-type
// the hits.
package search

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/domain/filter"
	"github.com/kailas-cloud/searchgate/internal/domain/query"
	"github.com/kailas-cloud/searchgate/internal/domain/schema"
	"github.com/kailas-cloud/searchgate/internal/resource"
)

// Config tunes one resource's pipeline.
type Config struct {
	// KeyPrefix namespaces all engine keys and index names.
	KeyPrefix string
	// Limits bounds the pagination window.
	Limits filter.Limits
	// Strict escalates a single undecodable hit to ErrCorruptIndex
	// instead of dropping it.
	Strict bool
}

// Service executes searches for one resource type R.
type Service[R any, PR resource.Ptr[R]] struct {
	store  Store
	cfg    Config
	schema schema.Schema
	index  string
	logger *zap.Logger
}

// New creates a search service for R. Schema and index name are read once
// from the type and shared read-only across requests.
func New[R any, PR resource.Ptr[R]](store Store, cfg Config, logger *zap.Logger) *Service[R, PR] {
	proto := PR(new(R))
	return &Service[R, PR]{
		store:  store,
		cfg:    cfg,
		schema: proto.Schema(),
		index:  proto.IndexName(),
		logger: logger,
	}
}

// IndexName returns the logical index this service searches.
func (s *Service[R, PR]) IndexName() string { return s.index }

// Search validates raw parameters, builds the query, executes it and maps
// hits back into typed records.
func (s *Service[R, PR]) Search(ctx context.Context, raw url.Values) (Result[R], error) {
	f, err := filter.Parse(raw, s.schema, s.cfg.Limits)
	if err != nil {
		return Result[R]{}, err
	}

	desc := query.Build(f, s.schema)

	res, err := s.store.Search(ctx, &db.Query{Index: s.ftIndex(), Desc: desc})
	if err != nil {
		return Result[R]{}, fmt.Errorf("search %s: %w", s.index, err)
	}

	out := Result[R]{
		Total:   res.Total,
		Offset:  f.Offset,
		Limit:   f.Limit,
		Results: make([]R, 0, len(res.Entries)),
	}

	for _, entry := range res.Entries {
		var rec R
		if err := PR(&rec).FromHit(entry.Fields); err != nil {
			if s.cfg.Strict {
				return Result[R]{}, fmt.Errorf("%w: %s: %w", domain.ErrCorruptIndex, entry.Key, err)
			}
			s.logger.Warn("dropping undecodable hit",
				zap.String("index", s.index),
				zap.String("key", entry.Key),
				zap.Error(err),
			)
			continue
		}
		out.Results = append(out.Results, rec)
	}

	return out, nil
}

// Delete removes a single document by id.
func (s *Service[R, PR]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.NewFieldError("id", domain.ErrTypeMismatch)
	}
	if err := s.store.Del(ctx, s.docKey(id)); err != nil {
		return fmt.Errorf("delete %s/%s: %w", s.index, id, err)
	}
	return nil
}

// ftIndex is the engine-side index name: <prefix><index>:idx.
func (s *Service[R, PR]) ftIndex() string {
	return fmt.Sprintf("%s%s:idx", s.cfg.KeyPrefix, s.index)
}

// docKey is the engine-side document key: <prefix><index>:<id>.
func (s *Service[R, PR]) docKey(id string) string {
	return fmt.Sprintf("%s%s:%s", s.cfg.KeyPrefix, s.index, id)
}
