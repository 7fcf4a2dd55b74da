// Package resource defines the capability contract a domain record type
// implements to participate in search. The query pipeline is written once
// and parameterized over any type satisfying it.
package resource

import "github.com/kailas-cloud/searchgate/internal/domain/schema"

// Record is the capability any searchable record implements.
type Record interface {
	// Schema declares the record's filterable fields and their kinds.
	Schema() schema.Schema

	// IndexName is the logical index the record lives in.
	IndexName() string

	// Fields serializes the record into the index's flat document form.
	Fields() map[string]string

	// FromHit reconstructs the record from a raw hit. It fails when
	// required fields are absent or malformed; the caller decides whether
	// that is a partial failure (drop the hit) or a systemic one.
	FromHit(fields map[string]string) error
}

// Ptr constrains a pointer-to-record type, letting generic services
// instantiate and decode records without reflection.
type Ptr[R any] interface {
	*R
	Record
}
