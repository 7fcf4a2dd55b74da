// Package query translates a validated Filter into an engine-neutral query
// description. Build is pure: no I/O, identical inputs yield identical output.
package query

import (
	"strconv"
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain/filter"
	"github.com/kailas-cloud/searchgate/internal/domain/schema"
)

// Bounds is a numeric window with open ends represented as nil.
// Date bounds are carried as epoch seconds.
type Bounds struct {
	From  *float64
	Until *float64
}

// Match is a relevance-scored full-text condition across several fields.
type Match struct {
	Fields []string
	Text   string
}

// Clause is one atomic condition. Exactly one of the value members is set.
type Clause struct {
	field string

	terms []string
	term  string
	isSet bool // distinguishes an exact term from the zero Clause
	rng   *Bounds
	match *Match
}

// NewTerms creates an exact-match clause over one-or-many values
// (OR semantics within the field).
func NewTerms(field string, values []string) Clause {
	return Clause{field: field, terms: values}
}

// NewTerm creates a single exact-match clause.
func NewTerm(field, value string) Clause {
	return Clause{field: field, term: value, isSet: true}
}

// NewRange creates a range clause; a nil bound is open-ended.
func NewRange(field string, from, until *float64) Clause {
	return Clause{field: field, rng: &Bounds{From: from, Until: until}}
}

// NewMatch creates a full-text clause across the given index fields.
func NewMatch(fields []string, text string) Clause {
	return Clause{match: &Match{Fields: fields, Text: text}}
}

// Field returns the target index field ("" for full-text clauses).
func (c Clause) Field() string { return c.field }

// Terms returns the exact-match values of a terms clause.
func (c Clause) Terms() []string { return c.terms }

// Term returns the value of a single exact-match clause.
func (c Clause) Term() (string, bool) { return c.term, c.isSet }

// Range returns the bounds of a range clause, or nil.
func (c Clause) Range() *Bounds { return c.rng }

// Match returns the full-text condition, or nil.
func (c Clause) Match() *Match { return c.match }

// SortKey is one sort criterion.
type SortKey struct {
	Field string
	Desc  bool
}

// Description is the composed query consumed once by the executor.
// It is constructed per request and never mutated afterwards.
type Description struct {
	Must    []Clause
	Should  []Clause
	Filter  []Clause
	MustNot []Clause

	// Sort lists criteria in priority order; empty means relevance score
	// descending. The trailing key is a stable tiebreaker so identical
	// queries paginate consistently.
	Sort []SortKey

	From int
	Size int
}

// Build composes the query for a filter against its schema. Schema
// declaration order drives clause order, keeping the output deterministic.
func Build(f filter.Filter, s schema.Schema) Description {
	d := Description{From: f.Offset, Size: f.Limit}

	if f.Query != "" {
		if fields := s.FullText(); len(fields) > 0 {
			d.Must = append(d.Must, NewMatch(fields, f.Query))
		}
	}

	for _, fld := range s.Fields() {
		name := fld.IndexedName()

		switch fld.Kind {
		case schema.Keyword:
			values, ok := f.Terms[fld.Name]
			if !ok || len(values) == 0 {
				continue
			}
			if fld.Exclude {
				d.MustNot = append(d.MustNot, excludeClauses(name, values, s)...)
			} else {
				d.Filter = append(d.Filter, NewTerms(name, values))
			}

		case schema.Bool:
			v, ok := f.Bools[fld.Name]
			if !ok {
				continue
			}
			term := "false"
			if v {
				term = "true"
			}
			d.Filter = append(d.Filter, NewTerm(name, term))

		case schema.Date:
			r, ok := f.Dates[fld.Name]
			if !ok {
				continue
			}
			d.Filter = append(d.Filter, NewRange(name, epoch(r.From), epoch(r.Until)))

		case schema.Numeric:
			r, ok := f.Numerics[fld.Name]
			if !ok {
				continue
			}
			d.Filter = append(d.Filter, NewRange(name, r.From, r.Until))

		case schema.Text:
			// covered by the free-text match above
		}
	}

	if f.OrderBy != "" {
		fld, ok := s.Lookup(f.OrderBy)
		if ok {
			desc := f.Order == filter.Desc
			d.Sort = append(d.Sort, SortKey{Field: fld.IndexedName(), Desc: desc})
			if tb := s.Tiebreak(); tb != "" && tb != fld.IndexedName() {
				d.Sort = append(d.Sort, SortKey{Field: tb, Desc: desc})
			}
		}
	}

	return d
}

// excludeClauses renders an exclusion list against its target attribute.
// A numeric attribute accepts only range syntax, so each excluded value
// becomes its own degenerate range; the filter layer guarantees the values
// parse. Every other target stays a single terms clause.
func excludeClauses(name string, values []string, s schema.Schema) []Clause {
	if kind, ok := s.KindOfIndexed(name); !ok || kind != schema.Numeric {
		return []Clause{NewTerms(name, values)}
	}

	clauses := make([]Clause, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		clauses = append(clauses, NewRange(name, &n, &n))
	}
	return clauses
}

// IsEmpty reports whether no clause constrains the query.
func (d Description) IsEmpty() bool {
	return len(d.Must) == 0 && len(d.Should) == 0 &&
		len(d.Filter) == 0 && len(d.MustNot) == 0
}

func epoch(t *time.Time) *float64 {
	if t == nil {
		return nil
	}
	v := float64(t.Unix())
	return &v
}
