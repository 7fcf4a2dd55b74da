package schema

import "fmt"

// Kind classifies how a declared field participates in filtering.
type Kind int

// Field kinds.
const (
	// Keyword is an exact-match string field; repeated request values are
	// ORed within the field.
	Keyword Kind = iota
	// Text is a full-text field targeted by the reserved free-text query.
	Text
	// Bool is an exact-match boolean field.
	Bool
	// Date is a range-filterable timestamp field, indexed as epoch seconds.
	Date
	// Numeric is a range-filterable number field.
	Numeric
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Text:
		return "text"
	case Bool:
		return "bool"
	case Date:
		return "date"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Field declares one filterable request parameter and its target in the index.
type Field struct {
	// Name is the request parameter name.
	Name string
	Kind Kind
	// Indexed is the field name in the index. Defaults to Name.
	Indexed string
	// Exclude routes a Keyword field's terms into the must_not group,
	// i.e. matching documents are filtered out rather than in.
	Exclude bool
	// Unique marks the document identity field, used as the sort tiebreaker.
	Unique bool
}

// IndexedName returns the index-side field name.
func (f Field) IndexedName() string {
	if f.Indexed != "" {
		return f.Indexed
	}
	return f.Name
}

// Schema is the immutable set of field declarations a resource exposes.
// Declaration order is preserved and drives deterministic query building.
type Schema struct {
	fields []Field
	byName map[string]Field
}

// New validates and creates a Schema.
func New(fields ...Field) (Schema, error) {
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("field name is required")
		}
		if _, dup := byName[f.Name]; dup {
			return Schema{}, fmt.Errorf("duplicate field %q", f.Name)
		}
		if f.Exclude && f.Kind != Keyword {
			return Schema{}, fmt.Errorf("exclude field %q must be keyword, got %s", f.Name, f.Kind)
		}
		byName[f.Name] = f
	}
	return Schema{fields: fields, byName: byName}, nil
}

// MustNew calls New and panics on error. For static resource declarations.
func MustNew(fields ...Field) Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup resolves a request parameter name to its declaration.
func (s Schema) Lookup(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Fields returns the declarations in declaration order.
func (s Schema) Fields() []Field { return s.fields }

// FullText returns the indexed names of all Text fields, in declaration order.
func (s Schema) FullText() []string {
	var names []string
	for _, f := range s.fields {
		if f.Kind == Text {
			names = append(names, f.IndexedName())
		}
	}
	return names
}

// KindOfIndexed resolves an index attribute to the kind of its owning
// declaration, the field whose request name equals the attribute. Aliased
// declarations (Indexed set) reference an attribute they do not own, so an
// exclusion aimed at a numeric attribute can be detected and rendered with
// range syntax instead of tag syntax.
func (s Schema) KindOfIndexed(indexed string) (Kind, bool) {
	f, ok := s.byName[indexed]
	return f.Kind, ok
}

// Tiebreak returns the indexed name of the Unique field, or "" when none
// is declared.
func (s Schema) Tiebreak() string {
	for _, f := range s.fields {
		if f.Unique {
			return f.IndexedName()
		}
	}
	return ""
}
