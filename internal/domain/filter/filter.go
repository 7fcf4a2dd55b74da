// Package filter turns raw HTTP parameters into a typed, schema-validated
// set of search constraints.
package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/domain/schema"
)

// Reserved parameter names consumed by the gateway itself.
const (
	ParamQuery   = "query"
	ParamOffset  = "offset"
	ParamLimit   = "limit"
	ParamOrderBy = "order_by"
	ParamOrder   = "order"
)

// Range parameter suffixes for date and numeric fields.
const (
	SuffixFrom  = "_from"
	SuffixUntil = "_until"
)

// Order is the requested sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// DateRange is a half-open or closed timestamp window. A nil bound is open.
type DateRange struct {
	From  *time.Time
	Until *time.Time
}

// NumericRange is a half-open or closed numeric window. A nil bound is open.
type NumericRange struct {
	From  *float64
	Until *float64
}

// Limits bounds the pagination window.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits matches the reference deployment.
var DefaultLimits = Limits{DefaultPageSize: 10, MaxPageSize: 100}

// Filter is one request's validated search constraints.
type Filter struct {
	Terms    map[string][]string
	Bools    map[string]bool
	Dates    map[string]DateRange
	Numerics map[string]NumericRange

	// Query is the free-text query targeting every Text field of the schema.
	Query string

	Offset  int
	Limit   int
	OrderBy string // schema field name; "" sorts by relevance
	Order   Order
}

// Parse validates raw parameters against the schema and coerces them into a
// Filter. Every non-reserved key must resolve to exactly one declared field;
// anything else fails with a FieldError naming the offender.
func Parse(raw url.Values, s schema.Schema, lim Limits) (Filter, error) {
	if lim.DefaultPageSize <= 0 {
		lim.DefaultPageSize = DefaultLimits.DefaultPageSize
	}
	if lim.MaxPageSize <= 0 {
		lim.MaxPageSize = DefaultLimits.MaxPageSize
	}

	f := Filter{
		Terms:    make(map[string][]string),
		Bools:    make(map[string]bool),
		Dates:    make(map[string]DateRange),
		Numerics: make(map[string]NumericRange),
		Limit:    lim.DefaultPageSize,
		Order:    Desc,
	}

	seen := make(map[string]struct{}, len(raw))
	for rawKey, values := range raw {
		key := strings.TrimSuffix(rawKey, "[]")
		if len(values) == 0 {
			continue
		}

		// Both spellings ("k" and "k[]") land on the same key. Keyword
		// lists merge; anywhere else the collision is rejected so the
		// outcome never depends on map iteration order.
		if _, dup := seen[key]; dup {
			if fld, ok := s.Lookup(key); !ok || fld.Kind != schema.Keyword {
				return Filter{}, domain.NewFieldError(key, domain.ErrTypeMismatch)
			}
		}
		seen[key] = struct{}{}

		if isReserved(key) {
			if err := f.setReserved(key, values, s, lim); err != nil {
				return Filter{}, err
			}
			continue
		}

		if fld, ok := s.Lookup(key); ok {
			if err := f.setField(fld, values, s); err != nil {
				return Filter{}, err
			}
			continue
		}

		if base, bound, ok := splitRangeKey(key); ok {
			if fld, found := s.Lookup(base); found {
				if err := f.setRangeBound(fld, bound, values); err != nil {
					return Filter{}, err
				}
				continue
			}
		}

		return Filter{}, domain.NewFieldError(key, domain.ErrUnknownField)
	}

	if err := f.checkRanges(); err != nil {
		return Filter{}, err
	}

	return f, nil
}

func isReserved(key string) bool {
	switch key {
	case ParamQuery, ParamOffset, ParamLimit, ParamOrderBy, ParamOrder:
		return true
	}
	return false
}

// splitRangeKey splits "batch_starts_at_from" into ("batch_starts_at", SuffixFrom).
func splitRangeKey(key string) (base, bound string, ok bool) {
	if strings.HasSuffix(key, SuffixFrom) {
		return strings.TrimSuffix(key, SuffixFrom), SuffixFrom, true
	}
	if strings.HasSuffix(key, SuffixUntil) {
		return strings.TrimSuffix(key, SuffixUntil), SuffixUntil, true
	}
	return "", "", false
}

func (f *Filter) setReserved(key string, values []string, s schema.Schema, lim Limits) error {
	if len(values) > 1 {
		return domain.NewFieldError(key, domain.ErrTypeMismatch)
	}
	value := values[0]

	switch key {
	case ParamQuery:
		f.Query = strings.TrimSpace(value)

	case ParamOffset:
		n, err := strconv.Atoi(value)
		if err != nil {
			return domain.NewFieldError(key, domain.ErrTypeMismatch)
		}
		// Negative offsets are normalized, not rejected.
		f.Offset = max(n, 0)

	case ParamLimit:
		n, err := strconv.Atoi(value)
		if err != nil {
			return domain.NewFieldError(key, domain.ErrTypeMismatch)
		}
		// Zero and negative fall back to the default; the maximum bounds cost.
		switch {
		case n <= 0:
			f.Limit = lim.DefaultPageSize
		case n > lim.MaxPageSize:
			f.Limit = lim.MaxPageSize
		default:
			f.Limit = n
		}

	case ParamOrderBy:
		fld, ok := s.Lookup(value)
		if !ok {
			return domain.NewFieldError(key, domain.ErrUnknownField)
		}
		if fld.Kind == schema.Text {
			// Full-text fields rank by score, they do not sort.
			return domain.NewFieldError(key, domain.ErrTypeMismatch)
		}
		f.OrderBy = value

	case ParamOrder:
		switch strings.ToLower(value) {
		case string(Asc):
			f.Order = Asc
		case string(Desc):
			f.Order = Desc
		default:
			return domain.NewFieldError(key, domain.ErrTypeMismatch)
		}
	}

	return nil
}

func (f *Filter) setField(fld schema.Field, values []string, s schema.Schema) error {
	switch fld.Kind {
	case schema.Keyword:
		// An exclusion aimed at a numeric index attribute is compiled into
		// negated ranges downstream; its values must be numbers.
		if fld.Exclude {
			if kind, ok := s.KindOfIndexed(fld.IndexedName()); ok && kind == schema.Numeric {
				for _, v := range values {
					if _, err := strconv.ParseFloat(v, 64); err != nil {
						return domain.NewFieldError(fld.Name, domain.ErrTypeMismatch)
					}
				}
			}
		}
		f.Terms[fld.Name] = dedup(append(f.Terms[fld.Name], values...))

	case schema.Bool:
		if len(values) > 1 {
			return domain.NewFieldError(fld.Name, domain.ErrTypeMismatch)
		}
		switch strings.ToLower(values[0]) {
		case "true":
			f.Bools[fld.Name] = true
		case "false":
			f.Bools[fld.Name] = false
		default:
			return domain.NewFieldError(fld.Name, domain.ErrTypeMismatch)
		}

	case schema.Numeric:
		// A bare value on a numeric field is an exact match: a degenerate
		// range with both bounds equal.
		if len(values) > 1 {
			return domain.NewFieldError(fld.Name, domain.ErrTypeMismatch)
		}
		n, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			return domain.NewFieldError(fld.Name, domain.ErrTypeMismatch)
		}
		f.Numerics[fld.Name] = NumericRange{From: &n, Until: &n}

	case schema.Date:
		// Dates filter only through _from/_until bounds.
		return domain.NewFieldError(fld.Name, domain.ErrTypeMismatch)

	case schema.Text:
		// Full-text fields are only reachable through the reserved query
		// parameter; a direct value must never silently become free text.
		return domain.NewFieldError(fld.Name, domain.ErrTypeMismatch)
	}

	return nil
}

func (f *Filter) setRangeBound(fld schema.Field, bound string, values []string) error {
	if len(values) > 1 {
		return domain.NewFieldError(fld.Name+bound, domain.ErrTypeMismatch)
	}
	value := values[0]

	switch fld.Kind {
	case schema.Date:
		t, err := parseTimestamp(value)
		if err != nil {
			return domain.NewFieldError(fld.Name+bound, domain.ErrTypeMismatch)
		}
		r := f.Dates[fld.Name]
		if bound == SuffixFrom {
			r.From = &t
		} else {
			r.Until = &t
		}
		f.Dates[fld.Name] = r

	case schema.Numeric:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return domain.NewFieldError(fld.Name+bound, domain.ErrTypeMismatch)
		}
		r := f.Numerics[fld.Name]
		if bound == SuffixFrom {
			r.From = &n
		} else {
			r.Until = &n
		}
		f.Numerics[fld.Name] = r

	default:
		return domain.NewFieldError(fld.Name+bound, domain.ErrTypeMismatch)
	}

	return nil
}

// checkRanges rejects windows whose lower bound exceeds the upper bound.
func (f *Filter) checkRanges() error {
	for name, r := range f.Dates {
		if r.From != nil && r.Until != nil && r.From.After(*r.Until) {
			return domain.NewFieldError(name, domain.ErrOutOfRange)
		}
	}
	for name, r := range f.Numerics {
		if r.From != nil && r.Until != nil && *r.From > *r.Until {
			return domain.NewFieldError(name, domain.ErrOutOfRange)
		}
	}
	return nil
}

// parseTimestamp accepts ISO-8601 timestamps, with or without a time part.
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// dedup removes duplicates and sorts; within a field, value order is
// irrelevant (OR semantics) and sorting keeps downstream queries stable.
func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
