package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/domain/query"
)

// Search executes a built query description via FT.SEARCH.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.Result, error) {
	if q.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}

	args := []string{q.Index, buildQuery(q.Desc)}

	// The engine supports a single SORTBY; the description's trailing
	// tiebreak key is satisfied by the engine's stable document-key order.
	sorted := len(q.Desc.Sort) > 0
	if sorted {
		primary := q.Desc.Sort[0]
		dir := "ASC"
		if primary.Desc {
			dir = "DESC"
		}
		args = append(args, "SORTBY", primary.Field, dir)
	} else {
		args = append(args, "WITHSCORES")
	}

	args = append(args,
		"LIMIT", strconv.Itoa(q.Desc.From), strconv.Itoa(q.Desc.Size),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: classify(err)}
	}

	if sorted {
		return parseSortedResult(raw)
	}
	return parseScoredResult(raw)
}

// --- Result parsing ---

func parseSortedResult(raw []rueidis.RedisMessage) (*db.Result, error) {
	if len(raw) == 0 {
		return &db.Result{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.Result{Total: 0}, nil
	}

	entries := make([]db.Entry, 0, len(raw)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.Entry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.Result{Total: int(total), Entries: entries}, nil
}

func parseScoredResult(raw []rueidis.RedisMessage) (*db.Result, error) {
	if len(raw) == 0 {
		return &db.Result{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.Result{Total: 0}, nil
	}

	entries := make([]db.Entry, 0, len(raw)/3)
	// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.Entry{
			Key:    key,
			Score:  score,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.Result{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query serialization ---

// buildQuery translates a query.Description into an FT.SEARCH query string.
// Clauses joined by spaces are ANDed; the should group ORs its members.
func buildQuery(d query.Description) string {
	if d.IsEmpty() {
		return "*"
	}

	var parts []string

	for _, c := range d.Must {
		parts = append(parts, buildClause(c))
	}
	for _, c := range d.Filter {
		parts = append(parts, buildClause(c))
	}
	if group := buildShouldGroup(d.Should); group != "" {
		parts = append(parts, group)
	}
	for _, c := range d.MustNot {
		parts = append(parts, "-"+buildClause(c))
	}

	return strings.Join(parts, " ")
}

func buildClause(c query.Clause) string {
	if m := c.Match(); m != nil {
		return buildMatch(m)
	}
	if values := c.Terms(); len(values) > 0 {
		return buildTagFilter(c.Field(), values)
	}
	if v, ok := c.Term(); ok {
		return buildTagFilter(c.Field(), []string{v})
	}
	if r := c.Range(); r != nil {
		return buildRangeFilter(c.Field(), r)
	}
	return ""
}

func buildShouldGroup(clauses []query.Clause) string {
	if len(clauses) == 0 {
		return ""
	}
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		parts = append(parts, buildClause(c))
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// buildMatch renders a relevance-scored multi-field text condition.
func buildMatch(m *query.Match) string {
	return fmt.Sprintf("@%s:(%s)", strings.Join(m.Fields, "|"), escapeQuery(m.Text))
}

// buildTagFilter renders a TAG condition; listed values are ORed.
func buildTagFilter(field string, values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, "|"))
}

// buildRangeFilter renders a NUMERIC condition with inclusive bounds;
// an absent bound is open-ended.
func buildRangeFilter(field string, r *query.Bounds) string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.From != nil {
		minBound = formatBound(*r.From)
	}
	if r.Until != nil {
		maxBound = formatBound(*r.Until)
	}

	return fmt.Sprintf("@%s:[%s %s]", field, minBound, maxBound)
}

// formatBound keeps full precision; %g would truncate epoch-second values.
func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`:`, `\:`,
)
