// Package talent is the primary searchable resource of the reference
// deployment: an accepted candidate inside a living batch window.
package talent

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain/schema"
	"github.com/kailas-cloud/searchgate/internal/resource"
)

// Index is the logical index talents live in.
const Index = "talents"

// listSeparator joins multi-value fields in the flat document form. It
// matches the engine's default TAG separator.
const listSeparator = ","

var talentSchema = schema.MustNew(
	schema.Field{Name: "id", Kind: schema.Numeric, Unique: true},
	schema.Field{Name: "accepted", Kind: schema.Bool},
	schema.Field{Name: "work_roles", Kind: schema.Keyword},
	schema.Field{Name: "open_to_relocation", Kind: schema.Bool},
	schema.Field{Name: "work_locations", Kind: schema.Keyword},
	schema.Field{Name: "current_location", Kind: schema.Keyword},
	schema.Field{Name: "work_authorization", Kind: schema.Keyword},
	schema.Field{Name: "skills", Kind: schema.Text},
	schema.Field{Name: "summary", Kind: schema.Text},
	schema.Field{Name: "headline", Kind: schema.Text},
	schema.Field{Name: "work_experiences", Kind: schema.Text},
	schema.Field{Name: "weight", Kind: schema.Numeric},
	schema.Field{Name: "salary_expectation", Kind: schema.Numeric},
	schema.Field{Name: "batch_starts_at", Kind: schema.Date},
	schema.Field{Name: "batch_ends_at", Kind: schema.Date},
	// Request-only exclusion: listed ids are filtered out of the result.
	schema.Field{Name: "ignored_talents", Kind: schema.Keyword, Indexed: "id", Exclude: true},
)

// Talent is a candidate record as stored in the index and returned to
// callers.
type Talent struct {
	ID                int       `json:"id"`
	Accepted          bool      `json:"accepted"`
	WorkRoles         []string  `json:"work_roles"`
	OpenToRelocation  bool      `json:"open_to_relocation"`
	WorkLocations     []string  `json:"work_locations"`
	CurrentLocation   string    `json:"current_location"`
	WorkAuthorization string    `json:"work_authorization"`
	Skills            []string  `json:"skills"`
	Summary           string    `json:"summary"`
	Headline          string    `json:"headline"`
	WorkExperiences   []string  `json:"work_experiences"`
	Weight            int       `json:"weight"`
	SalaryExpectation int       `json:"salary_expectation"`
	BatchStartsAt     time.Time `json:"batch_starts_at"`
	BatchEndsAt       time.Time `json:"batch_ends_at"`
}

var _ resource.Record = (*Talent)(nil)

// Schema declares the filterable fields.
func (*Talent) Schema() schema.Schema { return talentSchema }

// IndexName returns the logical index name.
func (*Talent) IndexName() string { return Index }

// Fields serializes the talent into the index's flat document form.
// Lists are separator-joined, booleans are "true"/"false", dates are epoch
// seconds so range filters work on them.
func (t *Talent) Fields() map[string]string {
	return map[string]string{
		"id":                 strconv.Itoa(t.ID),
		"accepted":           strconv.FormatBool(t.Accepted),
		"work_roles":         joinList(t.WorkRoles),
		"open_to_relocation": strconv.FormatBool(t.OpenToRelocation),
		"work_locations":     joinList(t.WorkLocations),
		"current_location":   t.CurrentLocation,
		"work_authorization": t.WorkAuthorization,
		"skills":             joinList(t.Skills),
		"summary":            t.Summary,
		"headline":           t.Headline,
		"work_experiences":   joinList(t.WorkExperiences),
		"weight":             strconv.Itoa(t.Weight),
		"salary_expectation": strconv.Itoa(t.SalaryExpectation),
		"batch_starts_at":    strconv.FormatInt(t.BatchStartsAt.Unix(), 10),
		"batch_ends_at":      strconv.FormatInt(t.BatchEndsAt.Unix(), 10),
	}
}

// FromHit reconstructs a talent from a raw hit. The id is required; any
// present field that cannot be coerced fails the hit.
func (t *Talent) FromHit(fields map[string]string) error {
	raw, ok := fields["id"]
	if !ok {
		return fmt.Errorf("hit is missing id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("malformed id %q: %w", raw, err)
	}
	t.ID = id

	if t.Accepted, err = parseBool(fields, "accepted"); err != nil {
		return err
	}
	if t.OpenToRelocation, err = parseBool(fields, "open_to_relocation"); err != nil {
		return err
	}

	t.WorkRoles = splitList(fields["work_roles"])
	t.WorkLocations = splitList(fields["work_locations"])
	t.CurrentLocation = fields["current_location"]
	t.WorkAuthorization = fields["work_authorization"]
	t.Skills = splitList(fields["skills"])
	t.Summary = fields["summary"]
	t.Headline = fields["headline"]
	t.WorkExperiences = splitList(fields["work_experiences"])

	if t.Weight, err = parseInt(fields, "weight"); err != nil {
		return err
	}
	if t.SalaryExpectation, err = parseInt(fields, "salary_expectation"); err != nil {
		return err
	}
	if t.BatchStartsAt, err = parseEpoch(fields, "batch_starts_at"); err != nil {
		return err
	}
	if t.BatchEndsAt, err = parseEpoch(fields, "batch_ends_at"); err != nil {
		return err
	}

	return nil
}

func joinList(values []string) string {
	return strings.Join(values, listSeparator)
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, listSeparator)
}

func parseBool(fields map[string]string, name string) (bool, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("malformed %s %q: %w", name, raw, err)
	}
	return v, nil
}

func parseInt(fields map[string]string, name string) (int, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("malformed %s %q: %w", name, raw, err)
	}
	return v, nil
}

func parseEpoch(fields map[string]string, name string) (time.Time, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed %s %q: %w", name, raw, err)
	}
	return time.Unix(sec, 0).UTC(), nil
}
