// Package score is the matching-score resource: one engine-computed score
// per (job, talent) pair, addressed by the request that produced it.
package score

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/searchgate/internal/domain/schema"
	"github.com/kailas-cloud/searchgate/internal/resource"
)

// Index is the logical index scores live in.
const Index = "scores"

var scoreSchema = schema.MustNew(
	schema.Field{Name: "request_id", Kind: schema.Keyword, Unique: true},
	schema.Field{Name: "job_id", Kind: schema.Numeric},
	schema.Field{Name: "talent_id", Kind: schema.Numeric},
	schema.Field{Name: "score", Kind: schema.Numeric},
)

// Score is a single scoring outcome.
type Score struct {
	RequestID string  `json:"request_id"`
	JobID     int     `json:"job_id"`
	TalentID  int     `json:"talent_id"`
	Score     float64 `json:"score"`
}

var _ resource.Record = (*Score)(nil)

// Schema declares the filterable fields.
func (*Score) Schema() schema.Schema { return scoreSchema }

// IndexName returns the logical index name.
func (*Score) IndexName() string { return Index }

// Fields serializes the score into the index's flat document form.
func (s *Score) Fields() map[string]string {
	return map[string]string{
		"request_id": s.RequestID,
		"job_id":     strconv.Itoa(s.JobID),
		"talent_id":  strconv.Itoa(s.TalentID),
		"score":      strconv.FormatFloat(s.Score, 'f', -1, 64),
	}
}

// FromHit reconstructs a score from a raw hit. All fields are required.
func (s *Score) FromHit(fields map[string]string) error {
	requestID, ok := fields["request_id"]
	if !ok || requestID == "" {
		return fmt.Errorf("hit is missing request_id")
	}
	s.RequestID = requestID

	var err error
	if s.JobID, err = requiredInt(fields, "job_id"); err != nil {
		return err
	}
	if s.TalentID, err = requiredInt(fields, "talent_id"); err != nil {
		return err
	}

	raw, ok := fields["score"]
	if !ok {
		return fmt.Errorf("hit is missing score")
	}
	if s.Score, err = strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("malformed score %q: %w", raw, err)
	}

	return nil
}

func requiredInt(fields map[string]string, name string) (int, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("hit is missing %s", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("malformed %s %q: %w", name, raw, err)
	}
	return v, nil
}
