package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/JaimeStill/redline/pkg/formatting"
)

// Pointer fields distinguish missing keys from zero values.
type rawConflict struct {
	ID            *float64 `json:"id"`
	Severity      *string  `json:"severity"`
	Category      *string  `json:"category"`
	MasterText    *string  `json:"masterText"`
	CandidateText *string  `json:"candidateText"`
	Explanation   *string  `json:"explanation"`
}

type rawResult struct {
	RiskScore *float64       `json:"riskScore"`
	Conflicts *[]rawConflict `json:"conflicts"`
}

// ParseResult strips any code fences from content, decodes it, and validates
// it against the result schema. Every failure wraps ErrInvalidResponse.
func ParseResult(content string) (*Result, error) {
	raw, err := formatting.Parse[rawResult](content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if raw.RiskScore == nil {
		return nil, fmt.Errorf("%w: riskScore is missing", ErrInvalidResponse)
	}
	score := *raw.RiskScore
	if score != math.Trunc(score) || score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: riskScore %v is not an integer in [0, 100]", ErrInvalidResponse, score)
	}

	if raw.Conflicts == nil {
		return nil, fmt.Errorf("%w: conflicts is missing", ErrInvalidResponse)
	}

	result := &Result{
		RiskScore: int(score),
		Conflicts: make([]Conflict, 0, len(*raw.Conflicts)),
	}

	for i, rc := range *raw.Conflicts {
		c, err := rc.validate()
		if err != nil {
			return nil, fmt.Errorf("%w: conflicts[%d]: %s", ErrInvalidResponse, i, err)
		}
		result.Conflicts = append(result.Conflicts, c)
	}

	return result, nil
}

// maxExactID is the largest magnitude at which every integer is exactly
// representable as a JSON number decoded into float64.
const maxExactID = 1 << 53

func (rc rawConflict) validate() (Conflict, error) {
	if rc.ID == nil {
		return Conflict{}, errors.New("id is missing")
	}
	if *rc.ID != math.Trunc(*rc.ID) {
		return Conflict{}, fmt.Errorf("id %v is not an integer", *rc.ID)
	}
	if math.Abs(*rc.ID) > maxExactID {
		return Conflict{}, fmt.Errorf("id %v is out of range", *rc.ID)
	}

	if rc.Severity == nil {
		return Conflict{}, errors.New("severity is missing")
	}
	switch *rc.Severity {
	case SeverityHigh, SeverityMedium, SeverityLow:
	default:
		return Conflict{}, fmt.Errorf("severity %q is not High, Medium, or Low", *rc.Severity)
	}

	for name, field := range map[string]*string{
		"category":      rc.Category,
		"masterText":    rc.MasterText,
		"candidateText": rc.CandidateText,
		"explanation":   rc.Explanation,
	} {
		if field == nil {
			return Conflict{}, fmt.Errorf("%s is missing", name)
		}
	}

	return Conflict{
		ID:            int(*rc.ID),
		Severity:      *rc.Severity,
		Category:      *rc.Category,
		MasterText:    *rc.MasterText,
		CandidateText: *rc.CandidateText,
		Explanation:   *rc.Explanation,
	}, nil
}
