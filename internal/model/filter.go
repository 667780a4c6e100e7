package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FilterCriteria holds the user-selected constraints on the catalog view.
// An empty field places no constraint on its dimension.
type FilterCriteria struct {
	SearchTerm      string `json:"searchTerm,omitempty"`
	Category        string `json:"category,omitempty"`
	Subcategory     string `json:"subcategory,omitempty"`
	InvestmentRange string `json:"investmentRange,omitempty"` // e.g. "500000-2500000", "40000000+"
	Difficulty      string `json:"buildDifficulty,omitempty"` // e.g. "easy"
	MarketScore     string `json:"marketScore,omitempty"`     // e.g. "7-8", "9-10"
	PainPointScore  string `json:"painPointScore,omitempty"`
	TimingScore     string `json:"timingScore,omitempty"`
	IdeaType        string `json:"ideaType,omitempty"` // slug, e.g. "new-tech"
}

// IsEmpty reports whether no dimension is constrained.
func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}

// Validate checks that every non-empty bucket decodes. It returns a
// *ValidationError listing each malformed field, or nil.
func (c FilterCriteria) Validate() error {
	var ve ValidationError

	if c.InvestmentRange != "" {
		if _, err := ParseInvestmentRange(c.InvestmentRange); err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: "investmentRange", Message: err.Error()})
		}
	}
	if c.Difficulty != "" {
		if d := Difficulty(capitalize(c.Difficulty)); !d.IsValid() {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "buildDifficulty",
				Message: fmt.Sprintf("invalid value %q", c.Difficulty),
			})
		}
	}
	for _, f := range []struct {
		name, value string
	}{
		{"marketScore", c.MarketScore},
		{"painPointScore", c.PainPointScore},
		{"timingScore", c.TimingScore},
	} {
		if f.value == "" {
			continue
		}
		if _, err := ParseScoreRange(f.value); err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: f.name, Message: err.Error()})
		}
	}
	if c.IdeaType != "" {
		if _, ok := IdeaTypeForSlug(c.IdeaType); !ok {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "ideaType",
				Message: fmt.Sprintf("unknown idea type %q", c.IdeaType),
			})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Range is a closed numeric interval. High may be +Inf.
type Range struct {
	Low  float64
	High float64
}

// Contains reports whether low <= v <= high.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Encloses reports whether [min, max] lies entirely inside r.
func (r Range) Encloses(min, max float64) bool {
	return min >= r.Low && max <= r.High
}

// TopScoreBucket is the score bucket that means "9 or better".
const TopScoreBucket = "9-10"

// ParseInvestmentRange decodes an investment bucket. "low-high" yields
// [low, high]; a trailing "+" ("40000000+") leaves the high end unbounded.
func ParseInvestmentRange(s string) (Range, error) {
	if strings.HasSuffix(s, "+") {
		low, err := parseBound(strings.TrimSuffix(s, "+"))
		if err != nil {
			return Range{}, fmt.Errorf("invalid investment range %q: %w", s, err)
		}
		return Range{Low: low, High: math.Inf(1)}, nil
	}
	r, err := parsePair(s)
	if err != nil {
		return Range{}, fmt.Errorf("invalid investment range %q: %w", s, err)
	}
	return r, nil
}

// ParseScoreRange decodes a score bucket. The top bucket "9-10" matches any
// score of 9 or more; other buckets are inclusive on both ends.
func ParseScoreRange(s string) (Range, error) {
	if s == TopScoreBucket {
		return Range{Low: 9, High: math.Inf(1)}, nil
	}
	r, err := parsePair(s)
	if err != nil {
		return Range{}, fmt.Errorf("invalid score range %q: %w", s, err)
	}
	if r.Low != math.Trunc(r.Low) || r.High != math.Trunc(r.High) {
		return Range{}, fmt.Errorf("invalid score range %q: bounds must be integers", s)
	}
	if r.High > 10 {
		return Range{}, fmt.Errorf("invalid score range %q: scores are at most 10", s)
	}
	return r, nil
}

func parsePair(s string) (Range, error) {
	lowStr, highStr, ok := strings.Cut(s, "-")
	if !ok {
		return Range{}, fmt.Errorf("expected low-high")
	}
	low, err := parseBound(lowStr)
	if err != nil {
		return Range{}, err
	}
	high, err := parseBound(highStr)
	if err != nil {
		return Range{}, err
	}
	if low > high {
		return Range{}, fmt.Errorf("low bound %v exceeds high bound %v", low, high)
	}
	return Range{Low: low, High: high}, nil
}

func parseBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("bound %q is not a number", s)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("bound %q must be a finite non-negative number", s)
	}
	return v, nil
}
