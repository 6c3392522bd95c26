package scoring

import (
	"errors"
	"fmt"
)

// Dimension tolerance: a sub-score within this many points counts as correct.
const Tolerance = 1

// Documented input domains.
const (
	MinGrade = 1
	MaxGrade = 5

	MinContent = 3
	MaxContent = 18

	MinOrganization = 2
	MaxOrganization = 12

	MinExpression = 2
	MaxExpression = 12
)

// ErrOutOfRange is returned by the Validate helpers.
var ErrOutOfRange = errors.New("value out of range")

// Scores holds the three analytic sub-scores of an essay.
type Scores struct {
	Content      int
	Organization int
	Expression   int
}

// Total returns the sum of all three sub-scores.
func (s Scores) Total() int {
	return s.Content + s.Organization + s.Expression
}

// Result is the per-dimension verdict of ScoreAll.
type Result struct {
	Content      bool
	Organization bool
	Expression   bool
	AllCorrect   bool
}

// Hits returns how many dimensions were within tolerance.
func (r Result) Hits() int {
	n := 0
	for _, ok := range []bool{r.Content, r.Organization, r.Expression} {
		if ok {
			n++
		}
	}
	return n
}

// ScoreGrade reports whether the submitted grade matches exactly.
func ScoreGrade(submitted, correct int) bool {
	return submitted == correct
}

// ScoreDimension reports whether a sub-score is within Tolerance of the answer.
func ScoreDimension(submitted, correct int) bool {
	d := submitted - correct
	if d < 0 {
		d = -d
	}
	return d <= Tolerance
}

// ScoreAll checks every dimension independently.
func ScoreAll(submitted, correct Scores) Result {
	r := Result{
		Content:      ScoreDimension(submitted.Content, correct.Content),
		Organization: ScoreDimension(submitted.Organization, correct.Organization),
		Expression:   ScoreDimension(submitted.Expression, correct.Expression),
	}
	r.AllCorrect = r.Content && r.Organization && r.Expression
	return r
}

// Range describes the inclusive bounds of one input field.
type Range struct {
	Min, Max int
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp forces v into the range.
func (r Range) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Mid returns the midpoint, used as the initial value of input widgets.
func (r Range) Mid() int {
	return (r.Min + r.Max) / 2
}

var (
	GradeRange        = Range{MinGrade, MaxGrade}
	ContentRange      = Range{MinContent, MaxContent}
	OrganizationRange = Range{MinOrganization, MaxOrganization}
	ExpressionRange   = Range{MinExpression, MaxExpression}
)

// ValidateGrade checks a grade against its documented domain.
func ValidateGrade(g int) error {
	if !GradeRange.Contains(g) {
		return fmt.Errorf("grade %d: %w [%d,%d]", g, ErrOutOfRange, MinGrade, MaxGrade)
	}
	return nil
}

// ValidateScores checks all three sub-scores against their domains.
func ValidateScores(s Scores) error {
	checks := []struct {
		name  string
		value int
		rng   Range
	}{
		{"content", s.Content, ContentRange},
		{"organization", s.Organization, OrganizationRange},
		{"expression", s.Expression, ExpressionRange},
	}
	for _, c := range checks {
		if !c.rng.Contains(c.value) {
			return fmt.Errorf("%s score %d: %w [%d,%d]", c.name, c.value, ErrOutOfRange, c.rng.Min, c.rng.Max)
		}
	}
	return nil
}
