package corpus

import (
	"fmt"

	"github.com/sepme/sepme/internal/scoring"
)

// Category selects which practice mode a corpus serves.
type Category int

const (
	GradeEstimation Category = iota
	ScoreEstimation
)

// String returns the short name used in config keys and logs.
func (c Category) String() string {
	switch c {
	case GradeEstimation:
		return "grade"
	case ScoreEstimation:
		return "score"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// DisplayName returns the human-readable practice name.
func (c Category) DisplayName() string {
	switch c {
	case GradeEstimation:
		return "Grade estimation"
	case ScoreEstimation:
		return "Score estimation"
	default:
		return c.String()
	}
}

// Item is one gradable essay with its stored answers.
type Item struct {
	// ID is the record number from line 1; it keys feedback images.
	ID int

	// Text is the essay body.
	Text string

	// Grade is the correct overall grade (1-5).
	Grade int

	// Scores are the correct analytic sub-scores.
	Scores scoring.Scores

	// Category is the corpus this item was loaded from.
	Category Category

	// Key is the source key (file name or object key) the item came from.
	Key string

	// Synthetic marks built-in placeholder items that are not real learner data.
	Synthetic bool
}
