package session

import "github.com/sepme/sepme/internal/corpus"

// Rating is the accuracy tier shown on the results screen.
type Rating int

const (
	RatingNeedsPractice Rating = iota
	RatingGood
	RatingExcellent
)

// Rating thresholds on accuracy.
const (
	ExcellentThreshold = 0.8
	GoodThreshold      = 0.6
)

// RatingFor maps an accuracy in [0,1] to its tier.
func RatingFor(accuracy float64) Rating {
	switch {
	case accuracy >= ExcellentThreshold:
		return RatingExcellent
	case accuracy >= GoodThreshold:
		return RatingGood
	default:
		return RatingNeedsPractice
	}
}

func (r Rating) String() string {
	switch r {
	case RatingExcellent:
		return "excellent"
	case RatingGood:
		return "good"
	default:
		return "needs-practice"
	}
}

// Message is the encouragement line for r.
func (r Rating) Message() string {
	switch r {
	case RatingExcellent:
		return "Excellent! Your judgement is well calibrated."
	case RatingGood:
		return "Good work. Review the rubric to sharpen the close calls."
	default:
		return "Keep practicing. Compare your answers with the feedback images."
	}
}

// CategorySummary counts outcomes of one practice category.
type CategorySummary struct {
	Attempted int
	Correct   int
}

// Accuracy returns Correct/Attempted, or 0 when nothing was attempted.
func (c CategorySummary) Accuracy() float64 {
	if c.Attempted == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Attempted)
}

// DimensionHits counts score outcomes within tolerance, per dimension.
type DimensionHits struct {
	Content      int
	Organization int
	Expression   int
}

// Summary holds the data displayed on the results screen.
type Summary struct {
	LearnerName string
	Mode        Mode
	Total       int
	Correct     int
	Accuracy    float64
	Rating      Rating

	Grade CategorySummary
	Score CategorySummary
	Hits  DimensionHits

	// Sum of all submitted and all correct sub-scores in score practice.
	SubmittedTotal int
	CorrectTotal   int

	Synthetic bool
}

// Summarize derives the results summary from the recorded outcomes.
func Summarize(s Session) Summary {
	sum := Summary{
		LearnerName: s.LearnerName,
		Mode:        s.Mode,
		Synthetic:   s.Synthetic(),
	}
	for _, o := range s.Results {
		cat := &sum.Grade
		if o.Category == corpus.ScoreEstimation {
			cat = &sum.Score
			if o.Dimensions.Content {
				sum.Hits.Content++
			}
			if o.Dimensions.Organization {
				sum.Hits.Organization++
			}
			if o.Dimensions.Expression {
				sum.Hits.Expression++
			}
			sum.SubmittedTotal += o.SubmittedScores.Total()
			sum.CorrectTotal += o.CorrectScores.Total()
		}
		cat.Attempted++
		if o.IsCorrect {
			cat.Correct++
			sum.Correct++
		}
		sum.Total++
	}
	if sum.Total > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Total)
	}
	sum.Rating = RatingFor(sum.Accuracy)
	return sum
}
