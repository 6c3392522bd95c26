package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sepme/sepme/internal/corpus"
	"github.com/sepme/sepme/internal/scoring"
)

func gradeItems(grades ...int) []corpus.Item {
	items := make([]corpus.Item, len(grades))
	for i, g := range grades {
		items[i] = corpus.Item{
			ID:       i + 1,
			Text:     "An essay about something.",
			Grade:    g,
			Scores:   scoring.Scores{Content: 10, Organization: 6, Expression: 6},
			Category: corpus.GradeEstimation,
		}
	}
	return items
}

func scoreItems(scores ...scoring.Scores) []corpus.Item {
	items := make([]corpus.Item, len(scores))
	for i, sc := range scores {
		items[i] = corpus.Item{
			ID:       100 + i,
			Text:     "An essay about something else.",
			Grade:    3,
			Scores:   sc,
			Category: corpus.ScoreEstimation,
		}
	}
	return items
}

func mustStep(t *testing.T, s Session, a Action) Session {
	t.Helper()
	next, err := Step(s, a)
	require.NoError(t, err, "action %T in %s", a, s.Stage)
	return next
}

// atModeSelection walks a fresh session to the mode selection screen.
func atModeSelection(t *testing.T, count int) Session {
	t.Helper()
	s := mustStep(t, New(), Begin{Name: "Mina", Consent: true, QuestionCount: count})
	return mustStep(t, s, Continue{})
}

func allChecked() ConfirmChecklist {
	checks := make([]bool, len(DefaultChecklist))
	for i := range checks {
		checks[i] = true
	}
	return ConfirmChecklist{Checks: checks}
}

func TestBegin_Validation(t *testing.T) {
	tests := []struct {
		name    string
		action  Begin
		wantErr error
	}{
		{"missing name", Begin{Name: "  ", Consent: true}, ErrMissingName},
		{"missing consent", Begin{Name: "Mina"}, ErrMissingConsent},
		{"name checked before consent", Begin{}, ErrMissingName},
		{"count too high", Begin{Name: "Mina", Consent: true, QuestionCount: 16}, ErrQuestionCount},
		{"count negative", Begin{Name: "Mina", Consent: true, QuestionCount: -1}, ErrQuestionCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Step(New(), tt.action)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err %T is not a *ValidationError", err)
			}
			if s.Stage != StageIntro {
				t.Errorf("Stage = %s, want intro", s.Stage)
			}
		})
	}
}

func TestBegin_DefaultsAndTrims(t *testing.T) {
	s := mustStep(t, New(), Begin{Name: "  Mina ", Consent: true})
	assert.Equal(t, StageAssignmentInfo, s.Stage)
	assert.Equal(t, "Mina", s.LearnerName)
	assert.Equal(t, DefaultQuestionCount, s.QuestionCount)
}

func TestGradeOnly_EndToEnd(t *testing.T) {
	s := atModeSelection(t, 3)
	s = mustStep(t, s, SelectMode{Mode: ModeGradeOnly, Grade: gradeItems(3, 1, 5, 2)})
	require.Equal(t, StageChecklist, s.Stage)
	require.Len(t, s.GradeQueue, 3)

	s = mustStep(t, s, allChecked())
	require.Equal(t, StageGradePractice, s.Stage)

	for i, guess := range []int{3, 1, 4} {
		item, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, i+1, item.ID)
		s = mustStep(t, s, SubmitGrade{Grade: guess})
		s = mustStep(t, s, Next{})
	}

	assert.Equal(t, StageResults, s.Stage)
	require.Len(t, s.Results, 3)

	sum := Summarize(s)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Correct)
	assert.InDelta(t, 2.0/3.0, sum.Accuracy, 1e-9)
	assert.Equal(t, RatingGood, sum.Rating)
	assert.Equal(t, CategorySummary{Attempted: 3, Correct: 2}, sum.Grade)
	assert.Zero(t, sum.Score.Attempted)
}

func TestSubmit_Idempotent(t *testing.T) {
	s := atModeSelection(t, 2)
	s = mustStep(t, s, SelectMode{Mode: ModeGradeOnly, Grade: gradeItems(3, 4)})
	s = mustStep(t, s, allChecked())

	s = mustStep(t, s, SubmitGrade{Grade: 3})
	s = mustStep(t, s, SubmitGrade{Grade: 1})
	require.Len(t, s.Results, 1)
	assert.True(t, s.Results[0].IsCorrect, "second submission must not replace the first")
	assert.Equal(t, 0, s.Position)
}

func TestNext_RequiresSubmission(t *testing.T) {
	s := atModeSelection(t, 2)
	s = mustStep(t, s, SelectMode{Mode: ModeGradeOnly, Grade: gradeItems(3, 4)})
	s = mustStep(t, s, allChecked())

	got, err := Step(s, Next{})
	assert.ErrorIs(t, err, ErrNotSubmitted)
	assert.Equal(t, 0, got.Position)
}

func TestStep_DoesNotMutateInput(t *testing.T) {
	s := atModeSelection(t, 2)
	s = mustStep(t, s, SelectMode{Mode: ModeGradeOnly, Grade: gradeItems(3, 4)})
	s = mustStep(t, s, allChecked())
	s = mustStep(t, s, SubmitGrade{Grade: 3})
	s = mustStep(t, s, Next{})

	before := s
	after := mustStep(t, s, SubmitGrade{Grade: 4})
	assert.Len(t, before.Results, 1)
	assert.Len(t, after.Results, 2)

	// A branch from the same state must not see the other branch's outcome.
	other := mustStep(t, before, SubmitGrade{Grade: 1})
	assert.Equal(t, 4, after.Results[1].SubmittedGrade)
	assert.Equal(t, 1, other.Results[1].SubmittedGrade)
}

func TestModeRouting(t *testing.T) {
	t.Run("both visits grade then score", func(t *testing.T) {
		s := atModeSelection(t, 1)
		s = mustStep(t, s, SelectMode{
			Mode:  ModeBoth,
			Grade: gradeItems(2),
			Score: scoreItems(scoring.Scores{Content: 10, Organization: 6, Expression: 6}),
		})
		visited := []Stage{s.Stage}
		s = mustStep(t, s, allChecked())
		visited = append(visited, s.Stage)
		s = mustStep(t, s, SubmitGrade{Grade: 2})
		s = mustStep(t, s, Next{})
		visited = append(visited, s.Stage)
		s = mustStep(t, s, SubmitScores{Scores: scoring.Scores{Content: 11, Organization: 6, Expression: 4}})
		s = mustStep(t, s, Next{})
		visited = append(visited, s.Stage)

		assert.Equal(t, []Stage{StageChecklist, StageGradePractice, StageScorePractice, StageResults}, visited)
	})

	t.Run("score only skips checklist and grade practice", func(t *testing.T) {
		s := atModeSelection(t, 1)
		s = mustStep(t, s, SelectMode{
			Mode:  ModeScoreOnly,
			Grade: gradeItems(2),
			Score: scoreItems(scoring.Scores{Content: 10, Organization: 6, Expression: 6}),
		})
		assert.Equal(t, StageScorePractice, s.Stage)
		assert.Empty(t, s.GradeQueue)

		_, err := Step(s, SubmitGrade{Grade: 2})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestScorePractice_Summary(t *testing.T) {
	s := atModeSelection(t, 2)
	s = mustStep(t, s, SelectMode{
		Mode: ModeScoreOnly,
		Score: scoreItems(
			scoring.Scores{Content: 10, Organization: 6, Expression: 6},
			scoring.Scores{Content: 15, Organization: 10, Expression: 9},
		),
	})

	s = mustStep(t, s, SubmitScores{Scores: scoring.Scores{Content: 9, Organization: 7, Expression: 6}})
	o, ok := s.CurrentOutcome()
	require.True(t, ok)
	assert.True(t, o.IsCorrect)
	s = mustStep(t, s, Next{})

	s = mustStep(t, s, SubmitScores{Scores: scoring.Scores{Content: 12, Organization: 10, Expression: 8}})
	s = mustStep(t, s, Next{})
	require.Equal(t, StageResults, s.Stage)

	sum := Summarize(s)
	assert.Equal(t, CategorySummary{Attempted: 2, Correct: 1}, sum.Score)
	assert.Equal(t, DimensionHits{Content: 1, Organization: 2, Expression: 2}, sum.Hits)
	assert.Equal(t, 22+30, sum.SubmittedTotal)
	assert.Equal(t, 22+34, sum.CorrectTotal)
	assert.Equal(t, RatingNeedsPractice, sum.Rating)
}

func TestSubmitScores_RejectsOutOfRange(t *testing.T) {
	s := atModeSelection(t, 1)
	s = mustStep(t, s, SelectMode{Mode: ModeScoreOnly, Score: scoreItems(scoring.Scores{Content: 10, Organization: 6, Expression: 6})})

	_, err := Step(s, SubmitScores{Scores: scoring.Scores{Content: 19, Organization: 6, Expression: 6}})
	assert.ErrorIs(t, err, scoring.ErrOutOfRange)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestChecklist_MustBeComplete(t *testing.T) {
	s := atModeSelection(t, 1)
	s = mustStep(t, s, SelectMode{Mode: ModeGradeOnly, Grade: gradeItems(2)})

	checks := allChecked()
	checks.Checks[4] = false
	got, err := Step(s, checks)
	assert.ErrorIs(t, err, ErrChecklistIncomplete)
	assert.Equal(t, StageChecklist, got.Stage)

	_, err = Step(s, ConfirmChecklist{Checks: []bool{true}})
	assert.ErrorIs(t, err, ErrChecklistIncomplete)
}

func TestSelectMode_Validation(t *testing.T) {
	s := atModeSelection(t, 1)

	_, err := Step(s, SelectMode{Mode: ModeNone})
	assert.ErrorIs(t, err, ErrNoMode)

	_, err = Step(s, SelectMode{Mode: ModeBoth, Grade: gradeItems(2)})
	assert.ErrorIs(t, err, ErrEmptyQueue)
}

func TestRestart_ClearsEverything(t *testing.T) {
	s := atModeSelection(t, 1)
	s = mustStep(t, s, SelectMode{Mode: ModeGradeOnly, Grade: gradeItems(2)})
	s = mustStep(t, s, allChecked())
	s = mustStep(t, s, SubmitGrade{Grade: 2})
	s = mustStep(t, s, Next{})
	require.Equal(t, StageResults, s.Stage)

	s = mustStep(t, s, Restart{})
	assert.Equal(t, New(), s)
	assert.Empty(t, s.Results)

	_, err := Step(s, Begin{Name: "", Consent: true})
	assert.ErrorIs(t, err, ErrMissingName)
	_, err = Step(s, Begin{Name: "Mina"})
	assert.ErrorIs(t, err, ErrMissingConsent)
}

func TestRetry_KeepsLearner(t *testing.T) {
	s := atModeSelection(t, 1)
	s = mustStep(t, s, SelectMode{Mode: ModeGradeOnly, Grade: gradeItems(2)})
	s = mustStep(t, s, allChecked())
	s = mustStep(t, s, SubmitGrade{Grade: 2})
	s = mustStep(t, s, Next{})

	s = mustStep(t, s, Retry{})
	assert.Equal(t, StageModeSelection, s.Stage)
	assert.Equal(t, "Mina", s.LearnerName)
	assert.Equal(t, 1, s.QuestionCount)
	assert.Equal(t, ModeNone, s.Mode)
	assert.Empty(t, s.Results)
	assert.Empty(t, s.GradeQueue)
}

func TestReview_ReturnsToAssignment(t *testing.T) {
	s := atModeSelection(t, 1)
	s = mustStep(t, s, SelectMode{Mode: ModeGradeOnly, Grade: gradeItems(2)})
	s = mustStep(t, s, allChecked())

	_, err := Step(s, Review{})
	assert.ErrorIs(t, err, ErrInvalidTransition, "review is only offered on results")

	s = mustStep(t, s, SubmitGrade{Grade: 2})
	s = mustStep(t, s, Next{})
	require.Equal(t, StageResults, s.Stage)

	s = mustStep(t, s, Review{})
	assert.Equal(t, StageAssignmentInfo, s.Stage)
	assert.Equal(t, "Mina", s.LearnerName)
	assert.Equal(t, 1, s.QuestionCount)
	assert.Equal(t, ModeNone, s.Mode)
	assert.Empty(t, s.Results)

	s = mustStep(t, s, Continue{})
	assert.Equal(t, StageModeSelection, s.Stage)
}

func TestBack(t *testing.T) {
	s := atModeSelection(t, 1)
	s = mustStep(t, s, SelectMode{Mode: ModeGradeOnly, Grade: gradeItems(2)})

	s = mustStep(t, s, Back{})
	assert.Equal(t, StageModeSelection, s.Stage)
	assert.Empty(t, s.GradeQueue)
	s = mustStep(t, s, Back{})
	assert.Equal(t, StageAssignmentInfo, s.Stage)
	s = mustStep(t, s, Back{})
	assert.Equal(t, StageIntro, s.Stage)
	assert.Equal(t, "Mina", s.LearnerName, "back keeps the typed name")

	_, err := Step(s, Back{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		acc  float64
		want Rating
	}{
		{1, RatingExcellent},
		{0.8, RatingExcellent},
		{0.79, RatingGood},
		{0.6, RatingGood},
		{0.59, RatingNeedsPractice},
		{0, RatingNeedsPractice},
	}
	for _, tt := range tests {
		if got := RatingFor(tt.acc); got != tt.want {
			t.Errorf("RatingFor(%v) = %s, want %s", tt.acc, got, tt.want)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(New())
	assert.Zero(t, sum.Accuracy)
	assert.Equal(t, RatingNeedsPractice, sum.Rating)
}

func TestStageString_Exhaustive(t *testing.T) {
	for st := StageIntro; st <= StageResults; st++ {
		if st.String() == "unknown" {
			t.Errorf("stage %d has no name", int(st))
		}
	}
}
