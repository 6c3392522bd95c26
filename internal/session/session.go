package session

import (
	"slices"
	"strings"

	"github.com/sepme/sepme/internal/corpus"
	"github.com/sepme/sepme/internal/scoring"
)

// Action is a learner intent applied by Step.
type Action interface {
	action()
}

// Begin leaves the intro screen. QuestionCount 0 selects DefaultQuestionCount.
type Begin struct {
	Name          string
	Consent       bool
	QuestionCount int
}

// Continue leaves the assignment info screen.
type Continue struct{}

// SelectMode fixes the practice mode and its queues. Queues longer than the
// session's question count are truncated; build them with BuildQueue.
type SelectMode struct {
	Mode  Mode
	Grade []corpus.Item
	Score []corpus.Item
}

// ConfirmChecklist submits the checklist state, one bool per DefaultChecklist entry.
type ConfirmChecklist struct {
	Checks []bool
}

// SubmitGrade answers the current grade practice item.
type SubmitGrade struct {
	Grade int
}

// SubmitScores answers the current score practice item.
type SubmitScores struct {
	Scores scoring.Scores
}

// Next moves past an answered item.
type Next struct{}

// Back returns to the previous wizard screen.
type Back struct{}

// Retry starts another round from mode selection, keeping the learner.
type Retry struct{}

// Review returns from results to the assignment screen, keeping the learner.
type Review struct{}

// Restart discards the session.
type Restart struct{}

func (Begin) action()            {}
func (Continue) action()         {}
func (SelectMode) action()       {}
func (ConfirmChecklist) action() {}
func (SubmitGrade) action()      {}
func (SubmitScores) action()     {}
func (Next) action()             {}
func (Back) action()             {}
func (Retry) action()            {}
func (Review) action()           {}
func (Restart) action()          {}

// Step applies a to s and returns the resulting session. On error the
// returned session is s unchanged. Validation failures are *ValidationError;
// actions that do not apply to the current stage wrap ErrInvalidTransition.
func Step(s Session, a Action) (Session, error) {
	if _, ok := a.(Restart); ok {
		return New(), nil
	}

	switch s.Stage {
	case StageIntro:
		if a, ok := a.(Begin); ok {
			return begin(s, a)
		}
	case StageAssignmentInfo:
		switch a.(type) {
		case Continue:
			s.Stage = StageModeSelection
			return s, nil
		case Back:
			s.Stage = StageIntro
			return s, nil
		}
	case StageModeSelection:
		switch a := a.(type) {
		case SelectMode:
			return selectMode(s, a)
		case Back:
			s.Stage = StageAssignmentInfo
			return s, nil
		}
	case StageChecklist:
		switch a := a.(type) {
		case ConfirmChecklist:
			if !ChecklistComplete(a.Checks) {
				return s, invalid(s.Stage, ErrChecklistIncomplete)
			}
			return enter(s, StageGradePractice), nil
		case Back:
			return clearRound(s), nil
		}
	case StageGradePractice:
		switch a := a.(type) {
		case SubmitGrade:
			return submitGrade(s, a)
		case Next:
			return next(s)
		}
	case StageScorePractice:
		switch a := a.(type) {
		case SubmitScores:
			return submitScores(s, a)
		case Next:
			return next(s)
		}
	case StageResults:
		switch a.(type) {
		case Retry:
			return clearRound(s), nil
		case Review:
			s = clearRound(s)
			s.Stage = StageAssignmentInfo
			return s, nil
		}
	}
	return s, badTransition(s.Stage, a)
}

func begin(s Session, a Begin) (Session, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return s, invalid(s.Stage, ErrMissingName)
	}
	if !a.Consent {
		return s, invalid(s.Stage, ErrMissingConsent)
	}
	count := a.QuestionCount
	if count == 0 {
		count = DefaultQuestionCount
	}
	if count < MinQuestionCount || count > MaxQuestionCount {
		return s, invalid(s.Stage, ErrQuestionCount)
	}

	s.LearnerName = name
	s.ConsentGiven = true
	s.QuestionCount = count
	s.Stage = StageAssignmentInfo
	return s, nil
}

func selectMode(s Session, a SelectMode) (Session, error) {
	if a.Mode == ModeNone || a.Mode > ModeBoth {
		return s, invalid(s.Stage, ErrNoMode)
	}
	var grade, score []corpus.Item
	if a.Mode.NeedsGrade() {
		if len(a.Grade) == 0 {
			return s, invalid(s.Stage, ErrEmptyQueue)
		}
		grade = truncate(a.Grade, s.QuestionCount)
	}
	if a.Mode.NeedsScore() {
		if len(a.Score) == 0 {
			return s, invalid(s.Stage, ErrEmptyQueue)
		}
		score = truncate(a.Score, s.QuestionCount)
	}

	s.Mode = a.Mode
	s.GradeQueue = grade
	s.ScoreQueue = score
	s.Results = nil
	if a.Mode == ModeScoreOnly {
		return enter(s, StageScorePractice), nil
	}
	s.Stage = StageChecklist
	return s, nil
}

func submitGrade(s Session, a SubmitGrade) (Session, error) {
	item, ok := s.Current()
	if !ok {
		return s, badTransition(s.Stage, a)
	}
	if s.Answered() {
		return s, nil
	}
	if err := scoring.ValidateGrade(a.Grade); err != nil {
		return s, invalid(s.Stage, err)
	}

	correct := scoring.ScoreGrade(a.Grade, item.Grade)
	return record(s, Outcome{
		ItemID:         item.ID,
		Category:       corpus.GradeEstimation,
		Position:       s.Position,
		Synthetic:      item.Synthetic,
		SubmittedGrade: a.Grade,
		CorrectGrade:   item.Grade,
		IsCorrect:      correct,
	}), nil
}

func submitScores(s Session, a SubmitScores) (Session, error) {
	item, ok := s.Current()
	if !ok {
		return s, badTransition(s.Stage, a)
	}
	if s.Answered() {
		return s, nil
	}
	if err := scoring.ValidateScores(a.Scores); err != nil {
		return s, invalid(s.Stage, err)
	}

	res := scoring.ScoreAll(a.Scores, item.Scores)
	return record(s, Outcome{
		ItemID:          item.ID,
		Category:        corpus.ScoreEstimation,
		Position:        s.Position,
		Synthetic:       item.Synthetic,
		SubmittedScores: a.Scores,
		CorrectScores:   item.Scores,
		Dimensions:      res,
		IsCorrect:       res.AllCorrect,
	}), nil
}

// record appends o without sharing the backing array of the input session.
func record(s Session, o Outcome) Session {
	results := make([]Outcome, len(s.Results), len(s.Results)+1)
	copy(results, s.Results)
	s.Results = append(results, o)
	return s
}

func next(s Session) (Session, error) {
	if !s.Answered() {
		return s, invalid(s.Stage, ErrNotSubmitted)
	}
	s.Position++
	if s.Position < len(s.Queue()) {
		return s, nil
	}
	if s.Stage == StageGradePractice && s.Mode == ModeBoth {
		return enter(s, StageScorePractice), nil
	}
	return enter(s, StageResults), nil
}

func enter(s Session, st Stage) Session {
	s.Stage = st
	s.Position = 0
	return s
}

// clearRound drops everything chosen after the assignment screen.
func clearRound(s Session) Session {
	s.Mode = ModeNone
	s.GradeQueue = nil
	s.ScoreQueue = nil
	s.Results = nil
	return enter(s, StageModeSelection)
}

func truncate(items []corpus.Item, n int) []corpus.Item {
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return slices.Clone(items)
}
