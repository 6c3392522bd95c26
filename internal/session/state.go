package session

import (
	"github.com/sepme/sepme/internal/corpus"
	"github.com/sepme/sepme/internal/scoring"
)

// Question count bounds. The count is chosen before practice starts and
// applies to each practice stage separately.
const (
	MinQuestionCount     = 1
	MaxQuestionCount     = 15
	DefaultQuestionCount = 3
)

// Stage is the wizard screen the learner is on.
type Stage int

const (
	StageIntro          Stage = iota // Name, consent, question count
	StageAssignmentInfo              // Writing task and rubric images
	StageModeSelection
	StageChecklist // Metacognition checklist before grade practice
	StageGradePractice
	StageScorePractice
	StageResults
)

func (s Stage) String() string {
	switch s {
	case StageIntro:
		return "intro"
	case StageAssignmentInfo:
		return "assignment"
	case StageModeSelection:
		return "mode-selection"
	case StageChecklist:
		return "checklist"
	case StageGradePractice:
		return "grade-practice"
	case StageScorePractice:
		return "score-practice"
	case StageResults:
		return "results"
	default:
		return "unknown"
	}
}

// Practicing reports whether s is one of the per-item practice stages.
func (s Stage) Practicing() bool {
	return s == StageGradePractice || s == StageScorePractice
}

// Mode is the practice mode picked on the mode selection screen.
// The zero value means no mode has been chosen yet.
type Mode int

const (
	ModeNone Mode = iota
	ModeGradeOnly
	ModeScoreOnly
	ModeBoth
)

// Modes lists the selectable modes in menu order.
var Modes = []Mode{ModeGradeOnly, ModeScoreOnly, ModeBoth}

func (m Mode) String() string {
	switch m {
	case ModeGradeOnly:
		return "grade-only"
	case ModeScoreOnly:
		return "score-only"
	case ModeBoth:
		return "both"
	default:
		return "none"
	}
}

// DisplayName returns the menu label for m.
func (m Mode) DisplayName() string {
	switch m {
	case ModeGradeOnly:
		return "Grade estimation only"
	case ModeScoreOnly:
		return "Score estimation only"
	case ModeBoth:
		return "Both practices"
	default:
		return "None"
	}
}

// ParseMode converts a String() value back into a Mode.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes {
		if m.String() == s {
			return m, true
		}
	}
	return ModeNone, false
}

// NeedsGrade reports whether m includes grade practice.
func (m Mode) NeedsGrade() bool { return m == ModeGradeOnly || m == ModeBoth }

// NeedsScore reports whether m includes score practice.
func (m Mode) NeedsScore() bool { return m == ModeScoreOnly || m == ModeBoth }

// Outcome is the recorded result of one submitted answer.
type Outcome struct {
	ItemID    int
	Category  corpus.Category
	Position  int // index into the stage queue
	Synthetic bool

	// Grade practice.
	SubmittedGrade int
	CorrectGrade   int

	// Score practice.
	SubmittedScores scoring.Scores
	CorrectScores   scoring.Scores
	Dimensions      scoring.Result

	// IsCorrect is the grade match, or Dimensions.AllCorrect for score practice.
	IsCorrect bool
}

// Session is one learner's progress through the wizard. It is a value:
// Step returns a new Session and never mutates the one it is given.
type Session struct {
	LearnerName   string
	ConsentGiven  bool
	QuestionCount int
	Mode          Mode
	Stage         Stage

	// Queues are fixed when the mode is selected.
	GradeQueue []corpus.Item
	ScoreQueue []corpus.Item

	// Position is the cursor into the queue of the current practice stage.
	Position int

	Results []Outcome
}

// New returns a session on the intro screen.
func New() Session {
	return Session{}
}

// Queue returns the item queue of the current practice stage, or nil
// outside practice.
func (s Session) Queue() []corpus.Item {
	switch s.Stage {
	case StageGradePractice:
		return s.GradeQueue
	case StageScorePractice:
		return s.ScoreQueue
	}
	return nil
}

// Current returns the item at Position.
func (s Session) Current() (corpus.Item, bool) {
	q := s.Queue()
	if s.Position < 0 || s.Position >= len(q) {
		return corpus.Item{}, false
	}
	return q[s.Position], true
}

// CurrentOutcome returns the outcome recorded for the current item, if the
// learner has already submitted it.
func (s Session) CurrentOutcome() (Outcome, bool) {
	cat, ok := stageCategory(s.Stage)
	if !ok {
		return Outcome{}, false
	}
	for i := len(s.Results) - 1; i >= 0; i-- {
		o := s.Results[i]
		if o.Category == cat && o.Position == s.Position {
			return o, true
		}
	}
	return Outcome{}, false
}

// Answered reports whether the current item has been submitted.
func (s Session) Answered() bool {
	_, ok := s.CurrentOutcome()
	return ok
}

// Synthetic reports whether any queued item came from the placeholder corpus.
func (s Session) Synthetic() bool {
	for _, q := range [][]corpus.Item{s.GradeQueue, s.ScoreQueue} {
		for _, it := range q {
			if it.Synthetic {
				return true
			}
		}
	}
	return false
}

func stageCategory(st Stage) (corpus.Category, bool) {
	switch st {
	case StageGradePractice:
		return corpus.GradeEstimation, true
	case StageScorePractice:
		return corpus.ScoreEstimation, true
	}
	return 0, false
}
