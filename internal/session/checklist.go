package session

// DefaultChecklist is the metacognition checklist confirmed before grade
// practice.
var DefaultChecklist = []string{
	"Have you set a purpose and strategy for this assessment?",
	"Have you reviewed the scoring rubric?",
	"Have you noted the features of the sample essay?",
	"Have you recalled essays of a similar level?",
	"Are you assessing consistently?",
	"Is your assessment fair and objective?",
	"Have you reflected on your assessment process?",
}

// ChecklistComplete reports whether checks confirms every item of
// DefaultChecklist.
func ChecklistComplete(checks []bool) bool {
	if len(checks) != len(DefaultChecklist) {
		return false
	}
	for _, c := range checks {
		if !c {
			return false
		}
	}
	return true
}

// ScoreChecklist is listed on the assignment screen as a reminder before
// score practice. Nothing confirms it.
var ScoreChecklist = []string{
	"I understand the writing task and what it asks for.",
	"I know the content, organization and expression criteria.",
	"I remember the ranges: content 3-18, organization and expression 2-12.",
	"I understand that each sub-score counts within ±1 point.",
	"I am ready to assess the essays objectively.",
}
