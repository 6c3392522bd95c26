package practice

// feedbackResolvedMsg carries the feedback image lookup for one item.
type feedbackResolvedMsg struct {
	ItemID int
	Ref    string
	Err    error
}
