package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sepme/sepme/internal/router"
	"github.com/sepme/sepme/internal/store"
)

type mockRepo struct {
	sessions     []store.SessionRecord
	outcomes     map[string][]store.OutcomeRecord
	err          error
	outcomeCalls int
}

func (m *mockRepo) SaveSession(context.Context, *store.SessionRecord) error { return nil }

func (m *mockRepo) RecentSessions(context.Context, int) ([]store.SessionRecord, error) {
	return m.sessions, m.err
}

func (m *mockRepo) Outcomes(_ context.Context, id string) ([]store.OutcomeRecord, error) {
	m.outcomeCalls++
	return m.outcomes[id], nil
}

func (m *mockRepo) Reset(context.Context) (int64, error) { return 0, nil }

func testRepo() *mockRepo {
	return &mockRepo{
		sessions: []store.SessionRecord{
			{ID: "b", Learner: "Mina", Mode: "grade-only", Total: 3, Correct: 2, Accuracy: 2.0 / 3, FinishedAt: time.Now()},
			{ID: "a", Learner: "Joon", Mode: "score", Total: 1, Correct: 0, FinishedAt: time.Now().Add(-time.Hour), Synthetic: true},
		},
		outcomes: map[string][]store.OutcomeRecord{
			"b": {{Category: "grade", ItemID: 7, SubmittedGrade: 2, CorrectGrade: 2, Correct: true}},
		},
	}
}

func loaded(t *testing.T, repo *mockRepo) *HistoryScreen {
	t.Helper()
	s := New(repo)
	s.Update(s.Init()())
	require.True(t, s.loaded)
	return s
}

func TestHistory_ListsSessions(t *testing.T) {
	view := loaded(t, testRepo()).View(100, 30)
	assert.Contains(t, view, "Mina")
	assert.Contains(t, view, "2/3 correct")
	assert.Contains(t, view, "Grade estimation only")
	assert.Contains(t, view, "(sample essays)")
}

func TestHistory_Empty(t *testing.T) {
	view := loaded(t, &mockRepo{}).View(100, 30)
	assert.Contains(t, view, "No rounds yet")
}

func TestHistory_LoadError(t *testing.T) {
	view := loaded(t, &mockRepo{err: errors.New("db locked")}).View(100, 30)
	assert.Contains(t, view, "db locked")
}

func TestHistory_ExpandLoadsOutcomesOnce(t *testing.T) {
	repo := testRepo()
	s := loaded(t, repo)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Contains(t, s.View(100, 30), "loading...")

	s.Update(cmd())
	assert.Contains(t, s.View(100, 30), "grade 2, reference 2")

	// Collapse and expand again: cached.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, repo.outcomeCalls)
}

func TestHistory_Navigation(t *testing.T) {
	s := loaded(t, testRepo())
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected)
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.selected)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}
