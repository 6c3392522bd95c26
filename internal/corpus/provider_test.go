package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sepme/sepme/internal/scoring"
)

// countingSource wraps memSource to count List calls.
type countingSource struct {
	*memSource
	lists int
}

func (c *countingSource) List(ctx context.Context) ([]string, error) {
	c.lists++
	return c.memSource.List(ctx)
}

func TestProvider_CachesUntilInvalidated(t *testing.T) {
	src := &countingSource{memSource: &memSource{
		name:    "mem",
		records: map[string]string{"1.txt": validRecord(1, 3)},
	}}
	p := NewProvider(newTestLoader(t), map[Category]Source{GradeEstimation: src}, false, nil)

	c, err := p.Get(context.Background(), GradeEstimation)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
	assert.False(t, c.Synthetic)

	_, err = p.Get(context.Background(), GradeEstimation)
	require.NoError(t, err)
	assert.Equal(t, 1, src.lists)

	p.Invalidate()
	_, err = p.Get(context.Background(), GradeEstimation)
	require.NoError(t, err)
	assert.Equal(t, 2, src.lists)
}

func TestProvider_PlaceholderFallback(t *testing.T) {
	src := &memSource{name: "mem", listErr: errors.New("offline")}
	p := NewProvider(newTestLoader(t), map[Category]Source{ScoreEstimation: src}, true, nil)

	c, err := p.Get(context.Background(), ScoreEstimation)
	require.NoError(t, err)
	assert.True(t, c.Synthetic)
	assert.ErrorIs(t, c.Warning, ErrCorpusUnavailable)
	require.NotEmpty(t, c.Items)
	for _, it := range c.Items {
		assert.True(t, it.Synthetic)
		assert.Equal(t, ScoreEstimation, it.Category)
		assert.Less(t, it.ID, 0)
	}
}

func TestProvider_NoFallbackReturnsError(t *testing.T) {
	src := &memSource{name: "mem", listErr: errors.New("offline")}
	p := NewProvider(newTestLoader(t), map[Category]Source{ScoreEstimation: src}, false, nil)

	c, err := p.Get(context.Background(), ScoreEstimation)
	assert.ErrorIs(t, err, ErrCorpusUnavailable)
	assert.Empty(t, c.Items)
}

func TestProvider_MissingSource(t *testing.T) {
	p := NewProvider(newTestLoader(t), nil, false, nil)

	_, err := p.Get(context.Background(), GradeEstimation)
	assert.ErrorIs(t, err, ErrCorpusUnavailable)

	p = NewProvider(newTestLoader(t), nil, true, nil)
	c, err := p.Get(context.Background(), GradeEstimation)
	require.NoError(t, err)
	assert.True(t, c.Synthetic)
}

func TestProvider_CancelledContextIsNotMasked(t *testing.T) {
	src := &memSource{name: "mem", records: map[string]string{"1.txt": validRecord(1, 3)}}
	p := NewProvider(newTestLoader(t), map[Category]Source{GradeEstimation: src}, true, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Get(ctx, GradeEstimation)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlaceholder_ScoresAreInRange(t *testing.T) {
	for _, it := range Placeholder(GradeEstimation) {
		assert.GreaterOrEqual(t, len([]rune(it.Text)), DefaultMinTextLength)
		assert.NoError(t, scoring.ValidateGrade(it.Grade))
		assert.NoError(t, scoring.ValidateScores(it.Scores))
	}
}
