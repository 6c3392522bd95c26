package feedback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sepme/sepme/internal/corpus"
)

func TestResolver_RemoteFeedback(t *testing.T) {
	var heads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		heads.Add(1)
		switch r.URL.Path {
		case "/data/f_grade/7.png", "/data/f_score/8.png", "/data/standard.png":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := NewResolver(Config{Base: srv.URL + "/data/", Client: srv.Client()}, nil)
	ctx := context.Background()

	ref, err := r.Feedback(ctx, corpus.GradeEstimation, 7)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/data/f_grade/7.png", ref)

	ref, err = r.Feedback(ctx, corpus.ScoreEstimation, 8)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/data/f_score/8.png", ref)

	_, err = r.Feedback(ctx, corpus.ScoreEstimation, 7)
	assert.ErrorIs(t, err, ErrImageUnavailable)

	_, err = r.Asset(ctx, "standard.png")
	assert.NoError(t, err)

	// Cached: no further requests.
	before := heads.Load()
	_, _ = r.Feedback(ctx, corpus.GradeEstimation, 7)
	_, _ = r.Feedback(ctx, corpus.ScoreEstimation, 7)
	assert.Equal(t, before, heads.Load())
}

func TestResolver_LocalDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "f_grade"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f_grade", "3.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompt.jpg"), []byte("jpg"), 0o644))

	r := NewResolver(Config{Base: dir}, nil)
	ctx := context.Background()

	ref, err := r.Feedback(ctx, corpus.GradeEstimation, 3)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "f_grade", "3.png"), ref)

	_, err = r.Feedback(ctx, corpus.GradeEstimation, 4)
	assert.ErrorIs(t, err, ErrImageUnavailable)

	ref, err = r.Asset(ctx, "prompt.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prompt.jpg"), ref)

	_, err = r.Asset(ctx, "f_grade")
	assert.ErrorIs(t, err, ErrImageUnavailable, "directories are not images")
}

func TestResolver_Unavailable(t *testing.T) {
	ctx := context.Background()

	_, err := NewResolver(Config{}, nil).Feedback(ctx, corpus.GradeEstimation, 1)
	assert.ErrorIs(t, err, ErrImageUnavailable)

	_, err = NewResolver(Config{Base: t.TempDir()}, nil).Feedback(ctx, corpus.GradeEstimation, -2)
	assert.ErrorIs(t, err, ErrImageUnavailable)

	_, err = NewResolver(Config{Base: t.TempDir()}, nil).Asset(ctx, "")
	assert.ErrorIs(t, err, ErrImageUnavailable)
}
