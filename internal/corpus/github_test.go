package corpus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGitHubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/essays/contents/data/grade", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name": "1.txt", "type": "file"},
			{"name": "2.txt", "type": "file"},
			{"name": "README.md", "type": "file"},
			{"name": "old", "type": "dir"}
		]`))
	})
	mux.HandleFunc("/acme/essays/main/data/grade/1.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validRecord(1, 2)))
	})
	mux.HandleFunc("/acme/essays/main/data/grade/2.txt", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testGitHubSource(srv *httptest.Server) *GitHubSource {
	return NewGitHubSource(GitHubConfig{
		APIURL: srv.URL,
		RawURL: srv.URL,
		Owner:  "acme",
		Repo:   "essays",
		Folder: "data/grade",
		Client: srv.Client(),
	})
}

func TestGitHubSource_List(t *testing.T) {
	src := testGitHubSource(newGitHubServer(t))

	keys, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1.txt", "2.txt", "README.md"}, keys)
	assert.Equal(t, "github:acme/essays/data/grade@main", src.Name())
}

func TestGitHubSource_FetchStatusError(t *testing.T) {
	src := testGitHubSource(newGitHubServer(t))

	raw, err := src.Fetch(context.Background(), "1.txt")
	require.NoError(t, err)
	assert.Equal(t, validRecord(1, 2), string(raw))

	_, err = src.Fetch(context.Background(), "2.txt")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestGitHubSource_ListFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testGitHubSource(srv).List(context.Background())
	assert.ErrorContains(t, err, "HTTP 403")
}

func TestGitHubSource_ThroughLoader(t *testing.T) {
	src := testGitHubSource(newGitHubServer(t))

	items, rep, err := newTestLoader(t).Load(context.Background(), src, GradeEstimation)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, 2, rep.Candidates)
	require.Len(t, rep.Skipped, 1)
	assert.Equal(t, "2.txt", rep.Skipped[0].Key)
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "data/f%20grade", escapePath("/data/f grade/"))
}
