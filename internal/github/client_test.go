// internal/github/client_test.go
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "github-commit-browser/internal/errors"
	"github-commit-browser/internal/model"
)

// setupTestClient creates a httptest server and a client pointing to it.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := NewClient(server.URL, 5*time.Second, logger)
	require.NoError(t, err)

	return client, server
}

func TestClient_ListUserRepos(t *testing.T) {
	t.Run("decodes the repository list without auth", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/octocat/repos", r.URL.Path)
			assert.Empty(t, r.URL.RawQuery)
			assert.Empty(t, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[
				{"id": 1, "name": "hello", "description": "first"},
				{"id": 2, "name": "world", "description": null}
			]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		repos, err := client.ListUserRepos(context.Background(), "octocat")

		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, int64(1), repos[0].ID)
		assert.Equal(t, "hello", repos[0].Name)
		require.NotNil(t, repos[0].Description)
		assert.Equal(t, "first", *repos[0].Description)
		assert.Nil(t, repos[1].Description)
	})

	t.Run("empty list is not an error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `[]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		repos, err := client.ListUserRepos(context.Background(), "empty")

		require.NoError(t, err)
		assert.NotNil(t, repos)
		assert.Empty(t, repos)
	})

	t.Run("classifies 404 as not found", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.ListUserRepos(context.Background(), "nobody")

		require.Error(t, err)
		assert.True(t, custom_errors.IsNotFound(err))
	})

	t.Run("classifies server errors as transport without retrying", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusInternalServerError)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.ListUserRepos(context.Background(), "octocat")

		require.Error(t, err)
		assert.Equal(t, custom_errors.KindTransport, custom_errors.KindOf(err))
		assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
	})

	t.Run("classifies an unreachable server as transport", func(t *testing.T) {
		client, server := setupTestClient(t, http.NotFoundHandler())
		server.Close()

		_, err := client.ListUserRepos(context.Background(), "octocat")

		require.Error(t, err)
		assert.Equal(t, custom_errors.KindTransport, custom_errors.KindOf(err))
	})

	t.Run("classifies malformed bodies as unknown", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `{not json`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.ListUserRepos(context.Background(), "octocat")

		require.Error(t, err)
		assert.Equal(t, custom_errors.KindUnknown, custom_errors.KindOf(err))
	})
}

func TestClient_ListCommits(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello/commits", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		fmt.Fprintln(w, `[
			{"sha": "abc", "commit": {"author": {"name": "tester", "date": "2024-01-01T12:00:00Z"}, "message": "feat: new feature"}, "author": {"login": "tester", "avatar_url": "https://avatars.example/t"}},
			{"sha": "def", "commit": {"author": {"name": "ghost", "date": "2024-01-02T12:00:00Z"}, "message": "fix: a bug"}, "author": null}
		]`)
	})
	client, server := setupTestClient(t, handler)
	defer server.Close()

	commits, err := client.ListCommits(context.Background(), "octocat", "hello", 3)

	require.NoError(t, err)
	assert.Equal(t, []model.Commit{
		{
			SHA: "abc",
			Commit: model.CommitInfo{
				Message: "feat: new feature",
				Author:  model.CommitAuthor{Name: "tester", Date: "2024-01-01T12:00:00Z"},
			},
			Author: &model.Committer{Login: "tester", AvatarURL: "https://avatars.example/t"},
		},
		{
			SHA: "def",
			Commit: model.CommitInfo{
				Message: "fix: a bug",
				Author:  model.CommitAuthor{Name: "ghost", Date: "2024-01-02T12:00:00Z"},
			},
		},
	}, commits)
}

func TestClient_GetCommit(t *testing.T) {
	t.Run("maps stats and files", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/octocat/hello/commits/abc", r.URL.Path)
			fmt.Fprintln(w, `{
				"sha": "abc",
				"stats": {"total": 7, "additions": 5, "deletions": 2},
				"files": [
					{"filename": "main.go", "additions": 5, "deletions": 1, "patch": "@@ -1 +1 @@"},
					{"filename": "logo.png", "additions": 0, "deletions": 1}
				]
			}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		detail, err := client.GetCommit(context.Background(), "octocat", "hello", "abc")

		require.NoError(t, err)
		assert.Equal(t, "abc", detail.SHA)
		assert.Equal(t, model.CommitStats{Total: 7, Additions: 5, Deletions: 2}, detail.Stats)
		require.Len(t, detail.Files, 2)
		require.NotNil(t, detail.Files[0].Patch)
		assert.Equal(t, "@@ -1 +1 @@", *detail.Files[0].Patch)
		assert.Nil(t, detail.Files[1].Patch)
	})

	t.Run("classifies an unknown sha as not found", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "No commit found for SHA: nope"}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.GetCommit(context.Background(), "octocat", "hello", "nope")

		assert.True(t, custom_errors.IsNotFound(err))
	})
}
