// internal/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	custom_errors "github-commit-browser/internal/errors"
	"github-commit-browser/internal/model"
)

// CommitsPerPage is the fixed page size used when listing commits.
const CommitsPerPage = 10

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com/"

// Client is a wrapper around the go-github client. Requests are anonymous.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates a Client talking to baseURL. A zero timeout leaves the
// underlying http.Client without one.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	gh := github.NewClient(&http.Client{Timeout: timeout})
	gh.BaseURL = u

	return &Client{
		gh:     gh,
		logger: logger,
	}, nil
}

// ListUserRepos fetches the repository list of a user, as a single
// unparameterised request.
func (c *Client) ListUserRepos(ctx context.Context, username string) ([]model.Repository, error) {
	c.logger.Debug("Fetching user repositories", "username", username)

	repos, _, err := c.gh.Repositories.ListByUser(ctx, username, nil)
	if err != nil {
		return nil, classify("list repositories", err)
	}

	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, toInternalRepository(r))
	}
	return out, nil
}

// ListCommits fetches one page of a repository's commits.
func (c *Client) ListCommits(ctx context.Context, owner, name string, page int) ([]model.Commit, error) {
	c.logger.Debug("Fetching commits page", "owner", owner, "repo", name, "page", page)

	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: CommitsPerPage,
		},
	}
	commits, _, err := c.gh.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		return nil, classify("list commits", err)
	}

	out := make([]model.Commit, 0, len(commits))
	for _, commit := range commits {
		out = append(out, toInternalCommit(commit))
	}
	return out, nil
}

// GetCommit fetches the detail of a single commit.
func (c *Client) GetCommit(ctx context.Context, owner, name, sha string) (*model.CommitDetail, error) {
	c.logger.Debug("Fetching commit detail", "owner", owner, "repo", name, "sha", sha)

	commit, _, err := c.gh.Repositories.GetCommit(ctx, owner, name, sha, nil)
	if err != nil {
		return nil, classify("get commit", err)
	}
	return toInternalCommitDetail(commit), nil
}

// classify tags a go-github failure with a transport-independent kind.
func classify(op string, err error) error {
	kind := custom_errors.KindUnknown

	var (
		errResp  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		urlErr   *url.Error
	)
	switch {
	case errors.As(err, &errResp):
		if errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
			kind = custom_errors.KindNotFound
		} else {
			kind = custom_errors.KindTransport
		}
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		kind = custom_errors.KindTransport
	case errors.Is(err, context.Canceled):
		kind = custom_errors.KindUnknown
	case errors.As(err, &urlErr):
		kind = custom_errors.KindTransport
	}

	return &custom_errors.FetchError{Kind: kind, Op: op, Err: err}
}

// toInternalRepository translates a github.Repository object to our internal model.Repository.
func toInternalRepository(r *github.Repository) model.Repository {
	return model.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		Description: r.Description,
	}
}

// toInternalCommit translates a github.RepositoryCommit object to our internal model.Commit.
func toInternalCommit(c *github.RepositoryCommit) model.Commit {
	commit := model.Commit{
		SHA: c.GetSHA(),
		Commit: model.CommitInfo{
			Message: c.GetCommit().GetMessage(),
			Author: model.CommitAuthor{
				Name: c.GetCommit().GetAuthor().GetName(),
				Date: formatTimestamp(c.GetCommit().GetAuthor().GetDate()),
			},
		},
	}
	if u := c.GetAuthor(); u != nil {
		commit.Author = &model.Committer{
			Login:     u.GetLogin(),
			AvatarURL: u.GetAvatarURL(),
		}
	}
	return commit
}

func toInternalCommitDetail(c *github.RepositoryCommit) *model.CommitDetail {
	detail := &model.CommitDetail{
		SHA: c.GetSHA(),
		Stats: model.CommitStats{
			Total:     c.GetStats().GetTotal(),
			Additions: c.GetStats().GetAdditions(),
			Deletions: c.GetStats().GetDeletions(),
		},
		Files: make([]model.CommitFile, 0, len(c.Files)),
	}
	for _, f := range c.Files {
		detail.Files = append(detail.Files, model.CommitFile{
			Filename:  f.GetFilename(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Patch:     f.Patch,
		})
	}
	return detail
}

func formatTimestamp(ts github.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
