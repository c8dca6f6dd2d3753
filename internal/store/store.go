// internal/store/store.go
package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	custom_errors "github-commit-browser/internal/errors"
	"github-commit-browser/internal/model"
)

// Messages surfaced through the error field by FetchRepos.
const (
	MsgNoRepositories  = "No repositories found."
	MsgInvalidUsername = "Invalid username."
	MsgFetchReposError = "Error fetching repositories."
)

// GitHub is the remote API the store reads from. It is satisfied by
// *github.Client and can be replaced with a mock for testing.
type GitHub interface {
	ListUserRepos(ctx context.Context, username string) ([]model.Repository, error)
	ListCommits(ctx context.Context, owner, name string, page int) ([]model.Commit, error)
	GetCommit(ctx context.Context, owner, name, sha string) (*model.CommitDetail, error)
}

// State is a point-in-time copy of everything the store holds.
type State struct {
	Repos         []model.Repository      `json:"repos"`
	Commits       []model.Commit          `json:"commits"`
	Favourites    []model.FavouriteCommit `json:"favourites"`
	CommitDetails *model.CommitDetail     `json:"commitDetails"`
	Error         string                  `json:"error"`
}

// Store is the single source of truth for fetched GitHub data and
// user-curated favourites. All network access goes through it.
//
// The mutex guards state only; it is never held across a remote call, so
// concurrent FetchCommits calls apply their pages in arrival order.
type Store struct {
	gh     GitHub
	logger *slog.Logger

	mu    sync.RWMutex
	state State
	subs  map[int]chan State
	next  int
}

// New creates a Store backed by gh. A nil logger discards all output.
func New(gh GitHub, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		gh:     gh,
		logger: logger,
		subs:   make(map[int]chan State),
	}
	s.state = initialState()
	return s
}

func initialState() State {
	return State{
		Repos:      []model.Repository{},
		Commits:    []model.Commit{},
		Favourites: []model.FavouriteCommit{},
	}
}

// Reset restores the initial empty state. Subscribers are kept.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = initialState()
	s.mu.Unlock()
	s.notify()
}

// FetchRepos loads the repositories of username. Failures never escape:
// they are turned into a user-facing message in the error field.
func (s *Store) FetchRepos(ctx context.Context, username string) {
	logger := s.logger.With("username", username)

	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()

	repos, err := s.gh.ListUserRepos(ctx, username)

	s.mu.Lock()
	switch {
	case err != nil && custom_errors.IsNotFound(err):
		logger.Debug("User not found", "error", err)
		s.state.Error = MsgInvalidUsername
	case err != nil:
		logger.Debug("Fetching repositories failed", "error", err)
		s.state.Error = MsgFetchReposError
	default:
		if repos == nil {
			repos = []model.Repository{}
		}
		s.state.Repos = repos
		if len(repos) == 0 {
			s.state.Error = MsgNoRepositories
		}
		logger.Debug("Repositories loaded", "count", len(repos))
	}
	s.mu.Unlock()
	s.notify()
}

// FetchCommits loads one page of commits for username/repo. Page 1 replaces
// the commit list; later pages are appended in response order without
// deduplication. Failures are returned unchanged and leave state untouched.
func (s *Store) FetchCommits(ctx context.Context, username, repo string, page int) error {
	if page < 1 {
		return fmt.Errorf("fetch commits page %d: %w", page, custom_errors.ErrInvalidPage)
	}
	s.logger.Debug("Fetching commits", "username", username, "repo", repo, "page", page)

	commits, err := s.gh.ListCommits(ctx, username, repo, page)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if page == 1 {
		s.state.Commits = append([]model.Commit{}, commits...)
	} else {
		s.state.Commits = append(s.state.Commits, commits...)
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchCommitDetails replaces the current commit detail with that of sha.
// Failures are returned unchanged and leave state untouched.
func (s *Store) FetchCommitDetails(ctx context.Context, username, repo, sha string) error {
	s.logger.Debug("Fetching commit details", "username", username, "repo", repo, "sha", sha)

	detail, err := s.gh.GetCommit(ctx, username, repo, sha)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state.CommitDetails = detail
	s.mu.Unlock()
	s.notify()
	return nil
}

// AddFavourite bookmarks commit unless its sha is already a favourite.
func (s *Store) AddFavourite(commit model.Commit) {
	s.mu.Lock()
	exists := slices.ContainsFunc(s.state.Favourites, func(f model.FavouriteCommit) bool {
		return f.SHA == commit.SHA
	})
	if exists {
		s.mu.Unlock()
		return
	}
	s.state.Favourites = append(s.state.Favourites, model.FavouriteFromCommit(commit))
	s.mu.Unlock()
	s.notify()
}

// RemoveFavourite drops every favourite with the given sha.
func (s *Store) RemoveFavourite(sha string) {
	s.mu.Lock()
	before := len(s.state.Favourites)
	s.state.Favourites = slices.DeleteFunc(slices.Clone(s.state.Favourites), func(f model.FavouriteCommit) bool {
		return f.SHA == sha
	})
	changed := len(s.state.Favourites) != before
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Repos returns a copy of the repository list.
func (s *Store) Repos() []model.Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Repos)
}

// Commits returns a copy of the accumulated commit list.
func (s *Store) Commits() []model.Commit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Commits)
}

// Favourites returns a copy of the favourites in insertion order.
func (s *Store) Favourites() []model.FavouriteCommit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Favourites)
}

// CommitDetails returns the most recently fetched detail, or nil.
func (s *Store) CommitDetails() *model.CommitDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDetail(s.state.CommitDetails)
}

// ErrorMessage returns the current error message; empty means no error.
func (s *Store) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Error
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return State{
		Repos:         slices.Clone(s.state.Repos),
		Commits:       slices.Clone(s.state.Commits),
		Favourites:    slices.Clone(s.state.Favourites),
		CommitDetails: cloneDetail(s.state.CommitDetails),
		Error:         s.state.Error,
	}
}

func cloneDetail(d *model.CommitDetail) *model.CommitDetail {
	if d == nil {
		return nil
	}
	c := *d
	c.Files = slices.Clone(d.Files)
	return &c
}
