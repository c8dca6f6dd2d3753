// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	custom_errors "github-commit-browser/internal/errors"
	"github-commit-browser/internal/model"
	"github-commit-browser/internal/store"
)

// StateStore is the store surface the API exposes. It is satisfied by *store.Store.
type StateStore interface {
	FetchRepos(ctx context.Context, username string)
	FetchCommits(ctx context.Context, username, repo string, page int) error
	FetchCommitDetails(ctx context.Context, username, repo, sha string) error
	AddFavourite(commit model.Commit)
	RemoveFavourite(sha string)

	Repos() []model.Repository
	Commits() []model.Commit
	Favourites() []model.FavouriteCommit
	CommitDetails() *model.CommitDetail
	ErrorMessage() string
	Snapshot() store.State
	Subscribe() (<-chan store.State, func())
}

var _ StateStore = (*store.Store)(nil)

// Handler is the container for API dependencies.
type Handler struct {
	store  StateStore
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(st StateStore, logger *slog.Logger) http.Handler {
	h := &Handler{
		store:  st,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)

	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		// The event stream is long-lived and stays outside the timeout group.
		r.Get("/state/events", h.streamState)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/state", h.getState)

			r.Post("/users/{username}/repos/fetch", h.fetchRepos)
			r.Get("/repos", h.getRepos)

			r.Post("/repos/{owner}/{name}/commits/fetch", h.fetchCommits)
			r.Get("/commits", h.getCommits)

			r.Post("/repos/{owner}/{name}/commits/{sha}/fetch", h.fetchCommitDetails)
			r.Get("/commit-details", h.getCommitDetails)

			r.Get("/favourites", h.getFavourites)
			r.Post("/favourites", h.addFavourite)
			r.Delete("/favourites/{sha}", h.removeFavourite)
		})
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getState returns the whole store state.
// GET /v1/state
func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.Snapshot())
}

type reposResponse struct {
	Repos []model.Repository `json:"repos"`
	Error string             `json:"error"`
}

// fetchRepos loads a user's repositories. It always answers 200; lookup
// failures are reported through the error field.
// POST /v1/users/{username}/repos/fetch
func (h *Handler) fetchRepos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	h.store.FetchRepos(r.Context(), username)

	respondWithJSON(w, http.StatusOK, reposResponse{
		Repos: h.store.Repos(),
		Error: h.store.ErrorMessage(),
	})
}

// GET /v1/repos
func (h *Handler) getRepos(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, reposResponse{
		Repos: h.store.Repos(),
		Error: h.store.ErrorMessage(),
	})
}

// fetchCommits loads one page of commits; page defaults to 1.
// POST /v1/repos/{owner}/{name}/commits/fetch?page=N
func (h *Handler) fetchCommits(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	name := chi.URLParam(r, "name")

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid 'page' parameter. Must be a positive integer.")
			return
		}
		page = p
	}

	if err := h.store.FetchCommits(r.Context(), owner, name, page); err != nil {
		h.respondWithFetchError(w, "Failed to fetch commits", err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.store.Commits())
}

// GET /v1/commits
func (h *Handler) getCommits(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.Commits())
}

// POST /v1/repos/{owner}/{name}/commits/{sha}/fetch
func (h *Handler) fetchCommitDetails(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	name := chi.URLParam(r, "name")
	sha := chi.URLParam(r, "sha")

	if err := h.store.FetchCommitDetails(r.Context(), owner, name, sha); err != nil {
		h.respondWithFetchError(w, "Failed to fetch commit details", err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.store.CommitDetails())
}

// GET /v1/commit-details
func (h *Handler) getCommitDetails(w http.ResponseWriter, r *http.Request) {
	detail := h.store.CommitDetails()
	if detail == nil {
		respondWithError(w, http.StatusNotFound, "No commit selected")
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

// GET /v1/favourites
func (h *Handler) getFavourites(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.Favourites())
}

// addFavourite bookmarks the commit in the request body. Re-adding a known
// sha succeeds without changing anything.
// POST /v1/favourites
func (h *Handler) addFavourite(w http.ResponseWriter, r *http.Request) {
	var commit model.Commit
	if err := json.NewDecoder(r.Body).Decode(&commit); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid commit body")
		return
	}
	if commit.SHA == "" {
		respondWithError(w, http.StatusBadRequest, "Commit sha is required")
		return
	}

	h.store.AddFavourite(commit)

	respondWithJSON(w, http.StatusOK, h.store.Favourites())
}

// DELETE /v1/favourites/{sha}
func (h *Handler) removeFavourite(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveFavourite(chi.URLParam(r, "sha"))
	respondWithJSON(w, http.StatusOK, h.store.Favourites())
}

// respondWithFetchError maps a classified fetch failure to a status code.
func (h *Handler) respondWithFetchError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, custom_errors.ErrInvalidPage):
		respondWithError(w, http.StatusBadRequest, "Invalid 'page' parameter. Must be a positive integer.")
	case custom_errors.KindOf(err) == custom_errors.KindNotFound:
		respondWithError(w, http.StatusNotFound, "Not found")
	case custom_errors.KindOf(err) == custom_errors.KindTransport:
		h.logger.Warn(msg, "error", err)
		respondWithError(w, http.StatusBadGateway, "Upstream request failed")
	default:
		h.logger.Error(msg, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
