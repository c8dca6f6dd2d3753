// internal/model/models.go
package model

// Repository is a snapshot of one repository as listed for a user.
type Repository struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CommitAuthor is the git-level author recorded in the commit object.
type CommitAuthor struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// CommitInfo holds the git commit payload nested under a listed commit.
type CommitInfo struct {
	Message string       `json:"message"`
	Author  CommitAuthor `json:"author"`
}

// Committer is the GitHub account linked to a commit, when there is one.
type Committer struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Commit is one entry of a repository's commit history.
type Commit struct {
	SHA    string     `json:"sha"`
	Commit CommitInfo `json:"commit"`
	Author *Committer `json:"author,omitempty"`
}

// CommitStats sums line changes across all files of a commit.
type CommitStats struct {
	Total     int `json:"total"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// CommitFile describes the change to a single file.
type CommitFile struct {
	Filename  string  `json:"filename"`
	Additions int     `json:"additions"`
	Deletions int     `json:"deletions"`
	Patch     *string `json:"patch,omitempty"`
}

// CommitDetail is the full view of a single commit.
type CommitDetail struct {
	SHA   string       `json:"sha"`
	Stats CommitStats  `json:"stats"`
	Files []CommitFile `json:"files"`
}

// FavouriteCommit is a bookmarked commit, keyed by SHA.
type FavouriteCommit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// FavouriteFromCommit projects a commit onto its favourite form.
func FavouriteFromCommit(c Commit) FavouriteCommit {
	return FavouriteCommit{
		SHA:     c.SHA,
		Message: c.Commit.Message,
	}
}
