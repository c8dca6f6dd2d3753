// internal/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrInvalidPage is returned when a commit page number is below 1.
var ErrInvalidPage = stderrors.New("page must be 1 or greater")

// ErrInvalidRepoFormat is returned when a repository argument is not in 'owner/name' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name'", e.Repo)
}

// Kind classifies a failed call to the remote API.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// FetchError wraps a remote API failure with its classification.
type FetchError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf reports the classification of err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var fe *FetchError
	if stderrors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a classified not-found failure.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}
