// internal/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := stderrors.New("status 404")
	notFound := &FetchError{Kind: KindNotFound, Op: "list repositories", Err: cause}

	assert.Equal(t, KindNotFound, KindOf(notFound))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", notFound)))
	assert.Equal(t, KindUnknown, KindOf(stderrors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(&FetchError{Kind: KindTransport, Op: "list commits", Err: cause}))

	assert.ErrorIs(t, notFound, cause)
	assert.Equal(t, "list repositories: not_found: status 404", notFound.Error())
}

func TestErrInvalidRepoFormat(t *testing.T) {
	err := &ErrInvalidRepoFormat{Repo: "octocat"}
	assert.Equal(t, `invalid repository format: "octocat", expected 'owner/name'`, err.Error())
}
