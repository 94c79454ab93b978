package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	errMissing := NewDomainError("MISSING", "Thing is missing")

	t.Run("message", func(t *testing.T) {
		assert.Equal(t, "Thing is missing", errMissing.Error())
	})

	t.Run("matches by code", func(t *testing.T) {
		other := NewDomainError("MISSING", "different text")
		assert.ErrorIs(t, other, errMissing)
		assert.NotErrorIs(t, NewDomainError("OTHER", "Thing is missing"), errMissing)
	})

	t.Run("wrapped cause", func(t *testing.T) {
		cause := errors.New("disk on fire")
		err := fmt.Errorf("loading: %w", errMissing.Wrap(cause))

		assert.ErrorIs(t, err, errMissing)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "loading: Thing is missing: disk on fire", err.Error())

		var domainErr *DomainError
		assert.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "Thing is missing", domainErr.Message)
	})
}
