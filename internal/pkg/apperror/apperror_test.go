package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	sentinel := New(http.StatusConflict, ReasonConflict, "time slot already booked")
	cause := errors.New("exclusion violation")

	wrapped := Wrap(sentinel, cause)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, sentinel.Message, wrapped.Error())
}

func TestReasonOf(t *testing.T) {
	sentinel := New(http.StatusNotFound, ReasonNotFound, "reservation not found")

	assert.Equal(t, ReasonNotFound, ReasonOf(sentinel))
	assert.Equal(t, ReasonNotFound, ReasonOf(fmt.Errorf("lookup: %w", sentinel)))
	assert.Equal(t, ReasonInternal, ReasonOf(errors.New("boom")))
}

func TestDistinctSentinelsDoNotMatch(t *testing.T) {
	a := New(http.StatusNotFound, ReasonNotFound, "requester not found")
	b := New(http.StatusNotFound, ReasonNotFound, "facility not found")

	assert.False(t, errors.Is(a, b))
}
