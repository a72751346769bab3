package entities

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepErrorUnwraps(t *testing.T) {
	inner := fmt.Errorf("%w: @a-result-0 after 5s", ErrTimeout)
	err := NewStepError("select result", "@a-result-0", inner)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, "select result @a-result-0: timed out waiting for element: @a-result-0 after 5s", err.Error())

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "select result", stepErr.Op)
}

func TestNewStepErrorNil(t *testing.T) {
	assert.NoError(t, NewStepError("op", "sel", nil))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "timeout", ErrorKind(NewStepError("op", "", ErrTimeout)))
	assert.Equal(t, "not_found", ErrorKind(fmt.Errorf("x: %w", ErrElementNotFound)))
	assert.Equal(t, "assertion", ErrorKind(AssertionError("saw %q", "x")))
	assert.Equal(t, "", ErrorKind(errors.New("boom")))
}

func TestTimingsWithDefaults(t *testing.T) {
	got := Timings{TypeSettle: 10}.WithDefaults()
	want := DefaultTimings()
	want.TypeSettle = 10
	assert.Equal(t, want, got)
}
