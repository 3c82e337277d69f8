package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTaken = New(http.StatusConflict, "slot taken")

func TestWithKeepsSentinelUntouched(t *testing.T) {
	withIDs := errTaken.With("ids", []int64{1, 2})

	assert.Nil(t, errTaken.Fields)
	assert.Equal(t, []int64{1, 2}, withIDs.Fields["ids"])
	assert.True(t, errors.Is(withIDs, errTaken))

	both := withIDs.With("more", true)
	assert.Len(t, both.Fields, 2)
	assert.Len(t, withIDs.Fields, 1)
}

func TestIsComparesCodeAndMessage(t *testing.T) {
	other := New(http.StatusConflict, "something else")
	assert.False(t, errors.Is(errTaken, other))
	assert.False(t, errors.Is(errTaken, errors.New("slot taken")))
	assert.True(t, errors.Is(New(http.StatusConflict, "slot taken"), errTaken))
}

func TestWrapAs(t *testing.T) {
	cause := errors.New("unique violation")
	err := fmt.Errorf("commit: %w", WrapAs(cause, errTaken))

	assert.True(t, errors.Is(err, errTaken))
	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Equal(t, "slot taken", appErr.Error())
	assert.Nil(t, errTaken.Err)
}
