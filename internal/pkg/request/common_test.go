package request

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-10-17 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, time.Saturday, d.Weekday())
	assert.Equal(t, "2026-10-17", FormatDate(d))
}

func TestParseDateRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "2026-02-30", "17/10/2026", "2026-10-17T10:00:00Z", "tomorrow"} {
		_, err := ParseDate(in)
		assert.True(t, errors.Is(err, ErrInvalidDate), "input %q", in)
	}
}

func TestNormalizedSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ListParams{}.NormalizedSortOrder("ASC"))
	assert.Equal(t, "DESC", ListParams{SortOrder: "desc"}.NormalizedSortOrder("ASC"))
}
