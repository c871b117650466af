package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", FormatDate(d))

	_, err = ParseDate("03/01/2024")
	assert.Error(t, err)
}

func TestParseOptional(t *testing.T) {
	empty := ""
	d, err := ParseOptionalDate(&empty)
	require.NoError(t, err)
	assert.Nil(t, d)

	ts := "2024-05-06T10:00:00+07:00"
	got, err := ParseOptionalDateTime(&ts)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 6, 3, 0, 0, 0, time.UTC), *got)
}
