package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatISO(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 5, 14, 7, 9, 123456789, loc)

	assert.Equal(t, "2024-03-05T12:07:09.123Z", FormatISO(ts))
}

func TestParseISO(t *testing.T) {
	parsed, err := ParseISO("2024-03-05T12:07:09.123Z")
	require.NoError(t, err)
	assert.Equal(t, 123*int(time.Millisecond), parsed.Nanosecond())

	_, err = ParseISO("not-a-time")
	assert.Error(t, err)
}

func TestNowISO(t *testing.T) {
	parsed, err := ParseISO(NowISO())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Second)
}
