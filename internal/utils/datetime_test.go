package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDateTime(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"datetime-local", "2024-01-01T10:00", "2024-01-01 10:00:00"},
		{"utc marker", "2024-01-01T02:00:00.000Z", "2024-01-01 10:00:00"},
		{"utc crosses midnight", "2024-01-01T20:30:00Z", "2024-01-02 04:30:00"},
		{"explicit offset", "2024-01-01T10:00:00+09:00", "2024-01-01 09:00:00"},
		{"compact offset without seconds", "2024-01-01T10:00-0500", "2024-01-01 23:00:00"},
		{"fractional seconds", "2024-01-01 10:00:00.123456", "2024-01-01 10:00:00"},
		{"already normalized", "2024-03-05 08:09:10", "2024-03-05 08:09:10"},
		{"date only", "2024-03-05", "2024-03-05 00:00:00"},
		{"surrounding spaces", "  2024-01-01T10:00  ", "2024-01-01 10:00:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeDateTime(tc.in)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, *got)
		})
	}
}

func TestNormalizeDateTime_Empty(t *testing.T) {
	got, err := NormalizeDateTime("   ")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestNormalizeDateTime_Invalid(t *testing.T) {
	for _, in := range []string{"tomorrow", "2024-13-01T10:00", "2024-02-30 10:00:00", "2024-01-01T25:00:00Z"} {
		_, err := NormalizeDateTime(in)
		assert.ErrorIs(t, err, ErrInvalidDateTime, in)
	}
}

func TestNormalizeToTimeAndFormat(t *testing.T) {
	ts, err := NormalizeToTime("2024-01-01T02:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), *ts)
	assert.Equal(t, "2024-01-01 10:00:00", *FormatDateTime(ts))

	assert.Nil(t, FormatDateTime(nil))
}
