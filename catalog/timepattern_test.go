package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTimePattern(t *testing.T) {
	c := New(NewMapResolver())
	for _, ok := range []string{"0", "500", "10000", "5s", "5sec", "5secs", "3m", "3min", "3minutes", "5m15s", "1h", "1hour", "2hours", "250ms", "1d2h"} {
		assert.True(t, c.ValidateTimePattern(ok), ok)
	}
	for _, bad := range []string{"", "bla", "2year", "60darn", "5s3m", "-5s"} {
		assert.False(t, c.ValidateTimePattern(bad), bad)
	}
}

func TestParseTimePattern(t *testing.T) {
	tests := map[string]time.Duration{
		"500":     500 * time.Millisecond,
		"5s":      5 * time.Second,
		"5m15s":   5*time.Minute + 15*time.Second,
		"1hour":   time.Hour,
		"2d":      48 * time.Hour,
		"250ms":   250 * time.Millisecond,
		"1h30m":   90 * time.Minute,
		" 10S ":   10 * time.Second,
		"1m500ms": time.Minute + 500*time.Millisecond,
	}
	for in, want := range tests {
		got, err := ParseTimePattern(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTimePattern("soon")
	assert.Error(t, err)
}

func TestValidateInteger(t *testing.T) {
	assert.True(t, validateInteger("-1"))
	assert.True(t, validateInteger("42"))
	assert.True(t, validateInteger("5s"))
	assert.False(t, validateInteger("4.2"))
	assert.False(t, validateInteger("abc"))
}
