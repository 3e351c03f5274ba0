package catalog

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timePattern = regexp.MustCompile(`^(?:(\d+)(?:days|day|d))?` +
	`(?:(\d+)(?:hours|hour|h))?` +
	`(?:(\d+)(?:minutes|minute|mins|min|m))?` +
	`(?:(\d+)(?:seconds|second|secs|sec|s))?` +
	`(?:(\d+)(?:millis|ms))?$`)

var errTimePattern = errors.New("invalid time pattern")

var timeUnits = [...]time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second, time.Millisecond}

// ParseTimePattern converts a plain millisecond count or a pattern such as
// "5s", "4m30s" or "1hour" into a duration.
func ParseTimePattern(pattern string) (time.Duration, error) {
	s := strings.TrimSpace(pattern)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	match := timePattern.FindStringSubmatch(strings.ToLower(s))
	if match == nil || s == "" {
		return 0, errTimePattern
	}
	var d time.Duration
	for i, unit := range timeUnits {
		if match[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(match[i+1], 10, 64)
		if err != nil {
			return 0, errTimePattern
		}
		d += time.Duration(n) * unit
	}
	return d, nil
}

// ValidateTimePattern reports whether pattern is an integer or a time
// pattern.
func ValidateTimePattern(pattern string) bool {
	_, err := ParseTimePattern(pattern)
	return err == nil
}

// ValidateTimePattern is the method form of the package function.
func (c *Catalog) ValidateTimePattern(pattern string) bool { return ValidateTimePattern(pattern) }

// validateInteger accepts 32-bit integers and time patterns.
func validateInteger(value string) bool {
	if _, err := strconv.ParseInt(value, 10, 32); err == nil {
		return true
	}
	return ValidateTimePattern(value)
}
