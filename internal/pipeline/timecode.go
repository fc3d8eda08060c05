package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// ParseTimecode converts an SRT timestamp (HH:MM:SS,mmm) to milliseconds.
func ParseTimecode(s string) (Millis, error) {
	hms := strings.Split(s, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimecode, s)
	}
	secParts := strings.Split(hms[2], ",")
	if len(secParts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimecode, s)
	}

	hours, errH := parseField(hms[0], -1)
	minutes, errM := parseField(hms[1], 60)
	seconds, errS := parseField(secParts[0], 60)
	millis, errMS := parseField(secParts[1], 1000)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimecode, s)
	}

	return Millis(hours*msPerHour + minutes*msPerMinute + seconds*msPerSecond + millis), nil
}

// parseField accepts ASCII digits only. limit < 0 disables the upper bound.
func parseField(field string, limit int64) (int64, error) {
	if field == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, err
	}
	if limit >= 0 && v >= limit {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// FormatTimecode converts milliseconds to HH:MM:SS,mmm.
func FormatTimecode(ms Millis) (string, error) {
	if ms < 0 {
		return "", fmt.Errorf("%w: %d ms", ErrInvalidDuration, ms)
	}
	h := ms / msPerHour
	ms %= msPerHour
	m := ms / msPerMinute
	ms %= msPerMinute
	s := ms / msPerSecond
	ms %= msPerSecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms), nil
}

// MustFormatTimecode is FormatTimecode for offsets already known to be
// non-negative. It panics otherwise.
func MustFormatTimecode(ms Millis) string {
	s, err := FormatTimecode(ms)
	if err != nil {
		panic(err)
	}
	return s
}
