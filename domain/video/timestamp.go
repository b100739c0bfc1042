package video

import (
	"fmt"
	"regexp"
	"strconv"
)

// Timestamp represents a video timestamp in HH:MM:SS format
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds int
}

// timestampRegex matches HH:MM:SS format. Hours may run past two digits.
var timestampRegex = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})$`)

// ParseTimestamp parses a timestamp string in HH:MM:SS format
func ParseTimestamp(s string) (Timestamp, error) {
	matches := timestampRegex.FindStringSubmatch(s)
	if matches == nil {
		return Timestamp{}, fmt.Errorf("%w %q: expected HH:MM:SS", ErrInvalidFormat, s)
	}

	hours, err := strconv.Atoi(matches[1])
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w %q: hours out of range", ErrInvalidFormat, s)
	}
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])

	if minutes > 59 {
		return Timestamp{}, fmt.Errorf("%w %q: minutes must be 0-59", ErrInvalidFormat, s)
	}
	if seconds > 59 {
		return Timestamp{}, fmt.Errorf("%w %q: seconds must be 0-59", ErrInvalidFormat, s)
	}

	return Timestamp{
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
	}, nil
}

// TimestampFromSeconds splits a non-negative second count into a Timestamp.
// Negative input is clamped to zero.
func TimestampFromSeconds(total int) Timestamp {
	if total < 0 {
		total = 0
	}
	return Timestamp{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// String returns the timestamp in HH:MM:SS format
func (t Timestamp) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// TotalSeconds returns the timestamp as total seconds
func (t Timestamp) TotalSeconds() int {
	return t.Hours*3600 + t.Minutes*60 + t.Seconds
}

// Offset returns the timestamp as floating-point seconds, the unit used for
// probing and range checks.
func (t Timestamp) Offset() float64 {
	return float64(t.TotalSeconds())
}

// After returns true if t is after other
func (t Timestamp) After(other Timestamp) bool {
	return t.TotalSeconds() > other.TotalSeconds()
}
