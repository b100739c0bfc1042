package video

import "fmt"

// ValidateRange checks a requested [start, end) interval against the total
// media duration. Conditions are checked in a fixed order and the first
// violation is reported.
func ValidateRange(start, end, total float64) error {
	if start < 0 {
		return fmt.Errorf("%w: start time (%gs) cannot be negative", ErrInvalidRange, start)
	}

	if end <= start {
		return fmt.Errorf("%w: end time (%gs) must be greater than start time (%gs)", ErrInvalidRange, end, start)
	}

	if start >= total {
		return fmt.Errorf("%w: start time (%gs) exceeds video duration (%.2fs)", ErrInvalidRange, start, total)
	}

	if end > total {
		return fmt.Errorf("%w: end time (%gs) exceeds video duration (%.2fs)", ErrInvalidRange, end, total)
	}

	return nil
}
