package domain

import (
	"fmt"
	"time"
)

// DurationLabel renders the elapsed time between check-in and check-out as
// the stored human-readable form, e.g. 90 minutes → "1h 30m".
//
// The difference is floored to whole minutes before splitting into hours and
// minutes, so seconds never appear in the label. A check-out earlier than the
// check-in (backdated taps from the simulator) is accepted and produces a
// negative hour component with the minute remainder kept in 0..59,
// e.g. -90 minutes → "-2h 30m".
func DurationLabel(checkedIn, checkedOut time.Time) string {
	totalMin := floorDiv(int64(checkedOut.Sub(checkedIn)), int64(time.Minute))
	hours := floorDiv(totalMin, 60)
	minutes := totalMin - hours*60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// floorDiv divides a by b rounding toward negative infinity.
// Go's / truncates toward zero, which would round backdated (negative)
// durations the wrong way.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// DateKey returns the UTC calendar date of t in "2006-01-02" form.
// Every date bucket in reporting — histogram keys, range-walk keys, unique
// visit days — must go through this one function: mixing normalizations
// makes days silently drop from the dense histogram.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
