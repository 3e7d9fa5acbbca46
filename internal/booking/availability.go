package booking

import (
	"time"

	"spot-service/internal/model"
)

// CheckResult reports whether a date range is free on a spot and, when it is
// not, every booking it collides with.
type CheckResult struct {
	Available bool   `json:"available"`
	Conflicts []uint `json:"conflicts"`
}

// Day normalizes a timestamp to midnight UTC. Booking dates are calendar
// dates; stripping the time component keeps comparisons timezone-free.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the half-open ranges [s1,e1) and [s2,e2) share at
// least one night. A checkout date equal to another booking's check-in date
// is not a conflict.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// CheckRange scans existing bookings for collisions with [start,end).
// Bookings with id == excludeID are skipped, which supports re-checking a
// booking that is being edited in place; pass 0 to exclude nothing.
func CheckRange(existing []model.Booking, start, end time.Time, excludeID uint) (CheckResult, error) {
	start, end = Day(start), Day(end)
	if !start.Before(end) {
		return CheckResult{}, ErrInvalidRange
	}

	result := CheckResult{Available: true, Conflicts: []uint{}}
	for _, b := range existing {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if Overlaps(Day(b.StartDate), Day(b.EndDate), start, end) {
			result.Available = false
			result.Conflicts = append(result.Conflicts, b.ID)
		}
	}
	return result, nil
}
