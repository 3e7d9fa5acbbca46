package booking

import (
	"errors"
	"testing"
	"time"

	"spot-service/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"identical ranges", "2024-01-10", "2024-01-15", "2024-01-10", "2024-01-15", true},
		{"partial overlap", "2024-01-10", "2024-01-16", "2024-01-15", "2024-01-20", true},
		{"contained range", "2024-01-10", "2024-01-20", "2024-01-12", "2024-01-14", true},
		{"touching boundary is not a conflict", "2024-01-10", "2024-01-15", "2024-01-15", "2024-01-20", false},
		{"touching boundary reversed", "2024-01-15", "2024-01-20", "2024-01-10", "2024-01-15", false},
		{"disjoint ranges", "2024-01-01", "2024-01-05", "2024-01-10", "2024-01-15", false},
		{"single night inside", "2024-01-10", "2024-01-20", "2024-01-14", "2024-01-15", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(date(tt.s1), date(tt.e1), date(tt.s2), date(tt.e2))
			if got != tt.want {
				t.Errorf("Overlaps(%s,%s,%s,%s) = %v, want %v", tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
		})
	}
}

func TestCheckRangeInvalidRange(t *testing.T) {
	_, err := CheckRange(nil, date("2024-01-10"), date("2024-01-10"), 0)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for start == end, got %v", err)
	}

	_, err = CheckRange(nil, date("2024-01-15"), date("2024-01-10"), 0)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for start > end, got %v", err)
	}
}

func TestCheckRangeCollectsAllConflicts(t *testing.T) {
	existing := []model.Booking{
		{ID: 1, StartDate: date("2024-01-01"), EndDate: date("2024-01-05")},
		{ID: 2, StartDate: date("2024-01-04"), EndDate: date("2024-01-08")},
		{ID: 3, StartDate: date("2024-01-20"), EndDate: date("2024-01-25")},
	}

	result, err := CheckRange(existing, date("2024-01-03"), date("2024-01-06"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected range to be unavailable")
	}
	if len(result.Conflicts) != 2 || result.Conflicts[0] != 1 || result.Conflicts[1] != 2 {
		t.Fatalf("expected conflicts [1 2], got %v", result.Conflicts)
	}
}

func TestCheckRangeAvailable(t *testing.T) {
	existing := []model.Booking{
		{ID: 1, StartDate: date("2024-01-15"), EndDate: date("2024-01-20")},
	}

	// Checkout on the other booking's check-in day.
	result, err := CheckRange(existing, date("2024-01-10"), date("2024-01-15"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected touching boundary to be available, conflicts: %v", result.Conflicts)
	}
	if len(result.Conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %v", result.Conflicts)
	}
}

func TestCheckRangeExcludesBookingBeingEdited(t *testing.T) {
	existing := []model.Booking{
		{ID: 7, StartDate: date("2024-01-10"), EndDate: date("2024-01-15")},
	}

	// Extending booking 7 over its own range must not conflict with itself.
	result, err := CheckRange(existing, date("2024-01-10"), date("2024-01-17"), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected edit-in-place to exclude own booking, conflicts: %v", result.Conflicts)
	}
}

func TestCheckRangeIgnoresTimeComponent(t *testing.T) {
	existing := []model.Booking{
		{ID: 1, StartDate: date("2024-01-15").Add(9 * time.Hour), EndDate: date("2024-01-20")},
	}

	result, err := CheckRange(existing, date("2024-01-10"), date("2024-01-15"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatal("expected date-only comparison to ignore time component")
	}
}
