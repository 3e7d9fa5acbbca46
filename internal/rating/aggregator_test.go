package rating

import (
	"testing"
	"time"
)

type mockReviewStore struct {
	stars map[uint][]int
	calls int
}

func (m *mockReviewStore) StarsForSpot(spotID uint) ([]int, error) {
	m.calls++
	return m.stars[spotID], nil
}

func TestAggregateNoReviews(t *testing.T) {
	store := &mockReviewStore{stars: map[uint][]int{}}
	agg := New(store, time.Minute)

	summary, err := agg.Aggregate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Count != 0 {
		t.Fatalf("expected count 0, got %d", summary.Count)
	}
	// No reviews means no average at all, not a zero average.
	if summary.AverageStars != nil {
		t.Fatalf("expected nil average, got %v", *summary.AverageStars)
	}
}

func TestAggregateMean(t *testing.T) {
	store := &mockReviewStore{stars: map[uint][]int{1: {3, 5}}}
	agg := New(store, time.Minute)

	summary, err := agg.Aggregate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Count != 2 {
		t.Fatalf("expected count 2, got %d", summary.Count)
	}
	if summary.AverageStars == nil || *summary.AverageStars != 4 {
		t.Fatalf("expected average 4, got %v", summary.AverageStars)
	}
}

func TestAggregateUnroundedMean(t *testing.T) {
	store := &mockReviewStore{stars: map[uint][]int{1: {4, 4, 5}}}
	agg := New(store, time.Minute)

	summary, err := agg.Aggregate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 13.0 / 3.0
	if summary.AverageStars == nil || *summary.AverageStars != want {
		t.Fatalf("expected unrounded mean %v, got %v", want, summary.AverageStars)
	}
}

func TestAggregateCachesUntilInvalidated(t *testing.T) {
	store := &mockReviewStore{stars: map[uint][]int{1: {5}}}
	agg := New(store, time.Minute)

	if _, err := agg.Aggregate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := agg.Aggregate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected one store read, got %d", store.calls)
	}

	// A review write invalidates; the next read recomputes.
	store.stars[1] = []int{5, 3}
	agg.Invalidate(1)

	summary, err := agg.Aggregate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("expected recompute after invalidation, got %d store reads", store.calls)
	}
	if summary.Count != 2 || summary.AverageStars == nil || *summary.AverageStars != 4 {
		t.Fatalf("expected updated summary {4 2}, got %+v", summary)
	}
}

func TestAggregateKeysBySpot(t *testing.T) {
	store := &mockReviewStore{stars: map[uint][]int{1: {5}, 2: {1, 2}}}
	agg := New(store, time.Minute)

	s1, err := agg.Aggregate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := agg.Aggregate(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s1.Count != 1 || *s1.AverageStars != 5 {
		t.Fatalf("unexpected summary for spot 1: %+v", s1)
	}
	if s2.Count != 2 || *s2.AverageStars != 1.5 {
		t.Fatalf("unexpected summary for spot 2: %+v", s2)
	}
}
