package booking

import (
	"errors"
	"sync"
	"testing"

	"spot-service/internal/model"
)

// In-memory Store with the same per-spot serialization guarantee as the
// database-backed implementation.
type mockStore struct {
	mu        sync.Mutex
	spotLocks map[uint]*sync.Mutex
	spots     map[uint]*model.Spot
	bookings  map[uint]*model.Booking
	nextID    uint
}

func newMockStore() *mockStore {
	return &mockStore{
		spotLocks: make(map[uint]*sync.Mutex),
		spots:     make(map[uint]*model.Spot),
		bookings:  make(map[uint]*model.Booking),
	}
}

func (m *mockStore) addSpot(ownerID uint) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.spots[m.nextID] = &model.Spot{ID: m.nextID, OwnerID: ownerID}
	return m.nextID
}

func (m *mockStore) GetSpot(id uint) (*model.Spot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	spot, ok := m.spots[id]
	if !ok {
		return nil, ErrNotFound
	}
	return spot, nil
}

func (m *mockStore) GetBooking(id uint) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *mockStore) BookingsForSpot(spotID uint) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var bookings []model.Booking
	for _, b := range m.bookings {
		if b.SpotID == spotID {
			bookings = append(bookings, *b)
		}
	}
	return bookings, nil
}

func (m *mockStore) InsertBooking(b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	copied := *b
	m.bookings[b.ID] = &copied
	return nil
}

func (m *mockStore) SaveBooking(b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	copied := *b
	m.bookings[b.ID] = &copied
	return nil
}

func (m *mockStore) DeleteBooking(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *mockStore) WithSpotLock(spotID uint, fn func(tx Store) error) error {
	m.mu.Lock()
	lock, ok := m.spotLocks[spotID]
	if !ok {
		lock = &sync.Mutex{}
		m.spotLocks[spotID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(m)
}

const (
	owner = uint(100)
	guest = uint(200)
	other = uint(300)
)

func TestCreateBooking(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	b, err := ledger.Create(spotID, guest, date("2024-01-10"), date("2024-01-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID == 0 {
		t.Fatal("expected booking to be assigned an id")
	}
	if !b.StartDate.Equal(date("2024-01-10")) || !b.EndDate.Equal(date("2024-01-15")) {
		t.Fatalf("unexpected dates: %v - %v", b.StartDate, b.EndDate)
	}
}

func TestCreateBookingSpotNotFound(t *testing.T) {
	ledger := NewLedger(newMockStore())

	_, err := ledger.Create(42, guest, date("2024-01-10"), date("2024-01-15"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBookingInvalidRange(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	_, err := ledger.Create(spotID, guest, date("2024-01-10"), date("2024-01-10"))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange when start equals end, got %v", err)
	}
}

func TestCreateBookingSelfBookingForbidden(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	_, err := ledger.Create(spotID, owner, date("2024-01-10"), date("2024-01-15"))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-booking, got %v", err)
	}
}

func TestCreateBookingConflictCarriesIDs(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	existing, err := ledger.Create(spotID, guest, date("2024-01-15"), date("2024-01-20"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = ledger.Create(spotID, other, date("2024-01-10"), date("2024-01-16"))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.BookingIDs) != 1 || conflict.BookingIDs[0] != existing.ID {
		t.Fatalf("expected conflict ids [%d], got %v", existing.ID, conflict.BookingIDs)
	}
}

func TestCreateBookingTouchingBoundarySucceeds(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	if _, err := ledger.Create(spotID, guest, date("2024-01-15"), date("2024-01-20")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Checkout day equals the existing booking's check-in day.
	if _, err := ledger.Create(spotID, other, date("2024-01-10"), date("2024-01-15")); err != nil {
		t.Fatalf("expected touching ranges to coexist, got %v", err)
	}
}

func TestCreateBookingIndependentSpots(t *testing.T) {
	store := newMockStore()
	spotA := store.addSpot(owner)
	spotB := store.addSpot(owner)
	ledger := NewLedger(store)

	if _, err := ledger.Create(spotA, guest, date("2024-01-10"), date("2024-01-15")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ledger.Create(spotB, other, date("2024-01-10"), date("2024-01-15")); err != nil {
		t.Fatalf("expected identical range on another spot to succeed, got %v", err)
	}
}

func TestUpdateBookingExcludesOwnRange(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	b, err := ledger.Create(spotID, guest, date("2024-01-10"), date("2024-01-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Extending over its own current range must not self-conflict.
	updated, err := ledger.Update(b.ID, guest, date("2024-01-12"), date("2024-01-18"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.EndDate.Equal(date("2024-01-18")) {
		t.Fatalf("unexpected end date: %v", updated.EndDate)
	}
}

func TestUpdateBookingConflictsWithOthers(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	blocker, err := ledger.Create(spotID, other, date("2024-01-20"), date("2024-01-25"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ledger.Create(spotID, guest, date("2024-01-10"), date("2024-01-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = ledger.Update(b.ID, guest, date("2024-01-18"), date("2024-01-22"))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.BookingIDs) != 1 || conflict.BookingIDs[0] != blocker.ID {
		t.Fatalf("expected conflict ids [%d], got %v", blocker.ID, conflict.BookingIDs)
	}
}

func TestUpdateBookingForbiddenForOtherUsers(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	b, err := ledger.Create(spotID, guest, date("2024-01-10"), date("2024-01-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ledger.Update(b.ID, other, date("2024-01-11"), date("2024-01-16")); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// Not even the spot owner may rewrite a guest's stay.
	if _, err := ledger.Update(b.ID, owner, date("2024-01-11"), date("2024-01-16")); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for spot owner, got %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	b, err := ledger.Create(spotID, guest, date("2024-01-10"), date("2024-01-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A third party may not cancel.
	if err := ledger.Cancel(b.ID, other); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// The booking's own user may.
	if err := ledger.Cancel(b.ID, guest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ledger.Cancel(b.ID, guest); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after cancellation, got %v", err)
	}
}

func TestCancelBookingBySpotOwner(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	b, err := ledger.Create(spotID, guest, date("2024-01-10"), date("2024-01-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ledger.Cancel(b.ID, owner); err != nil {
		t.Fatalf("expected spot owner to cancel, got %v", err)
	}
}

func TestConcurrentOverlappingCreatesHaveOneWinner(t *testing.T) {
	store := newMockStore()
	spotID := store.addSpot(owner)
	ledger := NewLedger(store)

	const attempts = 16
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Create(spotID, uint(1000+i), date("2024-01-10"), date("2024-01-15"))
		}(i)
	}
	wg.Wait()

	winners, conflicts := 0, 0
	for _, err := range errs {
		var conflict *ConflictError
		switch {
		case err == nil:
			winners++
		case errors.As(err, &conflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicts)
	}

	bookings, _ := store.BookingsForSpot(spotID)
	if len(bookings) != 1 {
		t.Fatalf("expected a single persisted booking, got %d", len(bookings))
	}
}
