// Package hotel is a test-only domain adapter exercising every core
// package against a concrete (but minimal) hotel PMS ontology, grounded on
// _examples/original_source/backend/app/hotel/actions/*.py. It is not part
// of this module's public API and ships no HTTP routes of its own — see
// SPEC_FULL.md §9 and the Non-goals section.
package hotel

import "sync"

// RoomRecord is the demo adapter's in-memory row shape for Room.
type RoomRecord struct {
	RoomNumber string
	Status     string
}

// GuestRecord is the demo adapter's in-memory row shape for Guest.
type GuestRecord struct {
	ID    string
	Name  string
	Phone string
}

// StayRecordRow is the demo adapter's in-memory row shape for StayRecord.
type StayRecordRow struct {
	ID               string
	GuestID          string
	RoomNumber       string
	Status           string
	ExpectedCheckOut string
}

// TaskRecord is the demo adapter's in-memory row shape for Task.
type TaskRecord struct {
	ID         string
	RoomNumber string
	TaskType   string
	Status     string
	AssigneeID string
}

// Store is the opaque in-memory persistence stand-in this demo adapter
// uses in place of a real database. It satisfies ontology.PersistenceSession
// via Name() and is otherwise accessed directly by handlers, which close over
// the Store passed to RegisterOntology — the core never imports or inspects it.
type Store struct {
	mu    sync.Mutex
	Rooms map[string]*RoomRecord
	Guests map[string]*GuestRecord
	Stays map[string]*StayRecordRow
	Tasks map[string]*TaskRecord

	nextID int
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		Rooms:  make(map[string]*RoomRecord),
		Guests: make(map[string]*GuestRecord),
		Stays:  make(map[string]*StayRecordRow),
		Tasks:  make(map[string]*TaskRecord),
	}
}

// Name satisfies ontology.PersistenceSession.
func (s *Store) Name() string { return "demo-hotel-store" }

// NextID generates a simple, deterministic-enough-for-tests sequential ID.
// Tests never run concurrently against one Store from multiple goroutines,
// so a mutex-guarded counter is sufficient without pulling in uuid here.
func (s *Store) NextID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return prefix + "-" + itoa(s.nextID)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
