package devserver

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/user"
)

// MemoryStore is the default Store: everything lives in process, seeded at
// startup. Tests run against it.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account // by username
	rooms    []room.Room
	schedule map[string][]room.ScheduleEntry // by room id
	bookings []Booking
}

// NewMemoryStore creates an empty MemoryStore. Use Seed to load demo data.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: map[string]*Account{},
		schedule: map[string][]room.ScheduleEntry{},
	}
}

// AddAccount registers an account; the username must be unused.
func (s *MemoryStore) AddAccount(a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.Username]; ok {
		return ErrUsernameTaken
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.accounts[a.Username] = &a
	return nil
}

// AddRoom appends a room to the directory.
func (s *MemoryStore) AddRoom(r room.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.rooms = append(s.rooms, r)
}

// AddScheduleEntry appends a timetable slot for a room.
func (s *MemoryStore) AddScheduleEntry(e room.ScheduleEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.schedule[e.RoomID] = append(s.schedule[e.RoomID], e)
}

func (s *MemoryStore) GetAccountByUsername(_ context.Context, username string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a.User, nil
		}
	}
	return user.User{}, ErrUserNotFound
}

func (s *MemoryStore) UpdateUser(_ context.Context, id string, p user.Partial) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			a.User = user.Merge(a.User, p)
			return a.User, nil
		}
	}
	return user.User{}, ErrUserNotFound
}

func (s *MemoryStore) ListRooms(context.Context) ([]room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]room.Room, len(s.rooms))
	copy(out, s.rooms)
	return out, nil
}

func (s *MemoryStore) SearchRooms(_ context.Context, filters room.SearchFilters) ([]room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filters.Apply(s.rooms), nil
}

func (s *MemoryStore) GetRoom(_ context.Context, id string) (room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return room.Room{}, ErrRoomNotFound
}

func (s *MemoryStore) SetRoomStatus(_ context.Context, id string, status room.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			s.rooms[i].Status = status
			return nil
		}
	}
	return ErrRoomNotFound
}

func (s *MemoryStore) ListSchedule(_ context.Context, roomID string, date *time.Time) ([]room.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := false
	for _, r := range s.rooms {
		if r.ID == roomID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrRoomNotFound
	}

	entries := s.schedule[roomID]
	out := make([]room.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if date != nil {
			y, m, d := date.Date()
			ey, em, ed := e.StartTime.Date()
			if y != ey || m != em || d != ed {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *MemoryStore) HasOverlap(_ context.Context, roomID string, start, end time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.RoomID != roomID {
			continue
		}
		if start.Before(b.EndTime) && b.StartTime.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) CreateBooking(_ context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The handler's overlap pre-check runs under a separate read lock, so
	// re-check here before committing: two identical concurrent requests
	// must not both be accepted.
	for _, existing := range s.bookings {
		if existing.RoomID == b.RoomID &&
			b.StartTime.Before(existing.EndTime) && existing.StartTime.Before(b.EndTime) {
			return ErrTimeConflict
		}
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()
	s.bookings = append(s.bookings, *b)
	return nil
}
