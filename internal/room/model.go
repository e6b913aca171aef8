package room

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("room not found")
)

// Category classifies what a room is used for.
type Category string

const (
	CategoryLecture    Category = "lecture"
	CategoryLab        Category = "lab"
	CategoryPractice   Category = "practice"
	CategoryComputer   Category = "computer"
	CategoryConference Category = "conference"
	CategoryOther      Category = "other"
)

// Display returns the human-readable category text shown in the UI.
func (c Category) Display() string {
	switch c {
	case CategoryLecture:
		return "Лекционная"
	case CategoryLab:
		return "Лаборатория"
	case CategoryPractice:
		return "Практическая"
	case CategoryComputer:
		return "Компьютерный класс"
	case CategoryConference:
		return "Конференц-зал"
	case CategoryOther:
		return "Другое"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryLecture, CategoryLab, CategoryPractice, CategoryComputer, CategoryConference, CategoryOther:
		return true
	}
	return false
}

// Status is the current availability of a room. It is the only room field
// that changes from the client's perspective, as a side effect of booking.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

// Display returns the human-readable status text shown in the UI.
func (s Status) Display() string {
	switch s {
	case StatusAvailable:
		return "Свободно"
	case StatusOccupied:
		return "Занято"
	case StatusMaintenance:
		return "На обслуживании"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

// Room is a bookable campus room.
type Room struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	Name      string          `json:"name,omitempty"`
	Category  Category        `json:"type"`
	Capacity  int             `json:"capacity"`
	Building  string          `json:"building"`
	Floor     int             `json:"floor"`
	Status    Status          `json:"status"`
	Equipment []string        `json:"equipment,omitempty"`
	Schedule  []ScheduleEntry `json:"schedule,omitempty"`
}

// ScheduleEntry is one occupied slot in a room's timetable.
type ScheduleEntry struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Subject   string    `json:"subject"`
	Teacher   string    `json:"teacher,omitempty"`
	Group     string    `json:"group,omitempty"`
}

// SearchFilters are the optional structured constraints of a room search.
// A nil / zero field means "no constraint"; all set fields are AND'd
// together with the free-text query.
type SearchFilters struct {
	Query       string    `json:"query,omitempty"`
	Building    string    `json:"building,omitempty"`
	Floor       *int      `json:"floor,omitempty"`
	Category    Category  `json:"type,omitempty"`
	Status      Status    `json:"status,omitempty"`
	MinCapacity *int      `json:"minCapacity,omitempty"`
	MaxCapacity *int      `json:"maxCapacity,omitempty"`
}

// IsZero reports whether no constraint at all is set (including the query).
func (f SearchFilters) IsZero() bool {
	return f.Query == "" &&
		f.Building == "" &&
		f.Floor == nil &&
		f.Category == "" &&
		f.Status == "" &&
		f.MinCapacity == nil &&
		f.MaxCapacity == nil
}

// HasStructured reports whether any structured (non-query) constraint is set.
func (f SearchFilters) HasStructured() bool {
	g := f
	g.Query = ""
	return !g.IsZero()
}
