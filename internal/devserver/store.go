// Package devserver is the development and test stand-in for the remote
// booking service: a gin server implementing every endpoint the client
// consumes, backed by a seeded in-memory store or, given a DSN, Postgres.
package devserver

import (
	"context"
	"net/http"
	"time"

	"github.com/mtuci-campus/roombooking/internal/pkg/apperror"
	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/user"
)

var (
	ErrUserNotFound     = apperror.New(http.StatusNotFound, "user not found")
	ErrRoomNotFound     = apperror.New(http.StatusNotFound, "room not found")
	ErrBadCredentials   = apperror.New(http.StatusUnauthorized, "invalid username or password")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "time slot already booked")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrStartTimePast    = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrRoomUnavailable  = apperror.New(http.StatusConflict, "room is under maintenance")
	ErrForbidden        = apperror.New(http.StatusForbidden, "permission denied")
	ErrUsernameTaken    = apperror.New(http.StatusConflict, "username already used")
)

// Account is a stored user plus its credentials.
type Account struct {
	user.User
	PasswordHash string
}

// Booking is a stored booking record.
type Booking struct {
	ID        string
	RoomID    string
	UserID    string
	StartTime time.Time
	EndTime   time.Time
	Purpose   string
	Group     string
	CreatedAt time.Time
}

// Store is the persistence surface of the dev server.
type Store interface {
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
	GetUserByID(ctx context.Context, id string) (user.User, error)
	UpdateUser(ctx context.Context, id string, p user.Partial) (user.User, error)

	ListRooms(ctx context.Context) ([]room.Room, error)
	SearchRooms(ctx context.Context, filters room.SearchFilters) ([]room.Room, error)
	GetRoom(ctx context.Context, id string) (room.Room, error)
	SetRoomStatus(ctx context.Context, id string, status room.Status) error
	ListSchedule(ctx context.Context, roomID string, date *time.Time) ([]room.ScheduleEntry, error)

	HasOverlap(ctx context.Context, roomID string, start, end time.Time) (bool, error)
	CreateBooking(ctx context.Context, b *Booking) error
}
