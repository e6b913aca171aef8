package devserver

import (
	"time"

	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/user"
)

type loginBody struct {
	Username string    `json:"username" binding:"required"`
	Password string    `json:"password" binding:"required"`
	Role     user.Role `json:"userType" binding:"omitempty,oneof=student staff admin"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type searchBody struct {
	Query       string        `json:"query"`
	Building    string        `json:"building"`
	Floor       *int          `json:"floor"`
	Category    room.Category `json:"type" binding:"omitempty,oneof=lecture lab practice computer conference other"`
	Status      room.Status   `json:"status" binding:"omitempty,oneof=available occupied maintenance"`
	MinCapacity *int          `json:"minCapacity" binding:"omitempty,min=0"`
	MaxCapacity *int          `json:"maxCapacity" binding:"omitempty,min=0"`
}

func (b searchBody) filters() room.SearchFilters {
	return room.SearchFilters{
		Query:       b.Query,
		Building:    b.Building,
		Floor:       b.Floor,
		Category:    b.Category,
		Status:      b.Status,
		MinCapacity: b.MinCapacity,
		MaxCapacity: b.MaxCapacity,
	}
}

type bookBody struct {
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Purpose   string    `json:"purpose" binding:"required"`
	Group     string    `json:"group"`
}

// roomResponse mirrors room.Room plus the display strings the original API
// sent alongside the raw enum values.
type roomResponse struct {
	room.Room
	TypeDisplay   string `json:"typeDisplay"`
	StatusDisplay string `json:"statusDisplay"`
}

func newRoomResponse(r room.Room) roomResponse {
	return roomResponse{
		Room:          r,
		TypeDisplay:   r.Category.Display(),
		StatusDisplay: r.Status.Display(),
	}
}

func newRoomResponses(rooms []room.Room) []roomResponse {
	out := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, newRoomResponse(r))
	}
	return out
}
