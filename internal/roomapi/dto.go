package roomapi

import (
	"time"

	"github.com/mtuci-campus/roombooking/internal/user"
)

type loginRequest struct {
	Username string    `json:"username" validate:"required"`
	Password string    `json:"password" validate:"required"`
	Role     user.Role `json:"userType,omitempty" validate:"omitempty,oneof=student staff admin"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// BookingRequest is the booking window submitted for a room. The interval
// semantics (overlap, availability) are validated by the server.
type BookingRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
	Purpose   string    `json:"purpose" validate:"required"`
	Group     string    `json:"group,omitempty"`
}
