package devserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mtuci-campus/roombooking/internal/devserver/auth"
	"github.com/mtuci-campus/roombooking/internal/pkg/response"
	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/user"
)

// startTimeGrace tolerates clock skew between client and server: the client
// books "from now", which may be seconds in the past by the time it arrives.
const startTimeGrace = time.Minute

// Handler serves the booking API endpoints.
type Handler struct {
	store  Store
	jwt    *auth.JWTManager
	hasher auth.PasswordHasher
	log    *logrus.Logger
}

// NewHandler creates a Handler over the given store.
func NewHandler(store Store, jwt *auth.JWTManager, hasher auth.PasswordHasher, log *logrus.Logger) *Handler {
	return &Handler{store: store, jwt: jwt, hasher: hasher, log: log}
}

//
// POST /api/auth/login
//

func (h *Handler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Message: "invalid request"})
		return
	}

	ctx := c.Request.Context()

	acc, err := h.store.GetAccountByUsername(ctx, body.Username)
	if err != nil {
		// The same answer for an unknown user and a bad password.
		response.Error(c, ErrBadCredentials)
		return
	}
	if err := h.hasher.Compare(acc.PasswordHash, body.Password); err != nil {
		response.Error(c, ErrBadCredentials)
		return
	}

	// The stored role is authoritative; the client's userType hint is ignored
	// for existing accounts.
	token, err := h.jwt.GenerateAccessToken(acc.ID, acc.Role)
	if err != nil {
		h.log.WithError(err).Error("failed to issue token")
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, User: acc.User})
}

//
// POST /api/auth/logout
//

func (h *Handler) Logout(c *gin.Context) {
	// Tokens are stateless JWTs; logout is client-side. The endpoint exists
	// so the client's best-effort invalidation has something to call.
	c.JSON(http.StatusOK, gin.H{"success": true})
}

//
// GET /api/auth/verify
//

func (h *Handler) Verify(c *gin.Context) {
	u, err := h.store.GetUserByID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

//
// GET /api/users/:id
//

func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.store.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

//
// PUT /api/users/:id
//

func (h *Handler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if auth.GetUserID(c) != id && auth.GetUserRole(c) != user.RoleAdmin {
		response.Error(c, ErrForbidden)
		return
	}

	var p user.Partial
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Message: "invalid request"})
		return
	}

	u, err := h.store.UpdateUser(c.Request.Context(), id, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

//
// GET /api/rooms
//

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponses(rooms))
}

//
// POST /api/rooms/search
//

func (h *Handler) SearchRooms(c *gin.Context) {
	var body searchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Message: "invalid search filters"})
		return
	}

	rooms, err := h.store.SearchRooms(c.Request.Context(), body.filters())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponses(rooms))
}

//
// GET /api/rooms/:id
//

func (h *Handler) GetRoom(c *gin.Context) {
	r, err := h.store.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(r))
}

//
// GET /api/rooms/:id/schedule[?date=2006-01-02]
//

func (h *Handler) GetSchedule(c *gin.Context) {
	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Message: "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = &parsed
	}

	entries, err := h.store.ListSchedule(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	if entries == nil {
		entries = []room.ScheduleEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

//
// POST /api/rooms/:id/book
//

func (h *Handler) BookRoom(c *gin.Context) {
	var body bookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Message: "invalid booking request"})
		return
	}

	ctx := c.Request.Context()
	roomID := c.Param("id")

	if !body.EndTime.After(body.StartTime) {
		response.Error(c, ErrInvalidTimeRange)
		return
	}
	if body.StartTime.Before(time.Now().UTC().Add(-startTimeGrace)) {
		response.Error(c, ErrStartTimePast)
		return
	}

	r, err := h.store.GetRoom(ctx, roomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if r.Status == room.StatusMaintenance {
		response.Error(c, ErrRoomUnavailable)
		return
	}

	overlap, err := h.store.HasOverlap(ctx, roomID, body.StartTime, body.EndTime)
	if err != nil {
		response.Error(c, err)
		return
	}
	if overlap {
		response.Error(c, ErrTimeConflict)
		return
	}

	b := &Booking{
		RoomID:    roomID,
		UserID:    auth.GetUserID(c),
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Purpose:   body.Purpose,
		Group:     body.Group,
	}
	if err := h.store.CreateBooking(ctx, b); err != nil {
		response.Error(c, err)
		return
	}

	// A booking covering the current moment makes the room show as occupied.
	now := time.Now().UTC()
	if !b.StartTime.After(now) && b.EndTime.After(now) {
		if err := h.store.SetRoomStatus(ctx, roomID, room.StatusOccupied); err != nil {
			h.log.WithError(err).Warn("failed to flip room status after booking")
		}
	}

	h.log.WithFields(logrus.Fields{
		"room":    roomID,
		"user":    b.UserID,
		"booking": b.ID,
	}).Info("booking created")

	c.JSON(http.StatusCreated, gin.H{"id": b.ID})
}
