package devserver_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtuci-campus/roombooking/internal/dashboard"
	"github.com/mtuci-campus/roombooking/internal/devserver"
	"github.com/mtuci-campus/roombooking/internal/kvstore"
	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/roomapi"
	"github.com/mtuci-campus/roombooking/internal/session"
	"github.com/mtuci-campus/roombooking/internal/user"
)

// clientStack is the real client wiring (session store, API client) against
// a dev server, the way cmd/roomdesk assembles it.
type clientStack struct {
	sessions *session.Store
	client   *roomapi.Client
	kv       kvstore.Store
	baseURL  string
}

func newClientStack(t *testing.T) clientStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := devserver.NewContainer(devserver.Config{
		JWTSecret:  "test-secret",
		JWTTTL:     30 * time.Minute,
		BcryptCost: 4,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(c.Router)
	t.Cleanup(srv.Close)

	kv := kvstore.NewMemoryStore()
	sessions := session.New(kv)
	client := roomapi.New(srv.URL+"/api",
		roomapi.WithTokenSource(sessions),
		roomapi.WithOnUnauthorized(sessions.Invalidate),
	)
	sessions.SetAPI(client)
	return clientStack{sessions: sessions, client: client, kv: kv, baseURL: srv.URL + "/api"}
}

func TestFullBookingFlow(t *testing.T) {
	stack := newClientStack(t)
	sessions, client := stack.sessions, stack.client
	ctx := context.Background()

	u, err := sessions.Login(ctx, session.Credentials{
		Username: "student.petrov",
		Password: "student123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, u.Role)
	assert.True(t, sessions.IsAuthenticated())

	verified, err := client.VerifyToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, verified.ID)

	ctl := dashboard.New(client,
		dashboard.WithUserSource(sessions),
		dashboard.WithDebounce(10*time.Millisecond),
	)
	defer ctl.Close()

	ctl.Start(ctx)
	snap := ctl.Snapshot()
	require.Equal(t, dashboard.StateReady, snap.State)
	assert.Len(t, snap.Rooms, 7)

	ctl.SetFilters(room.SearchFilters{Building: "Корпус В"})
	ctl.Flush(ctx)

	snap = ctl.Snapshot()
	require.Len(t, snap.Rooms, 2)

	require.NoError(t, ctl.BookRoom(ctx, "6"))

	// The booking starts now, so the refreshed search shows the room occupied.
	snap = ctl.Snapshot()
	require.Len(t, snap.Rooms, 2)
	for _, r := range snap.Rooms {
		if r.ID == "6" {
			assert.Equal(t, room.StatusOccupied, r.Status)
		}
	}

	// The same window conflicts now.
	err = ctl.BookRoom(ctx, "6")
	require.Error(t, err)
	var apiErr *roomapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "time slot already booked", apiErr.Message)

	sessions.Logout(ctx)
	assert.False(t, sessions.IsAuthenticated())
	assert.Empty(t, sessions.Token())
}

func TestExpiredTokenInvalidatesSession(t *testing.T) {
	stack := newClientStack(t)
	ctx := context.Background()

	_, err := stack.sessions.Login(ctx, session.Credentials{
		Username: "teacher.ivanov",
		Password: "teacher123",
	})
	require.NoError(t, err)

	// Replace the persisted token with garbage and rebuild the store, as if
	// the token expired between runs.
	kv := stack.kv
	require.NoError(t, kv.Set("authToken", "expired-token"))
	sessions := session.New(kv)
	client := roomapi.New(stack.baseURL,
		roomapi.WithTokenSource(sessions),
		roomapi.WithOnUnauthorized(sessions.Invalidate),
	)
	sessions.SetAPI(client)
	require.True(t, sessions.IsAuthenticated(), "persisted session should restore")

	_, err = client.VerifyToken(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, roomapi.ErrUnauthorized))

	// The 401 hook dropped the session locally.
	assert.False(t, sessions.IsAuthenticated())
	_, err = kv.Get("authToken")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestUpdateProfileRoundTrip(t *testing.T) {
	stack := newClientStack(t)
	sessions, client := stack.sessions, stack.client
	ctx := context.Background()

	u, err := sessions.Login(ctx, session.Credentials{
		Username: "student.petrov",
		Password: "student123",
	})
	require.NoError(t, err)

	program := "Applied Mathematics"
	sessions.UpdateUser(ctx, user.Partial{Program: &program})

	got, ok := sessions.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, program, got.Program)

	// The server stored it too.
	remote, err := client.GetUserProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, program, remote.Program)
}

func TestScheduleRoundTrip(t *testing.T) {
	client := newClientStack(t).client
	ctx := context.Background()

	entries, err := client.GetRoomSchedule(ctx, "1", "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Математический анализ", entries[0].Subject)

	entries, err = client.GetRoomSchedule(ctx, "1", "2000-01-01")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
