package roomapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/user"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]room.Room{})
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(staticToken("tok-1")))
	_, err := c.GetAllRooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestNoTokenMeansUnauthenticatedRequest(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]room.Room{})
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(staticToken("")))
	_, err := c.GetAllRooms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedTriggersHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid or expired token"})
	}))
	defer srv.Close()

	hookCalls := 0
	c := New(srv.URL, WithOnUnauthorized(func() { hookCalls++ }))

	_, err := c.GetAllRooms(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, hookCalls)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid or expired token", apiErr.Message)
}

func TestBookRoomServerMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/1/book", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "time slot already booked"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.BookRoom(context.Background(), "1", BookingRequest{
		StartTime: time.Now().Add(time.Hour),
		EndTime:   time.Now().Add(2 * time.Hour),
		Purpose:   "Занятие",
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "time slot already booked", apiErr.Message)
}

func TestUnparsableErrorBodyYieldsGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetAllRooms(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 502", apiErr.Message)
}

func TestBookRoomValidatesShapeWithoutNetworkCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.BookRoom(context.Background(), "1", BookingRequest{Purpose: ""})
	require.Error(t, err)
	assert.False(t, called)
}

func TestSearchRoomsSendsSingleFilterObject(t *testing.T) {
	floor := 2
	var got room.SearchFilters
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rooms/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode([]room.Room{{ID: "3", Number: "205"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	rooms, err := c.SearchRooms(context.Background(), room.SearchFilters{
		Query:    "205",
		Floor:    &floor,
		Category: room.CategoryComputer,
	})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "205", rooms[0].Number)

	assert.Equal(t, "205", got.Query)
	require.NotNil(t, got.Floor)
	assert.Equal(t, 2, *got.Floor)
	assert.Equal(t, room.CategoryComputer, got.Category)
}

func TestLoginDecodesTokenAndUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "petrov", req["username"])
		assert.Equal(t, "student", req["userType"])

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-9",
			"user":  user.User{ID: "9", Username: "petrov", Role: user.RoleStudent},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	token, u, err := c.Login(context.Background(), "petrov", "pass", user.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "tok-9", token)
	assert.Equal(t, "9", u.ID)
}
