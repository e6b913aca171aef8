// Package roomapi is the HTTP client for the room-booking service. It
// attaches the session's bearer token to every request and treats a 401
// from any endpoint as fatal to the session.
package roomapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/mtuci-campus/roombooking/internal/logging"
	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/user"
)

// TokenSource provides the current auth token, or "" when unauthenticated.
// Requests without a token are sent unauthenticated; the server decides
// whether to reject them.
type TokenSource interface {
	Token() string
}

// Client talks to the booking API. All endpoints share one base URL.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	log            *logrus.Logger
	validate       *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource attaches the session token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithOnUnauthorized registers the hook invoked whenever any endpoint
// answers 401. The session store's Invalidate is the intended callback.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithTimeout overrides the default 10s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client for the given base URL (e.g. "http://localhost:3001/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logging.Discard(),
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates and returns the issued token and user record.
func (c *Client) Login(ctx context.Context, username, password string, role user.Role) (string, user.User, error) {
	req := loginRequest{Username: username, Password: password, Role: role}
	if err := c.validate.Struct(req); err != nil {
		return "", user.User{}, fmt.Errorf("invalid login request: %w", err)
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return "", user.User{}, err
	}
	return resp.Token, resp.User, nil
}

// Logout invalidates the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// VerifyToken checks the current token and returns the user it belongs to.
func (c *Client) VerifyToken(ctx context.Context) (user.User, error) {
	var u user.User
	err := c.do(ctx, http.MethodGet, "/auth/verify", nil, &u)
	return u, err
}

// GetUserProfile fetches a user by id.
func (c *Client) GetUserProfile(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &u)
	return u, err
}

// UpdateProfile applies a partial profile update and returns the stored user.
func (c *Client) UpdateProfile(ctx context.Context, id string, p user.Partial) (user.User, error) {
	var u user.User
	err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), p, &u)
	return u, err
}

// GetAllRooms returns the full room list.
func (c *Client) GetAllRooms(ctx context.Context) ([]room.Room, error) {
	var rooms []room.Room
	err := c.do(ctx, http.MethodGet, "/rooms", nil, &rooms)
	return rooms, err
}

// SearchRooms sends the filters as a single query object and returns the
// matching rooms.
func (c *Client) SearchRooms(ctx context.Context, filters room.SearchFilters) ([]room.Room, error) {
	var rooms []room.Room
	err := c.do(ctx, http.MethodPost, "/rooms/search", filters, &rooms)
	return rooms, err
}

// GetRoom fetches a single room by id.
func (c *Client) GetRoom(ctx context.Context, id string) (room.Room, error) {
	var r room.Room
	err := c.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(id), nil, &r)
	return r, err
}

// GetRoomSchedule returns the room's schedule, optionally for one date
// (format 2006-01-02).
func (c *Client) GetRoomSchedule(ctx context.Context, roomID, date string) ([]room.ScheduleEntry, error) {
	path := "/rooms/" + url.PathEscape(roomID) + "/schedule"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}

	var entries []room.ScheduleEntry
	err := c.do(ctx, http.MethodGet, path, nil, &entries)
	return entries, err
}

// BookRoom submits a booking window for the room. Availability checks are
// the server's responsibility; only the request shape is validated here.
func (c *Client) BookRoom(ctx context.Context, roomID string, req BookingRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid booking request: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/book", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.WithField("path", path).Warn("unauthorized response, dropping session")
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return newAPIError(resp)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
