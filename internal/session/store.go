// Package session owns the current authenticated user and the persisted
// credentials that survive restarts: an opaque auth token and the JSON user
// record, stored under two keys in a kvstore.Store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mtuci-campus/roombooking/internal/kvstore"
	"github.com/mtuci-campus/roombooking/internal/logging"
	"github.com/mtuci-campus/roombooking/internal/user"
)

const (
	tokenKey = "authToken"
	userKey  = "userData"
)

var (
	ErrEmptyCredentials = errors.New("username and password are required")
	ErrNotLoggedIn      = errors.New("no user is logged in")
)

// Credentials are what the login form submits. Role is optional; when empty
// it is inferred from the username (demo fallback, see DetectRole).
type Credentials struct {
	Username string
	Password string
	Role     user.Role
}

// API is the remote auth surface the store talks to. A nil API puts the
// store in demo mode: logins succeed locally with a generated user, the way
// the original deployment behaved without a backend.
type API interface {
	Login(ctx context.Context, username, password string, role user.Role) (token string, u user.User, err error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, id string, p user.Partial) (user.User, error)
}

// Store is the session store. It is safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	kv  kvstore.Store
	api API
	log *logrus.Logger
	now func() time.Time

	current *user.User
	token   string
}

// Option configures a Store.
type Option func(*Store)

// WithAPI attaches the remote auth API. Without it the store runs in demo mode.
func WithAPI(api API) Option {
	return func(s *Store) { s.api = api }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithNow overrides the time source (tests).
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// SetAPI attaches the remote auth API after construction. The API client
// and the store reference each other (the client reads the token, the store
// performs remote logins), so one of the two is wired late.
func (s *Store) SetAPI(api API) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
}

// New creates a Store over the given persistence and restores any previous
// session (checkAuth). A malformed persisted user record is discarded along
// with the token; the store then starts unauthenticated.
func New(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		log: logging.Discard(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.checkAuth()
	return s
}

func (s *Store) checkAuth() {
	token, err := s.kv.Get(tokenKey)
	if err != nil {
		return
	}
	raw, err := s.kv.Get(userKey)
	if err != nil {
		return
	}

	var u user.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		s.log.WithError(err).Warn("discarding malformed persisted session")
		s.clearPersisted()
		return
	}

	s.token = token
	s.current = &u
}

// Login authenticates and persists the resulting session. Empty username or
// password fails upfront without any remote call.
func (s *Store) Login(ctx context.Context, creds Credentials) (user.User, error) {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return user.User{}, ErrEmptyCredentials
	}

	role := creds.Role
	if role == "" {
		role = DetectRole(creds.Username)
	}

	var (
		token string
		u     user.User
		err   error
	)
	if s.api != nil {
		token, u, err = s.api.Login(ctx, creds.Username, creds.Password, role)
		if err != nil {
			return user.User{}, fmt.Errorf("login rejected: %w", err)
		}
	} else {
		token, u = s.demoLogin(creds.Username, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.current = &u
	if err := s.persist(); err != nil {
		s.log.WithError(err).Warn("failed to persist session")
	}

	s.log.WithFields(logrus.Fields{"username": u.Username, "role": u.Role}).Info("logged in")
	return u, nil
}

// Logout clears the persisted token and user unconditionally. The server
// side invalidation is best effort; its failure is logged, never returned.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	hadToken := s.token != ""
	s.mu.Unlock()

	if s.api != nil && hadToken {
		if err := s.api.Logout(ctx); err != nil {
			s.log.WithError(err).Warn("server-side logout failed")
		}
	}

	s.Invalidate()
}

// Invalidate drops the session locally without contacting the server. The
// API client's 401 handler calls this.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.current = nil
	s.clearPersisted()
}

// UpdateUser merges the given fields into the current user and re-persists.
// It is a no-op when nobody is logged in. The remote profile update is best
// effort; the local merge wins if it fails.
func (s *Store) UpdateUser(ctx context.Context, p user.Partial) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	merged := user.Merge(*s.current, p)
	s.mu.Unlock()

	if s.api != nil {
		if updated, err := s.api.UpdateProfile(ctx, merged.ID, p); err != nil {
			s.log.WithError(err).Warn("remote profile update failed, keeping local merge")
		} else {
			merged = updated
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		// Logged out while the update was in flight.
		return
	}
	s.current = &merged
	if err := s.persist(); err != nil {
		s.log.WithError(err).Warn("failed to persist session")
	}
}

// Token returns the current auth token, or "" when unauthenticated. It
// satisfies the API client's token source.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// CurrentUser returns the logged-in user, if any.
func (s *Store) CurrentUser() (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return user.User{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

func (s *Store) persist() error {
	raw, err := json.Marshal(s.current)
	if err != nil {
		return err
	}
	if err := s.kv.Set(tokenKey, s.token); err != nil {
		return err
	}
	return s.kv.Set(userKey, string(raw))
}

func (s *Store) clearPersisted() {
	if err := s.kv.Delete(tokenKey); err != nil {
		s.log.WithError(err).Warn("failed to delete persisted token")
	}
	if err := s.kv.Delete(userKey); err != nil {
		s.log.WithError(err).Warn("failed to delete persisted user")
	}
}

// demoLogin fabricates the session used when no backend is configured,
// matching the original demo deployment.
func (s *Store) demoLogin(username string, role user.Role) (string, user.User) {
	u := user.User{
		ID:        "1",
		Username:  username,
		Email:     username + "@mtuci.edu",
		FirstName: "John",
		LastName:  "Doe",
		Role:      role,
	}
	switch role {
	case user.RoleStudent:
		u.StudentID = "BSIT112134513514"
		u.Program = "Information Technology"
	case user.RoleStaff:
		u.Department = "Computer Science Department"
		u.Position = "Professor"
	}
	token := fmt.Sprintf("demo-token-%d", s.now().UnixMilli())
	return token, u
}

// DetectRole infers a role from username substrings. This is a demo
// fallback only: a real account's role is assigned server-side at creation
// and arrives in the login response. Matching is case-insensitive, so
// "Admin" and "ADMIN42" resolve the same way as "admin"; only the all-lower
// spellings carry meaning in the demo accounts anyway.
func DetectRole(username string) user.Role {
	name := strings.ToLower(username)

	if strings.Contains(name, "admin") || strings.Contains(name, "administrator") {
		return user.RoleAdmin
	}
	if strings.Contains(name, "staff") || strings.Contains(name, "teacher") {
		return user.RoleStaff
	}
	return user.RoleStudent
}
