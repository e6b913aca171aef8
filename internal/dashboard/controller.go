// Package dashboard orchestrates the room search view: it loads rooms on
// entry, debounces filter-driven searches, falls back to local filtering
// when the service is unreachable, and refreshes the list after bookings.
package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mtuci-campus/roombooking/internal/logging"
	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/roomapi"
	"github.com/mtuci-campus/roombooking/internal/user"
)

// State is the controller's lifecycle phase.
type State string

const (
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateSearching State = "searching"
)

const (
	defaultDebounce    = 500 * time.Millisecond
	defaultBookWindow  = 2 * time.Hour
	defaultBookPurpose = "Занятие"
)

// API is the subset of the booking client the controller drives.
type API interface {
	GetAllRooms(ctx context.Context) ([]room.Room, error)
	SearchRooms(ctx context.Context, filters room.SearchFilters) ([]room.Room, error)
	BookRoom(ctx context.Context, roomID string, req roomapi.BookingRequest) error
}

// UserSource exposes the acting user; the session store satisfies it.
type UserSource interface {
	CurrentUser() (user.User, bool)
}

// Snapshot is what the view renders.
type Snapshot struct {
	State   State
	Rooms   []room.Room
	Query   string
	Filters room.SearchFilters
	Stats   room.Stats
}

// Controller owns the working copy of the room list and the active search
// filters for the duration of the view. All mutation happens under one
// mutex; the debounce timer is the only scheduled work.
type Controller struct {
	api   API
	users UserSource
	log   *logrus.Logger
	now   func() time.Time

	debounce time.Duration
	onChange func(Snapshot)

	mu       sync.Mutex
	state    State
	allRooms []room.Room // last successfully loaded full list
	rooms    []room.Room // currently displayed list
	query    string
	filters  room.SearchFilters
	timer    *time.Timer
	seq      uint64 // latest issued search or load; stale completions are discarded
	closed   bool
	ctx      context.Context
}

// Option configures a Controller.
type Option func(*Controller)

// WithUserSource attaches the session store so bookings carry the acting
// user's group.
func WithUserSource(us UserSource) Option {
	return func(c *Controller) { c.users = us }
}

// WithDebounce overrides the 500ms search debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithNow overrides the time source (tests).
func WithNow(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithOnChange registers a callback invoked after every state change with a
// fresh snapshot.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a Controller. Call Start to load the initial room list.
func New(api API, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		log:      logging.Discard(),
		now:      time.Now,
		debounce: defaultDebounce,
		state:    StateLoading,
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start performs the initial room load. The given context is also used for
// debounce-triggered searches.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()
	c.loadAll(ctx)
}

// loadAll fetches the full room list, substituting the fixed fallback
// dataset on failure so the view is never empty. It participates in the
// sequence guard: starting a load orphans any in-flight search, and a
// search issued while the load is in flight supersedes the load in turn.
func (c *Controller) loadAll(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	id := c.seq
	c.state = StateLoading
	c.mu.Unlock()
	c.notify()

	rooms, err := c.api.GetAllRooms(ctx)
	if err != nil {
		c.log.WithError(err).Warn("room load failed, using fallback dataset")
		rooms = room.Fallback()
	}

	c.mu.Lock()
	if id != c.seq {
		c.mu.Unlock()
		return
	}
	c.allRooms = rooms
	c.rooms = rooms
	c.state = StateReady
	c.mu.Unlock()
	c.notify()
}

// SetQuery updates the free-text query and (re)arms the debounce timer.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
	c.armDebounce()
}

// SetFilters replaces the structured filters and (re)arms the debounce
// timer. The free-text query is kept separately and merged at search time.
func (c *Controller) SetFilters(f room.SearchFilters) {
	f.Query = ""
	c.mu.Lock()
	c.filters = f
	c.mu.Unlock()
	c.armDebounce()
}

// armDebounce schedules a search after the debounce interval, cancelling
// any pending, not-yet-fired timer first.
func (c *Controller) armDebounce() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	ctx := c.ctx
	c.timer = time.AfterFunc(c.debounce, func() {
		c.runSearch(ctx)
	})
}

// Flush cancels the pending debounce timer and runs the search immediately.
// One-shot callers (the CLI) use it instead of waiting out the interval.
func (c *Controller) Flush(ctx context.Context) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.runSearch(ctx)
}

// runSearch executes the merged query+filters search. If nothing is set, no
// remote call is made and the last loaded list is redisplayed.
func (c *Controller) runSearch(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	merged := c.filters
	merged.Query = strings.TrimSpace(c.query)

	if merged.IsZero() {
		c.seq++ // this redisplay supersedes any in-flight search
		c.rooms = c.allRooms
		c.state = StateReady
		c.mu.Unlock()
		c.notify()
		return
	}

	c.seq++
	id := c.seq
	c.state = StateSearching
	snapshotAll := c.allRooms
	c.mu.Unlock()
	c.notify()

	results, err := c.api.SearchRooms(ctx, merged)
	if err != nil {
		c.log.WithError(err).Warn("remote search failed, filtering locally")
		results = room.FilterByQuery(snapshotAll, merged.Query)
	}

	c.mu.Lock()
	if id != c.seq {
		// A newer search was issued while this one was in flight; its
		// response, not ours, owns the view.
		c.mu.Unlock()
		return
	}
	c.rooms = results
	c.state = StateReady
	c.mu.Unlock()
	c.notify()
}

// ClearSearch resets the query and filters and re-triggers the full load.
func (c *Controller) ClearSearch(ctx context.Context) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.query = ""
	c.filters = room.SearchFilters{}
	c.mu.Unlock()
	c.loadAll(ctx)
}

// BookRoom submits a default two-hour booking window for the room and, on
// success, re-runs the active search so displayed statuses refresh. A
// failure is returned for the view to surface; controller state is
// unchanged.
func (c *Controller) BookRoom(ctx context.Context, roomID string) error {
	req := roomapi.BookingRequest{
		StartTime: c.now(),
		EndTime:   c.now().Add(defaultBookWindow),
		Purpose:   defaultBookPurpose,
	}
	if c.users != nil {
		if u, ok := c.users.CurrentUser(); ok && u.Role == user.RoleStudent {
			req.Group = u.StudentID
		}
	}

	if err := c.api.BookRoom(ctx, roomID, req); err != nil {
		return err
	}

	// Refresh displayed statuses: repeat the active search, or re-fetch the
	// full list when no search is active.
	c.mu.Lock()
	active := !c.filters.IsZero() || strings.TrimSpace(c.query) != ""
	c.mu.Unlock()
	if active {
		c.runSearch(ctx)
	} else {
		c.loadAll(ctx)
	}
	return nil
}

// Snapshot returns the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	rooms := make([]room.Room, len(c.rooms))
	copy(rooms, c.rooms)
	return Snapshot{
		State:   c.state,
		Rooms:   rooms,
		Query:   c.query,
		Filters: c.filters,
		Stats:   room.ComputeStats(rooms),
	}
}

// Close cancels any pending debounce timer. In-flight searches finish but
// their results are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.seq++ // orphan any in-flight search
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.Snapshot())
}
