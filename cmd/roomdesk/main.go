// roomdesk is the terminal front-end for the campus room-booking service:
// log in, browse and search rooms, inspect schedules and submit bookings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mtuci-campus/roombooking/internal/config"
	"github.com/mtuci-campus/roombooking/internal/dashboard"
	"github.com/mtuci-campus/roombooking/internal/kvstore"
	"github.com/mtuci-campus/roombooking/internal/logging"
	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/roomapi"
	"github.com/mtuci-campus/roombooking/internal/session"
	"github.com/mtuci-campus/roombooking/internal/user"
)

const usage = `usage: roomdesk <command> [flags]

commands:
  login     -u <username> -p <password> [-role student|staff|admin]
  logout
  whoami
  rooms
  search    [-q <text>] [-building <name>] [-floor <n>] [-category <c>]
            [-status <s>] [-min-cap <n>] [-max-cap <n>]
  schedule  -room <id> [-date YYYY-MM-DD]
  book      -room <id> [-start RFC3339] [-end RFC3339] [-purpose <text>] [-group <id>]
`

type app struct {
	cfg      *config.ClientConfig
	sessions *session.Store
	client   *roomapi.Client
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fatal("config: %v", err)
	}

	log := logging.New(cfg.LogLevel)

	sessions := session.New(kvstore.NewFileStore(cfg.SessionFile), session.WithLogger(log))
	client := roomapi.New(cfg.APIBaseURL,
		roomapi.WithTokenSource(sessions),
		roomapi.WithTimeout(cfg.HTTPTimeout),
		roomapi.WithLogger(log),
		roomapi.WithOnUnauthorized(func() {
			sessions.Invalidate()
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		}),
	)
	sessions.SetAPI(client)

	a := &app{cfg: cfg, sessions: sessions, client: client}
	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		err = a.login(ctx, os.Args[2:])
	case "logout":
		a.sessions.Logout(ctx)
		fmt.Println("logged out")
	case "whoami":
		err = a.whoami()
	case "rooms":
		err = a.rooms(ctx)
	case "search":
		err = a.search(ctx, os.Args[2:])
	case "schedule":
		err = a.schedule(ctx, os.Args[2:])
	case "book":
		err = a.book(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fatal("%v", err)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	role := fs.String("role", "", "role (optional: student, staff, admin)")
	fs.Parse(args)

	u, err := a.sessions.Login(ctx, session.Credentials{
		Username: *username,
		Password: *password,
		Role:     user.Role(*role),
	})
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s %s (%s)\n", u.FirstName, u.LastName, u.Role.Display())
	return nil
}

func (a *app) whoami() error {
	u, ok := a.sessions.CurrentUser()
	if !ok {
		return errors.New("not logged in")
	}

	fmt.Printf("%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
	fmt.Printf("role: %s\n", u.Role.Display())
	switch u.Role {
	case user.RoleStudent:
		fmt.Printf("student id: %s, program: %s\n", u.StudentID, u.Program)
	case user.RoleStaff:
		fmt.Printf("department: %s, position: %s\n", u.Department, u.Position)
	}
	return nil
}

func (a *app) rooms(ctx context.Context) error {
	ctl := a.controller()
	defer ctl.Close()

	ctl.Start(ctx)
	printSnapshot(ctl.Snapshot())
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "free-text query")
	building := fs.String("building", "", "building name")
	floor := fs.Int("floor", -1, "floor")
	category := fs.String("category", "", "room category")
	status := fs.String("status", "", "room status")
	minCap := fs.Int("min-cap", -1, "minimum capacity")
	maxCap := fs.Int("max-cap", -1, "maximum capacity")
	fs.Parse(args)

	filters := room.SearchFilters{
		Building: *building,
		Category: room.Category(*category),
		Status:   room.Status(*status),
	}
	if *floor >= 0 {
		filters.Floor = floor
	}
	if *minCap >= 0 {
		filters.MinCapacity = minCap
	}
	if *maxCap >= 0 {
		filters.MaxCapacity = maxCap
	}

	ctl := a.controller()
	defer ctl.Close()

	ctl.Start(ctx)
	ctl.SetFilters(filters)
	ctl.SetQuery(*query)
	// One-shot run: skip the debounce wait.
	ctl.Flush(ctx)

	printSnapshot(ctl.Snapshot())
	return nil
}

func (a *app) schedule(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	roomID := fs.String("room", "", "room id")
	date := fs.String("date", "", "date (YYYY-MM-DD)")
	fs.Parse(args)

	if *roomID == "" {
		return errors.New("-room is required")
	}

	entries, err := a.client.GetRoomSchedule(ctx, *roomID, *date)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("no schedule entries")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "START\tEND\tSUBJECT\tTEACHER\tGROUP")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.StartTime.Format("15:04"), e.EndTime.Format("15:04"),
			e.Subject, e.Teacher, e.Group)
	}
	return w.Flush()
}

func (a *app) book(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	roomID := fs.String("room", "", "room id")
	start := fs.String("start", "", "start time (RFC3339, default now)")
	end := fs.String("end", "", "end time (RFC3339, default start+2h)")
	purpose := fs.String("purpose", "Занятие", "booking purpose")
	group := fs.String("group", "", "group identifier")
	fs.Parse(args)

	if *roomID == "" {
		return errors.New("-room is required")
	}

	req := roomapi.BookingRequest{
		StartTime: time.Now(),
		Purpose:   *purpose,
		Group:     *group,
	}
	if *start != "" {
		t, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return fmt.Errorf("invalid -start: %w", err)
		}
		req.StartTime = t
	}
	req.EndTime = req.StartTime.Add(2 * time.Hour)
	if *end != "" {
		t, err := time.Parse(time.RFC3339, *end)
		if err != nil {
			return fmt.Errorf("invalid -end: %w", err)
		}
		req.EndTime = t
	}

	if req.Group == "" {
		if u, ok := a.sessions.CurrentUser(); ok && u.Role == user.RoleStudent {
			req.Group = u.StudentID
		}
	}

	if err := a.client.BookRoom(ctx, *roomID, req); err != nil {
		var apiErr *roomapi.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("booking failed: %s", apiErr.Message)
		}
		return err
	}

	fmt.Println("Кабинет успешно забронирован!")
	return nil
}

func (a *app) controller() *dashboard.Controller {
	return dashboard.New(a.client,
		dashboard.WithUserSource(a.sessions),
		dashboard.WithDebounce(a.cfg.SearchDebounce),
	)
}

func printSnapshot(snap dashboard.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tCATEGORY\tBUILDING\tFLOOR\tCAPACITY\tSTATUS")
	for _, r := range snap.Rooms {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Number, r.Category.Display(), r.Building, r.Floor, r.Capacity, r.Status.Display())
	}
	w.Flush()

	fmt.Printf("\n%d rooms", snap.Stats.Total)
	if n := snap.Stats.ByStatus[room.StatusAvailable]; n > 0 {
		fmt.Printf(", %d available", n)
	}
	if n := snap.Stats.ByStatus[room.StatusOccupied]; n > 0 {
		fmt.Printf(", %d occupied", n)
	}
	if n := snap.Stats.ByStatus[room.StatusMaintenance]; n > 0 {
		fmt.Printf(", %d under maintenance", n)
	}
	fmt.Println()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
