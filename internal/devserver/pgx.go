package devserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/user"
)

// NewPool creates a new pgx connection pool using the provided DSN.
// It pings the database to ensure the connection is valid.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	// Use a short-lived context for the initial ping.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// PgxStore is the Postgres-backed Store, used when DB_DSN is configured.
type PgxStore struct {
	pool *pgxpool.Pool
}

// NewPgxStore wraps a connection pool in a Store.
func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{pool: pool}
}

const accountColumns = `id, username, email, first_name, last_name, role,
	student_id, program, department, position, password_hash`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.Role,
		&a.StudentID, &a.Program, &a.Department, &a.Position, &a.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan account failed: %w", err)
	}
	return &a, nil
}

func (s *PgxStore) GetAccountByUsername(ctx context.Context, username string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.users WHERE username = $1`, accountColumns)
	return scanAccount(s.pool.QueryRow(ctx, query, username))
}

func (s *PgxStore) GetUserByID(ctx context.Context, id string) (user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.users WHERE id = $1`, accountColumns)
	a, err := scanAccount(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return user.User{}, err
	}
	return a.User, nil
}

func (s *PgxStore) UpdateUser(ctx context.Context, id string, p user.Partial) (user.User, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("public.users").Where(squirrel.Eq{"id": id})

	changed := false
	set := func(col string, v *string) {
		if v != nil {
			update = update.Set(col, *v)
			changed = true
		}
	}
	set("email", p.Email)
	set("first_name", p.FirstName)
	set("last_name", p.LastName)
	set("student_id", p.StudentID)
	set("program", p.Program)
	set("department", p.Department)
	set("position", p.Position)

	if changed {
		query, args, err := update.ToSql()
		if err != nil {
			return user.User{}, fmt.Errorf("build update user query failed: %w", err)
		}
		ct, err := s.pool.Exec(ctx, query, args...)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return user.User{}, ErrUsernameTaken
			}
			return user.User{}, fmt.Errorf("update user failed: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return user.User{}, ErrUserNotFound
		}
	}

	return s.GetUserByID(ctx, id)
}

const roomColumns = "id, number, name, category, capacity, building, floor, status, equipment"

func scanRooms(rows pgx.Rows) ([]room.Room, error) {
	defer rows.Close()

	var out []room.Room
	for rows.Next() {
		var r room.Room
		if err := rows.Scan(
			&r.ID, &r.Number, &r.Name, &r.Category, &r.Capacity,
			&r.Building, &r.Floor, &r.Status, &r.Equipment,
		); err != nil {
			return nil, fmt.Errorf("scan room failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PgxStore) ListRooms(ctx context.Context) ([]room.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.rooms ORDER BY building, number`, roomColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms failed: %w", err)
	}
	return scanRooms(rows)
}

// SearchRooms builds the filter query dynamically; the free-text query
// matches the room number and building in SQL, and the category display
// text is matched in Go afterwards since it only exists client-side.
func (s *PgxStore) SearchRooms(ctx context.Context, filters room.SearchFilters) ([]room.Room, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(roomColumns).From("public.rooms")

	if filters.Building != "" {
		query = query.Where(squirrel.ILike{"building": filters.Building})
	}
	if filters.Floor != nil {
		query = query.Where(squirrel.Eq{"floor": *filters.Floor})
	}
	if filters.Category != "" {
		query = query.Where(squirrel.Eq{"category": string(filters.Category)})
	}
	if filters.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filters.Status)})
	}
	if filters.MinCapacity != nil {
		query = query.Where(squirrel.GtOrEq{"capacity": *filters.MinCapacity})
	}
	if filters.MaxCapacity != nil {
		query = query.Where(squirrel.LtOrEq{"capacity": *filters.MaxCapacity})
	}
	query = query.OrderBy("building", "number")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search rooms query failed: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search rooms failed: %w", err)
	}
	matched, err := scanRooms(rows)
	if err != nil {
		return nil, err
	}

	return room.FilterByQuery(matched, filters.Query), nil
}

func (s *PgxStore) GetRoom(ctx context.Context, id string) (room.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.rooms WHERE id = $1`, roomColumns)

	var r room.Room
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&r.ID, &r.Number, &r.Name, &r.Category, &r.Capacity,
		&r.Building, &r.Floor, &r.Status, &r.Equipment,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return room.Room{}, ErrRoomNotFound
		}
		return room.Room{}, fmt.Errorf("get room failed: %w", err)
	}
	return r, nil
}

func (s *PgxStore) SetRoomStatus(ctx context.Context, id string, status room.Status) error {
	const query = `UPDATE public.rooms SET status = $1 WHERE id = $2`
	ct, err := s.pool.Exec(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("update room status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *PgxStore) ListSchedule(ctx context.Context, roomID string, date *time.Time) ([]room.ScheduleEntry, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "room_id", "start_time", "end_time", "subject", "teacher", "class_group").
		From("public.room_schedule").
		Where(squirrel.Eq{"room_id": roomID}).
		OrderBy("start_time")
	if date != nil {
		query = query.Where(squirrel.Expr("start_time::date = ?::date", *date))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list schedule query failed: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedule failed: %w", err)
	}
	defer rows.Close()

	var out []room.ScheduleEntry
	for rows.Next() {
		var e room.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.RoomID, &e.StartTime, &e.EndTime, &e.Subject, &e.Teacher, &e.Group); err != nil {
			return nil, fmt.Errorf("scan schedule entry failed: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PgxStore) HasOverlap(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.bookings
			WHERE room_id = $1 AND start_time < $3 AND end_time > $2
		)
	`
	var exists bool
	if err := s.pool.QueryRow(ctx, query, roomID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("overlap check failed: %w", err)
	}
	return exists, nil
}

func (s *PgxStore) CreateBooking(ctx context.Context, b *Booking) error {
	const query = `
		INSERT INTO public.bookings (room_id, user_id, start_time, end_time, purpose, class_group)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := s.pool.QueryRow(ctx, query, b.RoomID, b.UserID, b.StartTime, b.EndTime, b.Purpose, b.Group).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
			return ErrTimeConflict
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}
