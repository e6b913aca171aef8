package devserver

import (
	"fmt"
	"time"

	"github.com/mtuci-campus/roombooking/internal/devserver/auth"
	"github.com/mtuci-campus/roombooking/internal/room"
	"github.com/mtuci-campus/roombooking/internal/user"
)

// SeedAccount is returned by Seed so callers (and the README) know the demo
// credentials.
type SeedAccount struct {
	Username string
	Password string
	Role     user.Role
}

// SeedAccounts are the demo logins the dev server starts with.
var SeedAccounts = []SeedAccount{
	{Username: "admin", Password: "admin123", Role: user.RoleAdmin},
	{Username: "teacher.ivanov", Password: "teacher123", Role: user.RoleStaff},
	{Username: "student.petrov", Password: "student123", Role: user.RoleStudent},
}

// Seed loads the demo accounts, rooms and timetable into the store.
func Seed(s *MemoryStore, hasher auth.PasswordHasher) error {
	for i, acc := range SeedAccounts {
		hash, err := hasher.Hash(acc.Password)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}

		u := user.User{
			ID:       fmt.Sprintf("u-%d", i+1),
			Username: acc.Username,
			Email:    acc.Username + "@mtuci.edu",
			Role:     acc.Role,
		}
		switch acc.Role {
		case user.RoleStudent:
			u.FirstName, u.LastName = "Пётр", "Петров"
			u.StudentID = "BSIT112134513514"
			u.Program = "Information Technology"
		case user.RoleStaff:
			u.FirstName, u.LastName = "Иван", "Иванов"
			u.Department = "Computer Science Department"
			u.Position = "Professor"
		case user.RoleAdmin:
			u.FirstName, u.LastName = "Анна", "Смирнова"
		}

		if err := s.AddAccount(Account{User: u, PasswordHash: hash}); err != nil {
			return err
		}
	}

	for _, r := range seedRooms() {
		s.AddRoom(r)
	}

	// A couple of timetable slots for room 101 today.
	today := time.Now().Truncate(24 * time.Hour)
	s.AddScheduleEntry(room.ScheduleEntry{
		RoomID:    "1",
		StartTime: today.Add(9 * time.Hour),
		EndTime:   today.Add(10*time.Hour + 30*time.Minute),
		Subject:   "Математический анализ",
		Teacher:   "Иванов И.И.",
		Group:     "БИТ-21",
	})
	s.AddScheduleEntry(room.ScheduleEntry{
		RoomID:    "1",
		StartTime: today.Add(12 * time.Hour),
		EndTime:   today.Add(13*time.Hour + 30*time.Minute),
		Subject:   "Средства программирования",
		Teacher:   "Иванов И.И.",
		Group:     "БИТ-22",
	})

	return nil
}

func seedRooms() []room.Room {
	rooms := room.Fallback()
	rooms = append(rooms,
		room.Room{
			ID:        "5",
			Number:    "201",
			Category:  room.CategoryPractice,
			Capacity:  35,
			Building:  "Главный корпус",
			Floor:     2,
			Status:    room.StatusAvailable,
			Equipment: []string{"Доска"},
		},
		room.Room{
			ID:        "6",
			Number:    "412",
			Category:  room.CategoryLecture,
			Capacity:  120,
			Building:  "Корпус В",
			Floor:     4,
			Status:    room.StatusAvailable,
			Equipment: []string{"Проектор", "Микрофон", "Доска"},
		},
		room.Room{
			ID:       "7",
			Number:   "105",
			Category: room.CategoryOther,
			Capacity: 10,
			Building: "Корпус В",
			Floor:    1,
			Status:   room.StatusOccupied,
		},
	)
	return rooms
}
