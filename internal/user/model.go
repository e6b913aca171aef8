package user

import "errors"

var (
	ErrNotFound = errors.New("user not found")
)

// Role gates which optional profile fields apply to a user. It is decided
// server-side at account creation; the client only carries it.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Display returns the human-readable role text shown in the UI.
func (r Role) Display() string {
	switch r {
	case RoleStudent:
		return "Студент"
	case RoleStaff:
		return "Преподаватель"
	case RoleAdmin:
		return "Администратор"
	default:
		return string(r)
	}
}

// User is the authenticated account. StudentID and Program are only
// meaningful for students, Department and Position only for staff.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      Role   `json:"userType"`

	StudentID string `json:"studentId,omitempty"`
	Program   string `json:"program,omitempty"`

	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

// Partial carries the fields of a profile update; nil means "leave unchanged".
type Partial struct {
	Email      *string `json:"email,omitempty"`
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	StudentID  *string `json:"studentId,omitempty"`
	Program    *string `json:"program,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
}

// Merge applies the set fields of p onto a copy of u and returns it.
func Merge(u User, p Partial) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.StudentID != nil {
		u.StudentID = *p.StudentID
	}
	if p.Program != nil {
		u.Program = *p.Program
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.Position != nil {
		u.Position = *p.Position
	}
	return u
}
