package user

import (
	"time"

	"github.com/google/uuid"
)

// User entity. Students carry a department and student ID, librarians an
// employee ID; the remaining profile fields stay nil for the other role.
type User struct {
	id           uuid.UUID
	name         string
	email        Email
	passwordHash string
	role         Role
	department   *string
	studentID    *string
	employeeID   *string
	createdAt    time.Time
	updatedAt    time.Time
}

func NewStudent(name string, email Email, passwordHash, department, studentID string) (*User, error) {
	if len(name) < 4 {
		return nil, ErrInvalidName
	}
	if department == "" || studentID == "" {
		return nil, ErrMissingStudentInfo
	}
	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         RoleStudent,
		department:   &department,
		studentID:    &studentID,
	}, nil
}

func NewLibrarian(name string, email Email, passwordHash, employeeID string) (*User, error) {
	if len(name) < 4 {
		return nil, ErrInvalidName
	}
	if employeeID == "" {
		return nil, ErrMissingEmployeeID
	}
	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         RoleLibrarian,
		employeeID:   &employeeID,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	name string,
	email Email,
	passwordHash string,
	role Role,
	department, studentID, employeeID *string,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		department:   department,
		studentID:    studentID,
		employeeID:   employeeID,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) Department() *string  { return u.department }
func (u *User) StudentID() *string   { return u.studentID }
func (u *User) EmployeeID() *string  { return u.employeeID }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
