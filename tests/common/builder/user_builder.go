//go:build unit || e2e

package builder

import (
	"time"

	"library-api/internal/domain/user"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Department   string
	StudentID    string
	EmployeeID   string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Name:         "Test Student",
		Email:        "student@example.com",
		PasswordHash: "hashed_password",
		Role:         "student",
		Department:   "Computer Science",
		StudentID:    "S-1001",
		EmployeeID:   "E-2001",
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	if u.Role == string(user.RoleLibrarian) {
		return user.NewLibrarian(u.Name, email, u.PasswordHash, u.EmployeeID)
	}
	return user.NewStudent(u.Name, email, u.PasswordHash, u.Department, u.StudentID)
}

func (u *UserBuilder) BuildReadModel() *queries.UserView {
	view := &queries.UserView{
		ID:        uuid.New(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: time.Now(),
	}
	if u.Role == string(user.RoleLibrarian) {
		view.EmployeeID = &u.EmployeeID
	} else {
		view.Department = &u.Department
		view.StudentID = &u.StudentID
	}
	return view
}

func (u *UserBuilder) BuildAuthorizedView() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:    uuid.New(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// Fluent builder methods
func (u *UserBuilder) WithName(name string) *UserBuilder {
	u.Name = name
	return u
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	u.PasswordHash = hash
	return u
}

func (u *UserBuilder) AsLibrarian() *UserBuilder {
	u.Role = string(user.RoleLibrarian)
	return u
}
