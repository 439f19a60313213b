package user

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidName        = errors.New("name must have more than 4 characters")
	ErrPasswordTooShort   = errors.New("password must have at least 6 characters")
	ErrPasswordTooLong    = errors.New("password is too long, max limit 72")
	ErrPasswordTooWeak    = errors.New("password must contain lowercase, uppercase, number and special character")
	ErrMissingStudentInfo = errors.New("student requires department and student id")
	ErrMissingEmployeeID  = errors.New("librarian requires employee id")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[@$!%*?&#]`)
)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

type Password struct {
	value string
}

func NewPassword(s string) (Password, error) {
	if len(s) < 6 {
		return Password{}, ErrPasswordTooShort
	}
	if len(s) > 72 {
		return Password{}, ErrPasswordTooLong
	}
	if !lowerRegex.MatchString(s) || !upperRegex.MatchString(s) ||
		!digitRegex.MatchString(s) || !specialRegex.MatchString(s) {
		return Password{}, ErrPasswordTooWeak
	}
	return Password{value: s}, nil
}

func (p Password) Value() string {
	return p.value
}

type Credentials struct {
	email    Email
	password Password
}

func NewCredentials(email, password string) (Credentials, error) {
	emailVO, err := NewEmail(email)
	if err != nil {
		return Credentials{}, err
	}
	passwordVO, err := NewPassword(password)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{email: emailVO, password: passwordVO}, nil
}

func (c Credentials) Email() Email       { return c.email }
func (c Credentials) Password() Password { return c.password }
