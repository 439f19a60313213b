package request

import (
	"library-api/internal/domain/user"
)

type SignupRequest struct {
	Name       string  `json:"name" binding:"required,min=4"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=6,max=72"`
	Role       string  `json:"role" binding:"required,oneof=student librarian"`
	Department *string `json:"department" binding:"omitempty,min=1"`
	StudentID  *string `json:"student_id" binding:"omitempty,min=1"`
	EmployeeID *string `json:"employee_id" binding:"omitempty,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r *LoginRequest) ToDomain() (user.Credentials, error) {
	return user.NewCredentials(r.Email, r.Password)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
