//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"library-api/internal/handler/dto/request"
	"library-api/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const TestPassword = "Password123!"

// SignupUser registers an account through the API and returns nothing; the
// caller logs in separately.
func SignupUser(t *testing.T, router *gin.Engine, name, email, role string) {
	t.Helper()

	department := "Computer Science"
	studentID := "S-" + name
	employeeID := "E-" + name

	req := request.SignupRequest{
		Name:     name,
		Email:    email,
		Password: TestPassword,
		Role:     role,
	}
	if role == "librarian" {
		req.EmployeeID = &employeeID
	} else {
		req.Department = &department
		req.StudentID = &studentID
	}

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/signup", req, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Extract access token from cookie
	accessCookie := httptest.ExtractCookie(w, "access_token")
	require.NotNil(t, accessCookie, "Access token not found in cookies")
	require.NotEmpty(t, accessCookie.Value, "Access token cookie is empty")

	return accessCookie.Value
}

// CreateAndLogin registers a fresh account and returns its access token.
func CreateAndLogin(t *testing.T, router *gin.Engine, name, email, role string) string {
	t.Helper()
	SignupUser(t, router, name, email, role)
	return LoginUser(t, router, email, TestPassword)
}
