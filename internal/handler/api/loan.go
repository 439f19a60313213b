package api

import (
	"errors"
	"net/http"

	resdto "library-api/internal/handler/dto/response"
	"library-api/internal/handler/httperr"
	"library-api/internal/handler/middleware"
	"library-api/internal/pkg/errs"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoanHandler struct {
	loanCommands commands.LoanCommands
	loanQueries  queries.LoanQueries
}

func NewLoanHandler(loanCommands commands.LoanCommands, loanQueries queries.LoanQueries) *LoanHandler {
	return &LoanHandler{
		loanCommands: loanCommands,
		loanQueries:  loanQueries,
	}
}

// @Summary Borrow book
// @Description Borrow a copy of the given book
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param bookId path string true "Book ID"
// @Success 201 {object} resdto.LoanResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /loans/{bookId}/borrow [post]
func (h *LoanHandler) BorrowBook(c *gin.Context) {
	userID, bookID, ok := h.loanParams(c)
	if !ok {
		return
	}

	loanView, err := h.loanCommands.Borrow(c.Request.Context(), userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLoanLimitExceeded):
			httperr.AbortWithError(c, http.StatusConflict, err, "Borrowing limit reached", nil)
		case errors.Is(err, commands.ErrBookAlreadyBorrowed):
			httperr.AbortWithError(c, http.StatusConflict, err, "Book is already borrowed by you", nil)
		case errors.Is(err, commands.ErrBookUnavailable):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Book is not available", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromLoanView(loanView))
}

// @Summary Renew loan
// @Description Extend an active loan by one period
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param bookId path string true "Book ID"
// @Success 200 {object} resdto.LoanResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /loans/{bookId}/renew [post]
func (h *LoanHandler) RenewLoan(c *gin.Context) {
	userID, bookID, ok := h.loanParams(c)
	if !ok {
		return
	}

	loanView, err := h.loanCommands.Renew(c.Request.Context(), userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLoanNotRenewable):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Loan cannot be renewed", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoanView(loanView))
}

// @Summary Return book
// @Description Return an active loan
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param bookId path string true "Book ID"
// @Success 200 {object} resdto.LoanResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /loans/{bookId}/return [post]
func (h *LoanHandler) ReturnBook(c *gin.Context) {
	userID, bookID, ok := h.loanParams(c)
	if !ok {
		return
	}

	loanView, err := h.loanCommands.Return(c.Request.Context(), userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrActiveLoanNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Active loan not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoanView(loanView))
}

// @Summary List my loans
// @Description List all loans of the current user, newest first
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.LoanResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /loans [get]
func (h *LoanHandler) GetUserLoans(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("missing user in context"), "Internal server error", nil)
		return
	}

	loanViews, err := h.loanQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrNoLoans):
			httperr.AbortWithError(c, http.StatusNotFound, err, "No books borrowed", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoanViews(loanViews))
}

func (h *LoanHandler) loanParams(c *gin.Context) (userID, bookID uuid.UUID, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("missing user in context"), "Internal server error", nil)
		return uuid.Nil, uuid.Nil, false
	}

	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID format", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, bookID, true
}
