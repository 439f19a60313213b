//go:build e2e

package loan_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"library-api/internal/domain/loan"
	"library-api/internal/handler/dto/request"
	"library-api/internal/handler/dto/response"
	"library-api/tests/common/authtest"
	"library-api/tests/common/dbtest"
	"library-api/tests/common/httptest"
	"library-api/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loansURL  = "/api/loans"
	borrowURL = "/api/loans/%s/borrow"
	renewURL  = "/api/loans/%s/renew"
	returnURL = "/api/loans/%s/return"
)

type LoanSuite struct {
	e2e.SharedSuite
}

func (s *LoanSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestLoanSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(LoanSuite))
}

// =============================================================================
// TestBorrowBook - Borrow API tests
// =============================================================================

func (s *LoanSuite) TestBorrowBook() {
	s.Run("Normal case: Student can borrow an available book", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "alice", "alice@example.com", "student")
		bookID := dbtest.CreateTestBook(t, s.DB, "The Go Programming Language", "Alan Donovan", 3, 3)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.LoanResponse
		err := httptest.DecodeResponseBody(t, w.Body, &created)
		require.NoError(t, err)
		require.Equal(t, bookID, created.BookID)
		require.Equal(t, "The Go Programming Language", created.BookTitle)
		require.Equal(t, "borrowed", created.Status)
		require.Equal(t, int32(0), created.RenewalCount)
		require.WithinDuration(t, created.BorrowedAt.Add(loan.Period), created.DueAt, time.Second)

		// Stock is decremented and a delivery job is queued
		require.Equal(t, int32(2), dbtest.AvailableCopies(t, s.DB, bookID))
		require.Equal(t, int64(1), dbtest.CountNotificationJobs(t, s.DB, "loan_borrowed"))
	})

	s.Run("Error case: Borrowing limit rejects the next borrow", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "bobby", "bobby@example.com", "student")

		for i := range loan.MaxActiveLoans {
			bookID := dbtest.CreateTestBook(t, s.DB, fmt.Sprintf("Book %d", i), "Author", 1, 1)
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		}
		userID := dbtest.UserIDByEmail(t, s.DB, "bobby@example.com")
		require.Equal(t, int64(loan.MaxActiveLoans), dbtest.CountActiveLoans(t, s.DB, userID))

		extraID := dbtest.CreateTestBook(t, s.DB, "One Too Many", "Author", 1, 1)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, extraID), nil, token)
		require.Equal(t, http.StatusConflict, w.Code, "Should reject borrow beyond the active-loan limit")

		// The rejected borrow must not touch stock
		require.Equal(t, int32(1), dbtest.AvailableCopies(t, s.DB, extraID))
	})

	s.Run("Error case: Same book cannot be borrowed twice", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "carol", "carol@example.com", "student")
		bookID := dbtest.CreateTestBook(t, s.DB, "Learning Go", "Jon Bodner", 2, 2)

		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
		require.Equal(t, http.StatusCreated, w1.Code)

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
		require.Equal(t, http.StatusConflict, w2.Code, "Should prevent a second active loan on the same book")

		require.Equal(t, int32(1), dbtest.AvailableCopies(t, s.DB, bookID))
	})

	s.Run("Error case: Book with no copies left returns 404", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "dave", "dave@example.com", "student")
		bookID := dbtest.CreateTestBook(t, s.DB, "Out Of Stock", "Author", 1, 0)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Auth test - Librarian cannot borrow", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "erin", "erin@example.com", "librarian")
		bookID := dbtest.CreateTestBook(t, s.DB, "Staff Only", "Author", 1, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
		require.Equal(t, http.StatusForbidden, w.Code, "Borrowing is a student-only operation")
	})

	s.Run("Auth test - Unauthorized when not logged in", func() {
		t := s.T()

		bookID := dbtest.CreateTestBook(t, s.DB, "No Auth", "Author", 1, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, "Should reject unauthorized access")
	})
}

// =============================================================================
// TestRenewLoan - Renew API tests
// =============================================================================

func (s *LoanSuite) TestRenewLoan() {
	s.Run("Normal case: Active loan can be renewed once", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "frank", "frank@example.com", "student")
		bookID := dbtest.CreateTestBook(t, s.DB, "Renewable", "Author", 1, 1)

		bw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
		require.Equal(t, http.StatusCreated, bw.Code)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(renewURL, bookID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var renewed response.LoanResponse
		err := httptest.DecodeResponseBody(t, w.Body, &renewed)
		require.NoError(t, err)
		require.Equal(t, int32(1), renewed.RenewalCount)
		require.WithinDuration(t, time.Now().Add(loan.Period), renewed.DueAt, 5*time.Second)
		require.Equal(t, int64(1), dbtest.CountNotificationJobs(t, s.DB, "loan_renewed"))
	})

	s.Run("Error case: Second renewal is rejected", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "grace", "grace@example.com", "student")
		bookID := dbtest.CreateTestBook(t, s.DB, "Once Only", "Author", 1, 1)

		bw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
		require.Equal(t, http.StatusCreated, bw.Code)

		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(renewURL, bookID), nil, token)
		require.Equal(t, http.StatusOK, w1.Code)

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(renewURL, bookID), nil, token)
		require.Equal(t, http.StatusNotFound, w2.Code, "Renewal limit should block the second renewal")
	})

	s.Run("Error case: Renewing a book that was never borrowed returns 404", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "heidi", "heidi@example.com", "student")
		bookID := dbtest.CreateTestBook(t, s.DB, "Never Borrowed", "Author", 1, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(renewURL, bookID), nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestReturnBook - Return API tests
// =============================================================================

func (s *LoanSuite) TestReturnBook() {
	s.Run("Normal case: Returning a book restores stock", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "ivan", "ivan@example.com", "student")
		bookID := dbtest.CreateTestBook(t, s.DB, "Round Trip", "Author", 2, 2)

		bw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
		require.Equal(t, http.StatusCreated, bw.Code)
		require.Equal(t, int32(1), dbtest.AvailableCopies(t, s.DB, bookID))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(returnURL, bookID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var returned response.LoanResponse
		err := httptest.DecodeResponseBody(t, w.Body, &returned)
		require.NoError(t, err)
		require.Equal(t, "returned", returned.Status)
		require.NotNil(t, returned.ReturnedAt)

		require.Equal(t, int32(2), dbtest.AvailableCopies(t, s.DB, bookID))
		require.Equal(t, int64(1), dbtest.CountNotificationJobs(t, s.DB, "loan_returned"))
	})

	s.Run("Normal case: Returned book can be borrowed again", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "judy", "judy@example.com", "student")
		bookID := dbtest.CreateTestBook(t, s.DB, "Borrow Again", "Author", 1, 1)

		for range 2 {
			bw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
			require.Equal(t, http.StatusCreated, bw.Code, bw.Body.String())
			rw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(returnURL, bookID), nil, token)
			require.Equal(t, http.StatusOK, rw.Code)
		}
		require.Equal(t, int32(1), dbtest.AvailableCopies(t, s.DB, bookID))
	})

	s.Run("Edge case: Unclamped restock can exceed total copies", func() {
		t := s.T()

		studentToken := authtest.CreateAndLogin(t, s.Router, "nancy", "nancy@example.com", "student")
		staffToken := authtest.CreateAndLogin(t, s.Router, "staff", "staff@example.com", "librarian")
		bookID := dbtest.CreateTestBook(t, s.DB, "Overstocked", "Author", 2, 2)

		bw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, studentToken)
		require.Equal(t, http.StatusCreated, bw.Code)
		require.Equal(t, int32(1), dbtest.AvailableCopies(t, s.DB, bookID))

		// Librarian manually tops the stock back up while the loan is open
		copies := int32(2)
		pw := httptest.PerformRequest(t, s.Router, http.MethodPatch, "/api/books/"+bookID.String(),
			request.UpdateBookRequest{AvailableCopies: &copies}, staffToken)
		require.Equal(t, http.StatusOK, pw.Code, pw.Body.String())

		// The return increments without a clamp, landing above total_copies
		rw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(returnURL, bookID), nil, studentToken)
		require.Equal(t, http.StatusOK, rw.Code)
		require.Equal(t, int32(3), dbtest.AvailableCopies(t, s.DB, bookID),
			"Stored count exceeds total_copies after a topped-up return")
	})

	s.Run("Error case: Double return is rejected", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "kevin", "kevin@example.com", "student")
		bookID := dbtest.CreateTestBook(t, s.DB, "Already Back", "Author", 1, 1)

		bw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, bookID), nil, token)
		require.Equal(t, http.StatusCreated, bw.Code)

		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(returnURL, bookID), nil, token)
		require.Equal(t, http.StatusOK, w1.Code)

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(returnURL, bookID), nil, token)
		require.Equal(t, http.StatusNotFound, w2.Code, "Second return should find no active loan")

		// Stock must not be incremented twice
		require.Equal(t, int32(1), dbtest.AvailableCopies(t, s.DB, bookID))
	})
}

// =============================================================================
// TestGetUserLoans - Loan history API tests
// =============================================================================

func (s *LoanSuite) TestGetUserLoans() {
	s.Run("Normal case: History lists own loans newest first", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "laura", "laura@example.com", "student")
		firstID := dbtest.CreateTestBook(t, s.DB, "First Book", "Author", 1, 1)
		secondID := dbtest.CreateTestBook(t, s.DB, "Second Book", "Author", 1, 1)

		bw1 := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, firstID), nil, token)
		require.Equal(t, http.StatusCreated, bw1.Code)
		rw := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(returnURL, firstID), nil, token)
		require.Equal(t, http.StatusOK, rw.Code)
		bw2 := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(borrowURL, secondID), nil, token)
		require.Equal(t, http.StatusCreated, bw2.Code)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, loansURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var loans []*response.LoanResponse
		err := httptest.DecodeResponseBody(t, w.Body, &loans)
		require.NoError(t, err)
		require.Len(t, loans, 2, "History should include returned loans")
		require.Equal(t, "Second Book", loans[0].BookTitle)
		require.Equal(t, "borrowed", loans[0].Status)
		require.Equal(t, "First Book", loans[1].BookTitle)
		require.Equal(t, "returned", loans[1].Status)
	})

	s.Run("Error case: Empty history returns 404", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "mallory", "mallory@example.com", "student")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, loansURL, nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Auth test - Unauthorized when not logged in", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, loansURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, "Should reject unauthorized access")
	})
}

// =============================================================================
// TestBorrowLastCopyRace - Concurrency test on the stock counter
// =============================================================================

func (s *LoanSuite) TestBorrowLastCopyRace() {
	s.Run("Concurrency: Only one of two students gets the last copy", func() {
		t := s.T()

		token1 := authtest.CreateAndLogin(t, s.Router, "racer1", "racer1@example.com", "student")
		token2 := authtest.CreateAndLogin(t, s.Router, "racer2", "racer2@example.com", "student")
		bookID := dbtest.CreateTestBook(t, s.DB, "Last Copy", "Author", 1, 1)

		url := fmt.Sprintf(borrowURL, bookID)
		codes := make([]int, 2)

		var wg sync.WaitGroup
		for i, token := range []string{token1, token2} {
			wg.Add(1)
			go func(i int, token string) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
				codes[i] = w.Code
			}(i, token)
		}
		wg.Wait()

		created := 0
		for _, code := range codes {
			if code == http.StatusCreated {
				created++
			} else {
				require.Equal(t, http.StatusNotFound, code, "Loser should see the book as unavailable")
			}
		}
		require.Equal(t, 1, created, "Exactly one borrow may win the last copy")
		require.Equal(t, int32(0), dbtest.AvailableCopies(t, s.DB, bookID))
	})
}
