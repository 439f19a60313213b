//go:build e2e

package book_test

import (
	"fmt"
	"net/http"
	"testing"

	"library-api/internal/handler/dto/request"
	"library-api/internal/handler/dto/response"
	"library-api/tests/common/authtest"
	"library-api/tests/common/dbtest"
	"library-api/tests/common/httptest"
	"library-api/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const booksURL = "/api/books"

type BookSuite struct {
	e2e.SharedSuite
}

func (s *BookSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookSuite))
}

// =============================================================================
// TestAddBook - Catalog registration API tests
// =============================================================================

func (s *BookSuite) TestAddBook() {
	reqBody := request.CreateBookRequest{
		Title:       "The Go Programming Language",
		Author:      "Alan Donovan",
		Category:    "programming",
		IssueYear:   2015,
		TotalCopies: 3,
	}

	s.Run("Normal case: Librarian can register a book", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "staff", "staff@example.com", "librarian")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, booksURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookResponse
		err := httptest.DecodeResponseBody(t, w.Body, &created)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, created.ID)

		expected := &response.BookResponse{
			Title:           "The Go Programming Language",
			Author:          "Alan Donovan",
			Category:        "programming",
			IssueYear:       2015,
			TotalCopies:     3,
			AvailableCopies: 3,
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.BookResponse{}, "ID", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, &created, opts...); diff != "" {
			t.Errorf("Book response mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Error case: Duplicate title and author fails", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "staff", "staff@example.com", "librarian")

		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, booksURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w1.Code)

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, booksURL, reqBody, token)
		require.Equal(t, http.StatusConflict, w2.Code, "Should reject duplicate catalog entry")
	})

	s.Run("Auth test - Student cannot register a book", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "student", "student@example.com", "student")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, booksURL, reqBody, token)
		require.Equal(t, http.StatusForbidden, w.Code, "Catalog writes are librarian-only")
	})

	s.Run("Auth test - Unauthorized when not logged in", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, booksURL, reqBody, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, "Should reject unauthorized access")
	})
}

// =============================================================================
// TestSearchBooks - Catalog search API tests
// =============================================================================

func (s *BookSuite) TestSearchBooks() {
	seed := func(t *testing.T) {
		dbtest.CreateTestBook(t, s.DB, "The Go Programming Language", "Alan Donovan", 3, 3)
		dbtest.CreateTestBook(t, s.DB, "Learning Go", "Jon Bodner", 2, 0)
		dbtest.CreateTestBook(t, s.DB, "Designing Data-Intensive Applications", "Martin Kleppmann", 5, 5)
	}

	s.Run("Normal case: Integration test (filters)", func() {
		type searchCase struct {
			name          string
			queryParams   string
			expectedCount int
		}

		testCases := []searchCase{
			{name: "No filters returns everything", queryParams: "", expectedCount: 3},
			{name: "Filter by title substring", queryParams: "?title=Go", expectedCount: 2},
			{name: "Filter by author substring", queryParams: "?author=Kleppmann", expectedCount: 1},
			{name: "Filter by minimum stock", queryParams: "?min_copies=1", expectedCount: 2},
			{name: "Combined filters", queryParams: "?title=Go&min_copies=3", expectedCount: 1},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				t := s.T()

				// fresh seed per case (DB reset runs between subtests)
				seed(t)
				token := authtest.CreateAndLogin(t, s.Router, "reader", "reader@example.com", "student")

				w := httptest.PerformRequest(t, s.Router, http.MethodGet, booksURL+tc.queryParams, nil, token)
				require.Equal(t, http.StatusOK, w.Code, w.Body.String())

				var books []*response.BookResponse
				err := httptest.DecodeResponseBody(t, w.Body, &books)
				require.NoError(t, err)
				require.Len(t, books, tc.expectedCount)
			})
		}
	})

	s.Run("Error case: No match returns 404", func() {
		t := s.T()

		seed(t)
		token := authtest.CreateAndLogin(t, s.Router, "reader", "reader@example.com", "student")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, booksURL+"?title=Nonexistent", nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestGetBook - Catalog detail API tests
// =============================================================================

func (s *BookSuite) TestGetBook() {
	s.Run("Normal case: Book retrieved by ID", func() {
		t := s.T()

		bookID := dbtest.CreateTestBook(t, s.DB, "Detail Book", "Author", 2, 2)
		token := authtest.CreateAndLogin(t, s.Router, "reader", "reader@example.com", "student")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", booksURL, bookID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got response.BookResponse
		err := httptest.DecodeResponseBody(t, w.Body, &got)
		require.NoError(t, err)
		require.Equal(t, bookID, got.ID)
		require.Equal(t, "Detail Book", got.Title)
	})

	s.Run("Error case: Returns 404 Not Found for non-existent ID", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "reader", "reader@example.com", "student")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", booksURL, uuid.New()), nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestUpdateBook - Catalog update API tests
// =============================================================================

func (s *BookSuite) TestUpdateBook() {
	s.Run("Normal case: Librarian can patch selected fields", func() {
		t := s.T()

		bookID := dbtest.CreateTestBook(t, s.DB, "Old Title", "Author", 2, 2)
		token := authtest.CreateAndLogin(t, s.Router, "staff", "staff@example.com", "librarian")

		title := "New Title"
		copies := int32(5)
		updateReq := request.UpdateBookRequest{
			Title:           &title,
			AvailableCopies: &copies,
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf("%s/%s", booksURL, bookID), updateReq, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated response.BookResponse
		err := httptest.DecodeResponseBody(t, w.Body, &updated)
		require.NoError(t, err)
		require.Equal(t, "New Title", updated.Title)
		require.Equal(t, "Author", updated.Author) // untouched field stays
		require.Equal(t, int32(5), updated.AvailableCopies)
	})

	s.Run("Error case: Empty patch is rejected", func() {
		t := s.T()

		bookID := dbtest.CreateTestBook(t, s.DB, "Untouched", "Author", 2, 2)
		token := authtest.CreateAndLogin(t, s.Router, "staff", "staff@example.com", "librarian")

		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf("%s/%s", booksURL, bookID), request.UpdateBookRequest{}, token)
		require.Equal(t, http.StatusBadRequest, w.Code, "Patch without fields should fail")
	})

	s.Run("Auth test - Student cannot update", func() {
		t := s.T()

		bookID := dbtest.CreateTestBook(t, s.DB, "Protected", "Author", 2, 2)
		token := authtest.CreateAndLogin(t, s.Router, "student", "student@example.com", "student")

		title := "Hacked"
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf("%s/%s", booksURL, bookID), request.UpdateBookRequest{Title: &title}, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

// =============================================================================
// TestDeleteBook - Catalog removal API tests
// =============================================================================

func (s *BookSuite) TestDeleteBook() {
	s.Run("Normal case: Librarian can remove a book", func() {
		t := s.T()

		bookID := dbtest.CreateTestBook(t, s.DB, "Removable", "Author", 1, 1)
		token := authtest.CreateAndLogin(t, s.Router, "staff", "staff@example.com", "librarian")

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf("%s/%s", booksURL, bookID), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", booksURL, bookID), nil, token)
		require.Equal(t, http.StatusNotFound, gw.Code, "Book should be gone")
	})

	s.Run("Error case: Returns 404 Not Found for non-existent ID", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.Router, "staff", "staff@example.com", "librarian")

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf("%s/%s", booksURL, uuid.New()), nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
