//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestBook inserts a catalog entry directly, bypassing the API.
func CreateTestBook(t *testing.T, db DBLike, title, author string, totalCopies, availableCopies int32) uuid.UUID {
	t.Helper()

	bookID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO books (id, title, author, category, issue_year, total_copies, available_copies)
		VALUES ($1, $2, $3, 'programming', 2015, $4, $5)`,
		bookID, title, author, totalCopies, availableCopies)
	require.NoError(t, err)

	return bookID
}

// UserIDByEmail looks up an account created through the signup API.
func UserIDByEmail(t *testing.T, db DBLike, email string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.QueryRow(context.Background(),
		"SELECT id FROM users WHERE email = $1", email).Scan(&id)
	require.NoError(t, err)
	return id
}

// CountActiveLoans returns the number of open loans for a user.
func CountActiveLoans(t *testing.T, db DBLike, userID uuid.UUID) int64 {
	t.Helper()

	var count int64
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM loans WHERE user_id = $1 AND status = 'borrowed'", userID).Scan(&count)
	require.NoError(t, err)
	return count
}

// AvailableCopies reads the current stock counter of a book.
func AvailableCopies(t *testing.T, db DBLike, bookID uuid.UUID) int32 {
	t.Helper()

	var available int32
	err := db.QueryRow(context.Background(),
		"SELECT available_copies FROM books WHERE id = $1", bookID).Scan(&available)
	require.NoError(t, err)
	return available
}

// CountNotificationJobs returns the queued jobs for a topic.
func CountNotificationJobs(t *testing.T, db DBLike, topic string) int64 {
	t.Helper()

	var count int64
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM notification_jobs WHERE topic = $1", topic).Scan(&count)
	require.NoError(t, err)
	return count
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
