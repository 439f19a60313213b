//go:build unit

package loan_test

import (
	"testing"
	"time"

	"library-api/internal/domain/loan"
	"library-api/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoan(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	bookID := uuid.New()

	l := loan.NewLoan(userID, bookID, now)

	assert.NotEqual(t, uuid.Nil, l.ID())
	assert.Equal(t, userID, l.UserID())
	assert.Equal(t, bookID, l.BookID())
	assert.Equal(t, now, l.BorrowedAt())
	// 返却期限は貸出時点から1期間
	assert.Equal(t, now.Add(loan.Period), l.DueAt())
	assert.Equal(t, loan.StatusBorrowed, l.Status())
	assert.Equal(t, int32(0), l.RenewalCount())
	assert.Nil(t, l.ReturnedAt())
	assert.True(t, l.IsActive())
}

func TestLoanRenew(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("1回目の更新OK", func(t *testing.T) {
		l := loan.NewLoan(uuid.New(), uuid.New(), now)

		renewAt := now.Add(48 * time.Hour)
		require.NoError(t, l.Renew(renewAt))

		// 期限は更新時点から引き直す
		assert.Equal(t, renewAt.Add(loan.Period), l.DueAt())
		assert.Equal(t, int32(1), l.RenewalCount())
		assert.True(t, l.IsActive())
	})

	t.Run("2回目の更新NG", func(t *testing.T) {
		l := loan.NewLoan(uuid.New(), uuid.New(), now)
		require.NoError(t, l.Renew(now.Add(time.Hour)))

		err := l.Renew(now.Add(2 * time.Hour))
		require.ErrorIs(t, err, loan.ErrRenewalLimitReached)
		assert.Equal(t, int32(loan.MaxRenewals), l.RenewalCount())
	})

	t.Run("返却済みの更新NG", func(t *testing.T) {
		l := loan.NewLoan(uuid.New(), uuid.New(), now)
		require.NoError(t, l.Return(now.Add(time.Hour)))

		err := l.Renew(now.Add(2 * time.Hour))
		require.ErrorIs(t, err, loan.ErrNotBorrowed)
	})
}

func TestLoanReturn(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("貸出中の返却OK", func(t *testing.T) {
		l := loan.NewLoan(uuid.New(), uuid.New(), now)

		returnAt := now.Add(72 * time.Hour)
		require.NoError(t, l.Return(returnAt))

		assert.Equal(t, loan.StatusReturned, l.Status())
		require.NotNil(t, l.ReturnedAt())
		assert.Equal(t, returnAt, *l.ReturnedAt())
		assert.False(t, l.IsActive())
	})

	t.Run("二重返却NG", func(t *testing.T) {
		l := loan.NewLoan(uuid.New(), uuid.New(), now)
		require.NoError(t, l.Return(now.Add(time.Hour)))

		firstReturn := *l.ReturnedAt()
		err := l.Return(now.Add(2 * time.Hour))
		require.ErrorIs(t, err, loan.ErrAlreadyReturned)
		// 返却時刻は最初の返却のまま
		assert.Equal(t, firstReturn, *l.ReturnedAt())
	})
}

func TestLoanIsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		build   func() *loan.Loan
		at      time.Time
		overdue bool
	}{
		{
			name:    "期限内は延滞でない",
			build:   func() *loan.Loan { return loan.NewLoan(uuid.New(), uuid.New(), now) },
			at:      now.Add(loan.Period - time.Minute),
			overdue: false,
		},
		{
			name:    "期限ちょうどは延滞でない",
			build:   func() *loan.Loan { return loan.NewLoan(uuid.New(), uuid.New(), now) },
			at:      now.Add(loan.Period),
			overdue: false,
		},
		{
			name:    "期限超過で延滞",
			build:   func() *loan.Loan { return loan.NewLoan(uuid.New(), uuid.New(), now) },
			at:      now.Add(loan.Period + time.Minute),
			overdue: true,
		},
		{
			name: "返却済みは延滞でない",
			build: func() *loan.Loan {
				return builder.NewLoanBuilder().AsReturned(now.Add(time.Hour)).BuildDomain()
			},
			at:      now.Add(30 * 24 * time.Hour),
			overdue: false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.overdue, c.build().IsOverdue(c.at))
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, loan.StatusBorrowed.IsValid())
	assert.True(t, loan.StatusReturned.IsValid())
	assert.True(t, loan.StatusOverdue.IsValid())
	assert.False(t, loan.Status("lost").IsValid())
}
