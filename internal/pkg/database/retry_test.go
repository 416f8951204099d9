package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unexpected eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), true},
		{"admin shutdown", &pgconn.PgError{Code: "08006"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
		{"context canceled", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionError(tt.err))
		})
	}
}

func TestRetryPolicy_RetriesConnectionErrors(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, Backoff: time.Millisecond}
	calls := 0

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return io.ErrUnexpectedEOF
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_GivesUp(t *testing.T) {
	policy := RetryPolicy{Attempts: 2, Backoff: time.Millisecond}
	calls := 0

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return &pgconn.PgError{Code: "08001"}
	})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 2, calls)
}

func TestRetryPolicy_DoesNotRetryDomainErrors(t *testing.T) {
	policy := RetryPolicy{Attempts: 5, Backoff: time.Millisecond}
	calls := 0
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_nik_key"}

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return unique
	})

	assert.Equal(t, 1, calls)
	assert.True(t, IsUniqueViolation(err, "users_nik_key"))
	assert.False(t, IsUniqueViolation(err, "other_key"))
	assert.True(t, IsUniqueViolation(err, ""))
}

func TestRetryPolicy_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{Attempts: 5, Backoff: time.Hour}
	calls := 0

	err := policy.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return io.ErrUnexpectedEOF
	})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
