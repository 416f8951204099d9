package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStoreUnavailable is returned once a connection-loss failure has
// exhausted its retries.
var ErrStoreUnavailable = errors.New("attendance store unavailable")

// RetryPolicy retries connection-loss failures with exponential backoff.
// Every other error is returned after the first attempt.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 100 * time.Millisecond}
}

func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := p.Backoff

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !IsConnectionError(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		slog.WarnContext(ctx, "store connection lost, retrying",
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return errors.Join(ErrStoreUnavailable, ctx.Err(), err)
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return errors.Join(ErrStoreUnavailable, err)
}

// IsConnectionError reports whether err belongs to the connection-loss class:
// failed connects, broken sockets, SQLSTATE class 08, or anything pgx marks as
// safe to retry because nothing was sent.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08")
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsUniqueViolation reports a SQLSTATE 23505 error, optionally restricted to
// the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsForeignKeyViolation reports a SQLSTATE 23503 error.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
