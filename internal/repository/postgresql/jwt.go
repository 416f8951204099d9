package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type refreshTokenRepositoryImpl struct {
	db  *database.DB
	now func() time.Time
}

func NewRefreshTokenRepository(db *database.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepositoryImpl{db: db, now: time.Now}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (j *refreshTokenRepositoryImpl) Create(ctx context.Context, userID string, token string, expiresAt time.Time, session auth.SessionTrackingRequest) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	return run(ctx, j.db, func(q database.Querier) error {
		_, err := q.Exec(ctx, query, id.String(), userID, hashToken(token), expiresAt.UTC(), session.UserAgent, session.IPAddress)
		return err
	})
}

func (j *refreshTokenRepositoryImpl) FindActiveUser(ctx context.Context, token string) (string, error) {
	query := `
		SELECT user_id, revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`

	var (
		userID    string
		revokedAt *time.Time
		expiresAt time.Time
	)
	err := run(ctx, j.db, func(q database.Querier) error {
		return q.QueryRow(ctx, query, hashToken(token)).Scan(&userID, &revokedAt, &expiresAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", auth.ErrRefreshTokenRevoked
		}
		return "", err
	}

	if revokedAt != nil || !expiresAt.After(j.now()) {
		return "", auth.ErrRefreshTokenRevoked
	}
	return userID, nil
}

func (j *refreshTokenRepositoryImpl) Revoke(ctx context.Context, token string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`
	return run(ctx, j.db, func(q database.Querier) error {
		_, err := q.Exec(ctx, query, hashToken(token))
		return err
	})
}
