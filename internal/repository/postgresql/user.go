package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, nik, password_hash, role, company_id, is_verified, verification_status,
	birth_place, birth_date, gender, profile_photo_ref, verified_at, verified_by, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u      user.User
		role   string
		status string
		gender *string
	)
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.NIK,
		&u.PasswordHash,
		&role,
		&u.CompanyID,
		&u.IsVerified,
		&status,
		&u.BirthPlace,
		&u.BirthDate,
		&gender,
		&u.ProfilePhotoRef,
		&u.VerifiedAt,
		&u.VerifiedBy,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	u.VerificationStatus = user.VerificationStatus(status)
	if gender != nil {
		g := user.Gender(*gender)
		u.Gender = &g
	}
	return u, nil
}

func (r *userRepositoryImpl) queryOne(ctx context.Context, query string, args ...interface{}) (user.User, error) {
	var found user.User
	err := run(ctx, r.db, func(q database.Querier) error {
		var err error
		found, err = scanUser(q.QueryRow(ctx, query, args...))
		return err
	})
	return found, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, err
	}

	var gender *string
	if newUser.Gender != nil {
		g := string(*newUser.Gender)
		gender = &g
	}

	query := `
		INSERT INTO users (id, name, nik, password_hash, role, company_id, is_verified, verification_status,
			birth_place, birth_date, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + userColumns

	created, err := r.queryOne(ctx, query,
		id.String(),
		newUser.Name,
		newUser.NIK,
		newUser.PasswordHash,
		string(newUser.Role),
		newUser.CompanyID,
		newUser.IsVerified,
		string(newUser.VerificationStatus),
		newUser.BirthPlace,
		newUser.BirthDate,
		gender,
	)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, "users_nik_key"):
			return user.User{}, user.ErrNIKExists
		case database.IsForeignKeyViolation(err):
			return user.User{}, company.ErrCompanyNotFound
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByNIK implements user.UserRepository.
func (r *userRepositoryImpl) GetByNIK(ctx context.Context, nik string) (user.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE nik = $1`, nik)
}

// ExistsByNIK implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByNIK(ctx context.Context, nik string) (bool, error) {
	var exists bool
	err := run(ctx, r.db, func(q database.Querier) error {
		return q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE nik = $1)`, nik).Scan(&exists)
	})
	return exists, err
}

// UpdateProfile implements user.UserRepository. A nil photoRef keeps the
// current photo.
func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest, photoRef *string) (user.User, error) {
	query := `
		UPDATE users
		SET name = $2,
			birth_place = $3,
			birth_date = $4,
			gender = COALESCE($5, gender),
			profile_photo_ref = COALESCE($6, profile_photo_ref),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	return r.queryOne(ctx, query, id, req.Name, req.BirthPlace, req.ParsedBirthDate(), req.Gender, photoRef)
}

// ListByCompany implements user.UserRepository.
func (r *userRepositoryImpl) ListByCompany(ctx context.Context, filter user.ListFilter) ([]user.User, error) {
	var role, status *string
	if filter.Role != nil {
		s := string(*filter.Role)
		role = &s
	}
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE company_id = $1
			AND ($2::text IS NULL OR role = $2)
			AND ($3::text IS NULL OR verification_status = $3)
		ORDER BY name ASC, id ASC
	`

	var users []user.User
	err := run(ctx, r.db, func(q database.Querier) error {
		rows, err := q.Query(ctx, query, filter.CompanyID, role, status)
		if err != nil {
			return err
		}
		defer rows.Close()

		users = make([]user.User, 0)
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CountByCompany implements user.UserRepository.
func (r *userRepositoryImpl) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := run(ctx, r.db, func(q database.Querier) error {
		return q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE company_id = $1`, companyID).Scan(&count)
	})
	return count, err
}

// UpdateVerification implements user.UserRepository. Only pending accounts
// change; a decided account yields ErrAlreadyVerified.
func (r *userRepositoryImpl) UpdateVerification(ctx context.Context, id string, status user.VerificationStatus, verifiedBy string) (user.User, error) {
	query := `
		UPDATE users
		SET verification_status = $2,
			is_verified = ($2 = 'approved'),
			verified_at = NOW(),
			verified_by = $3,
			updated_at = NOW()
		WHERE id = $1 AND verification_status = 'pending'
		RETURNING ` + userColumns

	updated, err := r.queryOne(ctx, query, id, string(status), verifiedBy)
	if errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, user.ErrAlreadyVerified
	}
	return updated, err
}
