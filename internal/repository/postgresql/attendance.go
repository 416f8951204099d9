package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const attendanceDayKindKey = "attendance_events_user_day_kind_key"

const attendanceSelect = `
	SELECT a.id, a.user_id, a.company_id, a.kind, a.photo_ref, a.latitude, a.longitude,
		a.location_source, a.distance_m, a.is_valid, a.attendance_date, a.created_at, a.updated_at,
		c.name, c.location, c.valid_radius_m, u.name, u.profile_photo_ref
	FROM attendance_events a
	JOIN companies c ON c.id = a.company_id
	JOIN users u ON u.id = a.user_id
`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanEvent(row pgx.Row) (attendance.Event, error) {
	var (
		e               attendance.Event
		kind, source    string
		companyName     string
		companyLocation pgtype.Point
		companyRadius   int
		userName        string
	)
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.CompanyID,
		&kind,
		&e.PhotoRef,
		&e.Location.Latitude,
		&e.Location.Longitude,
		&source,
		&e.DistanceM,
		&e.IsValid,
		&e.AttendanceDate,
		&e.CreatedAt,
		&e.UpdatedAt,
		&companyName,
		&companyLocation,
		&companyRadius,
		&userName,
		&e.UserPhotoRef,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Event{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Event{}, err
	}

	e.Kind = attendance.Kind(kind)
	e.LocationSource = geo.Source(source)
	anchor := coordinateFromPoint(companyLocation)
	e.CompanyName = &companyName
	e.CompanyLocation = &anchor
	e.CompanyRadiusM = &companyRadius
	e.UserName = &userName
	return e, nil
}

func (r *attendanceRepositoryImpl) queryEvents(ctx context.Context, query string, args ...interface{}) ([]attendance.Event, error) {
	var events []attendance.Event
	err := run(ctx, r.db, func(q database.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		events = make([]attendance.Event, 0)
		for rows.Next() {
			e, err := scanEvent(rows)
			if err != nil {
				return err
			}
			events = append(events, e)
		}
		return rows.Err()
	})
	return events, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Event{}, err
	}
	event.ID = id.String()

	query := `
		INSERT INTO attendance_events (id, user_id, company_id, kind, photo_ref, latitude, longitude,
			location_source, attendance_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	attempts := 0
	err = run(ctx, r.db, func(q database.Querier) error {
		attempts++
		return q.QueryRow(ctx, query,
			event.ID,
			event.UserID,
			event.CompanyID,
			string(event.Kind),
			event.PhotoRef,
			event.Location.Latitude,
			event.Location.Longitude,
			string(event.LocationSource),
			event.AttendanceDate,
		).Scan(&event.CreatedAt, &event.UpdatedAt)
	})
	if err != nil {
		recheck, mapped := insertConflict(err, attempts)
		if recheck {
			if landed, findErr := r.FindByID(ctx, event.ID); findErr == nil {
				return landed, nil
			}
		}
		return attendance.Event{}, mapped
	}

	event.DistanceM = nil
	event.IsValid = nil
	return event, nil
}

// insertConflict maps a failed attendance insert. recheck is set when a
// retried attempt hit a unique key: the earlier attempt may have committed
// before its reply was lost, so the row should be looked up by its own id.
func insertConflict(err error, attempts int) (recheck bool, mapped error) {
	recheck = attempts > 1 && database.IsUniqueViolation(err, "")
	if database.IsUniqueViolation(err, attendanceDayKindKey) {
		return recheck, attendance.ErrDuplicateEvent
	}
	return recheck, fmt.Errorf("failed to create attendance event: %w", err)
}

// AttachComputedFields implements attendance.AttendanceRepository. An
// earlier validity override wins over the computed verdict.
func (r *attendanceRepositoryImpl) AttachComputedFields(ctx context.Context, id string, distanceM int, isValid bool) error {
	query := `
		UPDATE attendance_events
		SET distance_m = $2,
			is_valid = COALESCE(is_valid, $3),
			updated_at = NOW()
		WHERE id = $1 AND distance_m IS NULL
	`
	return run(ctx, r.db, func(q database.Querier) error {
		_, err := q.Exec(ctx, query, id, distanceM, isValid)
		return err
	})
}

// FindByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) FindByID(ctx context.Context, id string) (attendance.Event, error) {
	var found attendance.Event
	err := run(ctx, r.db, func(q database.Querier) error {
		var err error
		found, err = scanEvent(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
		return err
	})
	return found, err
}

// TodayByUser implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) TodayByUser(ctx context.Context, userID string, date time.Time) ([]attendance.Event, error) {
	events, err := r.queryEvents(ctx,
		attendanceSelect+` WHERE a.user_id = $1 AND a.attendance_date = $2 ORDER BY a.created_at ASC`,
		userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return events, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]attendance.Event, error) {
	events, err := r.queryEvents(ctx,
		attendanceSelect+` WHERE a.user_id = $1 ORDER BY a.created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return events, nil
}

// ListByCompany implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByCompany(ctx context.Context, companyID string, filter attendance.CompanyFilter) ([]attendance.Event, error) {
	query := attendanceSelect + `
		WHERE a.company_id = $1
			AND ($2::date IS NULL OR a.attendance_date >= $2)
			AND ($3::date IS NULL OR a.attendance_date < $3)
		ORDER BY a.created_at DESC
	`
	events, err := r.queryEvents(ctx, query, companyID, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list company attendance: %w", err)
	}
	return events, nil
}

// OverrideValidity implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) OverrideValidity(ctx context.Context, id string, isValid bool, actorID string) (*bool, error) {
	var previous *bool

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		err := q.QueryRow(txCtx, `SELECT is_valid FROM attendance_events WHERE id = $1 FOR UPDATE`, id).Scan(&previous)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return attendance.ErrAttendanceNotFound
			}
			return err
		}

		if _, err := q.Exec(txCtx,
			`UPDATE attendance_events SET is_valid = $2, updated_at = NOW() WHERE id = $1`,
			id, isValid); err != nil {
			return err
		}

		_, err = q.Exec(txCtx, `
			INSERT INTO attendance_validity_overrides (attendance_id, actor_id, previous_valid, new_valid)
			VALUES ($1, $2, $3, $4)
		`, id, actorID, previous, isValid)
		return err
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to override attendance validity: %w", err)
	}
	return previous, nil
}
