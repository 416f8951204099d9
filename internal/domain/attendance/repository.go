package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists attendance events.
type AttendanceRepository interface {
	// Create inserts a pending event. A second event for the same
	// (user, attendance_date, kind) fails with ErrDuplicateEvent.
	Create(ctx context.Context, event Event) (Event, error)

	// AttachComputedFields fills distance and validity once. Events that
	// already carry them are left untouched.
	AttachComputedFields(ctx context.Context, id string, distanceM int, isValid bool) error

	FindByID(ctx context.Context, id string) (Event, error)

	// TodayByUser returns the user's events on one calendar day.
	TodayByUser(ctx context.Context, userID string, date time.Time) ([]Event, error)

	// ListByUser returns all of the user's events, newest first.
	ListByUser(ctx context.Context, userID string) ([]Event, error)

	// ListByCompany returns company events, newest first, joined with the
	// submitting user.
	ListByCompany(ctx context.Context, companyID string, filter CompanyFilter) ([]Event, error)

	// OverrideValidity overwrites is_valid and records an audit row. It
	// returns the previous value.
	OverrideValidity(ctx context.Context, id string, isValid bool, actorID string) (previous *bool, err error)
}

// CompanyFilter restricts ListByCompany to attendance_date in [From, To).
type CompanyFilter struct {
	From *time.Time
	To   *time.Time
}
