package attendance

import "context"

// AttendanceService runs the attendance validation pipeline and its views.
type AttendanceService interface {
	// Submit records a check-in or check-out for the authenticated user.
	Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error)

	// ListMine returns the caller's events, newest first.
	ListMine(ctx context.Context) ([]AttendanceResponse, error)

	// TodayMine returns the caller's status for today.
	TodayMine(ctx context.Context) (TodayResponse, error)

	// HistoryMine returns the caller's events grouped by day.
	HistoryMine(ctx context.Context) ([]HistoryDayResponse, error)

	// TodayByUser and HistoryByUser are the HR views of one employee.
	TodayByUser(ctx context.Context, userID string) (TodayResponse, error)
	HistoryByUser(ctx context.Context, userID string) ([]HistoryDayResponse, error)

	// ListByCompany returns the company roster for a period.
	ListByCompany(ctx context.Context, companyID string, req CompanyAttendanceRequest) ([]CompanyAttendanceResponse, error)

	// OverrideValidity is the HR correction of a single event.
	OverrideValidity(ctx context.Context, id string, req ValidateRequest) (ValidateResponse, error)
}
