package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// guard is the fast-path sequencing check. The store's unique constraint
// on (user, day, kind) is what actually prevents duplicates.
func (a *AttendanceServiceImpl) guard(ctx context.Context, userID string, day time.Time, kind attendance.Kind) error {
	list, err := a.AttendanceRepository.TodayByUser(ctx, userID, day)
	if err != nil {
		return err
	}
	return attendance.NewDay(day, list).Allow(kind)
}

// duplicateConflict maps a lost insert race back to the conflict the guard
// would have reported.
func duplicateConflict(kind attendance.Kind) error {
	if kind == attendance.KindCheckout {
		return attendance.ErrAlreadyCheckedOut
	}
	return attendance.ErrAlreadyCheckedIn
}
