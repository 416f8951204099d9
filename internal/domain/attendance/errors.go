package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrCheckinRequired   = errors.New("you must check in before checking out")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
	// ErrDuplicateEvent is the store-level uniqueness backstop for a
	// concurrent submission of the same (user, day, kind).
	ErrDuplicateEvent = errors.New("attendance event already recorded for today")

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidKind        = errors.New("kind must be checkin or checkout")
	ErrPhotoRequired      = errors.New("attendance photo is required")
)
