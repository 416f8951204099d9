package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
)

type Kind string

const (
	KindCheckin  Kind = "checkin"
	KindCheckout Kind = "checkout"
)

func (k Kind) IsValid() bool {
	return k == KindCheckin || k == KindCheckout
}

// Event is one check-in or check-out. DistanceM and IsValid stay nil until
// the computed fields are attached; a nil pair means the event is pending.
type Event struct {
	ID             string
	UserID         string
	CompanyID      string
	Kind           Kind
	PhotoRef       string
	Location       geo.Coordinate
	LocationSource geo.Source
	DistanceM      *int
	IsValid        *bool
	AttendanceDate time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	CompanyName     *string
	CompanyLocation *geo.Coordinate
	CompanyRadiusM  *int
	UserName        *string
	UserPhotoRef    *string
}

func (e Event) IsPending() bool {
	return e.DistanceM == nil || e.IsValid == nil
}

// DayState is the per (user, calendar day) attendance state.
type DayState int

const (
	StateNoEvent DayState = iota
	StateCheckedIn
	StateCheckedOut
)

func (s DayState) String() string {
	switch s {
	case StateCheckedIn:
		return "checked_in"
	case StateCheckedOut:
		return "checked_out"
	default:
		return "no_event"
	}
}

// Day holds the events of one user on one calendar day.
type Day struct {
	Date     time.Time
	Checkin  *Event
	Checkout *Event
}

// NewDay sorts events into their slots. Events of other days are ignored.
func NewDay(date time.Time, events []Event) Day {
	d := Day{Date: date}
	for i := range events {
		e := events[i]
		if !sameDate(e.AttendanceDate, date) {
			continue
		}
		switch e.Kind {
		case KindCheckin:
			d.Checkin = &e
		case KindCheckout:
			d.Checkout = &e
		}
	}
	return d
}

func (d Day) State() DayState {
	switch {
	case d.Checkout != nil:
		return StateCheckedOut
	case d.Checkin != nil:
		return StateCheckedIn
	default:
		return StateNoEvent
	}
}

// Allow applies the daily sequencing rules: NoEvent -> CheckedIn -> CheckedOut.
func (d Day) Allow(kind Kind) error {
	switch kind {
	case KindCheckin:
		if d.Checkin != nil {
			return ErrAlreadyCheckedIn
		}
		return nil
	case KindCheckout:
		if d.Checkin == nil {
			return ErrCheckinRequired
		}
		if d.Checkout != nil {
			return ErrAlreadyCheckedOut
		}
		return nil
	}
	return ErrInvalidKind
}

// GroupByDay merges events into one Day per calendar date, newest first.
func GroupByDay(events []Event) []Day {
	index := make(map[string]int)
	days := make([]Day, 0)

	for i := range events {
		e := events[i]
		key := e.AttendanceDate.Format(DateLayout)
		pos, ok := index[key]
		if !ok {
			pos = len(days)
			index[key] = pos
			days = append(days, Day{Date: e.AttendanceDate})
		}
		switch e.Kind {
		case KindCheckin:
			days[pos].Checkin = &e
		case KindCheckout:
			days[pos].Checkout = &e
		}
	}

	sortDaysDesc(days)
	return days
}

func sortDaysDesc(days []Day) {
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j].Date.After(days[j-1].Date); j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Period filters company attendance relative to today.
type Period string

const (
	PeriodAll   Period = ""
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Range returns the half-open date range [from, to) covered by p, with today
// being a date in the service timezone. Weeks are ISO weeks starting Monday.
// ok is false for PeriodAll.
func (p Period) Range(today time.Time) (from, to time.Time, ok bool) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	switch p {
	case PeriodToday:
		return day, day.AddDate(0, 0, 1), true
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), true
	case PeriodMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(0, 1, 0), true
	}
	return time.Time{}, time.Time{}, false
}
