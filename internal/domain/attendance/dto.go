package attendance

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// MaxPhotoSize is the upper bound for an attendance photo.
const MaxPhotoSize = 5 << 20

// ========================================
// SUBMISSION
// ========================================

// SubmitRequest is a multipart submission. Latitude and Longitude are the
// optional device-reported backup location and must be sent together.
type SubmitRequest struct {
	Kind       string                `json:"kind"`
	Latitude   *float64              `json:"latitude,omitempty"`
	Longitude  *float64              `json:"longitude,omitempty"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	if validator.IsEmpty(r.Kind) {
		errs.Add("kind", "kind is required")
	} else if !Kind(r.Kind).IsValid() {
		errs.Add("kind", ErrInvalidKind.Error())
	}

	switch {
	case r.Latitude == nil && r.Longitude == nil:
	case r.Latitude == nil || r.Longitude == nil:
		errs.Add("latitude", "latitude and longitude must be sent together")
	default:
		if !validator.IsValidLatitude(*r.Latitude) {
			errs.Add("latitude", "latitude must be between -90 and 90")
		}
		if !validator.IsValidLongitude(*r.Longitude) {
			errs.Add("longitude", "longitude must be between -180 and 180")
		}
	}

	if r.File == nil || r.FileHeader == nil {
		errs.Add("photo", ErrPhotoRequired.Error())
	} else {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs.Add("photo", "invalid file type: only jpg, jpeg, png allowed")
		} else if r.FileHeader.Size > MaxPhotoSize {
			errs.Add("photo", "attendance photo size must not exceed 5MB")
		}
	}

	return errs.Err()
}

// Backup returns the device-reported location, if any. Range and zero
// checks are left to the resolver.
func (r *SubmitRequest) Backup() *geo.Coordinate {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type ResolvedLocation struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Source    geo.Source `json:"source"`
}

type SubmitResponse struct {
	Message         string             `json:"message"`
	Attendance      AttendanceResponse `json:"attendance"`
	Location        ResolvedLocation   `json:"location"`
	CompanyLocation geo.Coordinate     `json:"company_location"`
	DistanceM       int                `json:"distance_m"`
	ValidRadiusM    int                `json:"valid_radius_m"`
	IsValid         bool               `json:"is_valid"`
}

// ========================================
// VIEWS
// ========================================

type AttendanceResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	UserName        *string         `json:"user_name,omitempty"`
	CompanyID       string          `json:"company_id"`
	CompanyName     *string         `json:"company_name,omitempty"`
	Kind            Kind            `json:"kind"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	PhotoURL        string          `json:"photo_url"`
	Location        geo.Coordinate  `json:"location"`
	LocationSource  geo.Source      `json:"location_source"`
	CompanyLocation *geo.Coordinate `json:"company_location,omitempty"`
	DistanceM       *int            `json:"distance_m"`
	IsValid         *bool           `json:"is_valid"`
	Pending         bool            `json:"pending"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewAttendanceResponse renders e with times in loc.
func NewAttendanceResponse(e Event, loc *time.Location, photoURL func(ref string) string) AttendanceResponse {
	resp := AttendanceResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		UserName:        e.UserName,
		CompanyID:       e.CompanyID,
		CompanyName:     e.CompanyName,
		Kind:            e.Kind,
		Date:            e.AttendanceDate.Format(DateLayout),
		Time:            e.CreatedAt.In(loc).Format(TimeLayout),
		Location:        e.Location,
		LocationSource:  e.LocationSource,
		CompanyLocation: e.CompanyLocation,
		DistanceM:       e.DistanceM,
		IsValid:         e.IsValid,
		Pending:         e.IsPending(),
		CreatedAt:       e.CreatedAt.In(loc),
	}
	if photoURL != nil && e.PhotoRef != "" {
		resp.PhotoURL = photoURL(e.PhotoRef)
	}
	return resp
}

// EventSummary is one slot of a day view.
type EventSummary struct {
	ID        string         `json:"id"`
	Time      string         `json:"time"`
	Location  geo.Coordinate `json:"location"`
	DistanceM *int           `json:"distance_m"`
	IsValid   *bool          `json:"is_valid"`
	PhotoURL  string         `json:"photo_url"`
}

func newEventSummary(e *Event, loc *time.Location, photoURL func(ref string) string) *EventSummary {
	if e == nil {
		return nil
	}
	s := &EventSummary{
		ID:        e.ID,
		Time:      e.CreatedAt.In(loc).Format(TimeLayout),
		Location:  e.Location,
		DistanceM: e.DistanceM,
		IsValid:   e.IsValid,
	}
	if photoURL != nil && e.PhotoRef != "" {
		s.PhotoURL = photoURL(e.PhotoRef)
	}
	return s
}

type HistoryDayResponse struct {
	Date            string          `json:"date"`
	CompanyName     *string         `json:"company_name,omitempty"`
	CompanyLocation *geo.Coordinate `json:"company_location,omitempty"`
	Checkin         *EventSummary   `json:"checkin"`
	Checkout        *EventSummary   `json:"checkout"`
}

func NewHistoryDayResponse(d Day, loc *time.Location, photoURL func(ref string) string) HistoryDayResponse {
	resp := HistoryDayResponse{
		Date:     d.Date.Format(DateLayout),
		Checkin:  newEventSummary(d.Checkin, loc, photoURL),
		Checkout: newEventSummary(d.Checkout, loc, photoURL),
	}
	for _, e := range []*Event{d.Checkin, d.Checkout} {
		if e != nil && e.CompanyName != nil {
			resp.CompanyName = e.CompanyName
			resp.CompanyLocation = e.CompanyLocation
			break
		}
	}
	return resp
}

type TodayResponse struct {
	HistoryDayResponse
	Status string `json:"status"`
}

func NewTodayResponse(d Day, loc *time.Location, photoURL func(ref string) string) TodayResponse {
	return TodayResponse{
		HistoryDayResponse: NewHistoryDayResponse(d, loc, photoURL),
		Status:             d.State().String(),
	}
}

// ========================================
// COMPANY ROSTER
// ========================================

type CompanyAttendanceRequest struct {
	Period string `json:"period"`
}

func (r *CompanyAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Period = strings.ToLower(strings.TrimSpace(r.Period))
	if !Period(r.Period).IsValid() {
		errs.Add("period", "period must be one of today, week, month")
	}

	return errs.Err()
}

type CompanyAttendanceResponse struct {
	AttendanceResponse
	UserPhotoURL *string `json:"user_photo_url,omitempty"`
}

// ========================================
// VALIDITY OVERRIDE
// ========================================

type ValidateRequest struct {
	IsValid *bool `json:"is_valid"`
}

func (r *ValidateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.IsValid == nil {
		errs.Add("is_valid", "is_valid must be a boolean")
	}

	return errs.Err()
}

type ValidateResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	IsValid  bool   `json:"is_valid"`
	Previous *bool  `json:"previous_is_valid"`
}
