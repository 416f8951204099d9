// Package events publishes attendance domain events to downstream consumers.
package events

import (
	"context"
	"time"
)

const (
	TypeAttendanceRecorded         = "attendance.recorded"
	TypeAttendanceValidityOverride = "attendance.validity_overridden"
)

// Envelope wraps every payload published to the broker.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// AttendanceRecorded is emitted once distance and validity are attached.
type AttendanceRecorded struct {
	AttendanceID   string    `json:"attendance_id"`
	UserID         string    `json:"user_id"`
	CompanyID      string    `json:"company_id"`
	Kind           string    `json:"kind"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	LocationSource string    `json:"location_source"`
	DistanceM      int       `json:"distance_m"`
	IsValid        bool      `json:"is_valid"`
	AttendanceDate string    `json:"attendance_date"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// ValidityOverridden is emitted when HR corrects an event's validity flag.
type ValidityOverridden struct {
	AttendanceID  string    `json:"attendance_id"`
	CompanyID     string    `json:"company_id"`
	ActorID       string    `json:"actor_id"`
	PreviousValid *bool     `json:"previous_valid"`
	IsValid       bool      `json:"is_valid"`
	OverriddenAt  time.Time `json:"overridden_at"`
}

// Publisher delivers events. Key selects the partition so events of one
// user stay ordered.
type Publisher interface {
	Publish(ctx context.Context, key string, event Envelope) error
	Close() error
}
