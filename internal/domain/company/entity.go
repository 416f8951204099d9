package company

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
)

// DefaultValidRadiusM applies when a company is created without a radius.
const DefaultValidRadiusM = 100

// Company is a registered workplace and its attendance geofence: a circle of
// ValidRadiusM metres around Location.
type Company struct {
	ID           string
	Name         string
	Address      *string
	Location     geo.Coordinate
	ValidRadiusM int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Evaluate measures c against the geofence and returns the rounded distance
// and the inclusive verdict.
func (c Company) Evaluate(point geo.Coordinate) (distance int, valid bool) {
	distance = geo.Distance(c.Location, point)
	return distance, geo.IsWithinRadius(distance, c.ValidRadiusM)
}

// CheckAnchor rejects anchors at the null coordinate or outside region.
func CheckAnchor(anchor geo.Coordinate, region geo.BoundingBox) error {
	if err := anchor.ValidateAnchor(); err != nil {
		return err
	}
	return region.Check(anchor)
}
