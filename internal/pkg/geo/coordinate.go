package geo

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoLocationAvailable = errors.New("no location available: photo has no GPS metadata and no backup coordinate was sent")
	ErrInvalidCoordinate   = errors.New("invalid coordinate")
	ErrOutOfRegion         = errors.New("coordinate is outside the operating region")
)

// nearZero is the magnitude under which an anchor component is treated as an
// unset value rather than a real position.
const nearZero = 0.0001

// Coordinate is a WGS84 position in decimal degrees. Axis order is always
// carried by name; code must never rely on positional (x, y) pairs.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Latitude, c.Longitude)
}

// Validate rejects NaN, infinite, out-of-range and zero components. A zero
// component is what stripped or defaulted metadata produces, never a real
// submission inside any operating region we serve.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return fmt.Errorf("%w: not a number", ErrInvalidCoordinate)
	}
	if c.Latitude == 0 || c.Longitude == 0 {
		return fmt.Errorf("%w: zero coordinate %s", ErrInvalidCoordinate, c)
	}
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: %s out of range", ErrInvalidCoordinate, c)
	}
	return nil
}

// ValidateAnchor is the stricter check applied to company anchors, which also
// rejects components within 0.0001 degrees of zero.
func (c Coordinate) ValidateAnchor() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if math.Abs(c.Latitude) < nearZero || math.Abs(c.Longitude) < nearZero {
		return fmt.Errorf("%w: anchor %s is too close to zero", ErrInvalidCoordinate, c)
	}
	return nil
}

// BoundingBox is the operating region. Bounds are inclusive.
type BoundingBox struct {
	Name         string
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Latitude >= b.MinLatitude && c.Latitude <= b.MaxLatitude &&
		c.Longitude >= b.MinLongitude && c.Longitude <= b.MaxLongitude
}

// Check returns ErrOutOfRegion when c falls outside the box.
func (b BoundingBox) Check(c Coordinate) error {
	if !b.Contains(c) {
		return fmt.Errorf("%w: %s not in %s", ErrOutOfRegion, c, b.Name)
	}
	return nil
}
