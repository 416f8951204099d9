package company

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Address      *string        `json:"address"`
	Location     geo.Coordinate `json:"location"`
	ValidRadiusM int            `json:"valid_radius_m"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:           c.ID,
		Name:         c.Name,
		Address:      c.Address,
		Location:     c.Location,
		ValidRadiusM: c.ValidRadiusM,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type CreateCompanyRequest struct {
	Name         string   `json:"name"`
	Address      *string  `json:"address,omitempty"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ValidRadiusM *int     `json:"valid_radius_m,omitempty"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	validateCoordinatePair(&errs, r.Latitude, r.Longitude, true)

	if r.ValidRadiusM != nil && *r.ValidRadiusM <= 0 {
		errs.Add("valid_radius_m", "valid_radius_m must be greater than 0")
	}

	return errs.Err()
}

// Coordinate must only be called after Validate succeeded.
func (r *CreateCompanyRequest) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

// Radius returns the requested radius or the default.
func (r *CreateCompanyRequest) Radius() int {
	if r.ValidRadiusM == nil {
		return DefaultValidRadiusM
	}
	return *r.ValidRadiusM
}

// UpdateCompanyRequest is a partial update. A coordinate change must carry
// both latitude and longitude.
type UpdateCompanyRequest struct {
	Name         *string  `json:"name,omitempty"`
	Address      *string  `json:"address,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	ValidRadiusM *int     `json:"valid_radius_m,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
		if trimmed == "" {
			errs.Add("name", "name must not be empty")
		} else if len(trimmed) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}

	validateCoordinatePair(&errs, r.Latitude, r.Longitude, false)

	if r.ValidRadiusM != nil && *r.ValidRadiusM <= 0 {
		errs.Add("valid_radius_m", "valid_radius_m must be greater than 0")
	}

	if r.Name == nil && r.Address == nil && r.Latitude == nil && r.Longitude == nil && r.ValidRadiusM == nil {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}

// Coordinate returns the new anchor, or nil when the update leaves it alone.
func (r *UpdateCompanyRequest) Coordinate() *geo.Coordinate {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

func validateCoordinatePair(errs *validator.ValidationErrors, lat, lon *float64, required bool) {
	switch {
	case lat == nil && lon == nil:
		if required {
			errs.Add("latitude", "latitude is required")
			errs.Add("longitude", "longitude is required")
		}
		return
	case lat == nil:
		errs.Add("latitude", "latitude is required when longitude is set")
		return
	case lon == nil:
		errs.Add("longitude", "longitude is required when latitude is set")
		return
	}

	if !validator.IsValidLatitude(*lat) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if !validator.IsValidLongitude(*lon) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
}
