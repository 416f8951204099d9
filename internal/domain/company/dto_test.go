package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

func ptr[T any](v T) *T { return &v }

func TestCreateCompanyRequest_Validate(t *testing.T) {
	req := CreateCompanyRequest{Name: "  PT Maju  ", Latitude: ptr(-6.2), Longitude: ptr(106.8)}
	require.NoError(t, req.Validate())
	assert.Equal(t, "PT Maju", req.Name)
	assert.Equal(t, DefaultValidRadiusM, req.Radius())
	assert.Equal(t, geo.Coordinate{Latitude: -6.2, Longitude: 106.8}, req.Coordinate())

	missing := CreateCompanyRequest{}
	err := missing.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "latitude")
	assert.Contains(t, fields, "longitude")

	badRadius := CreateCompanyRequest{Name: "PT", Latitude: ptr(-6.2), Longitude: ptr(106.8), ValidRadiusM: ptr(0)}
	assert.Error(t, badRadius.Validate())
}

func TestUpdateCompanyRequest_RequiresBothAxes(t *testing.T) {
	onlyLat := UpdateCompanyRequest{Latitude: ptr(-6.3)}
	err := onlyLat.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "longitude")
	assert.Nil(t, onlyLat.Coordinate())

	both := UpdateCompanyRequest{Latitude: ptr(-6.3), Longitude: ptr(106.9)}
	require.NoError(t, both.Validate())
	assert.Equal(t, &geo.Coordinate{Latitude: -6.3, Longitude: 106.9}, both.Coordinate())

	empty := UpdateCompanyRequest{}
	assert.Error(t, empty.Validate())
}

func TestCompany_Evaluate(t *testing.T) {
	c := Company{Location: geo.Coordinate{Latitude: -6.2, Longitude: 106.8}, ValidRadiusM: 50}

	distance, valid := c.Evaluate(geo.Coordinate{Latitude: -6.2001, Longitude: 106.8})
	assert.Equal(t, 11, distance)
	assert.True(t, valid)

	distance, valid = c.Evaluate(geo.Coordinate{Latitude: -6.201, Longitude: 106.8})
	assert.Equal(t, 111, distance)
	assert.False(t, valid)
}
