package validator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringChecks(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) bool
		ok   []string
		bad  []string
	}{
		{"IsEmpty", IsEmpty, []string{"", "   ", "\t"}, []string{"abc", " abc "}},
		{
			"IsValidUUID", IsValidUUID,
			[]string{"0195a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b", "0195A1B2-C3D4-7E5F-8A6B-7C8D9E0F1A2B"},
			[]string{"123e4567-e89b-12d3-a456-426614174000", "0195a1b2c3d47e5f8a6b7c8d9e0f1a2b", "not-a-uuid", ""},
		},
		{"IsNumeric", IsNumeric, []string{"0", "3201010101010001"}, []string{"", "-1", "12a"}},
		{"IsValidNIK", IsValidNIK, []string{"3201010101010001"}, []string{"320101010101000", "32010101010100011", "320101010101000x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.ok {
				assert.True(t, tt.fn(s), s)
			}
			for _, s := range tt.bad {
				assert.False(t, tt.fn(s), s)
			}
		})
	}
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("1995-08-17")
	assert.True(t, ok)
	assert.Equal(t, 17, d.Day())

	for _, s := range []string{"1995-13-01", "17-08-1995", "1995/08/17", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestIsInSlice(t *testing.T) {
	genders := []string{"male", "female"}
	assert.True(t, IsInSlice("female", genders))
	assert.False(t, IsInSlice("Female", genders))
}

func TestCoordinateComponents(t *testing.T) {
	assert.True(t, IsValidLatitude(-6.2))
	assert.True(t, IsValidLongitude(106.8))
	assert.True(t, IsValidLatitude(90))
	assert.True(t, IsValidLongitude(-180))

	for _, lat := range []float64{-90.1, 91, math.NaN()} {
		assert.False(t, IsValidLatitude(lat), lat)
	}
	for _, lon := range []float64{-180.5, 181, math.NaN()} {
		assert.False(t, IsValidLongitude(lon), lon)
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("nik", "nik is required")
	errs.Add("password", "password is required")

	err := errs.Err()
	assert.EqualError(t, err, "nik: nik is required; password: password is required")

	var target ValidationErrors
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, map[string]string{
		"nik":      "nik is required",
		"password": "password is required",
	}, target.ToMap())
}
