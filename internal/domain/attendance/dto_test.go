package attendance

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopFile struct {
	*bytes.Reader
}

func (nopFile) Close() error { return nil }

func newPhoto(name string, size int64) (multipart.File, *multipart.FileHeader) {
	return nopFile{bytes.NewReader([]byte("jpeg"))}, &multipart.FileHeader{Filename: name, Size: size}
}

func ptr[T any](v T) *T { return &v }

func TestSubmitRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       func() SubmitRequest
		wantField string
	}{
		{
			name: "valid checkin without backup",
			req: func() SubmitRequest {
				f, h := newPhoto("selfie.JPG", 1024)
				return SubmitRequest{Kind: " CheckIn ", File: f, FileHeader: h}
			},
		},
		{
			name: "valid checkout with backup",
			req: func() SubmitRequest {
				f, h := newPhoto("selfie.png", 1024)
				return SubmitRequest{Kind: "checkout", Latitude: ptr(-6.2), Longitude: ptr(106.8), File: f, FileHeader: h}
			},
		},
		{
			name: "unknown kind",
			req: func() SubmitRequest {
				f, h := newPhoto("selfie.jpg", 1024)
				return SubmitRequest{Kind: "lunch", File: f, FileHeader: h}
			},
			wantField: "kind",
		},
		{
			name: "half a backup coordinate",
			req: func() SubmitRequest {
				f, h := newPhoto("selfie.jpg", 1024)
				return SubmitRequest{Kind: "checkin", Latitude: ptr(-6.2), File: f, FileHeader: h}
			},
			wantField: "latitude",
		},
		{
			name: "longitude out of range",
			req: func() SubmitRequest {
				f, h := newPhoto("selfie.jpg", 1024)
				return SubmitRequest{Kind: "checkin", Latitude: ptr(-6.2), Longitude: ptr(181.0), File: f, FileHeader: h}
			},
			wantField: "longitude",
		},
		{
			name:      "missing photo",
			req:       func() SubmitRequest { return SubmitRequest{Kind: "checkin"} },
			wantField: "photo",
		},
		{
			name: "wrong extension",
			req: func() SubmitRequest {
				f, h := newPhoto("selfie.gif", 1024)
				return SubmitRequest{Kind: "checkin", File: f, FileHeader: h}
			},
			wantField: "photo",
		},
		{
			name: "too large",
			req: func() SubmitRequest {
				f, h := newPhoto("selfie.jpg", MaxPhotoSize+1)
				return SubmitRequest{Kind: "checkin", File: f, FileHeader: h}
			},
			wantField: "photo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req()
			err := req.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.wantField)
		})
	}
}

func TestSubmitRequest_Backup(t *testing.T) {
	r := SubmitRequest{}
	assert.Nil(t, r.Backup())

	r.Latitude, r.Longitude = ptr(-6.2), ptr(106.8)
	b := r.Backup()
	require.NotNil(t, b)
	assert.Equal(t, -6.2, b.Latitude)
	assert.Equal(t, 106.8, b.Longitude)
}

func TestValidateRequest_RequiresBoolean(t *testing.T) {
	assert.Error(t, (&ValidateRequest{}).Validate())
	assert.NoError(t, (&ValidateRequest{IsValid: ptr(false)}).Validate())
}

func TestCompanyAttendanceRequest_Validate(t *testing.T) {
	for _, p := range []string{"", "today", "WEEK", "month"} {
		r := CompanyAttendanceRequest{Period: p}
		assert.NoError(t, r.Validate(), p)
	}
	r := CompanyAttendanceRequest{Period: "year"}
	assert.Error(t, r.Validate())
}
