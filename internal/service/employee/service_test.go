package employee

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyA = "0193a0c4-5b6e-7c3d-8e9f-0a1b2c3d4e5a"
	companyB = "0193a0c4-5b6e-7c3d-8e9f-0a1b2c3d4e5b"
)

type fakeUserRepo struct {
	user.UserRepository
	items map[string]user.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.items[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ListByCompany(ctx context.Context, f user.ListFilter) ([]user.User, error) {
	out := make([]user.User, 0)
	for _, u := range r.items {
		if !u.BelongsTo(f.CompanyID) {
			continue
		}
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.Status != nil && u.VerificationStatus != *f.Status {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeUserRepo) UpdateVerification(ctx context.Context, id string, status user.VerificationStatus, verifiedBy string) (user.User, error) {
	u := r.items[id]
	if u.VerificationStatus != user.VerificationPending {
		return user.User{}, user.ErrAlreadyVerified
	}
	u.VerificationStatus = status
	u.IsVerified = status == user.VerificationApproved
	u.VerifiedBy = &verifiedBy
	r.items[id] = u
	return u, nil
}

type fakeCompanyRepo struct {
	company.CompanyRepository
}

func (fakeCompanyRepo) GetByID(ctx context.Context, id string) (company.Company, error) {
	if id != companyA && id != companyB {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return company.Company{ID: id}, nil
}

type fakeFileService struct{}

func (fakeFileService) UploadAttendancePhoto(context.Context, string, time.Time, string, []byte) (string, error) {
	return "", nil
}
func (fakeFileService) UploadProfilePhoto(context.Context, string, io.Reader, string) (string, error) {
	return "", nil
}
func (fakeFileService) DeleteFile(context.Context, string) error { return nil }
func (fakeFileService) GetFileURL(ref string) string             { return "/uploads/" + ref }

func ptr[T any](v T) *T { return &v }

func member(id, name string, companyID string, role user.Role, status user.VerificationStatus) user.User {
	return user.User{
		ID:                 id,
		Name:               name,
		Role:               role,
		CompanyID:          ptr(companyID),
		VerificationStatus: status,
		IsVerified:         status == user.VerificationApproved,
	}
}

func newService(t *testing.T) (employee.EmployeeService, *fakeUserRepo) {
	t.Helper()
	translator, err := i18n.New("en")
	require.NoError(t, err)

	repo := &fakeUserRepo{items: map[string]user.User{
		"hr-a":  member("hr-a", "Siti", companyA, user.RoleHR, user.VerificationApproved),
		"emp-1": member("emp-1", "Budi", companyA, user.RoleEmployee, user.VerificationPending),
		"emp-2": member("emp-2", "Andi", companyA, user.RoleEmployee, user.VerificationApproved),
		"emp-3": member("emp-3", "Citra", companyA, user.RoleEmployee, user.VerificationApproved),
		"emp-4": member("emp-4", "Dewi", companyB, user.RoleEmployee, user.VerificationPending),
	}}
	return NewEmployeeService(repo, fakeCompanyRepo{}, fakeFileService{}, translator), repo
}

func hrCtx(companyID string) context.Context {
	return jwt.ContextWithActor(context.Background(), user.Actor{UserID: "hr-a", Role: user.RoleHR, CompanyID: ptr(companyID)})
}

func adminCtx() context.Context {
	return jwt.ContextWithActor(context.Background(), user.Actor{UserID: "admin-1", Role: user.RoleAdmin})
}

func names(list []user.UserResponse) []string {
	out := make([]string, 0, len(list))
	for _, u := range list {
		out = append(out, u.Name)
	}
	return out
}

func TestListApplicants(t *testing.T) {
	svc, _ := newService(t)

	list, err := svc.ListApplicants(hrCtx(companyA), employee.CompanyQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Budi"}, names(list))

	_, err = svc.ListApplicants(hrCtx(companyA), employee.CompanyQuery{CompanyID: ptr(companyB)})
	assert.ErrorIs(t, err, user.ErrCompanyScope)

	_, err = svc.ListApplicants(adminCtx(), employee.CompanyQuery{})
	assert.ErrorIs(t, err, user.ErrCompanyIDRequired)

	list, err = svc.ListApplicants(adminCtx(), employee.CompanyQuery{CompanyID: ptr(companyB)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dewi"}, names(list))
}

func TestListEmployees_OrderedByName(t *testing.T) {
	svc, _ := newService(t)

	list, err := svc.ListEmployees(hrCtx(companyA), employee.CompanyQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Andi", "Citra"}, names(list))
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		userID  string
		status  string
		wantErr error
	}{
		{"approve", hrCtx(companyA), "emp-1", "approved", nil},
		{"already decided", hrCtx(companyA), "emp-2", "rejected", user.ErrAlreadyVerified},
		{"other company", hrCtx(companyA), "emp-4", "approved", user.ErrCompanyScope},
		{"not an employee", hrCtx(companyA), "hr-a", "approved", user.ErrNotAnEmployee},
		{"unknown user", hrCtx(companyA), "ghost", "approved", user.ErrUserNotFound},
		{"admin anywhere", adminCtx(), "emp-4", "rejected", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)

			resp, err := svc.Verify(tt.ctx, tt.userID, employee.VerifyRequest{Status: tt.status})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.User.VerificationStatus)
			assert.Equal(t, tt.status == "approved", repo.items[tt.userID].IsVerified)
			assert.Contains(t, resp.Message, repo.items[tt.userID].Name)
		})
	}
}

func TestVerify_DecisionIsFinal(t *testing.T) {
	svc, _ := newService(t)

	resp, err := svc.Verify(hrCtx(companyA), "emp-1", employee.VerifyRequest{Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Employee Budi approved", resp.Message)

	_, err = svc.Verify(hrCtx(companyA), "emp-1", employee.VerifyRequest{Status: "rejected"})
	assert.ErrorIs(t, err, user.ErrAlreadyVerified)

	_, err = svc.Verify(hrCtx(companyA), "emp-1", employee.VerifyRequest{Status: "maybe"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
