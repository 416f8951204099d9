package auth

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

var indonesia = geo.BoundingBox{Name: "indonesia", MinLatitude: -11, MaxLatitude: 6, MinLongitude: 95, MaxLongitude: 141}

// passthroughTx runs fn directly and discards the writes of failed units.
type passthroughTx struct {
	users     *fakeUserRepo
	companies *fakeCompanyRepo
}

func (p passthroughTx) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	users, companies := p.users.snapshot(), p.companies.snapshot()
	if err := fn(ctx); err != nil {
		p.users.restore(users)
		p.companies.restore(companies)
		return err
	}
	return nil
}

type fakeUserRepo struct {
	user.UserRepository
	mu    sync.Mutex
	items map[string]user.User
}

func (r *fakeUserRepo) snapshot() map[string]user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]user.User, len(r.items))
	for k, v := range r.items {
		out[k] = v
	}
	return out
}

func (r *fakeUserRepo) restore(items map[string]user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = items
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.NIK == u.NIK {
			return user.User{}, user.ErrNIKExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	r.items[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByNIK(ctx context.Context, nik string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.NIK == nik {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByNIK(ctx context.Context, nik string) (bool, error) {
	_, err := r.GetByNIK(ctx, nik)
	return err == nil, nil
}

type fakeCompanyRepo struct {
	company.CompanyRepository
	mu    sync.Mutex
	items map[string]company.Company
}

func (r *fakeCompanyRepo) snapshot() map[string]company.Company {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]company.Company, len(r.items))
	for k, v := range r.items {
		out[k] = v
	}
	return out
}

func (r *fakeCompanyRepo) restore(items map[string]company.Company) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = items
}

func (r *fakeCompanyRepo) Create(ctx context.Context, c company.Company) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	r.items[c.ID] = c
	return c, nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

type fakeRefreshTokens struct {
	mu      sync.Mutex
	tokens  map[string]string
	revoked map[string]bool
	failAt  error
}

func newFakeRefreshTokens() *fakeRefreshTokens {
	return &fakeRefreshTokens{tokens: map[string]string{}, revoked: map[string]bool{}}
}

func (r *fakeRefreshTokens) Create(ctx context.Context, userID, token string, expiresAt time.Time, session auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAt != nil {
		return r.failAt
	}
	r.tokens[token] = userID
	return nil
}

func (r *fakeRefreshTokens) FindActiveUser(ctx context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.tokens[token]
	if !ok || r.revoked[token] {
		return "", auth.ErrRefreshTokenRevoked
	}
	return userID, nil
}

func (r *fakeRefreshTokens) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = true
	return nil
}

type fakeFileService struct{}

func (fakeFileService) UploadAttendancePhoto(context.Context, string, time.Time, string, []byte) (string, error) {
	return "", nil
}
func (fakeFileService) UploadProfilePhoto(context.Context, string, io.Reader, string) (string, error) {
	return "", nil
}
func (fakeFileService) DeleteFile(context.Context, string) error { return nil }
func (fakeFileService) GetFileURL(ref string) string             { return "http://localhost:8080/uploads/" + ref }

type fixture struct {
	svc       auth.AuthService
	users     *fakeUserRepo
	companies *fakeCompanyRepo
	tokens    *fakeRefreshTokens
	jwt       *jwt.JWTService
}

func newFixture() *fixture {
	users := &fakeUserRepo{items: map[string]user.User{}}
	companies := &fakeCompanyRepo{items: map[string]company.Company{}}
	tokens := newFakeRefreshTokens()
	jwtService := jwt.NewJWTService(testSecret, time.Hour, 24*time.Hour)

	svc := NewAuthService(passthroughTx{users: users, companies: companies}, users, companies, tokens, jwtService, fakeFileService{}, indonesia)
	return &fixture{svc: svc, users: users, companies: companies, tokens: tokens, jwt: jwtService}
}

func ptr[T any](v T) *T { return &v }

func hrRequest(nik string) auth.RegisterRequest {
	return auth.RegisterRequest{
		Name:        "Siti Rahma",
		NIK:         nik,
		Password:    "password123",
		Role:        "hr",
		CompanyName: ptr("PT Maju Jaya"),
		Latitude:    ptr(-6.2),
		Longitude:   ptr(106.8),
	}
}

func employeeRequest(nik, companyID string) auth.RegisterRequest {
	return auth.RegisterRequest{
		Name:       "Budi Santoso",
		NIK:        nik,
		Password:   "password123",
		Role:       "karyawan",
		CompanyID:  ptr(companyID),
		BirthPlace: ptr("Bandung"),
		BirthDate:  ptr("1995-04-12"),
		Gender:     ptr("male"),
	}
}

var session = auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}

func TestRegister_HRCreatesCompanyAndSignsIn(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Register(context.Background(), hrRequest("3174012345678901"), session)
	require.NoError(t, err)

	require.NotNil(t, resp.Company)
	assert.Equal(t, "PT Maju Jaya", resp.Company.Name)
	assert.Equal(t, company.DefaultValidRadiusM, resp.Company.ValidRadiusM)
	assert.Equal(t, "hr", resp.User.Role)
	assert.True(t, resp.User.IsVerified)
	assert.Equal(t, &resp.Company.ID, resp.User.CompanyID)

	require.NotNil(t, resp.Tokens)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Len(t, f.tokens.tokens, 1)

	stored, err := f.users.GetByNIK(context.Background(), "3174012345678901")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestRegister_HRAnchorChecks(t *testing.T) {
	f := newFixture()

	req := hrRequest("3174012345678901")
	req.Latitude, req.Longitude = ptr(35.68), ptr(139.69)
	_, err := f.svc.Register(context.Background(), req, session)
	assert.ErrorIs(t, err, geo.ErrOutOfRegion)

	req = hrRequest("3174012345678901")
	req.Latitude = ptr(0.00005)
	_, err = f.svc.Register(context.Background(), req, session)
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)

	assert.Empty(t, f.companies.items)
}

func TestRegister_HRRollsBackOnFailure(t *testing.T) {
	f := newFixture()
	f.tokens.failAt = errors.New("connection reset")

	_, err := f.svc.Register(context.Background(), hrRequest("3174012345678901"), session)
	require.Error(t, err)

	assert.Empty(t, f.companies.items, "company must not outlive a failed registration")
	assert.Empty(t, f.users.items)
}

func TestRegister_EmployeeIsPending(t *testing.T) {
	f := newFixture()
	hr, err := f.svc.Register(context.Background(), hrRequest("3174012345678901"), session)
	require.NoError(t, err)

	resp, err := f.svc.Register(context.Background(), employeeRequest("3174012345678902", hr.Company.ID), session)
	require.NoError(t, err)

	assert.Equal(t, "employee", resp.User.Role)
	assert.False(t, resp.User.IsVerified)
	assert.Equal(t, "pending", resp.User.VerificationStatus)
	assert.Nil(t, resp.Tokens)
	assert.Nil(t, resp.Company)
}

func TestRegister_Errors(t *testing.T) {
	f := newFixture()
	hr, err := f.svc.Register(context.Background(), hrRequest("3174012345678901"), session)
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), employeeRequest("3174012345678901", hr.Company.ID), session)
	assert.ErrorIs(t, err, user.ErrNIKExists)

	_, err = f.svc.Register(context.Background(), employeeRequest("3174012345678903", uuid.NewString()), session)
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)

	req := employeeRequest("3174012345678904", hr.Company.ID)
	req.Role = "admin"
	_, err = f.svc.Register(context.Background(), req, session)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hr, err := f.svc.Register(ctx, hrRequest("3174012345678901"), session)
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, employeeRequest("3174012345678902", hr.Company.ID), session)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp, err := f.svc.Login(ctx, auth.LoginRequest{NIK: "3174012345678901", Password: "password123"}, session)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		require.NotNil(t, resp.User)
		assert.Equal(t, "hr", resp.User.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, auth.LoginRequest{NIK: "3174012345678901", Password: "wrongpass"}, session)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown nik", func(t *testing.T) {
		_, err := f.svc.Login(ctx, auth.LoginRequest{NIK: "3174019999999999", Password: "password123"}, session)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("pending employee", func(t *testing.T) {
		_, err := f.svc.Login(ctx, auth.LoginRequest{NIK: "3174012345678902", Password: "password123"}, session)
		assert.ErrorIs(t, err, auth.ErrNotVerified)
	})
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hr, err := f.svc.Register(ctx, hrRequest("3174012345678901"), session)
	require.NoError(t, err)
	refresh := auth.RefreshTokenRequest{RefreshToken: hr.Tokens.RefreshToken}

	resp, err := f.svc.RefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: hr.Tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrTokenInvalid, "an access token is not a refresh token")

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	require.NoError(t, f.svc.Logout(ctx, refresh))
	_, err = f.svc.RefreshToken(ctx, refresh)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	assert.NoError(t, f.svc.Logout(ctx, refresh), "logout is idempotent")
}
