//go:build integration

package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = geo.Coordinate{Latitude: -6.2, Longitude: 106.8}

func seedCompany(t *testing.T, repo company.CompanyRepository, name string) company.Company {
	t.Helper()
	c, err := repo.Create(context.Background(), company.Company{
		Name:         name,
		Location:     jakarta,
		ValidRadiusM: 50,
	})
	require.NoError(t, err)
	return c
}

func seedEmployee(t *testing.T, repo user.UserRepository, companyID, nik string) user.User {
	t.Helper()
	u, err := repo.Create(context.Background(), user.User{
		Name:               "Employee " + nik[len(nik)-2:],
		NIK:                nik,
		PasswordHash:       "hash",
		Role:               user.RoleEmployee,
		CompanyID:          &companyID,
		IsVerified:         true,
		VerificationStatus: user.VerificationApproved,
	})
	require.NoError(t, err)
	return u
}

func TestRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	companies := postgresql.NewCompanyRepository(setup.DB)
	users := postgresql.NewUserRepository(setup.DB)
	events := postgresql.NewAttendanceRepository(setup.DB)
	tokens := postgresql.NewRefreshTokenRepository(setup.DB)

	t.Run("company anchor keeps axis order", func(t *testing.T) {
		setup.TruncateAllTables(t)
		ctx := context.Background()
		c := seedCompany(t, companies, "PT Axis")

		var x, y float64
		err := setup.DB.QueryRow(ctx, `SELECT location[0], location[1] FROM companies WHERE id = $1`, c.ID).Scan(&x, &y)
		require.NoError(t, err)
		assert.Equal(t, 106.8, x)
		assert.Equal(t, -6.2, y)

		found, err := companies.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, jakarta, found.Location)
	})

	t.Run("company delete blocked by employees", func(t *testing.T) {
		setup.TruncateAllTables(t)
		ctx := context.Background()
		c := seedCompany(t, companies, "PT Busy")
		seedEmployee(t, users, c.ID, "3174000000000001")

		err := companies.Delete(ctx, c.ID)
		assert.ErrorIs(t, err, company.ErrHasDependentEmployees)

		still, err := companies.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Name, still.Name)

		empty := seedCompany(t, companies, "PT Empty")
		require.NoError(t, companies.Delete(ctx, empty.ID))
		_, err = companies.GetByID(ctx, empty.ID)
		assert.ErrorIs(t, err, company.ErrCompanyNotFound)
	})

	t.Run("duplicate NIK", func(t *testing.T) {
		setup.TruncateAllTables(t)
		c := seedCompany(t, companies, "PT NIK")
		seedEmployee(t, users, c.ID, "3174000000000002")

		_, err := users.Create(context.Background(), user.User{
			Name: "Twin", NIK: "3174000000000002", PasswordHash: "hash",
			Role: user.RoleEmployee, CompanyID: &c.ID, VerificationStatus: user.VerificationPending,
		})
		assert.ErrorIs(t, err, user.ErrNIKExists)
	})

	t.Run("verification is decided once", func(t *testing.T) {
		setup.TruncateAllTables(t)
		ctx := context.Background()
		c := seedCompany(t, companies, "PT Review")
		hr := seedEmployee(t, users, c.ID, "3174000000000010")
		applicant, err := users.Create(ctx, user.User{
			Name: "Applicant", NIK: "3174000000000011", PasswordHash: "hash",
			Role: user.RoleEmployee, CompanyID: &c.ID, VerificationStatus: user.VerificationPending,
		})
		require.NoError(t, err)

		pending := user.VerificationPending
		role := user.RoleEmployee
		list, err := users.ListByCompany(ctx, user.ListFilter{CompanyID: c.ID, Role: &role, Status: &pending})
		require.NoError(t, err)
		require.Len(t, list, 1)

		approved, err := users.UpdateVerification(ctx, applicant.ID, user.VerificationApproved, hr.ID)
		require.NoError(t, err)
		assert.True(t, approved.IsVerified)

		_, err = users.UpdateVerification(ctx, applicant.ID, user.VerificationRejected, hr.ID)
		assert.ErrorIs(t, err, user.ErrAlreadyVerified)
	})

	t.Run("attendance uniqueness and computed fields", func(t *testing.T) {
		setup.TruncateAllTables(t)
		ctx := context.Background()
		c := seedCompany(t, companies, "PT Hadir")
		emp := seedEmployee(t, users, c.ID, "3174000000000003")
		day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.FixedZone("WIB", 7*3600))

		event := attendance.Event{
			UserID:         emp.ID,
			CompanyID:      c.ID,
			Kind:           attendance.KindCheckin,
			PhotoRef:       "attendance/2026-03-10/a.jpg",
			Location:       geo.Coordinate{Latitude: -6.2001, Longitude: 106.8},
			LocationSource: geo.SourceBackup,
			AttendanceDate: day,
		}

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = events.Create(ctx, event)
			}(i)
		}
		wg.Wait()

		var failures int
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, attendance.ErrDuplicateEvent)
				failures++
			}
		}
		assert.Equal(t, 1, failures)

		today, err := events.TodayByUser(ctx, emp.ID, day)
		require.NoError(t, err)
		require.Len(t, today, 1)
		assert.True(t, today[0].IsPending())
		assert.Equal(t, jakarta, *today[0].CompanyLocation)

		require.NoError(t, events.AttachComputedFields(ctx, today[0].ID, 11, true))
		require.NoError(t, events.AttachComputedFields(ctx, today[0].ID, 999, false))

		stored, err := events.FindByID(ctx, today[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 11, *stored.DistanceM)
		assert.True(t, *stored.IsValid)
		assert.Equal(t, "2026-03-10", stored.AttendanceDate.Format(attendance.DateLayout))

		previous, err := events.OverrideValidity(ctx, stored.ID, false, emp.ID)
		require.NoError(t, err)
		require.NotNil(t, previous)
		assert.True(t, *previous)

		var audits int
		require.NoError(t, setup.DB.QueryRow(ctx,
			`SELECT COUNT(*) FROM attendance_validity_overrides WHERE attendance_id = $1`, stored.ID).Scan(&audits))
		assert.Equal(t, 1, audits)

		from, to, _ := attendance.PeriodMonth.Range(day)
		roster, err := events.ListByCompany(ctx, c.ID, attendance.CompanyFilter{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, roster, 1)
		assert.False(t, *roster[0].IsValid)
		assert.Equal(t, 11, *roster[0].DistanceM)

		_, err = events.OverrideValidity(ctx, "0193a0c4-5b6e-7c3d-8e9f-0a1b2c3d4e5f", true, emp.ID)
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("refresh tokens", func(t *testing.T) {
		setup.TruncateAllTables(t)
		ctx := context.Background()
		c := seedCompany(t, companies, "PT Token")
		emp := seedEmployee(t, users, c.ID, "3174000000000004")

		require.NoError(t, tokens.Create(ctx, emp.ID, "refresh-1", time.Now().Add(time.Hour), auth.SessionTrackingRequest{UserAgent: "test", IPAddress: "127.0.0.1"}))

		userID, err := tokens.FindActiveUser(ctx, "refresh-1")
		require.NoError(t, err)
		assert.Equal(t, emp.ID, userID)

		require.NoError(t, tokens.Revoke(ctx, "refresh-1"))
		_, err = tokens.FindActiveUser(ctx, "refresh-1")
		assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

		_, err = tokens.FindActiveUser(ctx, "unknown")
		assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
	})
}
