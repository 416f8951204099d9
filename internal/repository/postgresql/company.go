package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const companyColumns = `id, name, address, location, valid_radius_m, created_at, updated_at`

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row pgx.Row) (company.Company, error) {
	var (
		c        company.Company
		location pgtype.Point
	)
	err := row.Scan(&c.ID, &c.Name, &c.Address, &location, &c.ValidRadiusM, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, err
	}
	c.Location = coordinateFromPoint(location)
	return c, nil
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	var found company.Company
	err := run(ctx, c.db, func(q database.Querier) error {
		var err error
		found, err = scanCompany(q.QueryRow(ctx, query, id))
		return err
	})
	return found, err
}

// List implements company.CompanyRepository.
func (c *companyRepositoryImpl) List(ctx context.Context) ([]company.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name ASC, id ASC`

	var companies []company.Company
	err := run(ctx, c.db, func(q database.Querier) error {
		rows, err := q.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		companies = make([]company.Company, 0)
		for rows.Next() {
			found, err := scanCompany(rows)
			if err != nil {
				return err
			}
			companies = append(companies, found)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return company.Company{}, err
	}

	query := `
		INSERT INTO companies (id, name, address, location, valid_radius_m)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + companyColumns

	var created company.Company
	err = run(ctx, c.db, func(q database.Querier) error {
		var err error
		created, err = scanCompany(q.QueryRow(ctx, query,
			id.String(),
			newCompany.Name,
			newCompany.Address,
			pointFromCoordinate(newCompany.Location),
			newCompany.ValidRadiusM,
		))
		return err
	})
	if err != nil {
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.Company, error) {
	setClauses := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)

	set := func(col string, val interface{}) {
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}
	if coord := req.Coordinate(); coord != nil {
		set("location", pointFromCoordinate(*coord))
	}
	if req.ValidRadiusM != nil {
		set("valid_radius_m", *req.ValidRadiusM)
	}

	if len(setClauses) == 0 {
		return c.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := "UPDATE companies SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + companyColumns

	var updated company.Company
	err := run(ctx, c.db, func(q database.Querier) error {
		var err error
		updated, err = scanCompany(q.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return company.Company{}, err
		}
		return company.Company{}, fmt.Errorf("failed to update company with id %s: %w", id, err)
	}
	return updated, nil
}

// Delete implements company.CompanyRepository. The row is locked before
// counting so a concurrent registration cannot slip in between.
func (c *companyRepositoryImpl) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, c.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, c.db)

		var lockedID string
		err := q.QueryRow(txCtx, `SELECT id FROM companies WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return company.ErrCompanyNotFound
			}
			return err
		}

		var dependents int64
		if err := q.QueryRow(txCtx, `SELECT COUNT(*) FROM users WHERE company_id = $1`, id).Scan(&dependents); err != nil {
			return err
		}
		if dependents > 0 {
			return company.ErrHasDependentEmployees
		}

		if _, err := q.Exec(txCtx, `DELETE FROM companies WHERE id = $1`, id); err != nil {
			if database.IsForeignKeyViolation(err) {
				return company.ErrHasDependentEmployees
			}
			return err
		}
		return nil
	})
}
