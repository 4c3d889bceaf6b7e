package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

// CreateCompany inserts a new company
func (s *Store) CreateCompany(ctx context.Context, name string, fiscalYearEnd int, currency string) (models.Company, error) {
	query := `
		INSERT INTO companies (id, name, fiscal_year_end, currency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, fiscal_year_end, currency
	`

	var company models.Company
	err := s.pool.QueryRow(ctx, query, uuid.New(), name, fiscalYearEnd, currency).Scan(
		&company.ID,
		&company.Name,
		&company.FiscalYearEnd,
		&company.Currency,
	)
	if err != nil {
		return models.Company{}, err
	}

	return company, nil
}

// ListCompanies returns all companies ordered by name
func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	query := `SELECT id, name, fiscal_year_end, currency FROM companies ORDER BY name`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var company models.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.FiscalYearEnd, &company.Currency); err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}

	return companies, rows.Err()
}

// GetCompany fetches one company or ErrNotFound
func (s *Store) GetCompany(ctx context.Context, id uuid.UUID) (models.Company, error) {
	query := `SELECT id, name, fiscal_year_end, currency FROM companies WHERE id = $1`

	var company models.Company
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.FiscalYearEnd,
		&company.Currency,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Company{}, ErrNotFound
	}
	if err != nil {
		return models.Company{}, err
	}

	return company, nil
}

// UpdateCompany overwrites the given fields; nil pointers leave the stored
// value unchanged
func (s *Store) UpdateCompany(ctx context.Context, id uuid.UUID, name *string, fiscalYearEnd *int, currency *string) (models.Company, error) {
	query := `
		UPDATE companies
		SET name            = COALESCE($2, name),
		    fiscal_year_end = COALESCE($3, fiscal_year_end),
		    currency        = COALESCE($4, currency)
		WHERE id = $1
		RETURNING id, name, fiscal_year_end, currency
	`

	var company models.Company
	err := s.pool.QueryRow(ctx, query, id, name, fiscalYearEnd, currency).Scan(
		&company.ID,
		&company.Name,
		&company.FiscalYearEnd,
		&company.Currency,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Company{}, ErrNotFound
	}
	if err != nil {
		return models.Company{}, err
	}

	return company, nil
}
