package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListPeriods returns the distinct period-end dates on record for a company,
// newest first (the default base-period selection order)
func (s *Store) ListPeriods(ctx context.Context, companyID uuid.UUID) ([]time.Time, error) {
	query := `
		SELECT period_date FROM reporting_periods
		WHERE company_id = $1
		ORDER BY period_date DESC
	`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := []time.Time{}
	for rows.Next() {
		var period time.Time
		if err := rows.Scan(&period); err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	return periods, rows.Err()
}

// PeriodExists reports whether the company has a trial balance for the date
func (s *Store) PeriodExists(ctx context.Context, companyID uuid.UUID, period time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reporting_periods WHERE company_id = $1 AND period_date = $2)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, companyID, period).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// PriorPeriod returns the chronologically previous period with data, or nil
// when the given period is the first on record
func (s *Store) PriorPeriod(ctx context.Context, companyID uuid.UUID, before time.Time) (*time.Time, error) {
	query := `
		SELECT period_date FROM reporting_periods
		WHERE company_id = $1 AND period_date < $2
		ORDER BY period_date DESC
		LIMIT 1
	`

	var period time.Time
	err := s.pool.QueryRow(ctx, query, companyID, before).Scan(&period)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &period, nil
}

// DeletePeriod removes a period and all its trial balance lines. Returns
// ErrNotFound when the period does not exist for the company.
func (s *Store) DeletePeriod(ctx context.Context, companyID uuid.UUID, period time.Time) error {
	// Lines cascade from the period row
	query := `DELETE FROM reporting_periods WHERE company_id = $1 AND period_date = $2`

	tag, err := s.pool.Exec(ctx, query, companyID, period)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
