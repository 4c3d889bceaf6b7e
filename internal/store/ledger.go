package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

// ReplacePeriodLines atomically replaces a period's trial balance with the
// parsed rows: the period row is upserted, any previous lines are dropped,
// company accounts are created on first sight of their import number, and
// the new lines inserted — all in one transaction so concurrent readers
// never observe a partially written period.
func (s *Store) ReplacePeriodLines(ctx context.Context, companyID uuid.UUID, period time.Time, rows []models.ParsedRow) (int, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var periodID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO reporting_periods (id, company_id, period_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, period_date) DO UPDATE SET period_date = EXCLUDED.period_date
		RETURNING id
	`, uuid.New(), companyID, period).Scan(&periodID)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert period: %w", err)
	}

	// Clear previous lines so a re-upload fully replaces the period
	if _, err := tx.Exec(ctx, `DELETE FROM trial_balance_lines WHERE reporting_period_id = $1`, periodID); err != nil {
		return 0, fmt.Errorf("failed to clear existing lines: %w", err)
	}

	inserted := 0
	for _, row := range rows {
		var accountID uuid.UUID
		err = tx.QueryRow(ctx, `
			INSERT INTO company_accounts (id, company_id, import_account_number, import_account_name)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (company_id, import_account_number)
				DO UPDATE SET import_account_name = EXCLUDED.import_account_name
			RETURNING id
		`, uuid.New(), companyID, row.AccountNumber, row.AccountName).Scan(&accountID)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert account %s: %w", row.AccountNumber, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO trial_balance_lines (id, reporting_period_id, company_account_id, balance_cents)
			VALUES ($1, $2, $3, $4)
		`, uuid.New(), periodID, accountID, row.BalanceCents)
		if err != nil {
			return 0, fmt.Errorf("failed to insert line for account %s: %w", row.AccountNumber, err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return inserted, nil
}

// MappedBalances returns the period's trial balance lines joined with their
// mapping and master account attributes. Unmapped lines are excluded.
func (s *Store) MappedBalances(ctx context.Context, companyID uuid.UUID, period time.Time) ([]models.MappedBalance, error) {
	query := `
		SELECT tbl.company_account_id,
		       m.account_code,
		       m.category,
		       m.cash_flow_category,
		       m.normal_balance,
		       tbl.balance_cents
		FROM trial_balance_lines tbl
		JOIN reporting_periods rp ON rp.id = tbl.reporting_period_id
		JOIN company_accounts ca ON ca.id = tbl.company_account_id
		JOIN account_mappings am ON am.company_account_id = ca.id
		JOIN master_chart_of_accounts m ON m.id = am.master_account_id
		WHERE rp.company_id = $1 AND rp.period_date = $2
		ORDER BY m.account_code
	`

	rows, err := s.pool.Query(ctx, query, companyID, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := []models.MappedBalance{}
	for rows.Next() {
		var b models.MappedBalance
		if err := rows.Scan(
			&b.CompanyAccountID,
			&b.AccountCode,
			&b.Category,
			&b.CashFlowCategory,
			&b.NormalBalance,
			&b.BalanceCents,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// UnmappedBalance sums the period's lines whose accounts have no active
// mapping; nonzero means the categorized statements are incomplete
func (s *Store) UnmappedBalance(ctx context.Context, companyID uuid.UUID, period time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(tbl.balance_cents), 0)
		FROM trial_balance_lines tbl
		JOIN reporting_periods rp ON rp.id = tbl.reporting_period_id
		JOIN company_accounts ca ON ca.id = tbl.company_account_id
		LEFT JOIN account_mappings am ON am.company_account_id = ca.id
		WHERE rp.company_id = $1 AND rp.period_date = $2 AND am.id IS NULL
	`

	var total int64
	if err := s.pool.QueryRow(ctx, query, companyID, period).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}
