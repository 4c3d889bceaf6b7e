package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

// ListUnmappedAccounts returns the company's active accounts with no active
// mapping, with their all-period total balance, ordered by import number
func (s *Store) ListUnmappedAccounts(ctx context.Context, companyID uuid.UUID) ([]models.CompanyAccount, error) {
	query := `
		SELECT ca.id,
		       ca.company_id,
		       ca.import_account_number,
		       ca.import_account_name,
		       ca.is_active,
		       COALESCE(SUM(tbl.balance_cents), 0) AS total_balance
		FROM company_accounts ca
		LEFT JOIN account_mappings am ON am.company_account_id = ca.id
		LEFT JOIN trial_balance_lines tbl ON tbl.company_account_id = ca.id
		WHERE ca.company_id = $1 AND ca.is_active AND am.id IS NULL
		GROUP BY ca.id, ca.company_id, ca.import_account_number, ca.import_account_name, ca.is_active
		ORDER BY ca.import_account_number
	`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.CompanyAccount{}
	for rows.Next() {
		var acc models.CompanyAccount
		if err := rows.Scan(
			&acc.ID,
			&acc.CompanyID,
			&acc.ImportAccountNumber,
			&acc.ImportAccountName,
			&acc.IsActive,
			&acc.TotalBalanceCents,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}

	return accounts, rows.Err()
}

// ListMasterAccounts returns the full catalog ordered by account code
func (s *Store) ListMasterAccounts(ctx context.Context) ([]models.MasterAccount, error) {
	query := `
		SELECT id, account_code, name, category, sub_category, cash_flow_category, normal_balance
		FROM master_chart_of_accounts
		ORDER BY account_code
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.MasterAccount{}
	for rows.Next() {
		var acc models.MasterAccount
		if err := rows.Scan(
			&acc.ID,
			&acc.AccountCode,
			&acc.Name,
			&acc.Category,
			&acc.SubCategory,
			&acc.CashFlowCategory,
			&acc.NormalBalance,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}

	return accounts, rows.Err()
}

// SaveMappings upserts every (company account, master account) pair in one
// transaction. The whole batch fails with ErrInvalidMapping if any company
// account belongs to a different company or any master account is unknown.
func (s *Store) SaveMappings(ctx context.Context, companyID uuid.UUID, reqs []models.MappingRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}

	accountIDs := make([]string, len(reqs))
	masterIDs := make([]string, len(reqs))
	for i, req := range reqs {
		accountIDs[i] = req.CompanyAccountID.String()
		masterIDs[i] = req.MasterAccountID.String()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var ownedCount int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(DISTINCT id) FROM company_accounts
		WHERE company_id = $1 AND id = ANY($2::uuid[])
	`, companyID, accountIDs).Scan(&ownedCount)
	if err != nil {
		return 0, err
	}
	if ownedCount != len(distinct(accountIDs)) {
		return 0, fmt.Errorf("%w: a company account does not belong to company %s", ErrInvalidMapping, companyID)
	}

	var masterCount int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(DISTINCT id) FROM master_chart_of_accounts
		WHERE id = ANY($1::uuid[])
	`, masterIDs).Scan(&masterCount)
	if err != nil {
		return 0, err
	}
	if masterCount != len(distinct(masterIDs)) {
		return 0, fmt.Errorf("%w: unknown master account id", ErrInvalidMapping)
	}

	mapped := 0
	for _, req := range reqs {
		_, err = tx.Exec(ctx, `
			INSERT INTO account_mappings (id, company_account_id, master_account_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (company_account_id)
				DO UPDATE SET master_account_id = EXCLUDED.master_account_id, updated_at = now()
		`, uuid.New(), req.CompanyAccountID, req.MasterAccountID)
		if err != nil {
			return 0, err
		}
		mapped++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return mapped, nil
}

// ResetMappings deletes all mappings for a company; every account becomes
// unmapped until remapped
func (s *Store) ResetMappings(ctx context.Context, companyID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM account_mappings am
		USING company_accounts ca
		WHERE am.company_account_id = ca.id AND ca.company_id = $1
	`

	tag, err := s.pool.Exec(ctx, query, companyID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
