package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

// schema is the full DDL. Applied by cmd/seed; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id              uuid PRIMARY KEY,
	name            text NOT NULL,
	fiscal_year_end int  NOT NULL,
	currency        text NOT NULL DEFAULT 'USD'
);

CREATE TABLE IF NOT EXISTS master_chart_of_accounts (
	id                 uuid PRIMARY KEY,
	account_code       text NOT NULL UNIQUE,
	name               text NOT NULL,
	category           text NOT NULL,
	sub_category       text NOT NULL,
	cash_flow_category text NOT NULL,
	normal_balance     text NOT NULL
);

CREATE TABLE IF NOT EXISTS company_accounts (
	id                    uuid PRIMARY KEY,
	company_id            uuid NOT NULL REFERENCES companies(id),
	import_account_number text NOT NULL,
	import_account_name   text NOT NULL,
	is_active             boolean NOT NULL DEFAULT true,
	UNIQUE (company_id, import_account_number)
);

CREATE TABLE IF NOT EXISTS account_mappings (
	id                 uuid PRIMARY KEY,
	company_account_id uuid NOT NULL UNIQUE REFERENCES company_accounts(id),
	master_account_id  uuid NOT NULL REFERENCES master_chart_of_accounts(id),
	updated_at         timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reporting_periods (
	id          uuid PRIMARY KEY,
	company_id  uuid NOT NULL REFERENCES companies(id),
	period_date date NOT NULL,
	UNIQUE (company_id, period_date)
);

CREATE TABLE IF NOT EXISTS trial_balance_lines (
	id                  uuid PRIMARY KEY,
	reporting_period_id uuid NOT NULL REFERENCES reporting_periods(id) ON DELETE CASCADE,
	company_account_id  uuid NOT NULL REFERENCES company_accounts(id),
	balance_cents       bigint NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tb_lines_period ON trial_balance_lines (reporting_period_id);

CREATE TABLE IF NOT EXISTS scenario_configs (
	id                  uuid PRIMARY KEY,
	company_id          uuid NOT NULL REFERENCES companies(id),
	scenario_name       text NOT NULL,
	base_period         date,
	num_periods         int    NOT NULL,
	revenue_growth_pct  bigint NOT NULL,
	cogs_pct_of_revenue bigint NOT NULL,
	opex_growth_pct     bigint NOT NULL,
	tax_rate_pct        bigint NOT NULL,
	capex_cents         bigint NOT NULL,
	da_cents            bigint NOT NULL,
	wc_pct_of_revenue   bigint NOT NULL,
	UNIQUE (company_id, scenario_name)
);
`

// EnsureSchema applies the DDL
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// masterChart is the standardized catalog every company's raw accounts map
// onto. Seeded once; the core treats it as read-only.
var masterChart = []models.MasterAccount{
	{AccountCode: "1000", Name: "Cash and Cash Equivalents", Category: models.CategoryAsset, SubCategory: "Current Assets", CashFlowCategory: models.CashFlowNonCash, NormalBalance: models.NormalDebit},
	{AccountCode: "1100", Name: "Accounts Receivable", Category: models.CategoryAsset, SubCategory: "Current Assets", CashFlowCategory: models.CashFlowOperating, NormalBalance: models.NormalDebit},
	{AccountCode: "1500", Name: "Property, Plant & Equipment", Category: models.CategoryAsset, SubCategory: "Non-Current Assets", CashFlowCategory: models.CashFlowInvesting, NormalBalance: models.NormalDebit},
	{AccountCode: "1600", Name: "Accumulated Depreciation", Category: models.CategoryAsset, SubCategory: "Non-Current Assets", CashFlowCategory: models.CashFlowNonCash, NormalBalance: models.NormalCredit},
	{AccountCode: "2000", Name: "Accounts Payable", Category: models.CategoryLiability, SubCategory: "Current Liabilities", CashFlowCategory: models.CashFlowOperating, NormalBalance: models.NormalCredit},
	{AccountCode: "2500", Name: "Long-Term Debt", Category: models.CategoryLiability, SubCategory: "Non-Current Liabilities", CashFlowCategory: models.CashFlowFinancing, NormalBalance: models.NormalCredit},
	{AccountCode: "3000", Name: "Common Stock", Category: models.CategoryEquity, SubCategory: "Equity", CashFlowCategory: models.CashFlowFinancing, NormalBalance: models.NormalCredit},
	{AccountCode: "3500", Name: "Retained Earnings", Category: models.CategoryEquity, SubCategory: "Equity", CashFlowCategory: models.CashFlowNonCash, NormalBalance: models.NormalCredit},
	{AccountCode: "4000", Name: "Product Revenue", Category: models.CategoryRevenue, SubCategory: "Revenue", CashFlowCategory: models.CashFlowOperating, NormalBalance: models.NormalCredit},
	{AccountCode: "5000", Name: "Cost of Goods Sold", Category: models.CategoryExpense, SubCategory: "COGS", CashFlowCategory: models.CashFlowOperating, NormalBalance: models.NormalDebit},
	{AccountCode: "6000", Name: "Salaries Expense", Category: models.CategoryExpense, SubCategory: "Operating Expenses", CashFlowCategory: models.CashFlowOperating, NormalBalance: models.NormalDebit},
	{AccountCode: "6500", Name: "Depreciation Expense", Category: models.CategoryExpense, SubCategory: "Operating Expenses", CashFlowCategory: models.CashFlowNonCash, NormalBalance: models.NormalDebit},
}

// SeedMasterChart inserts any missing catalog accounts; existing codes are
// left untouched
func (s *Store) SeedMasterChart(ctx context.Context) (int, error) {
	query := `
		INSERT INTO master_chart_of_accounts
			(id, account_code, name, category, sub_category, cash_flow_category, normal_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_code) DO NOTHING
	`

	seeded := 0
	for _, acc := range masterChart {
		tag, err := s.pool.Exec(ctx, query,
			uuid.New(),
			acc.AccountCode,
			acc.Name,
			string(acc.Category),
			acc.SubCategory,
			string(acc.CashFlowCategory),
			string(acc.NormalBalance),
		)
		if err != nil {
			return seeded, fmt.Errorf("failed to seed account %s: %w", acc.AccountCode, err)
		}
		seeded += int(tag.RowsAffected())
	}

	return seeded, nil
}
