package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

// GetScenarioConfig fetches the saved driver assumptions for one scenario,
// or ErrNotFound when the company has never saved that scenario
func (s *Store) GetScenarioConfig(ctx context.Context, companyID uuid.UUID, scenario string) (models.ScenarioConfig, error) {
	query := `
		SELECT id, company_id, scenario_name, base_period, num_periods,
		       revenue_growth_pct, cogs_pct_of_revenue, opex_growth_pct,
		       tax_rate_pct, capex_cents, da_cents, wc_pct_of_revenue
		FROM scenario_configs
		WHERE company_id = $1 AND scenario_name = $2
	`

	var cfg models.ScenarioConfig
	err := s.pool.QueryRow(ctx, query, companyID, scenario).Scan(
		&cfg.ID,
		&cfg.CompanyID,
		&cfg.ScenarioName,
		&cfg.BasePeriod,
		&cfg.NumPeriods,
		&cfg.RevenueGrowthPct,
		&cfg.CogsPctOfRevenue,
		&cfg.OpexGrowthPct,
		&cfg.TaxRatePct,
		&cfg.CapexCents,
		&cfg.DACents,
		&cfg.WCPctOfRevenue,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ScenarioConfig{}, ErrNotFound
	}
	if err != nil {
		return models.ScenarioConfig{}, err
	}

	return cfg, nil
}

// UpsertScenarioConfig saves the scenario's drivers, overwriting any
// previously saved row for that (company, scenario)
func (s *Store) UpsertScenarioConfig(ctx context.Context, cfg models.ScenarioConfig) (models.ScenarioConfig, error) {
	query := `
		INSERT INTO scenario_configs
			(id, company_id, scenario_name, base_period, num_periods,
			 revenue_growth_pct, cogs_pct_of_revenue, opex_growth_pct,
			 tax_rate_pct, capex_cents, da_cents, wc_pct_of_revenue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (company_id, scenario_name) DO UPDATE SET
			base_period         = EXCLUDED.base_period,
			num_periods         = EXCLUDED.num_periods,
			revenue_growth_pct  = EXCLUDED.revenue_growth_pct,
			cogs_pct_of_revenue = EXCLUDED.cogs_pct_of_revenue,
			opex_growth_pct     = EXCLUDED.opex_growth_pct,
			tax_rate_pct        = EXCLUDED.tax_rate_pct,
			capex_cents         = EXCLUDED.capex_cents,
			da_cents            = EXCLUDED.da_cents,
			wc_pct_of_revenue   = EXCLUDED.wc_pct_of_revenue
		RETURNING id, company_id, scenario_name, base_period, num_periods,
		          revenue_growth_pct, cogs_pct_of_revenue, opex_growth_pct,
		          tax_rate_pct, capex_cents, da_cents, wc_pct_of_revenue
	`

	var saved models.ScenarioConfig
	err := s.pool.QueryRow(ctx, query,
		uuid.New(),
		cfg.CompanyID,
		cfg.ScenarioName,
		cfg.BasePeriod,
		cfg.NumPeriods,
		cfg.RevenueGrowthPct,
		cfg.CogsPctOfRevenue,
		cfg.OpexGrowthPct,
		cfg.TaxRatePct,
		cfg.CapexCents,
		cfg.DACents,
		cfg.WCPctOfRevenue,
	).Scan(
		&saved.ID,
		&saved.CompanyID,
		&saved.ScenarioName,
		&saved.BasePeriod,
		&saved.NumPeriods,
		&saved.RevenueGrowthPct,
		&saved.CogsPctOfRevenue,
		&saved.OpexGrowthPct,
		&saved.TaxRatePct,
		&saved.CapexCents,
		&saved.DACents,
		&saved.WCPctOfRevenue,
	)
	if err != nil {
		return models.ScenarioConfig{}, err
	}

	return saved, nil
}
