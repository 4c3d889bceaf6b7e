package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/services"
	"github.com/OmarKrypton/3-statement-modeler/internal/store"
	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

// ForecastStore defines the persistence methods the forecast handler needs
type ForecastStore interface {
	GetCompany(ctx context.Context, id uuid.UUID) (models.Company, error)
	ListPeriods(ctx context.Context, companyID uuid.UUID) ([]time.Time, error)
	GetScenarioConfig(ctx context.Context, companyID uuid.UUID, scenario string) (models.ScenarioConfig, error)
	UpsertScenarioConfig(ctx context.Context, cfg models.ScenarioConfig) (models.ScenarioConfig, error)
	MappedBalances(ctx context.Context, companyID uuid.UUID, period time.Time) ([]models.MappedBalance, error)
}

// ForecastHandler handles scenario config and forecast projection requests
type ForecastHandler struct {
	store ForecastStore
}

// NewForecastHandler creates a new forecast handler instance
func NewForecastHandler(store ForecastStore) *ForecastHandler {
	return &ForecastHandler{store: store}
}

// queryScenario validates the scenario query parameter, defaulting to base
func queryScenario(c fiber.Ctx) (string, error) {
	scenario := c.Query("scenario", models.ScenarioBase)
	if !models.ValidScenario(scenario) {
		return "", utils.NewValidationError("scenario must be base, bull or bear", scenario)
	}
	return scenario, nil
}

// scenarioSource is the slice of the store that scenario resolution needs.
// Satisfied by ForecastStore, DashboardStore and ExportStore implementations.
type scenarioSource interface {
	ListPeriods(ctx context.Context, companyID uuid.UUID) ([]time.Time, error)
	GetScenarioConfig(ctx context.Context, companyID uuid.UUID, scenario string) (models.ScenarioConfig, error)
	MappedBalances(ctx context.Context, companyID uuid.UUID, period time.Time) ([]models.MappedBalance, error)
}

// configOrDefault loads the saved scenario config, falling back to defaults
// when none was saved. A missing base period is defaulted to the newest
// uploaded period; it stays nil when the company has no periods yet.
func configOrDefault(ctx context.Context, src scenarioSource, companyID uuid.UUID, scenario string) (models.ScenarioConfig, error) {
	cfg, err := src.GetScenarioConfig(ctx, companyID, scenario)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return models.ScenarioConfig{}, utils.NewInternalError(err)
		}
		cfg = models.DefaultScenarioConfig(companyID, scenario)
	}

	if cfg.BasePeriod == nil {
		periods, err := src.ListPeriods(ctx, companyID)
		if err != nil {
			return models.ScenarioConfig{}, utils.NewInternalError(err)
		}
		if len(periods) > 0 {
			// ListPeriods is newest first
			cfg.BasePeriod = &periods[0]
		}
	}

	return cfg, nil
}

// configResponse formats a scenario config with the base period as a plain
// date string
func configResponse(cfg models.ScenarioConfig) fiber.Map {
	var basePeriod *string
	if cfg.BasePeriod != nil {
		d := models.PeriodDate(*cfg.BasePeriod)
		basePeriod = &d
	}
	return fiber.Map{
		"scenario_name":       cfg.ScenarioName,
		"base_period":         basePeriod,
		"num_periods":         cfg.NumPeriods,
		"revenue_growth_pct":  cfg.RevenueGrowthPct,
		"cogs_pct_of_revenue": cfg.CogsPctOfRevenue,
		"opex_growth_pct":     cfg.OpexGrowthPct,
		"tax_rate_pct":        cfg.TaxRatePct,
		"capex_cents":         cfg.CapexCents,
		"da_cents":            cfg.DACents,
		"wc_pct_of_revenue":   cfg.WCPctOfRevenue,
	}
}

// GetConfig returns the saved scenario config, or defaults when unsaved
// GET /v1/companies/:id/forecast/config?scenario=base
func (h *ForecastHandler) GetConfig(c fiber.Ctx) error {
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	scenario, err := queryScenario(c)
	if err != nil {
		return err
	}
	if _, err := h.store.GetCompany(c.Context(), companyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NewNotFoundError("company")
		}
		return utils.NewInternalError(err)
	}

	cfg, err := configOrDefault(c.Context(), h.store, companyID, scenario)
	if err != nil {
		return err
	}

	return c.JSON(configResponse(cfg))
}

// SaveConfigRequest is the request body for SaveConfig. Percentage fields
// are basis points of a percent, money fields integer cents.
type SaveConfigRequest struct {
	BasePeriod       *string `json:"base_period"`
	NumPeriods       int     `json:"num_periods"`
	RevenueGrowthPct int64   `json:"revenue_growth_pct"`
	CogsPctOfRevenue int64   `json:"cogs_pct_of_revenue"`
	OpexGrowthPct    int64   `json:"opex_growth_pct"`
	TaxRatePct       int64   `json:"tax_rate_pct"`
	CapexCents       int64   `json:"capex_cents"`
	DACents          int64   `json:"da_cents"`
	WCPctOfRevenue   int64   `json:"wc_pct_of_revenue"`
}

// SaveConfig validates and persists the scenario's driver assumptions
// PUT /v1/companies/:id/forecast/config?scenario=base
func (h *ForecastHandler) SaveConfig(c fiber.Ctx) error {
	// 1. Parse route, query and body
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	scenario, err := queryScenario(c)
	if err != nil {
		return err
	}
	var req SaveConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return utils.NewValidationError("invalid request body", err.Error())
	}

	// 2. Validate driver assumptions
	if req.NumPeriods < services.ForecastNumPeriodsMin || req.NumPeriods > services.ForecastNumPeriodsMax {
		return utils.NewValidationError("num_periods must be between 1 and 12", req.NumPeriods)
	}
	if req.CogsPctOfRevenue < 0 || req.CogsPctOfRevenue > 10000 {
		return utils.NewValidationError("cogs_pct_of_revenue must be between 0 and 10000 basis points", req.CogsPctOfRevenue)
	}
	if req.TaxRatePct < 0 || req.TaxRatePct > 10000 {
		return utils.NewValidationError("tax_rate_pct must be between 0 and 10000 basis points", req.TaxRatePct)
	}
	if req.WCPctOfRevenue < 0 || req.WCPctOfRevenue > 10000 {
		return utils.NewValidationError("wc_pct_of_revenue must be between 0 and 10000 basis points", req.WCPctOfRevenue)
	}
	if req.CapexCents < 0 {
		return utils.NewValidationError("capex_cents cannot be negative", req.CapexCents)
	}
	if req.DACents < 0 {
		return utils.NewValidationError("da_cents cannot be negative", req.DACents)
	}

	var basePeriod *time.Time
	if req.BasePeriod != nil {
		t, err := parsePeriodDate(*req.BasePeriod)
		if err != nil {
			return err
		}
		basePeriod = &t
	}

	// 3. Company must exist before storing config against it
	if _, err := h.store.GetCompany(c.Context(), companyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NewNotFoundError("company")
		}
		return utils.NewInternalError(err)
	}

	// 4. Persist
	cfg, err := h.store.UpsertScenarioConfig(c.Context(), models.ScenarioConfig{
		CompanyID:        companyID,
		ScenarioName:     scenario,
		BasePeriod:       basePeriod,
		NumPeriods:       req.NumPeriods,
		RevenueGrowthPct: req.RevenueGrowthPct,
		CogsPctOfRevenue: req.CogsPctOfRevenue,
		OpexGrowthPct:    req.OpexGrowthPct,
		TaxRatePct:       req.TaxRatePct,
		CapexCents:       req.CapexCents,
		DACents:          req.DACents,
		WCPctOfRevenue:   req.WCPctOfRevenue,
	})
	if err != nil {
		return utils.NewInternalError(err)
	}

	return c.JSON(configResponse(cfg))
}

// loadBaseActuals aggregates the base period's mapped snapshot into the
// forecast starting point. Returns a precondition error when the base
// period has no mapped rows.
func loadBaseActuals(ctx context.Context, src scenarioSource, companyID uuid.UUID, cfg models.ScenarioConfig) (models.BaseActuals, error) {
	if cfg.BasePeriod == nil {
		return models.BaseActuals{}, utils.NewPreconditionError("no trial balance periods uploaded yet")
	}

	rows, err := src.MappedBalances(ctx, companyID, *cfg.BasePeriod)
	if err != nil {
		return models.BaseActuals{}, utils.NewInternalError(err)
	}
	if len(rows) == 0 {
		return models.BaseActuals{}, utils.NewPreconditionError("base period has no mapped accounts; map accounts before forecasting")
	}

	is := services.BuildIncomeStatement(models.PeriodDate(*cfg.BasePeriod), rows)
	return models.BaseActuals{
		RevenueCents:   is.TotalRevenuesCents,
		ExpensesCents:  is.TotalExpensesCents,
		NetIncomeCents: is.NetIncomeCents,
		CashCents:      services.CashBalance(rows),
		NetWCCents:     services.NetWorkingCapital(rows),
	}, nil
}

// Statements runs the scenario projection from the base period's actuals
// GET /v1/companies/:id/forecast/statements?scenario=base
func (h *ForecastHandler) Statements(c fiber.Ctx) error {
	// 1. Parse route and query
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	scenario, err := queryScenario(c)
	if err != nil {
		return err
	}
	if _, err := h.store.GetCompany(c.Context(), companyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NewNotFoundError("company")
		}
		return utils.NewInternalError(err)
	}

	// 2. Resolve driver assumptions and base actuals
	cfg, err := configOrDefault(c.Context(), h.store, companyID, scenario)
	if err != nil {
		return err
	}
	actuals, err := loadBaseActuals(c.Context(), h.store, companyID, cfg)
	if err != nil {
		return err
	}

	// 3. Project
	projections, err := services.ProjectForecast(actuals, cfg)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"base_period": models.PeriodDate(*cfg.BasePeriod),
		"actuals":     actuals,
		"projections": projections,
		"config":      configResponse(cfg),
	})
}
