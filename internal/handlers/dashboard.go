package handlers

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/services"
	"github.com/OmarKrypton/3-statement-modeler/internal/store"
	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

// DashboardStore defines the persistence methods the dashboard handler needs
type DashboardStore interface {
	GetCompany(ctx context.Context, id uuid.UUID) (models.Company, error)
	ListPeriods(ctx context.Context, companyID uuid.UUID) ([]time.Time, error)
	MappedBalances(ctx context.Context, companyID uuid.UUID, period time.Time) ([]models.MappedBalance, error)
	GetScenarioConfig(ctx context.Context, companyID uuid.UUID, scenario string) (models.ScenarioConfig, error)
}

// DashboardHandler serves the merged actual+forecast KPI series
type DashboardHandler struct {
	store DashboardStore
}

// NewDashboardHandler creates a new dashboard handler instance
func NewDashboardHandler(store DashboardStore) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// SummaryPoint is one entry of the dashboard time series, actual or forecast
type SummaryPoint struct {
	Period    string `json:"period"`
	Revenue   int64  `json:"revenue"`
	Ebitda    int64  `json:"ebitda"`
	NetIncome int64  `json:"net_income"`
	Cash      int64  `json:"cash"`
	Type      string `json:"type"`
}

// Summary returns one KPI point per stored period followed by the selected
// scenario's projections. A forecast that cannot run (no periods, nothing
// mapped) degrades to the actuals-only series.
// GET /v1/companies/:id/dashboard/summary?scenario=base
func (h *DashboardHandler) Summary(c fiber.Ctx) error {
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

	// 2. Actuals, oldest first
	periods, err := h.store.ListPeriods(c.Context(), companyID)
	if err != nil {
		return utils.NewInternalError(err)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	points := make([]SummaryPoint, 0, len(periods))
	for _, p := range periods {
		rows, err := h.store.MappedBalances(c.Context(), companyID, p)
		if err != nil {
			return utils.NewInternalError(err)
		}

		is := services.BuildIncomeStatement(models.PeriodDate(p), rows)
		points = append(points, SummaryPoint{
			Period:    is.Period,
			Revenue:   is.TotalRevenuesCents,
			Ebitda:    is.TotalRevenuesCents - is.TotalExpensesCents,
			NetIncome: is.NetIncomeCents,
			Cash:      services.CashBalance(rows),
			Type:      "actual",
		})
	}

	// 3. Append projections when the forecast can run
	for _, p := range h.projections(c.Context(), companyID, scenario) {
		points = append(points, SummaryPoint{
			Period:    p.Period,
			Revenue:   p.RevenueCents,
			Ebitda:    p.EbitdaCents,
			NetIncome: p.NetIncomeCents,
			Cash:      p.EndingCashCents,
			Type:      "forecast",
		})
	}

	return c.JSON(fiber.Map{
		"series": points,
		"count":  len(points),
	})
}

// projections runs the scenario forecast, returning nil whenever a
// precondition is missing so the dashboard degrades to actuals only
func (h *DashboardHandler) projections(ctx context.Context, companyID uuid.UUID, scenario string) []models.ForecastPeriod {
	cfg, err := configOrDefault(ctx, h.store, companyID, scenario)
	if err != nil {
		return nil
	}
	actuals, err := loadBaseActuals(ctx, h.store, companyID, cfg)
	if err != nil {
		return nil
	}
	projections, err := services.ProjectForecast(actuals, cfg)
	if err != nil {
		return nil
	}
	return projections
}
