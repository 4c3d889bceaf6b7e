package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/services"
	"github.com/OmarKrypton/3-statement-modeler/internal/store"
	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportStore defines the persistence methods the export handler needs
type ExportStore interface {
	GetCompany(ctx context.Context, id uuid.UUID) (models.Company, error)
	ListPeriods(ctx context.Context, companyID uuid.UUID) ([]time.Time, error)
	MappedBalances(ctx context.Context, companyID uuid.UUID, period time.Time) ([]models.MappedBalance, error)
	UnmappedBalance(ctx context.Context, companyID uuid.UUID, period time.Time) (int64, error)
	PriorPeriod(ctx context.Context, companyID uuid.UUID, before time.Time) (*time.Time, error)
	GetScenarioConfig(ctx context.Context, companyID uuid.UUID, scenario string) (models.ScenarioConfig, error)
}

// WorkbookBuilder renders computed statements into Excel workbooks
type WorkbookBuilder interface {
	ForecastWorkbook(scenario, basePeriod string, actuals models.BaseActuals, projections []models.ForecastPeriod) (*excelize.File, error)
	ActualsWorkbook(incomeStatements []models.IncomeStatement, balanceSheets []models.BalanceSheet, cashFlows []models.CashFlowStatement) (*excelize.File, error)
}

// ExportHandler serves Excel downloads of computed statements
type ExportHandler struct {
	store   ExportStore
	builder WorkbookBuilder
}

// NewExportHandler creates a new export handler instance
func NewExportHandler(store ExportStore, builder WorkbookBuilder) *ExportHandler {
	return &ExportHandler{store: store, builder: builder}
}

// sendWorkbook streams a workbook as an attachment
func sendWorkbook(c fiber.Ctx, f *excelize.File, filename string) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return utils.NewInternalError(err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// Forecast exports the scenario projection as an Excel workbook
// GET /v1/companies/:id/export/excel?scenario=base
func (h *ExportHandler) Forecast(c fiber.Ctx) error {
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

	// 2. Run the projection
	cfg, err := configOrDefault(c.Context(), h.store, companyID, scenario)
	if err != nil {
		return err
	}
	actuals, err := loadBaseActuals(c.Context(), h.store, companyID, cfg)
	if err != nil {
		return err
	}
	projections, err := services.ProjectForecast(actuals, cfg)
	if err != nil {
		return err
	}

	// 3. Render and stream
	basePeriod := models.PeriodDate(*cfg.BasePeriod)
	f, err := h.builder.ForecastWorkbook(scenario, basePeriod, actuals, projections)
	if err != nil {
		return utils.NewInternalError(err)
	}

	return sendWorkbook(c, f, fmt.Sprintf("forecast_%s_%s.xlsx", scenario, basePeriod))
}

// Actuals exports the derived statements for the requested periods
// GET /v1/companies/:id/export/actuals/excel?periods=...
func (h *ExportHandler) Actuals(c fiber.Ctx) error {
	// 1. Parse route and query
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	if _, err := h.store.GetCompany(c.Context(), companyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NewNotFoundError("company")
		}
		return utils.NewInternalError(err)
	}
	periods, err := queryPeriods(c)
	if err != nil {
		return err
	}
	if len(periods) == 0 {
		periods, err = h.store.ListPeriods(c.Context(), companyID)
		if err != nil {
			return utils.NewInternalError(err)
		}
	}
	if len(periods) == 0 {
		return utils.NewPreconditionError("no trial balance periods uploaded yet")
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	// 2. Derive all three statements per period
	incomeStatements := make([]models.IncomeStatement, 0, len(periods))
	balanceSheets := make([]models.BalanceSheet, 0, len(periods))
	cashFlows := make([]models.CashFlowStatement, 0, len(periods))
	for _, p := range periods {
		rows, err := h.store.MappedBalances(c.Context(), companyID, p)
		if err != nil {
			return utils.NewInternalError(err)
		}
		unmapped, err := h.store.UnmappedBalance(c.Context(), companyID, p)
		if err != nil {
			return utils.NewInternalError(err)
		}
		priorDate, err := h.store.PriorPeriod(c.Context(), companyID, p)
		if err != nil {
			return utils.NewInternalError(err)
		}
		var prior []models.MappedBalance
		if priorDate != nil {
			prior, err = h.store.MappedBalances(c.Context(), companyID, *priorDate)
			if err != nil {
				return utils.NewInternalError(err)
			}
		}

		date := models.PeriodDate(p)
		incomeStatements = append(incomeStatements, services.BuildIncomeStatement(date, rows))
		balanceSheets = append(balanceSheets, services.BuildBalanceSheet(date, rows, unmapped))
		cashFlows = append(cashFlows, services.DeriveCashFlow(date, rows, prior, priorDate != nil))
	}

	// 3. Render and stream
	f, err := h.builder.ActualsWorkbook(incomeStatements, balanceSheets, cashFlows)
	if err != nil {
		return utils.NewInternalError(err)
	}

	filename := fmt.Sprintf("actuals_%s_to_%s.xlsx",
		models.PeriodDate(periods[0]), models.PeriodDate(periods[len(periods)-1]))
	return sendWorkbook(c, f, filename)
}
