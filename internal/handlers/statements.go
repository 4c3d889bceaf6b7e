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

// StatementStore defines the persistence methods the statements handler needs
type StatementStore interface {
	GetCompany(ctx context.Context, id uuid.UUID) (models.Company, error)
	ListPeriods(ctx context.Context, companyID uuid.UUID) ([]time.Time, error)
	MappedBalances(ctx context.Context, companyID uuid.UUID, period time.Time) ([]models.MappedBalance, error)
	UnmappedBalance(ctx context.Context, companyID uuid.UUID, period time.Time) (int64, error)
	PriorPeriod(ctx context.Context, companyID uuid.UUID, before time.Time) (*time.Time, error)
}

// StatementsHandler derives the three financial statements from stored
// trial balance snapshots
type StatementsHandler struct {
	store StatementStore
}

// NewStatementsHandler creates a new statements handler instance
func NewStatementsHandler(store StatementStore) *StatementsHandler {
	return &StatementsHandler{store: store}
}

// resolvePeriods checks the company exists and determines which periods to
// report. An explicit ?periods= list is kept in the caller's order, one
// result per requested period; without it every stored period is reported,
// oldest first.
func (h *StatementsHandler) resolvePeriods(c fiber.Ctx, companyID uuid.UUID) ([]time.Time, error) {
	if _, err := h.store.GetCompany(c.Context(), companyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, utils.NewNotFoundError("company")
		}
		return nil, utils.NewInternalError(err)
	}

	periods, err := queryPeriods(c)
	if err != nil {
		return nil, err
	}
	if len(periods) > 0 {
		return periods, nil
	}

	periods, err = h.store.ListPeriods(c.Context(), companyID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods, nil
}

// IncomeStatements returns one income statement per requested period
// GET /v1/companies/:id/statements/income-statement?periods=2024-03-31&periods=2024-04-30
func (h *StatementsHandler) IncomeStatements(c fiber.Ctx) error {
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	periods, err := h.resolvePeriods(c, companyID)
	if err != nil {
		return err
	}

	statements := make([]models.IncomeStatement, 0, len(periods))
	for _, p := range periods {
		rows, err := h.store.MappedBalances(c.Context(), companyID, p)
		if err != nil {
			return utils.NewInternalError(err)
		}
		statements = append(statements, services.BuildIncomeStatement(models.PeriodDate(p), rows))
	}

	return c.JSON(fiber.Map{
		"statements": statements,
		"count":      len(statements),
	})
}

// BalanceSheets returns one balance sheet per requested period, with the
// unmapped balance surfaced and the accounting equation checked net of it
// GET /v1/companies/:id/statements/balance-sheet?periods=...
func (h *StatementsHandler) BalanceSheets(c fiber.Ctx) error {
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	periods, err := h.resolvePeriods(c, companyID)
	if err != nil {
		return err
	}

	statements := make([]models.BalanceSheet, 0, len(periods))
	for _, p := range periods {
		rows, err := h.store.MappedBalances(c.Context(), companyID, p)
		if err != nil {
			return utils.NewInternalError(err)
		}
		unmapped, err := h.store.UnmappedBalance(c.Context(), companyID, p)
		if err != nil {
			return utils.NewInternalError(err)
		}
		statements = append(statements, services.BuildBalanceSheet(models.PeriodDate(p), rows, unmapped))
	}

	return c.JSON(fiber.Map{
		"statements": statements,
		"count":      len(statements),
	})
}

// CashFlows returns one indirect-method cash flow statement per requested
// period. Each period's deltas are taken against the immediately prior
// stored period, not the prior requested one.
// GET /v1/companies/:id/statements/cash-flow?periods=...
func (h *StatementsHandler) CashFlows(c fiber.Ctx) error {
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	periods, err := h.resolvePeriods(c, companyID)
	if err != nil {
		return err
	}

	statements := make([]models.CashFlowStatement, 0, len(periods))
	for _, p := range periods {
		current, err := h.store.MappedBalances(c.Context(), companyID, p)
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

		statements = append(statements, services.DeriveCashFlow(models.PeriodDate(p), current, prior, priorDate != nil))
	}

	return c.JSON(fiber.Map{
		"statements": statements,
		"count":      len(statements),
	})
}
