package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/store"
	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

// PeriodStore defines the persistence methods the periods handler needs
type PeriodStore interface {
	ListPeriods(ctx context.Context, companyID uuid.UUID) ([]time.Time, error)
	DeletePeriod(ctx context.Context, companyID uuid.UUID, period time.Time) error
}

// PeriodsHandler handles reporting period requests
type PeriodsHandler struct {
	store PeriodStore
}

// NewPeriodsHandler creates a new periods handler instance
func NewPeriodsHandler(store PeriodStore) *PeriodsHandler {
	return &PeriodsHandler{store: store}
}

// ListPeriods returns the company's reporting periods, newest first
// GET /v1/companies/:id/periods
func (h *PeriodsHandler) ListPeriods(c fiber.Ctx) error {
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}

	periods, err := h.store.ListPeriods(c.Context(), companyID)
	if err != nil {
		return utils.NewInternalError(err)
	}

	dates := make([]string, 0, len(periods))
	for _, p := range periods {
		dates = append(dates, models.PeriodDate(p))
	}

	return c.JSON(fiber.Map{
		"periods": dates,
		"count":   len(dates),
	})
}

// DeletePeriod removes one reporting period and all its trial balance lines
// DELETE /v1/companies/:id/periods/:date
func (h *PeriodsHandler) DeletePeriod(c fiber.Ctx) error {
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	period, err := parsePeriodDate(c.Params("date"))
	if err != nil {
		return err
	}

	if err := h.store.DeletePeriod(c.Context(), companyID, period); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NewNotFoundError("reporting period")
		}
		return utils.NewInternalError(err)
	}

	return utils.StatusResponse(c, "period deleted", fiber.Map{
		"period_date": models.PeriodDate(period),
	})
}
