package handlers

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

// parseCompanyID reads and validates the :id route parameter
func parseCompanyID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, utils.NewValidationError("invalid company id", c.Params("id"))
	}
	return id, nil
}

// parsePeriodDate parses a period-end date in YYYY-MM-DD form
func parsePeriodDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, utils.NewValidationError("period_date must be YYYY-MM-DD", value)
	}
	return t, nil
}

// queryPeriods collects the periods query parameter, which may be repeated
// (?periods=A&periods=B) or comma-separated. An empty result means the
// caller should fall back to all stored periods.
func queryPeriods(c fiber.Ctx) ([]time.Time, error) {
	u, err := url.Parse(c.OriginalURL())
	if err != nil {
		return nil, utils.NewValidationError("malformed request URL", err.Error())
	}

	var periods []time.Time
	for _, value := range u.Query()["periods"] {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t, err := parsePeriodDate(part)
			if err != nil {
				return nil, err
			}
			periods = append(periods, t)
		}
	}
	return periods, nil
}
