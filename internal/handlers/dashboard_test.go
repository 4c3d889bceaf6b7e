package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/store"
)

func newDashboardApp(mock *MockStore) *fiber.App {
	handler := NewDashboardHandler(mock)
	app := newTestApp()
	app.Get("/companies/:id/dashboard/summary", handler.Summary)
	return app
}

func TestDashboardSummary_ActualsAndForecast(t *testing.T) {
	mock := &MockStore{
		ListPeriodsFunc: func(ctx context.Context, companyID uuid.UUID) ([]time.Time, error) {
			return []time.Time{periodApril, periodMarch}, nil
		},
		MappedBalancesFunc: func(ctx context.Context, companyID uuid.UUID, period time.Time) ([]models.MappedBalance, error) {
			return ledgerFixture(period), nil
		},
		GetScenarioConfigFunc: func(ctx context.Context, companyID uuid.UUID, scenario string) (models.ScenarioConfig, error) {
			return models.ScenarioConfig{}, store.ErrNotFound
		},
	}
	app := newDashboardApp(mock)

	req := httptest.NewRequest("GET", "/companies/"+uuid.NewString()+"/dashboard/summary", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Series []SummaryPoint `json:"series"`
		Count  int            `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	// Two actual periods plus the default three forecast periods
	require.Len(t, result.Series, 5)

	assert.Equal(t, "2024-03-31", result.Series[0].Period)
	assert.Equal(t, "actual", result.Series[0].Type)
	assert.Equal(t, int64(60000), result.Series[0].Revenue)
	assert.Equal(t, int64(120000), result.Series[0].Cash)

	assert.Equal(t, "2024-04-30", result.Series[1].Period)
	assert.Equal(t, int64(150000), result.Series[1].Cash)

	// Forecast continues from the newest actual period
	assert.Equal(t, "2024-05-31", result.Series[2].Period)
	assert.Equal(t, "forecast", result.Series[2].Type)
	for _, p := range result.Series[2:] {
		assert.Equal(t, "forecast", p.Type)
	}
}

func TestDashboardSummary_DegradesWithoutMappings(t *testing.T) {
	// Periods exist but nothing is mapped: no actual KPIs to chart and the
	// forecast precondition fails, so the series is empty rather than an error
	mock := &MockStore{
		ListPeriodsFunc: func(ctx context.Context, companyID uuid.UUID) ([]time.Time, error) {
			return []time.Time{periodMarch}, nil
		},
		MappedBalancesFunc: func(ctx context.Context, companyID uuid.UUID, period time.Time) ([]models.MappedBalance, error) {
			return nil, nil
		},
		GetScenarioConfigFunc: func(ctx context.Context, companyID uuid.UUID, scenario string) (models.ScenarioConfig, error) {
			return models.ScenarioConfig{}, store.ErrNotFound
		},
	}
	app := newDashboardApp(mock)

	req := httptest.NewRequest("GET", "/companies/"+uuid.NewString()+"/dashboard/summary", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Series []SummaryPoint `json:"series"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Series, 1)
	assert.Equal(t, "actual", result.Series[0].Type)
	assert.Equal(t, int64(0), result.Series[0].Revenue)
}
