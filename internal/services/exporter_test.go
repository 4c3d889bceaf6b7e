package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

func TestForecastWorkbook(t *testing.T) {
	actuals := models.BaseActuals{
		RevenueCents:   1000000,
		ExpensesCents:  600000,
		NetIncomeCents: 400000,
		CashCents:      200000,
	}
	projections := []models.ForecastPeriod{
		{
			Period:          "2024-04-30",
			IsForecast:      true,
			RevenueCents:    1050000,
			NetIncomeCents:  360000,
			EndingCashCents: 560000,
		},
	}

	f, err := NewExporter().ForecastWorkbook("base", "2024-03-31", actuals, projections)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Income Statement")
	assert.Contains(t, sheets, "Cash Flow")
	assert.Contains(t, sheets, "Balance Sheet")
	assert.NotContains(t, sheets, "Sheet1")

	// Revenue row: label, actuals column, one forecast column, in dollars
	label, err := f.GetCellValue("Income Statement", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Revenue", label)

	actual, err := f.GetCellValue("Income Statement", "B3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "10000", actual)

	forecast, err := f.GetCellValue("Income Statement", "C3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "10500", forecast)
}

func TestForecastWorkbook_NoProjections(t *testing.T) {
	_, err := NewExporter().ForecastWorkbook("base", "2024-03-31", models.BaseActuals{}, nil)
	require.Error(t, err)
}

func TestActualsWorkbook(t *testing.T) {
	is := []models.IncomeStatement{{Period: "2024-03-31", TotalRevenuesCents: 120000, TotalExpensesCents: 70000, NetIncomeCents: 50000}}
	bs := []models.BalanceSheet{{PeriodDate: "2024-03-31", TotalAssetsCents: 330000, TotalLiabilitiesCents: 130000, TotalEquityCents: 200000, IsBalancedEquation: true}}
	cf := []models.CashFlowStatement{{Period: "2024-03-31", NetIncomeCents: 50000, EndingCashCents: 60000}}

	f, err := NewExporter().ActualsWorkbook(is, bs, cf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Income Statement", "Balance Sheet", "Cash Flow"}, f.GetSheetList())

	header, err := f.GetCellValue("Balance Sheet", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", header)
}

func TestActualsWorkbook_NoData(t *testing.T) {
	_, err := NewExporter().ActualsWorkbook(nil, nil, nil)
	require.Error(t, err)
}
