package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

// nextPeriod is the balancedPeriod fixture one period later, with prior
// income closed to retained earnings: AR and AP grew, 20,000 of equipment
// was bought, 10,000 of debt repaid, 12,000 depreciation booked
func nextPeriod() []models.MappedBalance {
	return []models.MappedBalance{
		mb("1000", models.CategoryAsset, models.CashFlowNonCash, 125000),
		mb("1100", models.CategoryAsset, models.CashFlowOperating, 60000),
		mb("1500", models.CategoryAsset, models.CashFlowInvesting, 220000),
		mb("1600", models.CategoryAsset, models.CashFlowNonCash, -32000),
		mb("2000", models.CategoryLiability, models.CashFlowOperating, -35000),
		mb("2500", models.CategoryLiability, models.CashFlowFinancing, -90000),
		mb("3000", models.CategoryEquity, models.CashFlowFinancing, -150000),
		mb("3500", models.CategoryEquity, models.CashFlowNonCash, -50000),
		mb("4000", models.CategoryRevenue, models.CashFlowOperating, -130000),
		mb("5000", models.CategoryExpense, models.CashFlowOperating, 45000),
		mb("6000", models.CategoryExpense, models.CashFlowOperating, 25000),
		mb("6500", models.CategoryExpense, models.CashFlowNonCash, 12000),
	}
}

func TestDeriveCashFlow_FirstPeriod(t *testing.T) {
	// No prior period: net income and the non-cash add-back are reported,
	// every delta term and beginning cash are zero
	cf := DeriveCashFlow("2024-03-31", balancedPeriod(), nil, false)

	assert.Equal(t, int64(50000), cf.NetIncomeCents)
	assert.Equal(t, int64(10000), cf.NonCashAdjustmentsCents)
	assert.Equal(t, int64(0), cf.OperatingWCDeltaCents)
	assert.Equal(t, int64(60000), cf.NetCashFromOperationsCents)
	assert.Equal(t, int64(0), cf.NetCashFromInvestingCents)
	assert.Equal(t, int64(0), cf.NetCashFromFinancingCents)
	assert.Equal(t, int64(0), cf.BeginningCashCents)
	assert.Equal(t, int64(60000), cf.EndingCashCents)
}

func TestDeriveCashFlow_ConsecutivePeriods(t *testing.T) {
	prior := balancedPeriod()
	current := nextPeriod()

	cf := DeriveCashFlow("2024-04-30", current, prior, true)

	assert.Equal(t, int64(48000), cf.NetIncomeCents)
	// Depreciation expense added back
	assert.Equal(t, int64(12000), cf.NonCashAdjustmentsCents)
	// AR +10,000 ties up cash, AP +5,000 frees it
	assert.Equal(t, int64(-5000), cf.OperatingWCDeltaCents)
	assert.Equal(t, int64(55000), cf.NetCashFromOperationsCents)
	// 20,000 of equipment purchased
	assert.Equal(t, int64(-20000), cf.NetCashFromInvestingCents)
	// 10,000 of debt repaid
	assert.Equal(t, int64(-10000), cf.NetCashFromFinancingCents)
	assert.Equal(t, int64(25000), cf.NetChangeInCashCents)
	assert.Equal(t, int64(100000), cf.BeginningCashCents)
	assert.Equal(t, int64(125000), cf.EndingCashCents)
}

func TestDeriveCashFlow_TiesOutToBalanceSheetCash(t *testing.T) {
	// With consistent books the derived ending cash must equal the literal
	// cash balance of the current snapshot
	prior := balancedPeriod()
	current := nextPeriod()

	cf := DeriveCashFlow("2024-04-30", current, prior, true)

	assert.Equal(t, CashBalance(current), cf.EndingCashCents)
}

func TestDeriveCashFlow_NoMovement(t *testing.T) {
	// Identical consecutive snapshots produce zero deltas; the remaining
	// lines restate the period's income
	rows := balancedPeriod()

	cf := DeriveCashFlow("2024-04-30", rows, rows, true)

	assert.Equal(t, int64(0), cf.OperatingWCDeltaCents)
	assert.Equal(t, int64(0), cf.NetCashFromInvestingCents)
	assert.Equal(t, int64(0), cf.NetCashFromFinancingCents)
	assert.Equal(t, CashBalance(rows), cf.BeginningCashCents)
}

func TestDeriveCashFlow_NonCashRevenue(t *testing.T) {
	// A NON_CASH revenue account (e.g. unrealized gains) is backed out of
	// net income rather than added
	rows := []models.MappedBalance{
		mb("4000", models.CategoryRevenue, models.CashFlowOperating, -100000),
		mb("4900", models.CategoryRevenue, models.CashFlowNonCash, -15000),
		mb("6000", models.CategoryExpense, models.CashFlowOperating, 60000),
	}

	cf := DeriveCashFlow("2024-03-31", rows, nil, false)

	assert.Equal(t, int64(55000), cf.NetIncomeCents)
	assert.Equal(t, int64(-15000), cf.NonCashAdjustmentsCents)
	assert.Equal(t, int64(40000), cf.NetCashFromOperationsCents)
}
