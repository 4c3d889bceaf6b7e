package models

import (
	"time"

	"github.com/google/uuid"
)

// IncomeStatement holds a single period's aggregated income statement.
// Revenues and expenses are displayed as positive magnitudes.
type IncomeStatement struct {
	Period             string `json:"period"`
	TotalRevenuesCents int64  `json:"total_revenues_cents"`
	TotalExpensesCents int64  `json:"total_expenses_cents"`
	NetIncomeCents     int64  `json:"net_income_cents"`
}

// BalanceSheet holds a single period's aggregated balance sheet. Equity
// includes the current period's net income (retained earnings roll-up).
type BalanceSheet struct {
	PeriodDate            string `json:"period_date"`
	TotalAssetsCents      int64  `json:"total_assets_cents"`
	TotalLiabilitiesCents int64  `json:"total_liabilities_cents"`
	TotalEquityCents      int64  `json:"total_equity_cents"`
	UnmappedBalanceCents  int64  `json:"unmapped_balance_cents"`
	IsBalancedEquation    bool   `json:"is_balanced_equation"`
}

// CashFlowStatement is the indirect-method cash flow for one period,
// derived from the period's aggregates and the prior period's snapshot.
type CashFlowStatement struct {
	Period                     string `json:"period"`
	NetIncomeCents             int64  `json:"net_income_cents"`
	NonCashAdjustmentsCents    int64  `json:"non_cash_adjustments_cents"`
	OperatingWCDeltaCents      int64  `json:"operating_wc_delta_cents"`
	NetCashFromOperationsCents int64  `json:"net_cash_from_operations_cents"`
	NetCashFromInvestingCents  int64  `json:"net_cash_from_investing_cents"`
	NetCashFromFinancingCents  int64  `json:"net_cash_from_financing_cents"`
	NetChangeInCashCents       int64  `json:"net_change_in_cash_cents"`
	BeginningCashCents         int64  `json:"beginning_cash_cents"`
	EndingCashCents            int64  `json:"ending_cash_cents"`
}

// ScenarioName enumerates the stored forecast scenarios
const (
	ScenarioBase = "base"
	ScenarioBull = "bull"
	ScenarioBear = "bear"
)

// ValidScenario reports whether name is a known scenario
func ValidScenario(name string) bool {
	return name == ScenarioBase || name == ScenarioBull || name == ScenarioBear
}

// ScenarioConfig is the single durable record of forecast driver assumptions
// for one (company, scenario). Percentage fields are basis points of a
// percent (500 = 5.00%), money fields integer cents.
type ScenarioConfig struct {
	ID                uuid.UUID  `json:"id"`
	CompanyID         uuid.UUID  `json:"company_id"`
	ScenarioName      string     `json:"scenario_name"`
	BasePeriod        *time.Time `json:"base_period"`
	NumPeriods        int        `json:"num_periods"`
	RevenueGrowthPct  int64      `json:"revenue_growth_pct"`
	CogsPctOfRevenue  int64      `json:"cogs_pct_of_revenue"`
	OpexGrowthPct     int64      `json:"opex_growth_pct"`
	TaxRatePct        int64      `json:"tax_rate_pct"`
	CapexCents        int64      `json:"capex_cents"`
	DACents           int64      `json:"da_cents"`
	WCPctOfRevenue    int64      `json:"wc_pct_of_revenue"`
}

// DefaultScenarioConfig returns the driver assumptions used when a company
// has not saved a config for the scenario yet
func DefaultScenarioConfig(companyID uuid.UUID, scenario string) ScenarioConfig {
	return ScenarioConfig{
		CompanyID:        companyID,
		ScenarioName:     scenario,
		NumPeriods:       3,
		RevenueGrowthPct: 500,
		CogsPctOfRevenue: 6000,
		OpexGrowthPct:    300,
		TaxRatePct:       2100,
		CapexCents:       0,
		DACents:          0,
		WCPctOfRevenue:   1000,
	}
}

// BaseActuals is the aggregate snapshot of the forecast base period
type BaseActuals struct {
	RevenueCents   int64 `json:"revenue_cents"`
	ExpensesCents  int64 `json:"expenses_cents"`
	NetIncomeCents int64 `json:"net_income_cents"`
	CashCents      int64 `json:"cash_cents"`
	NetWCCents     int64 `json:"net_wc_cents"`
}

// ForecastPeriod is one projected future period, income statement and cash
// flow shaped, with ending cash chained into the next period
type ForecastPeriod struct {
	Period     string `json:"period"`
	IsForecast bool   `json:"is_forecast"`

	RevenueCents     int64 `json:"revenue_cents"`
	CogsCents        int64 `json:"cogs_cents"`
	GrossProfitCents int64 `json:"gross_profit_cents"`
	OpexCents        int64 `json:"opex_cents"`
	EbitdaCents      int64 `json:"ebitda_cents"`
	EbitCents        int64 `json:"ebit_cents"`
	TaxCents         int64 `json:"tax_cents"`
	NetIncomeCents   int64 `json:"net_income_cents"`

	NetIncomeCFCents           int64 `json:"net_income_cf_cents"`
	DACents                    int64 `json:"da_cents"`
	DeltaWCCents               int64 `json:"delta_wc_cents"`
	NetCashFromOperationsCents int64 `json:"net_cash_from_operations_cents"`
	CapexCents                 int64 `json:"capex_cents"`
	NetCashFromInvestingCents  int64 `json:"net_cash_from_investing_cents"`
	NetCashFromFinancingCents  int64 `json:"net_cash_from_financing_cents"`
	NetChangeInCashCents       int64 `json:"net_change_in_cash_cents"`
	BeginningCashCents         int64 `json:"beginning_cash_cents"`
	EndingCashCents            int64 `json:"ending_cash_cents"`
}
