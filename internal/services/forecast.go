package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

// ForecastNumPeriodsMax bounds a projection run
const (
	ForecastNumPeriodsMin = 1
	ForecastNumPeriodsMax = 12
)

var basisPointScale = decimal.NewFromInt(10000)

// bp converts a basis-point-scaled percentage (500 = 5.00%) to its ratio
func bp(basisPoints int64) decimal.Decimal {
	return decimal.NewFromInt(basisPoints).Div(basisPointScale)
}

// roundCents rounds to whole cents, half away from zero. All forecast
// multiplications round through here so reruns are bit-identical.
func roundCents(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// addMonths advances a period label by n calendar months, pinning month-end
// bases to the target month's end (Jan 31 + 1 month = Feb 28/29)
func addMonths(base time.Time, n int) time.Time {
	endOfBaseMonth := base.AddDate(0, 1, -base.Day()).Day() == base.Day()
	firstOfMonth := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location())
	target := firstOfMonth.AddDate(0, n, 0)
	lastDay := target.AddDate(0, 1, -1).Day()

	day := base.Day()
	if endOfBaseMonth || day > lastDay {
		day = lastDay
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, base.Location())
}

// ProjectForecast projects num_periods future periods from one base actual
// period and a scenario's driver assumptions. Pure and deterministic: the
// same config and base actuals always produce identical output, with each
// period's ending cash chained into the next period's beginning cash.
// Financing activity is always zero in this driver model.
func ProjectForecast(base models.BaseActuals, cfg models.ScenarioConfig) ([]models.ForecastPeriod, error) {
	if cfg.BasePeriod == nil {
		return nil, utils.NewValidationError("forecast config has no base_period set", nil)
	}
	if cfg.NumPeriods < ForecastNumPeriodsMin || cfg.NumPeriods > ForecastNumPeriodsMax {
		return nil, utils.NewValidationError(
			fmt.Sprintf("num_periods must be between %d and %d", ForecastNumPeriodsMin, ForecastNumPeriodsMax), nil)
	}

	revenueGrowth := decimal.NewFromInt(1).Add(bp(cfg.RevenueGrowthPct))
	cogsPct := bp(cfg.CogsPctOfRevenue)
	opexGrowth := decimal.NewFromInt(1).Add(bp(cfg.OpexGrowthPct))
	taxRate := bp(cfg.TaxRatePct)
	wcPct := bp(cfg.WCPctOfRevenue)

	prevRevenue := base.RevenueCents
	prevOpex := base.ExpensesCents // opex seeded from base actuals' total expenses
	endingCash := base.CashCents

	periods := make([]models.ForecastPeriod, 0, cfg.NumPeriods)
	for i := 1; i <= cfg.NumPeriods; i++ {
		revenue := roundCents(decimal.NewFromInt(prevRevenue).Mul(revenueGrowth))
		cogs := roundCents(decimal.NewFromInt(revenue).Mul(cogsPct))
		grossProfit := revenue - cogs
		opex := roundCents(decimal.NewFromInt(prevOpex).Mul(opexGrowth))
		ebitda := grossProfit - opex
		ebit := ebitda - cfg.DACents

		var tax int64
		if ebit > 0 {
			// No tax benefit is credited on a loss period
			tax = roundCents(decimal.NewFromInt(ebit).Mul(taxRate))
		}
		netIncome := ebit - tax

		// Required working capital scales with revenue; growth in it is a
		// cash use, so the delta enters the statement negated
		wcNow := decimal.NewFromInt(revenue).Mul(wcPct)
		wcPrev := decimal.NewFromInt(prevRevenue).Mul(wcPct)
		deltaWC := -roundCents(wcNow.Sub(wcPrev))

		operations := netIncome + cfg.DACents + deltaWC
		investing := -cfg.CapexCents
		var financing int64
		netChange := operations + investing + financing

		beginningCash := endingCash
		endingCash = beginningCash + netChange

		periods = append(periods, models.ForecastPeriod{
			Period:     models.PeriodDate(addMonths(*cfg.BasePeriod, i)),
			IsForecast: true,

			RevenueCents:     revenue,
			CogsCents:        cogs,
			GrossProfitCents: grossProfit,
			OpexCents:        opex,
			EbitdaCents:      ebitda,
			EbitCents:        ebit,
			TaxCents:         tax,
			NetIncomeCents:   netIncome,

			NetIncomeCFCents:           netIncome,
			DACents:                    cfg.DACents,
			DeltaWCCents:               deltaWC,
			NetCashFromOperationsCents: operations,
			CapexCents:                 -cfg.CapexCents,
			NetCashFromInvestingCents:  investing,
			NetCashFromFinancingCents:  financing,
			NetChangeInCashCents:       netChange,
			BeginningCashCents:         beginningCash,
			EndingCashCents:            endingCash,
		})

		prevRevenue = revenue
		prevOpex = opex
	}

	return periods, nil
}
