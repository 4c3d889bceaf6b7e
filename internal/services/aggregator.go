package services

import (
	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

// Statement aggregation folds one period's mapped trial balance lines into
// income statement and balance sheet totals. Balances are stored debit
// positive / credit negative; displayed totals are normalized per category
// (LIABILITY, EQUITY and REVENUE flip sign), so contra accounts such as
// accumulated depreciation reduce their category without any per-account
// correction. An account mapped against its stored sign is summed as
// configured, surfacing the imbalance for the user to fix via mapping.

// categoryRawSum sums raw signed balances for one statement category
func categoryRawSum(rows []models.MappedBalance, category models.AccountCategory) int64 {
	var total int64
	for _, r := range rows {
		if r.Category == category {
			total += r.BalanceCents
		}
	}
	return total
}

// cashBalance is the raw balance of the literal cash account for the period
func cashBalance(rows []models.MappedBalance) int64 {
	var total int64
	for _, r := range rows {
		if r.AccountCode == models.CashAccountCode {
			total += r.BalanceCents
		}
	}
	return total
}

// operatingWCBalance sums raw balances of working-capital accounts: assets
// and liabilities tagged OPERATING, excluding cash itself
func operatingWCBalance(rows []models.MappedBalance) int64 {
	var total int64
	for _, r := range rows {
		if r.CashFlowCategory != models.CashFlowOperating {
			continue
		}
		if r.Category != models.CategoryAsset && r.Category != models.CategoryLiability {
			continue
		}
		if r.AccountCode == models.CashAccountCode {
			continue
		}
		total += r.BalanceCents
	}
	return total
}

// BuildIncomeStatement aggregates one period's income statement. Revenue is
// displayed positive, expenses as a positive magnitude of cost.
func BuildIncomeStatement(period string, rows []models.MappedBalance) models.IncomeStatement {
	revenueRaw := categoryRawSum(rows, models.CategoryRevenue)
	expenseRaw := categoryRawSum(rows, models.CategoryExpense)

	return models.IncomeStatement{
		Period:             period,
		TotalRevenuesCents: -revenueRaw,
		TotalExpensesCents: expenseRaw,
		NetIncomeCents:     -revenueRaw - expenseRaw,
	}
}

// BuildBalanceSheet aggregates one period's balance sheet. The current
// period's net income is rolled into equity (retained earnings roll-up) so
// the statement reflects profit even though the ledger holds no closing
// entry. The equation is checked net of the unmapped balance: a period where
// the only imbalance sits in unmapped accounts still reports every
// categorized total, with the unmapped remainder surfaced separately.
func BuildBalanceSheet(periodDate string, rows []models.MappedBalance, unmappedCents int64) models.BalanceSheet {
	assetsRaw := categoryRawSum(rows, models.CategoryAsset)
	liabilitiesRaw := categoryRawSum(rows, models.CategoryLiability)
	equityRaw := categoryRawSum(rows, models.CategoryEquity)
	revenueRaw := categoryRawSum(rows, models.CategoryRevenue)
	expenseRaw := categoryRawSum(rows, models.CategoryExpense)

	// Current period income folds into equity; raw credit balances are
	// negative so the addition is in raw terms
	equityWithIncomeRaw := equityRaw + revenueRaw + expenseRaw

	balanced := assetsRaw+liabilitiesRaw+equityWithIncomeRaw+unmappedCents == 0

	return models.BalanceSheet{
		PeriodDate:            periodDate,
		TotalAssetsCents:      assetsRaw,
		TotalLiabilitiesCents: -liabilitiesRaw,
		TotalEquityCents:      -equityWithIncomeRaw,
		UnmappedBalanceCents:  unmappedCents,
		IsBalancedEquation:    balanced,
	}
}

// CashBalance exposes the period's literal cash account balance (debit
// positive), used for the cash flow tie-out and the forecast base cash
func CashBalance(rows []models.MappedBalance) int64 {
	return cashBalance(rows)
}

// NetWorkingCapital is the period's net working capital in display terms:
// operating assets minus operating liabilities, cash excluded
func NetWorkingCapital(rows []models.MappedBalance) int64 {
	return operatingWCBalance(rows)
}
