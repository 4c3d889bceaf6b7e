package services

import (
	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

// DeriveCashFlow builds the indirect-method cash flow statement for one
// period from that period's mapped balances and the immediately preceding
// period's snapshot.
//
//   - Net income comes from the current period's income statement.
//   - Non-cash adjustments are the period's NON_CASH-tagged revenue and
//     expense balances (the D&A add-back). Balance-sheet accounts tagged
//     NON_CASH (cash itself, accumulated depreciation, retained earnings)
//     are excluded here; with consistent books their movements equal the
//     add-back, so counting both would double it.
//   - Working capital, investing and financing lines are period-over-period
//     deltas of the correspondingly tagged balances, negated so that a
//     balance increase (more receivables, new capex) is a cash outflow and
//     a liability increase frees cash.
//   - With no prior period on record, beginning cash and every delta term
//     are zero.
//
// Beginning cash is the prior snapshot's literal cash balance; when the
// ledger is fully mapped and balanced the resulting ending cash equals the
// current balance sheet's cash line. Persistent disagreement means an
// unmapped or miscategorized account and is deliberately left visible.
func DeriveCashFlow(period string, current, prior []models.MappedBalance, hasPrior bool) models.CashFlowStatement {
	is := BuildIncomeStatement(period, current)

	// Raw signs already point the right way: a non-cash expense carries a
	// positive debit balance (added back), a non-cash gain a negative credit
	// balance (backed out)
	var nonCash int64
	for _, r := range current {
		if r.CashFlowCategory == models.CashFlowNonCash && r.Category.IsIncomeStatement() {
			nonCash += r.BalanceCents
		}
	}

	var wcDelta, investing, financing int64
	if hasPrior {
		wcDelta = -(operatingWCBalance(current) - operatingWCBalance(prior))
		investing = -(cashFlowTagSum(current, models.CashFlowInvesting) - cashFlowTagSum(prior, models.CashFlowInvesting))
		financing = -(cashFlowTagSum(current, models.CashFlowFinancing) - cashFlowTagSum(prior, models.CashFlowFinancing))
	}

	operations := is.NetIncomeCents + nonCash + wcDelta
	netChange := operations + investing + financing

	var beginningCash int64
	if hasPrior {
		beginningCash = cashBalance(prior)
	}

	return models.CashFlowStatement{
		Period:                     period,
		NetIncomeCents:             is.NetIncomeCents,
		NonCashAdjustmentsCents:    nonCash,
		OperatingWCDeltaCents:      wcDelta,
		NetCashFromOperationsCents: operations,
		NetCashFromInvestingCents:  investing,
		NetCashFromFinancingCents:  financing,
		NetChangeInCashCents:       netChange,
		BeginningCashCents:         beginningCash,
		EndingCashCents:            beginningCash + netChange,
	}
}

// cashFlowTagSum sums raw balance-sheet balances for one cash flow tag;
// income statement accounts are already inside net income
func cashFlowTagSum(rows []models.MappedBalance, tag models.CashFlowCategory) int64 {
	var total int64
	for _, r := range rows {
		if r.CashFlowCategory != tag {
			continue
		}
		if r.Category.IsIncomeStatement() {
			continue
		}
		total += r.BalanceCents
	}
	return total
}
