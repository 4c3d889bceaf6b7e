package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountCategory classifies a master account on the financial statements
type AccountCategory string

const (
	CategoryAsset     AccountCategory = "ASSET"
	CategoryLiability AccountCategory = "LIABILITY"
	CategoryEquity    AccountCategory = "EQUITY"
	CategoryRevenue   AccountCategory = "REVENUE"
	CategoryExpense   AccountCategory = "EXPENSE"
)

// Valid reports whether the category is one of the five known values
func (c AccountCategory) Valid() bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryEquity, CategoryRevenue, CategoryExpense:
		return true
	}
	return false
}

// IsIncomeStatement reports whether the category feeds the income statement
func (c AccountCategory) IsIncomeStatement() bool {
	return c == CategoryRevenue || c == CategoryExpense
}

// CashFlowCategory tags a master account for the indirect-method cash flow statement
type CashFlowCategory string

const (
	CashFlowOperating CashFlowCategory = "OPERATING"
	CashFlowInvesting CashFlowCategory = "INVESTING"
	CashFlowFinancing CashFlowCategory = "FINANCING"
	CashFlowNonCash   CashFlowCategory = "NON_CASH"
)

// Valid reports whether the cash flow category is a known value
func (c CashFlowCategory) Valid() bool {
	switch c {
	case CashFlowOperating, CashFlowInvesting, CashFlowFinancing, CashFlowNonCash:
		return true
	}
	return false
}

// NormalBalance is the side an account naturally carries its balance on
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// CashAccountCode is the master chart code for Cash and Cash Equivalents.
// The balance sheet cash line, the cash flow tie-out and the forecast base
// cash all read this account.
const CashAccountCode = "1000"

// Company is a tenant whose trial balances are modeled
type Company struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	FiscalYearEnd int       `json:"fiscal_year_end"` // month number, e.g. 12 for December
	Currency      string    `json:"currency"`
}

// MasterAccount is one entry of the standardized master chart of accounts.
// The catalog is seeded once and read-only to the core.
type MasterAccount struct {
	ID               uuid.UUID        `json:"id"`
	AccountCode      string           `json:"account_code"`
	Name             string           `json:"name"`
	Category         AccountCategory  `json:"category"`
	SubCategory      string           `json:"sub_category"`
	CashFlowCategory CashFlowCategory `json:"cash_flow_category"`
	NormalBalance    NormalBalance    `json:"normal_balance"`
}

// CompanyAccount is a raw account as it appears in a company's uploaded
// trial balances. Created on first sight of an account number and reused
// by every subsequent period.
type CompanyAccount struct {
	ID                  uuid.UUID `json:"id"`
	CompanyID           uuid.UUID `json:"company_id"`
	ImportAccountNumber string    `json:"import_account_number"`
	ImportAccountName   string    `json:"import_account_name"`
	IsActive            bool      `json:"is_active"`
	TotalBalanceCents   int64     `json:"total_balance_cents"`
}

// AccountMapping relates one company account to exactly one master account
type AccountMapping struct {
	ID               uuid.UUID `json:"id"`
	CompanyAccountID uuid.UUID `json:"company_account_id"`
	MasterAccountID  uuid.UUID `json:"master_account_id"`
}

// MappingRequest is one pair of a batch mapping save
type MappingRequest struct {
	CompanyAccountID uuid.UUID `json:"company_account_id"`
	MasterAccountID  uuid.UUID `json:"master_account_id"`
}

// ParsedRow is one trial balance line after file parsing, before persistence.
// Balances are integer cents, debit positive / credit negative.
type ParsedRow struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	BalanceCents  int64  `json:"balance_cents"`
}

// MappedBalance is a trial balance line joined with its mapping and master
// account attributes for one period. Lines without an active mapping never
// appear here; they are summed separately as the unmapped balance.
type MappedBalance struct {
	CompanyAccountID uuid.UUID
	AccountCode      string
	Category         AccountCategory
	CashFlowCategory CashFlowCategory
	NormalBalance    NormalBalance
	BalanceCents     int64
}

// PeriodDate formats a period-end date the way the API exchanges it
func PeriodDate(t time.Time) string {
	return t.Format("2006-01-02")
}
