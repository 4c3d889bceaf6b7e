package services

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

// Exporter renders computed statements into Excel workbooks. It formats
// only: every figure comes from the aggregation/forecast core and is never
// re-derived here.
type Exporter struct{}

// NewExporter creates a new exporter instance
func NewExporter() *Exporter {
	return &Exporter{}
}

// Standard Excel accounting format: $ aligned, negatives in brackets
const accountingFormat = `_("$"* #,##0.00_);_("$"* (#,##0.00);_("$"* "-"_);_(@_)`

type sheetStyles struct {
	title  int
	header int
	money  int
	bold   int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: "333333"},
	}); err != nil {
		return s, err
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1E293B"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	}); err != nil {
		return s, err
	}

	numFmt := accountingFormat
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt}); err != nil {
		return s, err
	}

	if s.bold, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &numFmt,
	}); err != nil {
		return s, err
	}

	return s, nil
}

// statementSheet accumulates rows for one statement tab
type statementSheet struct {
	f      *excelize.File
	name   string
	styles sheetStyles
	row    int
	cols   int
}

func newStatementSheet(f *excelize.File, name, title string, headers []string, styles sheetStyles) (*statementSheet, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, err
	}

	s := &statementSheet{f: f, name: name, styles: styles, row: 0, cols: len(headers)}

	// Title row spanning all columns
	if err := f.SetCellValue(name, "A1", title); err != nil {
		return nil, err
	}
	end, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.MergeCell(name, "A1", end); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(name, "A1", "A1", styles.title); err != nil {
		return nil, err
	}
	if err := f.SetRowHeight(name, 1, 25); err != nil {
		return nil, err
	}

	// Header row
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return nil, err
		}
	}
	headerEnd, _ := excelize.CoordinatesToCellName(len(headers), 2)
	if err := f.SetCellStyle(name, "A2", headerEnd, styles.header); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(name, "A", "A", 28); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(name, "B", lastCol, 16); err != nil {
		return nil, err
	}

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      2,
		TopLeftCell: "B3",
		ActivePane:  "bottomRight",
	}); err != nil {
		return nil, err
	}

	s.row = 2
	return s, nil
}

// addRow appends one metric row; cents are written as dollars
func (s *statementSheet) addRow(label string, cents []int64, bold bool) error {
	s.row++

	labelCell, _ := excelize.CoordinatesToCellName(1, s.row)
	if err := s.f.SetCellValue(s.name, labelCell, label); err != nil {
		return err
	}

	for i, v := range cents {
		cell, _ := excelize.CoordinatesToCellName(i+2, s.row)
		if err := s.f.SetCellValue(s.name, cell, float64(v)/100.0); err != nil {
			return err
		}
	}

	style := s.styles.money
	if bold {
		style = s.styles.bold
	}
	start, _ := excelize.CoordinatesToCellName(2, s.row)
	end, _ := excelize.CoordinatesToCellName(s.cols, s.row)
	if err := s.f.SetCellStyle(s.name, start, end, style); err != nil {
		return err
	}
	if bold {
		if err := s.f.SetCellStyle(s.name, labelCell, labelCell, s.styles.bold); err != nil {
			return err
		}
	}

	return nil
}

// ForecastWorkbook builds the forecast export: one column of base actuals
// followed by one column per projected period
func (e *Exporter) ForecastWorkbook(scenario, basePeriod string, actuals models.BaseActuals, projections []models.ForecastPeriod) (*excelize.File, error) {
	if len(projections) == 0 {
		return nil, fmt.Errorf("no projection data to export")
	}

	f := excelize.NewFile()
	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	headers := []string{"Metric", fmt.Sprintf("Actuals\n%s", basePeriod)}
	for _, p := range projections {
		headers = append(headers, fmt.Sprintf("Forecast\n%s", p.Period))
	}

	titleCase := strings.ToUpper(scenario[:1]) + scenario[1:]

	// projected pulls one cash-flow/IS field across all periods, with the
	// actuals column value first
	projected := func(actual int64, pick func(models.ForecastPeriod) int64) []int64 {
		out := make([]int64, 0, len(projections)+1)
		out = append(out, actual)
		for _, p := range projections {
			out = append(out, pick(p))
		}
		return out
	}

	is, err := newStatementSheet(f, "Income Statement",
		fmt.Sprintf("Income Statement (%s Scenario)", titleCase), headers, styles)
	if err != nil {
		return nil, err
	}
	rows := []struct {
		label  string
		values []int64
		bold   bool
	}{
		{"Revenue", projected(actuals.RevenueCents, func(p models.ForecastPeriod) int64 { return p.RevenueCents }), false},
		{"COGS", projected(0, func(p models.ForecastPeriod) int64 { return -p.CogsCents }), false},
		{"Gross Profit", projected(0, func(p models.ForecastPeriod) int64 { return p.GrossProfitCents }), true},
		{"Operating Expenses", projected(-actuals.ExpensesCents, func(p models.ForecastPeriod) int64 { return -p.OpexCents }), false},
		{"EBITDA", projected(0, func(p models.ForecastPeriod) int64 { return p.EbitdaCents }), true},
		{"D&A", projected(0, func(p models.ForecastPeriod) int64 { return -p.DACents }), false},
		{"EBIT", projected(0, func(p models.ForecastPeriod) int64 { return p.EbitCents }), true},
		{"Tax", projected(0, func(p models.ForecastPeriod) int64 { return -p.TaxCents }), false},
		{"Net Income", projected(actuals.NetIncomeCents, func(p models.ForecastPeriod) int64 { return p.NetIncomeCents }), true},
	}
	for _, r := range rows {
		if err := is.addRow(r.label, r.values, r.bold); err != nil {
			return nil, err
		}
	}

	cf, err := newStatementSheet(f, "Cash Flow",
		fmt.Sprintf("Cash Flow Statement (%s Scenario)", titleCase), headers, styles)
	if err != nil {
		return nil, err
	}
	rows = []struct {
		label  string
		values []int64
		bold   bool
	}{
		{"Net Income", projected(actuals.NetIncomeCents, func(p models.ForecastPeriod) int64 { return p.NetIncomeCFCents }), false},
		{"D&A", projected(0, func(p models.ForecastPeriod) int64 { return p.DACents }), false},
		{"Change in Working Capital", projected(0, func(p models.ForecastPeriod) int64 { return p.DeltaWCCents }), false},
		{"Cash from Operations", projected(0, func(p models.ForecastPeriod) int64 { return p.NetCashFromOperationsCents }), true},
		{"Capital Expenditures", projected(0, func(p models.ForecastPeriod) int64 { return p.CapexCents }), false},
		{"Cash from Investing", projected(0, func(p models.ForecastPeriod) int64 { return p.NetCashFromInvestingCents }), true},
		{"Cash from Financing", projected(0, func(p models.ForecastPeriod) int64 { return p.NetCashFromFinancingCents }), true},
		{"Net Change in Cash", projected(0, func(p models.ForecastPeriod) int64 { return p.NetChangeInCashCents }), true},
		{"Beginning Cash", projected(0, func(p models.ForecastPeriod) int64 { return p.BeginningCashCents }), false},
		{"Ending Cash", projected(actuals.CashCents, func(p models.ForecastPeriod) int64 { return p.EndingCashCents }), true},
	}
	for _, r := range rows {
		if err := cf.addRow(r.label, r.values, r.bold); err != nil {
			return nil, err
		}
	}

	bs, err := newStatementSheet(f, "Balance Sheet",
		fmt.Sprintf("Balance Sheet — Cash Roll-Forward (%s Scenario)", titleCase), headers, styles)
	if err != nil {
		return nil, err
	}
	rows = []struct {
		label  string
		values []int64
		bold   bool
	}{
		{"Cash", projected(actuals.CashCents, func(p models.ForecastPeriod) int64 { return p.EndingCashCents }), true},
		{"Retained Earnings Impact", projected(actuals.NetIncomeCents, func(p models.ForecastPeriod) int64 { return p.NetIncomeCents }), false},
	}
	for _, r := range rows {
		if err := bs.addRow(r.label, r.values, r.bold); err != nil {
			return nil, err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	return f, nil
}

// ActualsWorkbook builds the historical export: one column per requested
// period for each of the three statements
func (e *Exporter) ActualsWorkbook(incomeStatements []models.IncomeStatement, balanceSheets []models.BalanceSheet, cashFlows []models.CashFlowStatement) (*excelize.File, error) {
	if len(incomeStatements) == 0 {
		return nil, fmt.Errorf("no statement data to export")
	}

	f := excelize.NewFile()
	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	headers := []string{"Metric"}
	for _, is := range incomeStatements {
		headers = append(headers, is.Period)
	}

	pickIS := func(pick func(models.IncomeStatement) int64) []int64 {
		out := make([]int64, 0, len(incomeStatements))
		for _, s := range incomeStatements {
			out = append(out, pick(s))
		}
		return out
	}
	is, err := newStatementSheet(f, "Income Statement", "Income Statement — Actuals", headers, styles)
	if err != nil {
		return nil, err
	}
	if err := is.addRow("Revenue", pickIS(func(s models.IncomeStatement) int64 { return s.TotalRevenuesCents }), false); err != nil {
		return nil, err
	}
	if err := is.addRow("Expenses", pickIS(func(s models.IncomeStatement) int64 { return -s.TotalExpensesCents }), false); err != nil {
		return nil, err
	}
	if err := is.addRow("Net Income", pickIS(func(s models.IncomeStatement) int64 { return s.NetIncomeCents }), true); err != nil {
		return nil, err
	}

	pickBS := func(pick func(models.BalanceSheet) int64) []int64 {
		out := make([]int64, 0, len(balanceSheets))
		for _, s := range balanceSheets {
			out = append(out, pick(s))
		}
		return out
	}
	bs, err := newStatementSheet(f, "Balance Sheet", "Balance Sheet — Actuals", headers, styles)
	if err != nil {
		return nil, err
	}
	bsRows := []struct {
		label  string
		values []int64
		bold   bool
	}{
		{"Total Assets", pickBS(func(s models.BalanceSheet) int64 { return s.TotalAssetsCents }), true},
		{"Total Liabilities", pickBS(func(s models.BalanceSheet) int64 { return s.TotalLiabilitiesCents }), true},
		{"Total Equity", pickBS(func(s models.BalanceSheet) int64 { return s.TotalEquityCents }), true},
		{"Unmapped Balance", pickBS(func(s models.BalanceSheet) int64 { return s.UnmappedBalanceCents }), false},
	}
	for _, r := range bsRows {
		if err := bs.addRow(r.label, r.values, r.bold); err != nil {
			return nil, err
		}
	}

	pickCF := func(pick func(models.CashFlowStatement) int64) []int64 {
		out := make([]int64, 0, len(cashFlows))
		for _, s := range cashFlows {
			out = append(out, pick(s))
		}
		return out
	}
	cf, err := newStatementSheet(f, "Cash Flow", "Cash Flow Statement — Actuals", headers, styles)
	if err != nil {
		return nil, err
	}
	cfRows := []struct {
		label  string
		values []int64
		bold   bool
	}{
		{"Net Income", pickCF(func(s models.CashFlowStatement) int64 { return s.NetIncomeCents }), false},
		{"Non-Cash Adjustments", pickCF(func(s models.CashFlowStatement) int64 { return s.NonCashAdjustmentsCents }), false},
		{"Change in Working Capital", pickCF(func(s models.CashFlowStatement) int64 { return s.OperatingWCDeltaCents }), false},
		{"Cash from Operations", pickCF(func(s models.CashFlowStatement) int64 { return s.NetCashFromOperationsCents }), true},
		{"Cash from Investing", pickCF(func(s models.CashFlowStatement) int64 { return s.NetCashFromInvestingCents }), true},
		{"Cash from Financing", pickCF(func(s models.CashFlowStatement) int64 { return s.NetCashFromFinancingCents }), true},
		{"Net Change in Cash", pickCF(func(s models.CashFlowStatement) int64 { return s.NetChangeInCashCents }), true},
		{"Beginning Cash", pickCF(func(s models.CashFlowStatement) int64 { return s.BeginningCashCents }), false},
		{"Ending Cash", pickCF(func(s models.CashFlowStatement) int64 { return s.EndingCashCents }), true},
	}
	for _, r := range cfRows {
		if err := cf.addRow(r.label, r.values, r.bold); err != nil {
			return nil, err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	return f, nil
}
