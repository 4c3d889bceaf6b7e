package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Regenerates the sample trial balance files under testdata/. Run from
// the project root:
//
//	go run scripts/generate_tb_fixtures.go
func main() {
	if err := os.MkdirAll("testdata", 0o755); err != nil {
		log.Fatal(err)
	}

	generateBalancedCSV()
	generateImbalancedCSV()
	generateBalancedXLSX()
	fmt.Println("All trial balance fixtures generated successfully!")
}

// Balances are integer cents, debits positive / credits negative.
// Rows sum to zero so the upload reports is_balanced=true.
var balancedRows = [][]string{
	{"1000", "Cash and Cash Equivalents", "10000000"},
	{"1100", "Accounts Receivable", "5000000"},
	{"1500", "Property, Plant & Equipment", "20000000"},
	{"1600", "Accumulated Depreciation", "-2000000"},
	{"2000", "Accounts Payable", "-3000000"},
	{"2500", "Long-Term Debt", "-10000000"},
	{"3000", "Common Stock", "-15000000"},
	{"4000", "Revenue", "-12000000"},
	{"5000", "Cost of Goods Sold", "4000000"},
	{"6000", "Salaries Expense", "2000000"},
	{"6500", "Depreciation Expense", "1000000"},
}

func writeCSV(path string, rows [][]string) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"account_number", "account_name", "balance"}); err != nil {
		log.Fatal(err)
	}
	if err := w.WriteAll(rows); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s (%d rows)\n", path, len(rows))
}

func generateBalancedCSV() {
	writeCSV(filepath.Join("testdata", "tb_balanced.csv"), balancedRows)
}

func generateImbalancedCSV() {
	rows := make([][]string, len(balancedRows))
	copy(rows, balancedRows)
	// Drop one credit line so debits and credits no longer net to zero
	rows[4] = []string{"2000", "Accounts Payable", "-2999500"}
	writeCSV(filepath.Join("testdata", "tb_imbalanced.csv"), rows)
}

func generateBalancedXLSX() {
	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"account_number", "account_name", "balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for r, row := range balancedRows {
		balance, _ := strconv.ParseInt(row[2], 10, 64)
		values := []interface{}{row[0], row[1], balance}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	// Summary row the parser is expected to skip
	totalRow := len(balancedRows) + 2
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	f.SetCellValue(sheet, cell, "Total")
	cell, _ = excelize.CoordinatesToCellName(3, totalRow)
	f.SetCellValue(sheet, cell, 0)

	path := filepath.Join("testdata", "tb_balanced.xlsx")
	if err := f.SaveAs(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s (%d rows)\n", path, len(balancedRows))
}
