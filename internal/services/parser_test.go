package services

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

func TestParseCSV_ValidFile(t *testing.T) {
	csvData := `account_number,account_name,balance
1000,Cash,1500000
1100,Accounts Receivable,250000
2000,Accounts Payable,-175000
`
	parser := NewParser()
	rows, err := parser.ParseCSV(strings.NewReader(csvData))

	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.ParsedRow{AccountNumber: "1000", AccountName: "Cash", BalanceCents: 1500000}, rows[0])
	assert.Equal(t, models.ParsedRow{AccountNumber: "2000", AccountName: "Accounts Payable", BalanceCents: -175000}, rows[2])
}

func TestParseCSV_HeaderCaseAndWhitespace(t *testing.T) {
	csvData := ` Account_Number , ACCOUNT_NAME , Balance
1000,Cash,100
`
	parser := NewParser()
	rows, err := parser.ParseCSV(strings.NewReader(csvData))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1000", rows[0].AccountNumber)
}

func TestParseCSV_SkipsSummaryAndEmptyRows(t *testing.T) {
	csvData := `account_number,account_name,balance
1000,Cash,100
,,
Total,,100
Closing Balance,,100
2000,Accounts Payable,-100
`
	parser := NewParser()
	rows, err := parser.ParseCSV(strings.NewReader(csvData))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1000", rows[0].AccountNumber)
	assert.Equal(t, "2000", rows[1].AccountNumber)
}

func TestParseCSV_MissingColumn(t *testing.T) {
	csvData := `account_number,description,balance
1000,Cash,100
`
	parser := NewParser()
	_, err := parser.ParseCSV(strings.NewReader(csvData))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "account_name")
}

func TestParseCSV_BadBalanceReportsRow(t *testing.T) {
	csvData := `account_number,account_name,balance
1000,Cash,100
1100,Accounts Receivable,12.50
`
	parser := NewParser()
	_, err := parser.ParseCSV(strings.NewReader(csvData))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestParseCSV_EmptyAccountNumber(t *testing.T) {
	csvData := `account_number,account_name,balance
,Cash,100
`
	parser := NewParser()
	_, err := parser.ParseCSV(strings.NewReader(csvData))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "account_number")
}

func TestParseCSV_EmptyFile(t *testing.T) {
	parser := NewParser()
	_, err := parser.ParseCSV(strings.NewReader(""))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty file")
}

func TestParseBalanceCents(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"1500000", 1500000, false},
		{"-175000", -175000, false},
		{"$1,234,567", 1234567, false},
		{" 42 ", 42, false},
		{"", 0, false},
		{"-", 0, false},
		{"12.50", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			got, err := ParseBalanceCents(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// buildWorkbook writes an in-memory XLSX with the given rows on the first sheet
func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXLSX_ValidFile(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"account_number", "account_name", "balance"},
		{"1000", "Cash", 1500000},
		{"2000", "Accounts Payable", -1500000},
	})

	parser := NewParser()
	rows, err := parser.ParseFile(buf, "trial_balance.xlsx")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1500000), rows[0].BalanceCents)
	assert.Equal(t, int64(-1500000), rows[1].BalanceCents)
}

func TestParseXLSX_SkipsTotalRow(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"account_number", "account_name", "balance"},
		{"1000", "Cash", 100},
		{"Total", "", 100},
	})

	parser := NewParser()
	rows, err := parser.ParseFile(buf, "trial_balance.xlsx")

	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestParseFile_UnsupportedExtension(t *testing.T) {
	parser := NewParser()

	for _, filename := range []string{"statement.pdf", "trial_balance.xls"} {
		_, err := parser.ParseFile(strings.NewReader("data"), filename)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file extension")
	}
}
