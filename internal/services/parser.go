package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
)

// Expected trial balance columns. Balances are integer cents, debits
// positive / credits negative.
const (
	columnAccountNumber = "account_number"
	columnAccountName   = "account_name"
	columnBalance       = "balance"
)

// Parser parses uploaded trial balance files (CSV or XLSX) into rows
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile dispatches on the file extension
func (p *Parser) ParseFile(file io.Reader, filename string) ([]models.ParsedRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return p.ParseCSV(file)
	case ".xlsx":
		return p.ParseXLSX(file)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
}

// ParseCSV parses a trial balance CSV with an account_number, account_name,
// balance header row
func (p *Parser) ParseCSV(file io.Reader) ([]models.ParsedRow, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	headerIndex, err := buildHeaderIndex(headers)
	if err != nil {
		return nil, err
	}

	var parsed []models.ParsedRow
	rowNum := 1 // headers already consumed

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", rowNum, err)
		}
		rowNum++

		if isEmptyRow(row) || isSummaryRow(row) {
			continue
		}

		line, err := parseRow(row, headerIndex)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		parsed = append(parsed, line)
	}

	return parsed, nil
}

// ParseXLSX parses the first sheet of a trial balance workbook with the
// same column layout as the CSV format
func (p *Parser) ParseXLSX(file io.Reader) ([]models.ParsedRow, error) {
	wb, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	headerIndex, err := buildHeaderIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var parsed []models.ParsedRow
	for i, row := range rows[1:] {
		if isEmptyRow(row) || isSummaryRow(row) {
			continue
		}

		line, err := parseRow(row, headerIndex)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		parsed = append(parsed, line)
	}

	return parsed, nil
}

// buildHeaderIndex maps the expected columns to their positions
func buildHeaderIndex(headers []string) (map[string]int, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for _, required := range []string{columnAccountNumber, columnAccountName, columnBalance} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column '%s'", required)
		}
	}

	return index, nil
}

// parseRow parses a single trial balance row
func parseRow(row []string, headerIndex map[string]int) (models.ParsedRow, error) {
	var line models.ParsedRow

	numberIdx := headerIndex[columnAccountNumber]
	nameIdx := headerIndex[columnAccountName]
	balanceIdx := headerIndex[columnBalance]

	maxIdx := numberIdx
	if nameIdx > maxIdx {
		maxIdx = nameIdx
	}
	if balanceIdx > maxIdx {
		maxIdx = balanceIdx
	}
	if len(row) <= maxIdx {
		return line, fmt.Errorf("too few columns")
	}

	line.AccountNumber = strings.TrimSpace(row[numberIdx])
	if line.AccountNumber == "" {
		return line, fmt.Errorf("account_number is empty")
	}
	line.AccountName = strings.TrimSpace(row[nameIdx])

	balance, err := ParseBalanceCents(row[balanceIdx])
	if err != nil {
		return line, err
	}
	line.BalanceCents = balance

	return line, nil
}

// ParseBalanceCents parses an integer-cents balance, tolerating currency
// symbols, commas and surrounding whitespace
func ParseBalanceCents(raw string) (int64, error) {
	cleaned := strings.ReplaceAll(raw, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || cleaned == "-" {
		return 0, nil
	}

	balance, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid balance: %s", raw)
	}

	return balance, nil
}

// isEmptyRow checks if all fields in a row are empty
func isEmptyRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// isSummaryRow checks if a row is a totals/summary row rather than a line
func isSummaryRow(row []string) bool {
	if len(row) == 0 {
		return false
	}

	firstField := strings.ToLower(strings.TrimSpace(row[0]))
	summaryKeywords := []string{"total", "summary", "opening balance", "closing balance"}

	for _, keyword := range summaryKeywords {
		if strings.Contains(firstField, keyword) {
			return true
		}
	}

	return false
}
