package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidCSV(t *testing.T) {
	v := NewFileValidator(1024)
	err := v.Validate("trial_balance.csv", []byte("account_number,account_name,balance\n1000,Cash,100\n"))
	assert.NoError(t, err)
}

func TestFileValidator_ValidXLSX(t *testing.T) {
	v := NewFileValidator(1024)
	// A real workbook starts with the ZIP signature
	data := append([]byte{0x50, 0x4B, 0x03, 0x04}, make([]byte, 64)...)
	err := v.Validate("trial_balance.xlsx", data)
	assert.NoError(t, err)
}

func TestFileValidator_Filename(t *testing.T) {
	v := NewFileValidator(1024)
	content := []byte("account_number,account_name,balance\n")

	tests := []struct {
		name     string
		filename string
		wantErr  string
	}{
		{"empty name", "", "empty"},
		{"path traversal", "../../etc/passwd.csv", "traversal"},
		{"null byte", "file\x00.csv", "null"},
		{"absolute path", "/etc/data.csv", "absolute"},
		{"no extension", "trialbalance", "extension"},
		{"unsupported extension", "statement.pdf", "unsupported"},
		{"legacy xls", "trial_balance.xls", "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.filename, content)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFileValidator_Size(t *testing.T) {
	v := NewFileValidator(16)

	err := v.Validate("tb.csv", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty file")

	err = v.Validate("tb.csv", []byte("account_number,account_name,balance\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestFileValidator_ContentMismatch(t *testing.T) {
	v := NewFileValidator(1024)

	// Claims to be a workbook but has no ZIP signature
	err := v.Validate("tb.xlsx", []byte("just,a,csv\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid workbook")

	// Claims to be CSV but is binary
	binary := []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0x00, 0x01}
	err = v.Validate("tb.csv", binary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not text")
}
