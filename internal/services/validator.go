package services

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// FileValidator validates uploaded trial balance files for security and
// format compliance before parsing
type FileValidator struct {
	maxSizeBytes int64
}

// File magic byte signatures; CSV is text-based and has none
var xlsxMagicBytes = []byte{0x50, 0x4B, 0x03, 0x04} // ZIP signature (XLSX is a ZIP)

// Allowed file extensions for trial balance uploads. Legacy OLE .xls is
// excluded: excelize only reads the ZIP-based .xlsx format.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// NewFileValidator creates a validator with the specified maximum file size
func NewFileValidator(maxSizeBytes int64) *FileValidator {
	return &FileValidator{maxSizeBytes: maxSizeBytes}
}

// Validate checks the filename and raw content; the returned error is
// user-correctable input feedback
func (v *FileValidator) Validate(filename string, data []byte) error {
	if err := v.validateFilename(filename); err != nil {
		return err
	}
	if err := v.validateSize(int64(len(data))); err != nil {
		return err
	}
	return v.validateContent(filename, data)
}

// validateFilename checks the name for security issues and extension
func (v *FileValidator) validateFilename(filename string) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}
	if strings.Contains(filename, "..") {
		return errors.New("filename contains path traversal")
	}
	if strings.Contains(filename, "\x00") {
		return errors.New("filename contains null bytes")
	}
	if strings.HasPrefix(filename, "/") || strings.HasPrefix(filename, "\\") {
		return errors.New("filename cannot be absolute path")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return errors.New("filename must have an extension")
	}
	if !allowedExtensions[ext] {
		return fmt.Errorf("unsupported file extension: %s", ext)
	}

	return nil
}

func (v *FileValidator) validateSize(size int64) error {
	if size == 0 {
		return errors.New("empty file")
	}
	if size > v.maxSizeBytes {
		return fmt.Errorf("file size (%d bytes) exceeds maximum allowed size (%d bytes)", size, v.maxSizeBytes)
	}
	return nil
}

// validateContent checks that the bytes match what the extension claims
func (v *FileValidator) validateContent(filename string, data []byte) error {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".xlsx":
		if !bytes.HasPrefix(data, xlsxMagicBytes) {
			return errors.New("file content is not a valid workbook")
		}
	case ".csv":
		if !isTextContent(data) {
			return errors.New("file content is not text")
		}
	}

	return nil
}

// isTextContent checks if the data appears to be text (for CSV detection)
func isTextContent(data []byte) bool {
	checkLen := len(data)
	if checkLen > 512 {
		checkLen = 512
	}
	sample := data[:checkLen]

	// Text files shouldn't have null bytes
	if bytes.Contains(sample, []byte{0x00}) {
		return false
	}

	printable := 0
	for _, b := range sample {
		// Printable ASCII + common whitespace
		if (b >= 0x20 && b <= 0x7E) || b == 0x09 || b == 0x0A || b == 0x0D {
			printable++
		}
	}

	return float64(printable)/float64(len(sample)) > 0.95
}
