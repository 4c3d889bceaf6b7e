package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/store"
	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

// TrialBalanceStore defines the persistence methods the upload handler needs
type TrialBalanceStore interface {
	PeriodExists(ctx context.Context, companyID uuid.UUID, period time.Time) (bool, error)
	ReplacePeriodLines(ctx context.Context, companyID uuid.UUID, period time.Time, rows []models.ParsedRow) (int, error)
}

// FileParser parses an uploaded trial balance file into rows
type FileParser interface {
	ParseFile(file io.Reader, filename string) ([]models.ParsedRow, error)
}

// FileValidator validates an uploaded file before parsing
type FileValidator interface {
	Validate(filename string, data []byte) error
}

// Archiver stores a copy of the raw upload. Optional: a nil archiver
// disables archiving.
type Archiver interface {
	GenerateArchiveKey(companyID, filename string) (string, error)
	ArchiveFile(ctx context.Context, key string, data []byte, contentType string) error
}

// TrialBalanceHandler handles trial balance upload requests
type TrialBalanceHandler struct {
	store     TrialBalanceStore
	parser    FileParser
	validator FileValidator
	archiver  Archiver
}

// NewTrialBalanceHandler creates a new trial balance handler instance
func NewTrialBalanceHandler(store TrialBalanceStore, parser FileParser, validator FileValidator, archiver Archiver) *TrialBalanceHandler {
	return &TrialBalanceHandler{
		store:     store,
		parser:    parser,
		validator: validator,
		archiver:  archiver,
	}
}

// Upload ingests one trial balance file for one period. Re-uploading the
// same period replaces its lines entirely.
// POST /v1/companies/:id/trial-balances/upload?period_date=2024-03-31
func (h *TrialBalanceHandler) Upload(c fiber.Ctx) error {
	// 1. Parse route and query parameters
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	periodRaw := c.Query("period_date")
	if periodRaw == "" {
		return utils.NewValidationError("period_date is required", nil)
	}
	period, err := parsePeriodDate(periodRaw)
	if err != nil {
		return err
	}

	// 2. Read the uploaded file
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.NewValidationError("file is required", err.Error())
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.NewInternalError(err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return utils.NewInternalError(err)
	}

	// 3. Validate before parsing
	if err := h.validator.Validate(fileHeader.Filename, data); err != nil {
		return utils.NewValidationError("file validation failed", err.Error())
	}

	// 4. Parse rows
	rows, err := h.parser.ParseFile(bytes.NewReader(data), fileHeader.Filename)
	if err != nil {
		return utils.NewValidationError("failed to parse file", err.Error())
	}
	if len(rows) == 0 {
		return utils.NewValidationError("file contains no data rows", nil)
	}

	// 5. Imbalanced files are accepted with a warning, never rejected
	var totalCents int64
	for _, r := range rows {
		totalCents += r.BalanceCents
	}
	warning := ""
	if totalCents != 0 {
		warning = "trial balance debits and credits do not net to zero"
	}

	// 6. Replace the period's lines atomically
	existed, err := h.store.PeriodExists(c.Context(), companyID, period)
	if err != nil {
		return utils.NewInternalError(err)
	}
	imported, err := h.store.ReplacePeriodLines(c.Context(), companyID, period, rows)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NewNotFoundError("company")
		}
		return utils.NewInternalError(err)
	}

	// 7. Archive the raw file, best effort
	if h.archiver != nil {
		key, err := h.archiver.GenerateArchiveKey(companyID.String(), fileHeader.Filename)
		if err == nil {
			err = h.archiver.ArchiveFile(c.Context(), key, data, fileHeader.Header.Get("Content-Type"))
		}
		if err != nil {
			log.Printf("Failed to archive upload %s: %v", fileHeader.Filename, err)
		}
	}

	verb := "imported"
	if existed {
		verb = "replaced"
	}
	resp := fiber.Map{
		"status":        "success",
		"message":       fmt.Sprintf("%s %d trial balance lines", verb, imported),
		"period_date":   models.PeriodDate(period),
		"rows_imported": imported,
		"is_balanced":   totalCents == 0,
	}
	if warning != "" {
		resp["warning"] = warning
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
