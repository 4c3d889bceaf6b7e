package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/store"
	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

// CompanyStore defines the persistence methods the companies handler needs
type CompanyStore interface {
	CreateCompany(ctx context.Context, name string, fiscalYearEnd int, currency string) (models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (models.Company, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, name *string, fiscalYearEnd *int, currency *string) (models.Company, error)
}

// CompaniesHandler handles company CRUD requests
type CompaniesHandler struct {
	store CompanyStore
}

// NewCompaniesHandler creates a new companies handler instance
func NewCompaniesHandler(store CompanyStore) *CompaniesHandler {
	return &CompaniesHandler{store: store}
}

// CreateCompanyRequest is the request body for CreateCompany
type CreateCompanyRequest struct {
	Name          string `json:"name"`
	FiscalYearEnd int    `json:"fiscal_year_end"`
	Currency      string `json:"currency"`
}

// CreateCompany creates a new company
// POST /v1/companies
func (h *CompaniesHandler) CreateCompany(c fiber.Ctx) error {
	// 1. Parse request body
	var req CreateCompanyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return utils.NewValidationError("invalid request body", err.Error())
	}

	// 2. Validate fields
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.NewValidationError("name is required", nil)
	}
	if req.FiscalYearEnd == 0 {
		req.FiscalYearEnd = 12
	}
	if req.FiscalYearEnd < 1 || req.FiscalYearEnd > 12 {
		return utils.NewValidationError("fiscal_year_end must be a month number 1-12", req.FiscalYearEnd)
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if len(req.Currency) != 3 {
		return utils.NewValidationError("currency must be a 3-letter code", req.Currency)
	}

	// 3. Persist
	company, err := h.store.CreateCompany(c.Context(), req.Name, req.FiscalYearEnd, strings.ToUpper(req.Currency))
	if err != nil {
		return utils.NewInternalError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(company)
}

// ListCompanies returns all companies
// GET /v1/companies
func (h *CompaniesHandler) ListCompanies(c fiber.Ctx) error {
	companies, err := h.store.ListCompanies(c.Context())
	if err != nil {
		return utils.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"companies": companies,
		"count":     len(companies),
	})
}

// GetCompany returns a single company by id
// GET /v1/companies/:id
func (h *CompaniesHandler) GetCompany(c fiber.Ctx) error {
	id, err := parseCompanyID(c)
	if err != nil {
		return err
	}

	company, err := h.store.GetCompany(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NewNotFoundError("company")
		}
		return utils.NewInternalError(err)
	}

	return c.JSON(company)
}

// UpdateCompanyRequest is the request body for UpdateCompany. Absent
// fields keep their stored value.
type UpdateCompanyRequest struct {
	Name          *string `json:"name"`
	FiscalYearEnd *int    `json:"fiscal_year_end"`
	Currency      *string `json:"currency"`
}

// UpdateCompany partially updates a company
// PUT /v1/companies/:id
func (h *CompaniesHandler) UpdateCompany(c fiber.Ctx) error {
	// 1. Parse id and body
	id, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	var req UpdateCompanyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return utils.NewValidationError("invalid request body", err.Error())
	}

	// 2. Validate provided fields
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return utils.NewValidationError("name cannot be empty", nil)
		}
		req.Name = &trimmed
	}
	if req.FiscalYearEnd != nil && (*req.FiscalYearEnd < 1 || *req.FiscalYearEnd > 12) {
		return utils.NewValidationError("fiscal_year_end must be a month number 1-12", *req.FiscalYearEnd)
	}
	if req.Currency != nil {
		if len(*req.Currency) != 3 {
			return utils.NewValidationError("currency must be a 3-letter code", *req.Currency)
		}
		upper := strings.ToUpper(*req.Currency)
		req.Currency = &upper
	}

	// 3. Persist
	company, err := h.store.UpdateCompany(c.Context(), id, req.Name, req.FiscalYearEnd, req.Currency)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NewNotFoundError("company")
		}
		return utils.NewInternalError(err)
	}

	return c.JSON(company)
}
