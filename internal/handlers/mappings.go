package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/store"
	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

// MappingStore defines the persistence methods the mappings handler needs
type MappingStore interface {
	ListUnmappedAccounts(ctx context.Context, companyID uuid.UUID) ([]models.CompanyAccount, error)
	ListMasterAccounts(ctx context.Context) ([]models.MasterAccount, error)
	SaveMappings(ctx context.Context, companyID uuid.UUID, reqs []models.MappingRequest) (int, error)
	ResetMappings(ctx context.Context, companyID uuid.UUID) (int64, error)
}

// MappingsHandler handles account mapping requests
type MappingsHandler struct {
	store MappingStore
}

// NewMappingsHandler creates a new mappings handler instance
func NewMappingsHandler(store MappingStore) *MappingsHandler {
	return &MappingsHandler{store: store}
}

// ListMasterAccounts returns the full master chart of accounts
// GET /v1/master-coa
func (h *MappingsHandler) ListMasterAccounts(c fiber.Ctx) error {
	accounts, err := h.store.ListMasterAccounts(c.Context())
	if err != nil {
		return utils.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// ListUnmapped returns the company's active accounts that have no mapping,
// each with its total balance across all uploaded periods
// GET /v1/companies/:id/mappings/unmapped
func (h *MappingsHandler) ListUnmapped(c fiber.Ctx) error {
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}

	accounts, err := h.store.ListUnmappedAccounts(c.Context(), companyID)
	if err != nil {
		return utils.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// SaveMappingsRequest is the request body for SaveMappings
type SaveMappingsRequest struct {
	Mappings []models.MappingRequest `json:"mappings"`
}

// SaveMappings upserts a batch of account-to-master mappings. Re-mapping an
// already mapped account overwrites the previous target.
// PUT /v1/companies/:id/mappings
func (h *MappingsHandler) SaveMappings(c fiber.Ctx) error {
	// 1. Parse route and body
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}
	var req SaveMappingsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return utils.NewValidationError("invalid request body", err.Error())
	}
	if len(req.Mappings) == 0 {
		return utils.NewValidationError("mappings cannot be empty", nil)
	}
	for i, m := range req.Mappings {
		if m.CompanyAccountID == uuid.Nil || m.MasterAccountID == uuid.Nil {
			return utils.NewValidationError("mapping entries require company_account_id and master_account_id", i)
		}
	}

	// 2. Persist the batch
	saved, err := h.store.SaveMappings(c.Context(), companyID, req.Mappings)
	if err != nil {
		if errors.Is(err, store.ErrInvalidMapping) {
			return utils.NewValidationError("one or more mappings reference unknown accounts", err.Error())
		}
		if errors.Is(err, store.ErrNotFound) {
			return utils.NewNotFoundError("company")
		}
		return utils.NewInternalError(err)
	}

	return utils.StatusResponse(c, "mappings saved", fiber.Map{"saved": saved})
}

// ResetMappings deletes every mapping for the company. Uploaded trial
// balance lines are untouched.
// DELETE /v1/companies/:id/mappings/reset
func (h *MappingsHandler) ResetMappings(c fiber.Ctx) error {
	companyID, err := parseCompanyID(c)
	if err != nil {
		return err
	}

	deleted, err := h.store.ResetMappings(c.Context(), companyID)
	if err != nil {
		return utils.NewInternalError(err)
	}

	return utils.StatusResponse(c, "mappings reset", fiber.Map{"deleted": deleted})
}
