package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

// MockStore is a func-field fake of the store used across handler tests.
// Unset funcs fail loudly so each test only stubs what it exercises.
type MockStore struct {
	CreateCompanyFunc        func(ctx context.Context, name string, fiscalYearEnd int, currency string) (models.Company, error)
	ListCompaniesFunc        func(ctx context.Context) ([]models.Company, error)
	GetCompanyFunc           func(ctx context.Context, id uuid.UUID) (models.Company, error)
	UpdateCompanyFunc        func(ctx context.Context, id uuid.UUID, name *string, fiscalYearEnd *int, currency *string) (models.Company, error)
	ListPeriodsFunc          func(ctx context.Context, companyID uuid.UUID) ([]time.Time, error)
	DeletePeriodFunc         func(ctx context.Context, companyID uuid.UUID, period time.Time) error
	PeriodExistsFunc         func(ctx context.Context, companyID uuid.UUID, period time.Time) (bool, error)
	ReplacePeriodLinesFunc   func(ctx context.Context, companyID uuid.UUID, period time.Time, rows []models.ParsedRow) (int, error)
	ListUnmappedAccountsFunc func(ctx context.Context, companyID uuid.UUID) ([]models.CompanyAccount, error)
	ListMasterAccountsFunc   func(ctx context.Context) ([]models.MasterAccount, error)
	SaveMappingsFunc         func(ctx context.Context, companyID uuid.UUID, reqs []models.MappingRequest) (int, error)
	ResetMappingsFunc        func(ctx context.Context, companyID uuid.UUID) (int64, error)
	MappedBalancesFunc       func(ctx context.Context, companyID uuid.UUID, period time.Time) ([]models.MappedBalance, error)
	UnmappedBalanceFunc      func(ctx context.Context, companyID uuid.UUID, period time.Time) (int64, error)
	PriorPeriodFunc          func(ctx context.Context, companyID uuid.UUID, before time.Time) (*time.Time, error)
	GetScenarioConfigFunc    func(ctx context.Context, companyID uuid.UUID, scenario string) (models.ScenarioConfig, error)
	UpsertScenarioConfigFunc func(ctx context.Context, cfg models.ScenarioConfig) (models.ScenarioConfig, error)
}

func (m *MockStore) CreateCompany(ctx context.Context, name string, fiscalYearEnd int, currency string) (models.Company, error) {
	if m.CreateCompanyFunc != nil {
		return m.CreateCompanyFunc(ctx, name, fiscalYearEnd, currency)
	}
	return models.Company{}, fmt.Errorf("CreateCompany not stubbed")
}

func (m *MockStore) ListCompanies(ctx context.Context) ([]models.Company, error) {
	if m.ListCompaniesFunc != nil {
		return m.ListCompaniesFunc(ctx)
	}
	return nil, fmt.Errorf("ListCompanies not stubbed")
}

func (m *MockStore) GetCompany(ctx context.Context, id uuid.UUID) (models.Company, error) {
	if m.GetCompanyFunc != nil {
		return m.GetCompanyFunc(ctx, id)
	}
	return models.Company{ID: id, Name: "Demo Corp", FiscalYearEnd: 12, Currency: "USD"}, nil
}

func (m *MockStore) UpdateCompany(ctx context.Context, id uuid.UUID, name *string, fiscalYearEnd *int, currency *string) (models.Company, error) {
	if m.UpdateCompanyFunc != nil {
		return m.UpdateCompanyFunc(ctx, id, name, fiscalYearEnd, currency)
	}
	return models.Company{}, fmt.Errorf("UpdateCompany not stubbed")
}

func (m *MockStore) ListPeriods(ctx context.Context, companyID uuid.UUID) ([]time.Time, error) {
	if m.ListPeriodsFunc != nil {
		return m.ListPeriodsFunc(ctx, companyID)
	}
	return nil, fmt.Errorf("ListPeriods not stubbed")
}

func (m *MockStore) DeletePeriod(ctx context.Context, companyID uuid.UUID, period time.Time) error {
	if m.DeletePeriodFunc != nil {
		return m.DeletePeriodFunc(ctx, companyID, period)
	}
	return fmt.Errorf("DeletePeriod not stubbed")
}

func (m *MockStore) PeriodExists(ctx context.Context, companyID uuid.UUID, period time.Time) (bool, error) {
	if m.PeriodExistsFunc != nil {
		return m.PeriodExistsFunc(ctx, companyID, period)
	}
	return false, nil
}

func (m *MockStore) ReplacePeriodLines(ctx context.Context, companyID uuid.UUID, period time.Time, rows []models.ParsedRow) (int, error) {
	if m.ReplacePeriodLinesFunc != nil {
		return m.ReplacePeriodLinesFunc(ctx, companyID, period, rows)
	}
	return 0, fmt.Errorf("ReplacePeriodLines not stubbed")
}

func (m *MockStore) ListUnmappedAccounts(ctx context.Context, companyID uuid.UUID) ([]models.CompanyAccount, error) {
	if m.ListUnmappedAccountsFunc != nil {
		return m.ListUnmappedAccountsFunc(ctx, companyID)
	}
	return nil, fmt.Errorf("ListUnmappedAccounts not stubbed")
}

func (m *MockStore) ListMasterAccounts(ctx context.Context) ([]models.MasterAccount, error) {
	if m.ListMasterAccountsFunc != nil {
		return m.ListMasterAccountsFunc(ctx)
	}
	return nil, fmt.Errorf("ListMasterAccounts not stubbed")
}

func (m *MockStore) SaveMappings(ctx context.Context, companyID uuid.UUID, reqs []models.MappingRequest) (int, error) {
	if m.SaveMappingsFunc != nil {
		return m.SaveMappingsFunc(ctx, companyID, reqs)
	}
	return 0, fmt.Errorf("SaveMappings not stubbed")
}

func (m *MockStore) ResetMappings(ctx context.Context, companyID uuid.UUID) (int64, error) {
	if m.ResetMappingsFunc != nil {
		return m.ResetMappingsFunc(ctx, companyID)
	}
	return 0, fmt.Errorf("ResetMappings not stubbed")
}

func (m *MockStore) MappedBalances(ctx context.Context, companyID uuid.UUID, period time.Time) ([]models.MappedBalance, error) {
	if m.MappedBalancesFunc != nil {
		return m.MappedBalancesFunc(ctx, companyID, period)
	}
	return nil, fmt.Errorf("MappedBalances not stubbed")
}

func (m *MockStore) UnmappedBalance(ctx context.Context, companyID uuid.UUID, period time.Time) (int64, error) {
	if m.UnmappedBalanceFunc != nil {
		return m.UnmappedBalanceFunc(ctx, companyID, period)
	}
	return 0, fmt.Errorf("UnmappedBalance not stubbed")
}

func (m *MockStore) PriorPeriod(ctx context.Context, companyID uuid.UUID, before time.Time) (*time.Time, error) {
	if m.PriorPeriodFunc != nil {
		return m.PriorPeriodFunc(ctx, companyID, before)
	}
	return nil, fmt.Errorf("PriorPeriod not stubbed")
}

func (m *MockStore) GetScenarioConfig(ctx context.Context, companyID uuid.UUID, scenario string) (models.ScenarioConfig, error) {
	if m.GetScenarioConfigFunc != nil {
		return m.GetScenarioConfigFunc(ctx, companyID, scenario)
	}
	return models.ScenarioConfig{}, fmt.Errorf("GetScenarioConfig not stubbed")
}

func (m *MockStore) UpsertScenarioConfig(ctx context.Context, cfg models.ScenarioConfig) (models.ScenarioConfig, error) {
	if m.UpsertScenarioConfigFunc != nil {
		return m.UpsertScenarioConfigFunc(ctx, cfg)
	}
	return models.ScenarioConfig{}, fmt.Errorf("UpsertScenarioConfig not stubbed")
}

// newTestApp builds a fiber app with the production error handler so tests
// observe the real status code mapping
func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
}
