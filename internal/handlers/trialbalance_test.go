package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OmarKrypton/3-statement-modeler/internal/models"
	"github.com/OmarKrypton/3-statement-modeler/internal/services"
)

// multipartFile builds a multipart body with one "file" part
func multipartFile(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func newUploadApp(store TrialBalanceStore) *fiber.App {
	handler := NewTrialBalanceHandler(store, services.NewParser(), services.NewFileValidator(1024*1024), nil)
	app := newTestApp()
	app.Post("/companies/:id/trial-balances/upload", handler.Upload)
	return app
}

func TestUpload_BalancedFile(t *testing.T) {
	var gotPeriod time.Time
	var gotRows []models.ParsedRow
	mock := &MockStore{
		ReplacePeriodLinesFunc: func(ctx context.Context, companyID uuid.UUID, period time.Time, rows []models.ParsedRow) (int, error) {
			gotPeriod = period
			gotRows = rows
			return len(rows), nil
		},
	}
	app := newUploadApp(mock)

	csvData := "account_number,account_name,balance\n1000,Cash,100000\n3000,Common Stock,-100000\n"
	body, contentType := multipartFile(t, "tb.csv", csvData)

	req := httptest.NewRequest("POST", "/companies/"+uuid.NewString()+"/trial-balances/upload?period_date=2024-03-31", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "2024-03-31", gotPeriod.Format("2006-01-02"))
	assert.Len(t, gotRows, 2)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, true, result["is_balanced"])
	assert.Equal(t, float64(2), result["rows_imported"])
	assert.NotContains(t, result, "warning")
}

func TestUpload_ReuploadReplacesPeriod(t *testing.T) {
	mock := &MockStore{
		PeriodExistsFunc: func(ctx context.Context, companyID uuid.UUID, period time.Time) (bool, error) {
			return true, nil
		},
		ReplacePeriodLinesFunc: func(ctx context.Context, companyID uuid.UUID, period time.Time, rows []models.ParsedRow) (int, error) {
			return len(rows), nil
		},
	}
	app := newUploadApp(mock)

	csvData := "account_number,account_name,balance\n1000,Cash,100000\n3000,Common Stock,-100000\n"
	body, contentType := multipartFile(t, "tb.csv", csvData)

	req := httptest.NewRequest("POST", "/companies/"+uuid.NewString()+"/trial-balances/upload?period_date=2024-03-31", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Contains(t, result["message"], "replaced")
}

func TestUpload_ImbalancedFileAcceptedWithWarning(t *testing.T) {
	mock := &MockStore{
		ReplacePeriodLinesFunc: func(ctx context.Context, companyID uuid.UUID, period time.Time, rows []models.ParsedRow) (int, error) {
			return len(rows), nil
		},
	}
	app := newUploadApp(mock)

	// Lines sum to +500 cents
	csvData := "account_number,account_name,balance\n1000,Cash,100500\n3000,Common Stock,-100000\n"
	body, contentType := multipartFile(t, "tb.csv", csvData)

	req := httptest.NewRequest("POST", "/companies/"+uuid.NewString()+"/trial-balances/upload?period_date=2024-03-31", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, false, result["is_balanced"])
	assert.Contains(t, result, "warning")
}

func TestUpload_MissingPeriodDate(t *testing.T) {
	app := newUploadApp(&MockStore{})

	body, contentType := multipartFile(t, "tb.csv", "account_number,account_name,balance\n1000,Cash,100\n")
	req := httptest.NewRequest("POST", "/companies/"+uuid.NewString()+"/trial-balances/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpload_BadPeriodDate(t *testing.T) {
	app := newUploadApp(&MockStore{})

	body, contentType := multipartFile(t, "tb.csv", "account_number,account_name,balance\n1000,Cash,100\n")
	req := httptest.NewRequest("POST", "/companies/"+uuid.NewString()+"/trial-balances/upload?period_date=03-31-2024", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpload_ParseFailure(t *testing.T) {
	app := newUploadApp(&MockStore{})

	// Header is missing the balance column
	body, contentType := multipartFile(t, "tb.csv", "account_number,account_name\n1000,Cash\n")
	req := httptest.NewRequest("POST", "/companies/"+uuid.NewString()+"/trial-balances/upload?period_date=2024-03-31", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "VALIDATION_ERROR", result["code"])
}

func TestUpload_RejectedExtension(t *testing.T) {
	app := newUploadApp(&MockStore{})

	body, contentType := multipartFile(t, "tb.pdf", "%PDF-1.4 not a trial balance")
	req := httptest.NewRequest("POST", "/companies/"+uuid.NewString()+"/trial-balances/upload?period_date=2024-03-31", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
