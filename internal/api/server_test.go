package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/classifier"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/config"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/dateutils"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/interchange"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/models"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store/memory"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newServer(t *testing.T, st store.Store) (*Server, *logging.MockLogger) {
	t.Helper()
	vocab, err := classifier.DefaultVocabulary()
	require.NoError(t, err)
	logger := logging.NewMockLogger()
	engine, err := interchange.New(st, vocab, "pt", logger)
	require.NoError(t, err)
	cfg := config.ServerConfig{Address: ":0", UserHeader: "X-User-ID", BodyLimitMB: 1}
	return New(engine, cfg, logger), logger
}

func seedUser(t *testing.T, st store.Store, userID int64) {
	t.Helper()
	ctx := context.Background()
	cat, err := st.CreateCategory(ctx, models.Category{UserID: userID, Name: "Mercado"})
	require.NoError(t, err)
	_, err = st.SaveTransaction(ctx, models.Transaction{
		UserID: userID, Name: "Feira", Amount: decimal.RequireFromString("85.40"),
		Date: dateutils.Date(2024, time.May, 11), Type: models.TransactionTypeExpense,
		CategoryID: models.IDRef(cat.ID),
	})
	require.NoError(t, err)
	_, err = st.SavePlanning(ctx, models.MonthlyPlanning{
		UserID: userID, Month: 5, Year: 2024, CategoryID: models.IDRef(cat.ID),
		EstimatedAmount: decimal.NewFromInt(600),
	})
	require.NoError(t, err)
}

func uploadRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "planilha.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/excel/import", &body)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	return req
}

func do(t *testing.T, s *Server, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestRequireUser(t *testing.T) {
	s, _ := newServer(t, memory.New())

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not a number", "abc"},
		{"zero", "0"},
		{"negative", "-4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/excel/export", nil)
			if tt.header != "" {
				req.Header.Set("X-User-ID", tt.header)
			}
			resp, body := do(t, s, req)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, "401", errResp.Code)
			assert.Equal(t, "unauthorized", errResp.Title)
		})
	}
}

func TestExport(t *testing.T) {
	st := memory.New()
	seedUser(t, st, 3)
	s, _ := newServer(t, st)

	req := httptest.NewRequest(http.MethodGet, "/api/excel/export", nil)
	req.Header.Set("X-User-ID", "3")
	resp, body := do(t, s, req)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, XLSXContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "financeiro.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 2)
}

func TestExportCSV(t *testing.T) {
	st := memory.New()
	seedUser(t, st, 3)
	s, _ := newServer(t, st)

	req := httptest.NewRequest(http.MethodGet, "/api/excel/export.csv", nil)
	req.Header.Set("X-User-ID", "3")
	resp, body := do(t, s, req)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/csv"))
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Feira")
	assert.Contains(t, lines[1], "85.40")
}

func TestImport_RoundTripsExportIntoAnotherUser(t *testing.T) {
	st := memory.New()
	seedUser(t, st, 1)
	s, logger := newServer(t, st)

	exportReq := httptest.NewRequest(http.MethodGet, "/api/excel/export", nil)
	exportReq.Header.Set("X-User-ID", "1")
	_, workbook := do(t, s, exportReq)

	req := uploadRequest(t, "file", workbook)
	req.Header.Set("X-User-ID", "2")
	resp, body := do(t, s, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var result interchange.ImportResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 2, result.RowsImported)
	assert.Equal(t, 1, result.CategoriesCreated)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, int64(2), result.Transactions[0].UserID)
	assert.True(t, logger.HasEntry("INFO", "Workbook imported"))

	cats, err := st.ListCategories(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Mercado", cats[0].Name)
}

func TestImport_MissingFile(t *testing.T) {
	s, _ := newServer(t, memory.New())

	req := uploadRequest(t, "planilha", []byte("x"))
	req.Header.Set("X-User-ID", "1")
	resp, body := do(t, s, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "missing_file", errResp.Title)
}

func TestImport_CorruptWorkbook(t *testing.T) {
	s, _ := newServer(t, memory.New())

	req := uploadRequest(t, "file", []byte("not a workbook"))
	req.Header.Set("X-User-ID", "1")
	resp, body := do(t, s, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "invalid_workbook", errResp.Title)
}

func TestImport_StoreFailure(t *testing.T) {
	source := memory.New()
	seedUser(t, source, 1)
	exporter, _ := newServer(t, source)
	exportReq := httptest.NewRequest(http.MethodGet, "/api/excel/export", nil)
	exportReq.Header.Set("X-User-ID", "1")
	_, workbook := do(t, exporter, exportReq)

	failing := &store.MockStore{Store: memory.New(), FindCategoryError: errors.New("connection reset")}
	s, logger := newServer(t, failing)

	req := uploadRequest(t, "file", workbook)
	req.Header.Set("X-User-ID", "2")
	resp, body := do(t, s, req)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "internal server error", errResp.Message)
	assert.NotContains(t, string(body), "connection reset")
	assert.True(t, logger.HasEntry("ERROR", "Request failed"))
}

func TestImport_BodyLimit(t *testing.T) {
	s, _ := newServer(t, memory.New())

	req := uploadRequest(t, "file", bytes.Repeat([]byte("x"), 2*1024*1024))
	req.Header.Set("X-User-ID", "1")
	resp, _ := do(t, s, req)

	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	s, logger := newServer(t, memory.New())
	s.App().Get("/api/excel/panic", func(c *fiber.Ctx) error {
		var rows []int
		_ = rows[3]
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/excel/panic", nil)
	req.Header.Set("X-User-ID", "1")
	resp, body := do(t, s, req)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "internal_error", errResp.Title)
	assert.True(t, logger.HasEntry("ERROR", "Request failed"))

	// the app keeps serving after a panic
	req = httptest.NewRequest(http.MethodGet, "/api/excel/export", nil)
	req.Header.Set("X-User-ID", "1")
	resp, _ = do(t, s, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
