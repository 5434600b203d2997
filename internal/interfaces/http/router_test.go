package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/takealot-invoicer/internal/application/auth"
	"github.com/jhoicas/takealot-invoicer/internal/application/dto"
	"github.com/jhoicas/takealot-invoicer/internal/application/invoicing"
	"github.com/jhoicas/takealot-invoicer/internal/application/usecase"
	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
	"github.com/jhoicas/takealot-invoicer/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/takealot-invoicer/internal/interfaces/http"
	"github.com/jhoicas/takealot-invoicer/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type memSettings struct {
	mu   sync.Mutex
	rows map[string]*entity.UserSettings
}

func (m *memSettings) Get(_ context.Context, userID string) (*entity.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[userID], nil
}

func (m *memSettings) Upsert(_ context.Context, s *entity.UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.UserID] = s
	return nil
}

type memEvents struct {
	mu   sync.Mutex
	list []*entity.DocumentEvent
}

func (m *memEvents) Record(_ context.Context, e *entity.DocumentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, e)
	return nil
}

func (m *memEvents) ListByUser(_ context.Context, userID string, limit int) ([]*entity.DocumentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.DocumentEvent
	for i := len(m.list) - 1; i >= 0 && len(out) < limit; i-- {
		if m.list[i].UserID == userID {
			out = append(out, m.list[i])
		}
	}
	return out, nil
}

type stubSeller struct {
	fetchErr  error
	uploadErr error
	uploaded  [][]byte
}

func (s *stubSeller) FetchInvoice(_ context.Context, number, _ string) (*entity.InvoiceData, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return &entity.InvoiceData{
		OrderNumber:  123,
		CustomerName: "A. Smith & Co.",
		InvoiceDate:  "1700000000",
		InvoiceItems: []entity.InvoiceItem{
			{Description: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(50), Total: decimal.NewFromInt(100)},
		},
	}, nil
}

func (s *stubSeller) FetchInvoiceRequests(_ context.Context, _ entity.RequestStatus, _ string) (*entity.InvoiceRequestsPage, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	reqs := make([]entity.InvoiceRequest, 0, 25)
	for i := 1; i <= 25; i++ {
		reqs = append(reqs, entity.InvoiceRequest{RequestID: int64(i), ContextID: int64(1000 + i), CreatedAt: "2024-01-01"})
	}
	return &entity.InvoiceRequestsPage{Requests: reqs, PageSummary: entity.PageSummary{PageNumber: 1, PageSize: 100, Total: 25}}, nil
}

func (s *stubSeller) UploadInvoice(_ context.Context, _ int64, body []byte, _ string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploaded = append(s.uploaded, body)
	return nil
}

type testEnv struct {
	app    *fiber.App
	seller *stubSeller
	events *memEvents
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := &memUsers{byID: map[string]*entity.User{}}
	settingsRepo := &memSettings{rows: map[string]*entity.UserSettings{}}
	events := &memEvents{}
	seller := &stubSeller{}

	builder, err := pdf.NewInvoiceBuilder(pdf.Config{TimeZone: "UTC"})
	require.NoError(t, err)

	settingsUC := usecase.NewSettingsUseCase(settingsRepo)
	invoicingUC := invoicing.NewUseCase(seller, builder, pdf.NewRequestsReport(), nil, events, settingsUC, logger.Nop(), invoicing.Options{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		SettingsUC:  settingsUC,
		InvoicingUC: invoicingUC,
		JWTSecret:   testJWTSecret,
	})
	return &testEnv{app: app, seller: seller, events: events}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// login registra un usuario y devuelve su Bearer token.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	creds := dto.RegisterRequest{Email: "Seller@Example.com", Password: "s3cret-pass", Name: "Seller"}
	resp := e.do(t, http.MethodPost, "/api/auth/register", creds, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "seller@example.com", Password: "s3cret-pass"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, out.Token)
	return "Bearer " + out.Token
}

func (e *testEnv) configure(t *testing.T, token string) {
	t.Helper()
	resp := e.do(t, http.MethodPut, "/api/settings", dto.SettingsRequest{
		APIKey:             "abc123",
		CompanyName:        "Acme",
		TradingName:        "Acme Trading",
		RegistrationNumber: "2020/123456/07",
		Address:            "1 Main Rd\nCape Town",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_EmailDuplicado_Retorna409(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp := env.do(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{Email: "seller@example.com", Password: "otra-clave-1"}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_PasswordCorto_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{Email: "a@b.c", Password: "123"}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_PasswordIncorrecto_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp := env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "seller@example.com", Password: "incorrecta"}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRutasProtegidas_SinToken_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/settings", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Settings
// ──────────────────────────────────────────────────────────────────────────────

func TestSettings_SinGuardar_Incompleta(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	resp := env.do(t, http.MethodGet, "/api/settings", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.SettingsResponse](t, resp)
	assert.False(t, out.Complete)
}

func TestSettings_GuardarYLeer_KeySinPrefijo(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	env.configure(t, token)

	resp := env.do(t, http.MethodGet, "/api/settings", nil, token)
	out := decode[dto.SettingsResponse](t, resp)
	assert.True(t, out.Complete)
	assert.Equal(t, "abc123", out.APIKey)
	assert.Equal(t, "Acme", out.CompanyName)
}

func TestSettings_Incompleta_Retorna400ConCampos(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	resp := env.do(t, http.MethodPut, "/api/settings", dto.SettingsRequest{APIKey: "Key abc", CompanyName: "Acme"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode[dto.ValidationErrorResponse](t, resp)
	assert.Contains(t, out.Fields, "trading_name")
	assert.Contains(t, out.Fields, "address")
	assert.NotContains(t, out.Fields, "api_key")
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoice_SinConfiguracion_Retorna412(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	resp := env.do(t, http.MethodGet, "/api/invoices/123", nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
}

func TestInvoice_Get_RegistraVista(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	env.configure(t, token)

	resp := env.do(t, http.MethodGet, "/api/invoices/123", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[entity.InvoiceData](t, resp)
	assert.Equal(t, int64(123), out.OrderNumber)

	resp = env.do(t, http.MethodGet, "/api/activity", nil, token)
	activity := decode[dto.ActivityResponse](t, resp)
	assert.Equal(t, []int64{123}, activity.Viewed)
	assert.Empty(t, activity.Downloaded)
}

func TestInvoice_FalloRemoto_Retorna502Generico(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	env.configure(t, token)
	env.seller.fetchErr = &domain.FetchError{Resource: "invoice", Status: 500}

	resp := env.do(t, http.MethodGet, "/api/invoices/123", nil, token)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "FETCH_FAILED", out.Code)
	assert.NotContains(t, out.Message, "500")
}

func TestInvoice_RenderPDF_Adjunto(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	env.configure(t, token)

	resp := env.do(t, http.MethodPost, "/api/invoices/123/pdf", dto.RenderInvoiceRequest{Note: "PO 55"}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice-123-ASmithCo.pdf")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Solicitudes de factura
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceRequests_ListaPaginada(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	env.configure(t, token)

	resp := env.do(t, http.MethodGet, "/api/invoice-requests/open?page=3", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.InvoiceRequestListResponse](t, resp)

	assert.Equal(t, "open", out.Status)
	assert.Equal(t, 25, out.Total)
	assert.Equal(t, 3, out.Page)
	assert.Equal(t, 3, out.TotalPages)
	assert.Len(t, out.Requests, 5)
	assert.Equal(t, 21, out.From)
	assert.Equal(t, 25, out.To)
	assert.Equal(t, "https://sellers.takealot.com/sales/invoice/21", out.Requests[0].SellerURL)
}

func TestInvoiceRequests_EstadoInvalido_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	env.configure(t, token)

	resp := env.do(t, http.MethodGet, "/api/invoice-requests/pending", nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvoiceRequests_Report(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	env.configure(t, token)

	resp := env.do(t, http.MethodGet, "/api/invoice-requests/closed/report", nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice-requests-closed.pdf")
}

func TestUpload_RegeneraYSube(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	env.configure(t, token)

	resp := env.do(t, http.MethodPost, "/api/invoice-requests/123/upload", dto.RenderInvoiceRequest{Note: "nota"}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.UploadResponse](t, resp)
	assert.True(t, out.Uploaded)
	assert.Equal(t, int64(123), out.RequestID)

	require.Len(t, env.seller.uploaded, 1)
	assert.True(t, bytes.HasPrefix(env.seller.uploaded[0], []byte("%PDF-")))
}

func TestUpload_RequestIDInvalido_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	resp := env.do(t, http.MethodPost, "/api/invoice-requests/abc/upload", nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload_Rechazado_Retorna502ConMotivo(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	env.configure(t, token)
	env.seller.uploadErr = &domain.UploadError{Reason: "Invoice already uploaded", Status: 400}

	resp := env.do(t, http.MethodPost, "/api/invoice-requests/123/upload", nil, token)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, resp)
	assert.True(t, strings.Contains(out.Message, "Invoice already uploaded"))
}
