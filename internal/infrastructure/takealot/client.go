// Package takealot implementa el cliente de la API de vendedores de Takealot.
//
// Todas las llamadas pasan por un relay CORS: la URL final es RelayURL + BaseURL + ruta,
// y el relay exige su propio header de acceso (x-cors-api-key).
package takealot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jhoicas/takealot-invoicer/internal/application/ports"
	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/credential"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa SellerAPI.
var _ ports.SellerAPI = (*Client)(nil)

const (
	// RequestsPageSize tamaño fijo de la única página que se pide.
	RequestsPageSize = 100

	relayKeyHeader = "x-cors-api-key"
	maxBodyBytes   = 4 << 20 // 4 MB
)

// Config parámetros de conexión inyectados desde pkg/config.
type Config struct {
	BaseURL     string // https://seller-api.takealot.com/v2
	RelayURL    string // https://proxy.cors.sh/ (vacío = sin relay)
	RelayAPIKey string
}

// Client adaptador HTTP de la API de Takealot.
// Usa net/http de la stdlib; sin reintentos ni timeout propio (manda el contexto del caller).
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient construye el cliente. Si httpClient es nil se usa un http.Client por defecto.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// endpoint arma la URL relay + base + ruta.
func (c *Client) endpoint(path string) string {
	return c.cfg.RelayURL + strings.TrimRight(c.cfg.BaseURL, "/") + path
}

// FetchInvoice GET /sales/customer_invoice_request/{invoiceNumber}.
func (c *Client) FetchInvoice(ctx context.Context, invoiceNumber, apiKey string) (*entity.InvoiceData, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, &domain.FetchError{Resource: "invoice", Err: domain.ErrInvalidInput}
	}

	var out entity.InvoiceData
	path := "/sales/customer_invoice_request/" + url.PathEscape(invoiceNumber)
	if err := c.getJSON(ctx, path, apiKey, &out); err != nil {
		err.Resource = "invoice"
		return nil, err
	}
	return &out, nil
}

// FetchInvoiceRequests GET /communication/customer_invoice_requests/{status}?page_size=100&page_number=1.
func (c *Client) FetchInvoiceRequests(ctx context.Context, status entity.RequestStatus, apiKey string) (*entity.InvoiceRequestsPage, error) {
	if _, ok := entity.ParseRequestStatus(string(status)); !ok {
		return nil, &domain.FetchError{
			Resource: "invoice_requests",
			Err:      fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status),
		}
	}

	q := url.Values{}
	q.Set("page_size", strconv.Itoa(RequestsPageSize))
	q.Set("page_number", "1")
	path := "/communication/customer_invoice_requests/" + string(status) + "?" + q.Encode()

	var out entity.InvoiceRequestsPage
	if err := c.getJSON(ctx, path, apiKey, &out); err != nil {
		err.Resource = "invoice_requests"
		return nil, err
	}
	if out.Requests == nil {
		out.Requests = []entity.InvoiceRequest{}
	}
	return &out, nil
}

// getJSON ejecuta el GET y decodifica el cuerpo. Cualquier falla queda envuelta en FetchError.
func (c *Client) getJSON(ctx context.Context, path, apiKey string, dst interface{}) *domain.FetchError {
	auth := credential.AuthorizationHeader(apiKey)
	if auth == "" {
		return &domain.FetchError{Err: domain.ErrMissingCredential}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return &domain.FetchError{Err: fmt.Errorf("takealot: crear request: %w", err)}
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	c.setRelayHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &domain.FetchError{Err: fmt.Errorf("takealot: timeout o cancelación: %w", ctx.Err())}
		}
		return &domain.FetchError{Err: fmt.Errorf("takealot: llamada HTTP fallida: %w", err)}
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.FetchError{Status: resp.StatusCode, Err: fmt.Errorf("takealot: leer respuesta: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.FetchError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("takealot: HTTP %d: %s", resp.StatusCode, truncate(string(rawBody), 512)),
		}
	}

	if err := json.Unmarshal(rawBody, dst); err != nil {
		return &domain.FetchError{Status: resp.StatusCode, Err: fmt.Errorf("takealot: deserializar respuesta: %w", err)}
	}
	return nil
}

func (c *Client) setRelayHeader(req *http.Request) {
	if c.cfg.RelayAPIKey != "" {
		req.Header.Set(relayKeyHeader, c.cfg.RelayAPIKey)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
