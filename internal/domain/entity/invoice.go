package entity

import "github.com/shopspring/decimal"

// InvoiceItem línea de una factura tal como la devuelve Takealot.
// Total se respeta tal cual; no se recalcula como Quantity × UnitPrice.
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceData solicitud de factura de un cliente (una sola factura en vista previa).
// InvoiceDate contiene segundos Unix como texto, ej. "1700000000".
type InvoiceData struct {
	OrderNumber     int64         `json:"order_number"`
	CustomerName    string        `json:"customer_name"`
	BusinessName    string        `json:"business_name"`
	VATNumber       string        `json:"vat_number,omitempty"`
	InvoiceDate     string        `json:"invoice_date"`
	InvoiceItems    []InvoiceItem `json:"invoice_items"`
	CustomerMessage string        `json:"customer_message,omitempty"`
}

// Subtotal suma el campo Total de cada línea sin redondear las líneas individualmente.
func (d *InvoiceData) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range d.InvoiceItems {
		sum = sum.Add(it.Total)
	}
	return sum
}

// RequestStatus estado de las solicitudes de factura en Takealot.
type RequestStatus string

const (
	RequestStatusOpen   RequestStatus = "open"
	RequestStatusClosed RequestStatus = "closed"
)

// ParseRequestStatus valida el estado recibido por la API o la CLI.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch RequestStatus(s) {
	case RequestStatusOpen, RequestStatusClosed:
		return RequestStatus(s), true
	}
	return "", false
}

// InvoiceRequest fila del listado de solicitudes de factura (solo lectura).
type InvoiceRequest struct {
	RequestID int64  `json:"request_id"`
	ContextID int64  `json:"context_id"`
	CreatedAt string `json:"created_at"`
	ClosedAt  string `json:"closed_at,omitempty"`
}

// PageSummary resumen de paginación remoto.
type PageSummary struct {
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
}

// InvoiceRequestsPage primera (y única) página pedida a Takealot.
type InvoiceRequestsPage struct {
	Requests    []InvoiceRequest `json:"requests"`
	PageSummary PageSummary      `json:"page_summary"`
}

// Total devuelve el total informado por el resumen remoto.
func (p *InvoiceRequestsPage) Total() int { return p.PageSummary.Total }
