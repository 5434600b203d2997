package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RenderedDocument PDF generado para una combinación factura + nota + perfil.
// Es un valor efímero: quien lo necesita (descarga, subida) lo recibe explícitamente.
type RenderedDocument struct {
	OrderNumber int64
	Filename    string
	Bytes       []byte
	Subtotal    decimal.Decimal
	InvoiceDate string // fecha tal como quedó impresa
}

// Acciones registradas sobre una factura.
const (
	DocumentActionViewed     = "viewed"
	DocumentActionDownloaded = "downloaded"
	DocumentActionUploaded   = "uploaded"
)

// DocumentEvent registro de actividad de un usuario sobre una factura.
type DocumentEvent struct {
	ID          string
	UserID      string
	OrderNumber int64
	RequestID   *int64
	Action      string
	Filename    string
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
}
