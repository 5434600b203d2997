package ports

import (
	"context"

	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
)

// SellerAPI define el puerto de salida hacia la API de vendedores de Takealot.
// Cualquier adaptador (HTTP vía relay, mock) debe implementar esta interfaz.
type SellerAPI interface {
	// FetchInvoice obtiene la solicitud de factura identificada por invoiceNumber.
	// Falla con *domain.FetchError.
	FetchInvoice(ctx context.Context, invoiceNumber, apiKey string) (*entity.InvoiceData, error)

	// FetchInvoiceRequests obtiene la página 1 (100 filas) de solicitudes en el estado dado.
	// Falla con *domain.FetchError.
	FetchInvoiceRequests(ctx context.Context, status entity.RequestStatus, apiKey string) (*entity.InvoiceRequestsPage, error)

	// UploadInvoice sube el PDF como adjunto de la solicitud requestID.
	// Falla con *domain.UploadError; sin PDF o sin key no hay llamada de red.
	UploadInvoice(ctx context.Context, requestID int64, pdf []byte, apiKey string) error
}
