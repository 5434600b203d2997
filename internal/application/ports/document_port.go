package ports

import "github.com/jhoicas/takealot-invoicer/internal/domain/entity"

// InvoicePDFBuilder genera el PDF de una factura (una sola página).
type InvoicePDFBuilder interface {
	Build(data *entity.InvoiceData, note string, profile entity.SenderProfile) (*entity.RenderedDocument, error)
}

// RequestsReportGenerator genera el listado PDF de solicitudes de factura.
type RequestsReportGenerator interface {
	GenerateRequestsReport(status entity.RequestStatus, page *entity.InvoiceRequestsPage, profile entity.SenderProfile) ([]byte, error)
}

// DocumentSaver guarda una copia local del PDF generado y devuelve la ruta escrita.
type DocumentSaver interface {
	Save(doc *entity.RenderedDocument) (string, error)
}
