// Package pdf genera los documentos PDF del facturador: la factura de una sola
// página (gofpdf, layout por coordenadas) y el listado de solicitudes (Maroto v2).
package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zonas horarias embebidas para imágenes sin tzdata

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/takealot-invoicer/internal/application/ports"
	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
)

// Verificar en tiempo de compilación que InvoiceBuilder implementa InvoicePDFBuilder.
var _ ports.InvoicePDFBuilder = (*InvoiceBuilder)(nil)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)

// Config zona horaria y formato con los que se muestra la fecha de la factura.
type Config struct {
	TimeZone   string // ej. "Africa/Johannesburg"
	DateLayout string // layout de time.Format, ej. "2006/01/02"
}

// InvoiceBuilder construye el PDF de una factura. Es seguro para uso concurrente:
// cada Build crea su propio documento.
type InvoiceBuilder struct {
	loc        *time.Location
	dateLayout string
}

// NewInvoiceBuilder valida la zona horaria configurada.
func NewInvoiceBuilder(cfg Config) (*InvoiceBuilder, error) {
	tz := cfg.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("pdf: zona horaria %q: %w", tz, err)
	}
	layout := cfg.DateLayout
	if layout == "" {
		layout = "2006/01/02"
	}
	return &InvoiceBuilder{loc: loc, dateLayout: layout}, nil
}

// Build dibuja la factura y devuelve el documento. No hay validación de contenido:
// cadenas vacías se dibujan vacías y montos negativos se muestran negativos.
func (b *InvoiceBuilder) Build(data *entity.InvoiceData, note string, profile entity.SenderProfile) (*entity.RenderedDocument, error) {
	if data == nil {
		return nil, fmt.Errorf("pdf: %w: factura nula", domain.ErrInvalidInput)
	}

	subtotal := data.Subtotal()
	view := invoiceView{
		data:     data,
		note:     note,
		profile:  profile,
		date:     FormatInvoiceDate(data.InvoiceDate, b.loc, b.dateLayout),
		subtotal: subtotal,
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(fmt.Sprintf("Invoice #%d", data.OrderNumber), true)
	doc.SetAuthor(profile.CompanyName, true)
	doc.SetCreator(profile.CompanyName+" Invoice System", true)
	// Fechas internas fijas: misma entrada, mismos bytes.
	stamp, ok := parseEpoch(data.InvoiceDate)
	if !ok {
		stamp = time.Unix(0, 0).UTC()
	}
	doc.SetCreationDate(stamp)
	doc.SetModificationDate(stamp)
	doc.AddPage()
	doc.SetFont(fontFamily, "", 9)

	layoutInvoice(newGofpdfCanvas(doc), view)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}

	return &entity.RenderedDocument{
		OrderNumber: data.OrderNumber,
		Filename:    Filename(data.OrderNumber, data.CustomerName),
		Bytes:       buf.Bytes(),
		Subtotal:    subtotal,
		InvoiceDate: view.date,
	}, nil
}

// Filename invoice-<order>-<cliente solo con [A-Za-z0-9]>.pdf
// Ej: (123, "A. Smith & Co.") → "invoice-123-ASmithCo.pdf"
func Filename(orderNumber int64, customerName string) string {
	return fmt.Sprintf("invoice-%d-%s.pdf", orderNumber, nonAlphanumeric.ReplaceAllString(customerName, ""))
}

// FormatCurrency "R" + dos decimales. Ej: 49.995 → "R50.00", -5 → "R-5.00".
func FormatCurrency(d decimal.Decimal) string {
	return "R" + d.StringFixed(2)
}

// FormatInvoiceDate convierte los segundos Unix en texto a fecha calendario en loc.
// Si el valor no es un entero se devuelve tal cual.
func FormatInvoiceDate(raw string, loc *time.Location, layout string) string {
	ts, ok := parseEpoch(raw)
	if !ok {
		return raw
	}
	if loc == nil {
		loc = time.UTC
	}
	return ts.In(loc).Format(layout)
}

func parseEpoch(raw string) (time.Time, bool) {
	sec, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}
