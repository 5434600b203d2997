package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/takealot-invoicer/internal/application/ports"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
)

// Verificar en tiempo de compilación que RequestsReport implementa RequestsReportGenerator.
var _ ports.RequestsReportGenerator = (*RequestsReport)(nil)

var (
	reportColorGray  = &props.Color{Red: 89, Green: 89, Blue: 89}
	reportColorZebra = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// RequestsReport listado PDF de solicitudes de factura usando Maroto v2.
// A diferencia de la factura, pagina sola cuando hay muchas filas.
type RequestsReport struct{}

// NewRequestsReport construye el generador.
func NewRequestsReport() *RequestsReport { return &RequestsReport{} }

// GenerateRequestsReport genera el listado de todas las solicitudes obtenidas.
func (g *RequestsReport) GenerateRequestsReport(
	status entity.RequestStatus,
	page *entity.InvoiceRequestsPage,
	profile entity.SenderProfile,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(20).WithRightMargin(20).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice requests", true).
		WithAuthor(profile.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	var requests []entity.InvoiceRequest
	total := 0
	if page != nil {
		requests = page.Requests
		total = page.Total()
	}

	m.AddRows(reportHeaderRow(status, profile, len(requests), total))
	m.AddRows(line.NewRow(1, props.Line{Thickness: 0.5}))
	m.AddRows(reportTableHeaderRow())
	m.AddRows(reportDetailRows(requests)...)
	m.AddRows(line.NewRow(1, props.Line{Color: reportColorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Generated by "+profile.CompanyName+" Invoice System", props.Text{
			Size: 7, Color: reportColorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar listado: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func reportHeaderRow(status entity.RequestStatus, profile entity.SenderProfile, shown, total int) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(profile.CompanyName, props.Text{Style: fontstyle.Bold, Size: 13, Top: 1}),
			text.New(profile.TradingName, props.Text{Size: 9, Top: 9, Color: reportColorGray}),
		),
		col.New(5).Add(
			text.New("INVOICE REQUESTS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
			}),
			text.New(statusLabel(status), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("Showing %d of %d", shown, total), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: reportColorGray,
			}),
		),
	)
}

func reportTableHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Top: 2, Left: 1,
		}))
	}
	return row.New(8).Add(
		h("Request ID", 2),
		h("Context ID", 2),
		h("Created", 4),
		h("Closed", 4),
	)
}

func reportDetailRows(requests []entity.InvoiceRequest) []core.Row {
	rows := make([]core.Row, 0, len(requests))
	cell := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Top: 1, Left: 1}))
	}
	for i, r := range requests {
		rw := row.New(7).Add(
			cell(strconv.FormatInt(r.RequestID, 10), 2),
			cell(strconv.FormatInt(r.ContextID, 10), 2),
			cell(r.CreatedAt, 4),
			cell(nonEmpty(r.ClosedAt, "-"), 4),
		)
		if i%2 == 0 {
			rw = rw.WithStyle(&props.Cell{BackgroundColor: reportColorZebra})
		}
		rows = append(rows, rw)
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(s entity.RequestStatus) string {
	if s == entity.RequestStatusClosed {
		return "Closed"
	}
	return "Open"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
