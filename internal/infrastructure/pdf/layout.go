package pdf

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
)

// Layout de la página A4 (mm), cursor vertical fijo y sin salto de página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: banda negra 40 mm + franja gris 6 mm               │
//	│  Empresa + nombre comercial  │  REG NO + dirección (der.)   │
//	│  Customer Invoice ──────────                                 │
//	│  BILLED TO (cliente, empresa, IVA, notas) │ INVOICE DETAILS  │
//	│  TABLA: Description | Qty | Unit Price | Total (cebra)       │
//	│  TOTALES: Subtotal / VAT / TOTAL (caja redondeada)           │
//	│  FOOTER: Generated by ... │ Page 1 of 1                      │
//	└─────────────────────────────────────────────────────────────┘

// ── Paleta de colores ─────────────────────────────────────────────────────────

type rgb struct{ r, g, b int }

var (
	colorPrimary   = rgb{0, 0, 0}
	colorSecondary = rgb{128, 128, 128}
	colorTextDark  = rgb{0, 0, 0}
	colorTextGray  = rgb{89, 89, 89}
	colorTextLight = rgb{255, 255, 255}
	colorBgLight   = rgb{250, 250, 250}
	colorBgZebra   = rgb{245, 245, 245}
	colorRule      = rgb{230, 230, 240}
)

const (
	pageMargin = 20.0
	ptToMM     = 25.4 / 72

	billingWrapWidth     = 90.0
	descriptionWrapWidth = 100.0
	blockLineHeight      = 1.5
)

// canvas primitivas de dibujo en coordenadas de página (mm, origen arriba a la izquierda).
// Text dibuja sobre la línea base, igual que el resto de coordenadas del layout.
type canvas interface {
	PageSize() (w, h float64)
	SetFontSize(pt float64)
	SetTextColor(c rgb)
	SetFillColor(c rgb)
	SetDrawColor(c rgb)
	SetLineWidth(w float64)
	FillRect(x, y, w, h float64)
	FillRoundedRect(x, y, w, h, r float64)
	Line(x1, y1, x2, y2 float64)
	Text(x, y float64, s string)
	TextRight(x, y float64, s string)
	StringWidth(s string) float64
}

// invoiceView textos ya resueltos para una factura (fecha y dinero formateados).
type invoiceView struct {
	data     *entity.InvoiceData
	note     string
	profile  entity.SenderProfile
	date     string
	subtotal decimal.Decimal
}

// layoutInvoice dibuja la factura completa sobre c. Devuelve la Y final del cursor.
func layoutInvoice(c canvas, v invoiceView) float64 {
	y := drawHeader(c, v.profile)
	y = drawTitle(c, pageMargin, y)
	y = drawBilling(c, pageMargin, y, v)
	y = drawItems(c, pageMargin, y, v.data.InvoiceItems)
	y = drawTotals(c, pageMargin, y, v.subtotal)
	drawFooter(c, v.profile.CompanyName)
	return y
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func drawHeader(c canvas, profile entity.SenderProfile) float64 {
	pw, _ := c.PageSize()

	c.SetFillColor(colorPrimary)
	c.FillRect(0, 0, pw, 40)
	c.SetFillColor(colorSecondary)
	c.FillRect(0, 0, pw, 6)

	c.SetTextColor(colorTextLight)
	c.SetFontSize(22)
	c.Text(pageMargin, 20, profile.CompanyName)
	c.SetFontSize(11)
	c.Text(pageMargin, 30, profile.TradingName)

	c.SetTextColor(colorTextGray)
	c.SetFontSize(9)
	details := append([]string{"REG NO: " + profile.RegistrationNumber}, splitLines(profile.Address)...)
	textBlock(c, pw-pageMargin, 20, 9, details, true)

	return 60
}

func drawTitle(c canvas, x, y float64) float64 {
	c.SetTextColor(colorPrimary)
	c.SetFontSize(18)
	c.Text(x, y, "Customer Invoice")
	c.SetDrawColor(colorPrimary)
	c.SetLineWidth(0.5)
	c.Line(x, y+3, x+85, y+3)
	return y + 20
}

func drawBilling(c canvas, x, y float64, v invoiceView) float64 {
	pw, _ := c.PageSize()
	rightX := pw - 80

	c.SetFontSize(11)
	c.SetTextColor(colorTextGray)
	c.Text(x, y, "BILLED TO")

	c.SetTextColor(colorTextDark)
	c.SetFontSize(9)

	cur := y + 12
	for _, line := range wrapText(c, v.data.CustomerName, billingWrapWidth) {
		c.Text(x, cur, line)
		cur += 5
	}
	cur += 3

	for _, line := range wrapText(c, v.data.BusinessName, billingWrapWidth) {
		c.Text(x, cur, line)
		cur += 5
	}
	cur += 3

	if v.data.VATNumber != "" {
		c.Text(x, cur, v.data.VATNumber)
		cur += 10
	}

	if v.note != "" {
		cur = drawLabelledSection(c, x, cur, "Invoices to/notes:", v.note)
	}
	if v.data.CustomerMessage != "" {
		if v.note != "" {
			cur += 3
		}
		cur = drawLabelledSection(c, x, cur, "Customer message:", v.data.CustomerMessage)
	}

	c.SetTextColor(colorTextGray)
	c.SetFontSize(11)
	c.Text(rightX, y, "INVOICE DETAILS")

	c.SetTextColor(colorTextDark)
	c.SetFontSize(9)
	textBlock(c, rightX, y+12, 9, []string{
		"Invoice Number: #" + strconv.FormatInt(v.data.OrderNumber, 10),
		"Date: " + v.date,
	}, false)

	return cur + 15
}

// drawLabelledSection etiqueta gris de 11pt y el cuerpo envuelto a 90 mm, 5 mm por línea.
func drawLabelledSection(c canvas, x, y float64, label, body string) float64 {
	c.SetTextColor(colorTextGray)
	c.SetFontSize(11)
	c.Text(x, y, label)

	c.SetTextColor(colorTextDark)
	c.SetFontSize(9)
	y += 8
	for _, line := range wrapText(c, body, billingWrapWidth) {
		c.Text(x, y, line)
		y += 5
	}
	return y
}

func drawItems(c canvas, x, y float64, items []entity.InvoiceItem) float64 {
	pw, _ := c.PageSize()
	tableWidth := pw - x*2

	c.SetFillColor(colorBgLight)
	c.FillRect(x, y, tableWidth, 10)

	c.SetTextColor(colorPrimary)
	c.SetFontSize(9)
	c.Text(x+5, y+7, "Description")
	c.Text(pw-85, y+7, "Qty")
	c.Text(pw-60, y+7, "Unit Price")
	c.Text(pw-35, y+7, "Total")

	cur := y + 15
	c.SetTextColor(colorTextDark)

	for i, it := range items {
		if i%2 == 0 {
			c.SetFillColor(colorBgZebra)
			c.FillRect(x, cur-4, tableWidth, 12)
		}

		lines := wrapText(c, it.Description, descriptionWrapWidth)
		for j, line := range lines {
			c.Text(x+5, cur+float64(j)*4, line)
		}

		c.Text(pw-85, cur, strconv.Itoa(it.Quantity))
		c.Text(pw-60, cur, FormatCurrency(it.UnitPrice))
		c.Text(pw-35, cur, FormatCurrency(it.Total))

		cur += rowAdvance(len(lines))
	}

	return cur + 5
}

// rowAdvance alto de una fila de la tabla: 4 mm por línea + 4, mínimo 12.
func rowAdvance(lines int) float64 {
	h := float64(lines*4 + 4)
	if h < 12 {
		return 12
	}
	return h
}

func drawTotals(c canvas, x, y float64, subtotal decimal.Decimal) float64 {
	pw, _ := c.PageSize()
	total := FormatCurrency(subtotal)

	c.SetDrawColor(colorRule)
	c.SetLineWidth(0.5)
	c.Line(pw-100, y, pw-x, y)

	y += 10
	c.SetTextColor(colorTextGray)
	c.SetFontSize(9)
	c.Text(pw-100, y, "Subtotal:")
	c.SetTextColor(colorTextDark)
	c.TextRight(pw-35, y, total)

	y += 8
	c.SetTextColor(colorTextGray)
	c.Text(pw-100, y, "VAT:")
	c.SetTextColor(colorTextDark)
	c.TextRight(pw-35, y, "0% VAT")

	y += 12
	c.SetFillColor(colorPrimary)
	c.FillRoundedRect(pw-100, y-5, 80, 18, 2)

	c.SetTextColor(colorTextLight)
	c.SetFontSize(10)
	c.Text(pw-95, y+5, "TOTAL:")
	c.TextRight(pw-25, y+5, total)

	return y + 20
}

func drawFooter(c canvas, companyName string) {
	pw, ph := c.PageSize()
	footerY := ph - 15

	c.SetTextColor(colorTextGray)
	c.SetFontSize(8)
	c.Text(pageMargin, footerY, "Generated by "+companyName+" Invoice System")
	c.TextRight(pw-pageMargin, footerY, "Page 1 of 1")
}

// ── helpers ───────────────────────────────────────────────────────────────────

// textBlock dibuja varias líneas con interlineado fontSize × 1.5 (pt → mm).
func textBlock(c canvas, x, y, fontSize float64, lines []string, alignRight bool) {
	step := fontSize * blockLineHeight * ptToMM
	for i, line := range lines {
		ly := y + float64(i)*step
		if alignRight {
			c.TextRight(x, ly, line)
		} else {
			c.Text(x, ly, line)
		}
	}
}

// splitLines separa por saltos de línea aceptando \r\n.
func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// wrapText parte s en líneas que caben en width según la fuente actual de c.
// Respeta los saltos de línea explícitos, corta por palabras y parte palabras
// más anchas que la columna. Un texto vacío produce una línea vacía.
func wrapText(c canvas, s string, width float64) []string {
	var out []string
	for _, para := range splitLines(s) {
		out = append(out, wrapParagraph(c, para, width)...)
	}
	return out
}

func wrapParagraph(c canvas, para string, width float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if c.StringWidth(candidate) <= width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		if c.StringWidth(w) <= width {
			line = w
			continue
		}
		// palabra más ancha que la columna: se corta por caracteres
		chunks := breakWord(c, w, width)
		lines = append(lines, chunks[:len(chunks)-1]...)
		line = chunks[len(chunks)-1]
	}
	return append(lines, line)
}

func breakWord(c canvas, w string, width float64) []string {
	var chunks []string
	cur := ""
	for _, r := range w {
		next := cur + string(r)
		if cur != "" && c.StringWidth(next) > width {
			chunks = append(chunks, cur)
			next = string(r)
		}
		cur = next
	}
	return append(chunks, cur)
}
