package pdf

import (
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const fontFamily = "Helvetica"

// gofpdfCanvas implementa canvas sobre gofpdf.
// Las fuentes core de PDF usan cp1252: todo texto se traduce desde UTF-8 antes de
// medirlo o dibujarlo; los caracteres sin equivalente se reemplazan.
type gofpdfCanvas struct {
	pdf *gofpdf.Fpdf
	enc *encoding.Encoder
}

func newGofpdfCanvas(pdf *gofpdf.Fpdf) *gofpdfCanvas {
	return &gofpdfCanvas{
		pdf: pdf,
		enc: encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()),
	}
}

func (c *gofpdfCanvas) tr(s string) string {
	out, err := c.enc.String(s)
	if err != nil {
		return s
	}
	return out
}

func (c *gofpdfCanvas) PageSize() (float64, float64) { return c.pdf.GetPageSize() }

func (c *gofpdfCanvas) SetFontSize(pt float64) { c.pdf.SetFont(fontFamily, "", pt) }

func (c *gofpdfCanvas) SetTextColor(col rgb) { c.pdf.SetTextColor(col.r, col.g, col.b) }

func (c *gofpdfCanvas) SetFillColor(col rgb) { c.pdf.SetFillColor(col.r, col.g, col.b) }

func (c *gofpdfCanvas) SetDrawColor(col rgb) { c.pdf.SetDrawColor(col.r, col.g, col.b) }

func (c *gofpdfCanvas) SetLineWidth(w float64) { c.pdf.SetLineWidth(w) }

func (c *gofpdfCanvas) FillRect(x, y, w, h float64) { c.pdf.Rect(x, y, w, h, "F") }

func (c *gofpdfCanvas) FillRoundedRect(x, y, w, h, r float64) {
	c.pdf.RoundedRect(x, y, w, h, r, "1234", "F")
}

func (c *gofpdfCanvas) Line(x1, y1, x2, y2 float64) { c.pdf.Line(x1, y1, x2, y2) }

func (c *gofpdfCanvas) Text(x, y float64, s string) { c.pdf.Text(x, y, c.tr(s)) }

func (c *gofpdfCanvas) TextRight(x, y float64, s string) {
	t := c.tr(s)
	c.pdf.Text(x-c.pdf.GetStringWidth(t), y, t)
}

func (c *gofpdfCanvas) StringWidth(s string) float64 { return c.pdf.GetStringWidth(c.tr(s)) }
