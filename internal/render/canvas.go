package render

import (
	"github.com/go-pdf/fpdf"

	"loadplan/internal/layout"
)

const fontFamily = "plan"

// pdfCanvas adapts an fpdf document to layout.Canvas. Measuring uses the
// same registered UTF-8 fonts that drawing uses.
type pdfCanvas struct {
	pdf  *fpdf.Fpdf
	face layout.Face
	size float64
}

func newPDFCanvas(pdf *fpdf.Fpdf) *pdfCanvas {
	return &pdfCanvas{pdf: pdf, size: -1}
}

func fontStyle(face layout.Face) string {
	if face == layout.Bold {
		return "B"
	}
	return ""
}

func (c *pdfCanvas) SetFont(face layout.Face, size float64) {
	c.face, c.size = face, size
	c.pdf.SetFont(fontFamily, fontStyle(face), size)
}

func (c *pdfCanvas) StringWidth(face layout.Face, size float64, s string) float64 {
	if face == c.face && size == c.size {
		return c.pdf.GetStringWidth(s)
	}
	prevFace, prevSize := c.face, c.size
	c.pdf.SetFont(fontFamily, fontStyle(face), size)
	w := c.pdf.GetStringWidth(s)
	if prevSize > 0 {
		c.pdf.SetFont(fontFamily, fontStyle(prevFace), prevSize)
	}
	return w
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, s)
}

func (c *pdfCanvas) setGrey() {
	c.pdf.SetTextColor(128, 128, 128)
}

func (c *pdfCanvas) setBlack() {
	c.pdf.SetTextColor(0, 0, 0)
}
