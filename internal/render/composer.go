package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"loadplan/internal/domain"
	log "loadplan/internal/infra/logging"
	"loadplan/internal/layout"
)

// Composer draws loading plans. It is safe for concurrent use: every call to
// Render works on its own document.
type Composer struct {
	assets *Assets
	page   layout.PageLayout
	now    func() time.Time
	loc    *time.Location
}

// Option customises a Composer.
type Option func(*Composer)

// WithClock replaces time.Now as the source of the generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// WithLocation sets the zone the generation timestamp is printed in.
func WithLocation(loc *time.Location) Option {
	return func(c *Composer) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithLayout overrides the page geometry.
func WithLayout(p layout.PageLayout) Option {
	return func(c *Composer) { c.page = p }
}

func NewComposer(assets *Assets, opts ...Option) *Composer {
	c := &Composer{
		assets: assets,
		page:   layout.A4,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render produces the single-page loading plan for req. A failure anywhere
// in drawing discards the document and returns an error wrapping
// domain.ErrRender.
func (c *Composer) Render(req domain.DocumentRequest) (doc *domain.RenderedDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: panic: %v", domain.ErrRender, r)
		}
	}()

	now := c.now().In(c.loc)
	p := c.page

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: p.PageWidth, Ht: p.PageHeight},
	})
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle(docTitle, true)
	pdf.SetCreator("loadplan", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(fontFamily, "", c.assets.Regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", c.assets.Bold)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: fonts: %v", domain.ErrRender, err)
	}
	pdf.AddPage()

	cv := newPDFCanvas(pdf)

	cv.SetFont(layout.Bold, p.TitleSize)
	cv.Text(p.Margin, p.TitleY, headerTitle)

	c.drawLogo(pdf)

	cv.SetFont(layout.Regular, p.TimestampSize)
	cv.setGrey()
	cv.Text(p.Margin, p.TimestampY, timestampLabel+domain.FormatTimestamp(now))
	cv.setBlack()

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(layout.PointMM)
	pdf.RoundedRect(p.Margin, p.BoxTop, p.BoxWidth(), p.BoxHeight, p.BoxRadius, "1234", "D")

	labelX := p.Margin + p.RowInset
	valueX := labelX + p.LabelWidth
	y := p.BoxTop + p.FirstRowY
	for _, row := range Rows(req) {
		cv.SetFont(layout.Bold, p.RowSize)
		cv.Text(labelX, y, row.Label+":")
		cv.SetFont(layout.Regular, p.RowSize)
		cv.Text(valueX, y, row.Value)
		y += p.RowStep
	}

	y = p.BoxTop + p.BoxHeight + p.NotesGap
	cv.SetFont(layout.Bold, p.NotesHeadSize)
	cv.Text(p.Margin, y, notesHeading)
	end := layout.DrawBullets(cv, p.Margin, y+p.NotesHeadGap, p.BoxWidth(), Notes, p.Bullets())
	if footerY := p.PageHeight - p.FooterOffset; end > footerY {
		return nil, fmt.Errorf("%w: notes end at %.1fmm, past the footer at %.1fmm", domain.ErrRender, end, footerY)
	}

	cv.SetFont(layout.Regular, p.FooterSize)
	cv.setGrey()
	cv.Text(p.Margin, p.PageHeight-p.FooterOffset, footerNote)
	cv.setBlack()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	return &domain.RenderedDocument{
		Data:     buf.Bytes(),
		FileName: domain.FileName(req),
	}, nil
}

// drawLogo places the logo flush with the right margin, its bottom edge on
// the title baseline. Errors are logged and cleared so the page still
// renders.
func (c *Composer) drawLogo(pdf *fpdf.Fpdf) {
	if c.assets.Logo == nil {
		return
	}
	p := c.page
	opts := fpdf.ImageOptions{ImageType: c.assets.LogoType}
	info := pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(c.assets.Logo))
	if !pdf.Ok() || info == nil || info.Height() <= 0 {
		log.Warn("Skipping logo", "error", pdf.Error())
		pdf.ClearError()
		return
	}
	h := p.LogoHeight
	w := h * info.Width() / info.Height()
	pdf.ImageOptions("logo", p.PageWidth-p.Margin-w, p.TitleY-h, w, h, false, opts, 0, "")
	if !pdf.Ok() {
		log.Warn("Skipping logo", "error", pdf.Error())
		pdf.ClearError()
	}
}
