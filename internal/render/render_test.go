package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"loadplan/internal/config"
	"loadplan/internal/domain"
	"loadplan/internal/layout"
)

var fixedNow = time.Date(2025, 12, 20, 9, 15, 0, 0, time.UTC)

func testAssets(t *testing.T) *Assets {
	t.Helper()
	a, err := NewAssets(goregular.TTF, gobold.TTF)
	require.NoError(t, err)
	return a
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleRequest() domain.DocumentRequest {
	return domain.DocumentRequest{
		CustomerName: "Şişli Gıda A.Ş.",
		QueueNo:      "17",
		ProductType:  "Un (50 kg çuval)",
		LoadDate:     "2025-12-26",
		TimeSlot:     "08:00-12:00",
	}
}

func pageCount(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func TestRender_ProducesSinglePagePDF(t *testing.T) {
	c := NewComposer(testAssets(t), WithClock(func() time.Time { return fixedNow }))

	doc, err := c.Render(sampleRequest())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
	assert.Contains(t, string(doc.Data), "%%EOF")
	assert.Equal(t, 1, pageCount(doc.Data))
	assert.Equal(t, "Yukleme_Plani_Şişli_Gıda_AŞ_17.pdf", doc.FileName)
}

func TestRender_IsDeterministicForFixedClock(t *testing.T) {
	c := NewComposer(testAssets(t), WithClock(func() time.Time { return fixedNow }))

	first, err := c.Render(sampleRequest())
	require.NoError(t, err)
	second, err := c.Render(sampleRequest())
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first.Data, second.Data), "renders with the same input and clock differ")
}

func TestRender_TimestampFollowsClock(t *testing.T) {
	a := testAssets(t)
	early, err := NewComposer(a, WithClock(func() time.Time { return fixedNow })).Render(sampleRequest())
	require.NoError(t, err)
	late, err := NewComposer(a, WithClock(func() time.Time { return fixedNow.Add(time.Hour) })).Render(sampleRequest())
	require.NoError(t, err)

	assert.False(t, bytes.Equal(early.Data, late.Data))
}

func TestRender_WithoutLogo(t *testing.T) {
	doc, err := NewComposer(testAssets(t)).Render(sampleRequest())
	require.NoError(t, err)
	assert.NotContains(t, string(doc.Data), "/Subtype /Image")
	assert.Equal(t, 1, pageCount(doc.Data))
}

func TestRender_WithLogo(t *testing.T) {
	a := testAssets(t)
	require.NoError(t, a.SetLogo(testPNG(t), "png"))

	doc, err := NewComposer(a).Render(sampleRequest())
	require.NoError(t, err)
	assert.Contains(t, string(doc.Data), "/Subtype /Image")
}

func TestRender_BrokenLogoIsSkipped(t *testing.T) {
	a := testAssets(t)
	a.Logo, a.LogoType = []byte("not an image"), "png"

	doc, err := NewComposer(a).Render(sampleRequest())
	require.NoError(t, err)
	assert.NotContains(t, string(doc.Data), "/Subtype /Image")
	assert.Equal(t, 1, pageCount(doc.Data))
}

func TestRender_UnparseableDateStillRenders(t *testing.T) {
	req := sampleRequest()
	req.LoadDate = "not-a-date"

	_, err := NewComposer(testAssets(t)).Render(req)
	require.NoError(t, err)
}

func TestRender_OverflowingNotesFail(t *testing.T) {
	small := layout.A4
	small.PageHeight = 160

	doc, err := NewComposer(testAssets(t), WithLayout(small)).Render(sampleRequest())
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRender))
}

func TestRender_BadFontBytesFail(t *testing.T) {
	a := &Assets{Regular: []byte("nope"), Bold: gobold.TTF}

	doc, err := NewComposer(a).Render(sampleRequest())
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, domain.ErrRender))
}

func TestRender_Concurrent(t *testing.T) {
	c := NewComposer(testAssets(t), WithClock(func() time.Time { return fixedNow }))
	want, err := c.Render(sampleRequest())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := c.Render(sampleRequest())
			if err == nil {
				results[i] = doc.Data
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.True(t, bytes.Equal(want.Data, got))
	}
}

func TestRows(t *testing.T) {
	req := sampleRequest()
	req.TimeSlot = ""
	req.CustomerName = "  Acme  "

	rows := Rows(req)
	require.Len(t, rows, len(InfoRows))
	assert.Equal(t, Row{Label: "MÜŞTERİ ADI", Value: "Acme"}, rows[0])
	assert.Equal(t, Row{Label: "TARİH", Value: "26.12.2025"}, rows[3])
	assert.Equal(t, Row{Label: "SAAT ARALIĞI", Value: ""}, rows[4])

	req.LoadDate = "not-a-date"
	assert.Equal(t, "not-a-date", Rows(req)[3].Value)
}

func TestPDFCanvas_WrapStaysWithinWidth(t *testing.T) {
	a := testAssets(t)
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", a.Regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", a.Bold)
	pdf.AddPage()
	cv := newPDFCanvas(pdf)
	cv.SetFont(layout.Bold, 18)

	const maxWidth = 60.0
	for _, note := range Notes {
		lines := layout.Wrap(cv, layout.Regular, 9.5, maxWidth, note)
		require.NotEmpty(t, lines)
		var words []string
		for _, line := range lines {
			w := cv.StringWidth(layout.Regular, 9.5, line)
			if len(strings.Fields(line)) > 1 {
				assert.LessOrEqual(t, w, maxWidth, "line %q", line)
			}
			words = append(words, strings.Fields(line)...)
		}
		assert.Equal(t, strings.Fields(note), words)
	}

	// Measuring another face leaves the current one in place.
	assert.Equal(t, cv.StringWidth(layout.Bold, 18, "YÜKLEME"), pdf.GetStringWidth("YÜKLEME"))
	require.NoError(t, pdf.Error())
}

func TestPDFCanvas_BoldIsWider(t *testing.T) {
	a := testAssets(t)
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", a.Regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", a.Bold)
	cv := newPDFCanvas(pdf)

	regular := cv.StringWidth(layout.Regular, 11, "MÜŞTERİ ADI")
	bold := cv.StringWidth(layout.Bold, 11, "MÜŞTERİ ADI")
	assert.Greater(t, regular, 0.0)
	assert.Greater(t, bold, regular)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestLoadAssets(t *testing.T) {
	regular := writeFile(t, "r.ttf", goregular.TTF)
	bold := writeFile(t, "b.ttf", gobold.TTF)
	logo := writeFile(t, "logo.png", testPNG(t))

	a, err := LoadAssets(config.AssetsConfig{FontRegular: regular, FontBold: bold, Logo: logo})
	require.NoError(t, err)
	assert.Equal(t, "png", a.LogoType)
	assert.NotEmpty(t, a.Logo)
}

func TestLoadAssets_MissingLogoDegrades(t *testing.T) {
	regular := writeFile(t, "r.ttf", goregular.TTF)
	bold := writeFile(t, "b.ttf", gobold.TTF)

	a, err := LoadAssets(config.AssetsConfig{FontRegular: regular, FontBold: bold, Logo: "/no/such/logo.png"})
	require.NoError(t, err)
	assert.Nil(t, a.Logo)

	broken := writeFile(t, "logo.png", []byte("garbage"))
	a, err = LoadAssets(config.AssetsConfig{FontRegular: regular, FontBold: bold, Logo: broken})
	require.NoError(t, err)
	assert.Nil(t, a.Logo)
}

func TestLoadAssets_FontErrors(t *testing.T) {
	regular := writeFile(t, "r.ttf", goregular.TTF)
	junk := writeFile(t, "junk.ttf", []byte("not a font"))

	_, err := LoadAssets(config.AssetsConfig{FontRegular: regular, FontBold: "/missing/bold.ttf"})
	assert.Error(t, err)

	_, err = LoadAssets(config.AssetsConfig{FontRegular: junk, FontBold: regular})
	assert.Error(t, err)
}

func TestSetLogo_RejectsUnsupportedType(t *testing.T) {
	a := testAssets(t)
	assert.Error(t, a.SetLogo(testPNG(t), "bmp"))
	assert.Nil(t, a.Logo)
}
