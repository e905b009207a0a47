// Package layout places text on a fixed-size page. It knows nothing about
// PDF: drawing and measuring go through the Canvas and Measurer interfaces,
// which the renderer implements on top of the real font metrics.
package layout

// Face selects one of the registered font faces.
type Face int

const (
	Regular Face = iota
	Bold
)

func (f Face) String() string {
	if f == Bold {
		return "bold"
	}
	return "regular"
}

// Measurer returns the width of s set in face at size (points), in page
// units.
type Measurer interface {
	StringWidth(face Face, size float64, s string) float64
}

// Canvas is the drawing surface used by the layout routines. Coordinates are
// page units from the top-left corner; y is the text baseline.
type Canvas interface {
	Measurer
	SetFont(face Face, size float64)
	Text(x, y float64, s string)
}

// PageLayout holds the fixed geometry of the loading plan page. All lengths
// are millimetres, font sizes are points.
type PageLayout struct {
	PageWidth, PageHeight float64
	Margin                float64

	TitleY    float64
	TitleSize float64

	LogoHeight float64

	TimestampY    float64
	TimestampSize float64

	BoxTop    float64
	BoxHeight float64
	BoxRadius float64

	RowInset   float64
	FirstRowY  float64
	RowStep    float64
	LabelWidth float64
	RowSize    float64

	NotesGap      float64
	NotesHeadSize float64
	NotesHeadGap  float64
	NotesSize     float64
	NotesLeading  float64
	BulletIndent  float64
	TextIndent    float64
	ParagraphGap  float64

	FooterOffset float64
	FooterSize   float64
}

// BoxWidth spans the page between the side margins.
func (p PageLayout) BoxWidth() float64 {
	return p.PageWidth - 2*p.Margin
}

// A4 is the portrait A4 loading plan layout.
var A4 = PageLayout{
	PageWidth:  210,
	PageHeight: 297,
	Margin:     25,

	TitleY:    25,
	TitleSize: 18,

	LogoHeight: 12,

	TimestampY:    32,
	TimestampSize: 10,

	BoxTop:    45,
	BoxHeight: 75,
	BoxRadius: 8 * PointMM,

	RowInset:   10,
	FirstRowY:  15,
	RowStep:    12,
	LabelWidth: 42,
	RowSize:    11,

	NotesGap:      12,
	NotesHeadSize: 12,
	NotesHeadGap:  8,
	NotesSize:     9.5,
	NotesLeading:  5,
	BulletIndent:  2,
	TextIndent:    6,
	ParagraphGap:  2,

	FooterOffset: 18,
	FooterSize:   9,
}

// PointMM is the length of one typographic point in millimetres.
const PointMM = 25.4 / 72
