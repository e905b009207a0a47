package layout

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monoCanvas measures every rune as size/10 units wide and records draws.
type monoCanvas struct {
	face  Face
	size  float64
	draws []draw
}

type draw struct {
	x, y float64
	s    string
	face Face
}

func (m *monoCanvas) StringWidth(face Face, size float64, s string) float64 {
	w := float64(utf8.RuneCountInString(s)) * size / 10
	if face == Bold {
		w *= 1.1
	}
	return w
}

func (m *monoCanvas) SetFont(face Face, size float64) {
	m.face, m.size = face, size
}

func (m *monoCanvas) Text(x, y float64, s string) {
	m.draws = append(m.draws, draw{x: x, y: y, s: s, face: m.face})
}

func TestWrap_GreedyFill(t *testing.T) {
	m := &monoCanvas{}
	// size 10 → one unit per rune.
	lines := Wrap(m, Regular, 10, 11, "aaa bbb ccc ddd eeeee")
	assert.Equal(t, []string{"aaa bbb ccc", "ddd eeeee"}, lines)
}

func TestWrap_ExactFitIsAccepted(t *testing.T) {
	m := &monoCanvas{}
	lines := Wrap(m, Regular, 10, 7, "abc def ghi")
	assert.Equal(t, []string{"abc def", "ghi"}, lines)
}

func TestWrap_OverlongWordStandsAlone(t *testing.T) {
	m := &monoCanvas{}
	lines := Wrap(m, Regular, 10, 5, "ab abcdefghij cd")
	assert.Equal(t, []string{"ab", "abcdefghij", "cd"}, lines)
}

func TestWrap_CollapsesWhitespace(t *testing.T) {
	m := &monoCanvas{}
	lines := Wrap(m, Regular, 10, 100, "  one\t two \n three  ")
	assert.Equal(t, []string{"one two three"}, lines)
}

func TestWrap_BlankInputYieldsNoLines(t *testing.T) {
	m := &monoCanvas{}
	assert.Empty(t, Wrap(m, Regular, 10, 100, ""))
	assert.Empty(t, Wrap(m, Regular, 10, 100, " \t\n "))
}

func TestWrap_UsesFaceMetrics(t *testing.T) {
	m := &monoCanvas{}
	// "abcd efgh" is 9 units regular, 9.9 bold.
	assert.Len(t, Wrap(m, Regular, 10, 9.5, "abcd efgh"), 1)
	assert.Len(t, Wrap(m, Bold, 10, 9.5, "abcd efgh"), 2)
}

func randomParagraph(r *rand.Rand) string {
	n := 1 + r.Intn(40)
	words := make([]string, n)
	for i := range words {
		words[i] = strings.Repeat(string(rune('a'+r.Intn(26))), 1+r.Intn(12))
	}
	return strings.Join(words, strings.Repeat(" ", 1+r.Intn(3)))
}

func TestWrap_Properties(t *testing.T) {
	m := &monoCanvas{}
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		text := randomParagraph(r)
		maxWidth := float64(4 + r.Intn(40))
		lines := Wrap(m, Regular, 10, maxWidth, text)
		require.NotEmpty(t, lines)

		for _, line := range lines {
			if m.StringWidth(Regular, 10, line) > maxWidth {
				assert.Len(t, strings.Fields(line), 1, "only a single word may overflow: %q", line)
			}
		}

		var got []string
		for _, line := range lines {
			got = append(got, strings.Fields(line)...)
		}
		assert.Equal(t, strings.Fields(text), got)
	}
}

func TestDrawBullets_Layout(t *testing.T) {
	m := &monoCanvas{}
	st := BulletStyle{Face: Regular, Size: 10, Leading: 5, BulletIndent: 2, TextIndent: 6, ParagraphGap: 1}

	// text width = 16 - 6 = 10 units
	y := DrawBullets(m, 20, 100, 16, []string{"short", "aaaa bbbb cccc dddd"}, st)

	want := []draw{
		{x: 22, y: 100, s: BulletGlyph},
		{x: 26, y: 100, s: "short"},
		{x: 22, y: 106, s: BulletGlyph},
		{x: 26, y: 106, s: "aaaa bbbb"},
		{x: 26, y: 111, s: "cccc dddd"},
	}
	assert.Equal(t, want, m.draws)
	assert.Equal(t, 117.0, y)
}

func TestDrawBullets_BlankParagraphTakesOneLine(t *testing.T) {
	m := &monoCanvas{}
	st := BulletStyle{Size: 10, Leading: 5, ParagraphGap: 1}

	y := DrawBullets(m, 0, 10, 50, []string{"  "}, st)

	require.Len(t, m.draws, 1)
	assert.Equal(t, BulletGlyph, m.draws[0].s)
	assert.Equal(t, 16.0, y)
}

func TestDrawBullets_EmptyListKeepsCursor(t *testing.T) {
	m := &monoCanvas{}
	assert.Equal(t, 42.0, DrawBullets(m, 0, 42, 50, nil, A4.Bullets()))
	assert.Empty(t, m.draws)
}

func TestDrawBullets_SetsFont(t *testing.T) {
	m := &monoCanvas{face: Bold}
	DrawBullets(m, 0, 0, 100, []string{"x"}, A4.Bullets())
	assert.Equal(t, Regular, m.face)
	assert.Equal(t, A4.NotesSize, m.size)
}

func TestA4_Geometry(t *testing.T) {
	assert.InDelta(t, 160, A4.BoxWidth(), 1e-9)
	lastRow := A4.FirstRowY + 4*A4.RowStep
	assert.Less(t, lastRow, A4.BoxHeight, "five rows must fit inside the box")
}
