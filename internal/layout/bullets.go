package layout

// BulletGlyph is drawn in front of every paragraph.
const BulletGlyph = "•"

// BulletStyle fixes the indents and spacing of a bullet list.
type BulletStyle struct {
	Face         Face
	Size         float64
	Leading      float64
	BulletIndent float64
	TextIndent   float64
	ParagraphGap float64
}

// Bullets returns the bullet style of the notes section.
func (p PageLayout) Bullets() BulletStyle {
	return BulletStyle{
		Face:         Regular,
		Size:         p.NotesSize,
		Leading:      p.NotesLeading,
		BulletIndent: p.BulletIndent,
		TextIndent:   p.TextIndent,
		ParagraphGap: p.ParagraphGap,
	}
}

// DrawBullets draws each paragraph as a bulleted, wrapped block starting at
// baseline y and returns the baseline below the last block. The first line
// of a paragraph shares the bullet's baseline; following lines are spaced by
// the leading. A blank paragraph still takes one line.
func DrawBullets(c Canvas, x, y, width float64, bullets []string, st BulletStyle) float64 {
	c.SetFont(st.Face, st.Size)
	textX := x + st.TextIndent
	textWidth := width - st.TextIndent

	for _, para := range bullets {
		c.Text(x+st.BulletIndent, y, BulletGlyph)

		lines := Wrap(c, st.Face, st.Size, textWidth, para)
		if len(lines) == 0 {
			y += st.Leading
		}
		for _, line := range lines {
			c.Text(textX, y, line)
			y += st.Leading
		}
		y += st.ParagraphGap
	}
	return y
}
