package layout

import "strings"

// Wrap breaks text into lines no wider than maxWidth when set in face at
// size. Words are never split; a word wider than maxWidth gets a line of its
// own. Empty or blank text yields no lines.
func Wrap(m Measurer, face Face, size, maxWidth float64, text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := ""
	for _, w := range words {
		if line == "" {
			line = w
			continue
		}
		candidate := line + " " + w
		if m.StringWidth(face, size, candidate) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}
