package pretty

import "strings"

var sectionColors = []string{"b", "m", "r", "y", "g"}

// ColorSections colors blank-line separated sections of text, switching to
// the next color whenever a section looks like the start of a new part
// (long, multi-line, or containing a "---" or "Examples:" marker). Each
// section is italicized and followed by a blank line.
func (r *Renderer) ColorSections(text string) string {
	const sep = "\n\n"

	var sb strings.Builder

	color := 0

	for i, seg := range strings.Split(text, sep) {
		if i > 0 && newSection(seg) {
			color = (color + 1) % len(sectionColors)
		}

		attrs, _ := r.styles.Lookup(sectionColors[color])
		attrs.Italic = true

		sb.WriteString(r.styles.Attrs(seg, attrs))
		sb.WriteString(sep)
	}

	return sb.String()
}

func newSection(seg string) bool {
	lines := strings.Count(seg, "\n")
	chars := len(seg)

	switch {
	case chars > 250:
		return true
	case chars > 150 && lines > 0:
		return true
	case lines == 0 && chars > 120:
		return true
	case lines > 3:
		return true
	case strings.Contains(seg, "---"), strings.Contains(seg, "Examples:"):
		return true
	}

	if lines > 0 {
		for line := range strings.SplitSeq(seg, "\n") {
			if len(line) <= 60 {
				return false
			}
		}

		return true
	}

	return false
}
