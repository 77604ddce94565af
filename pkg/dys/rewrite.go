package dys

import (
	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

// CharAttr is the per-character treatment the rewriter applies. An empty
// Color leaves the character's run formatting untouched.
type CharAttr struct {
	Color string
}

// AttrsFromColors converts a classifier color slice to rewrite attributes.
func AttrsFromColors(colors []string) []CharAttr {
	attrs := make([]CharAttr, len(colors))
	for i, c := range colors {
		attrs[i] = CharAttr{Color: c}
	}
	return attrs
}

// Rewrite applies one attribute per rune of the paragraph's plain text.
// Text runs are split at attribute boundaries, each piece inheriting a deep
// copy of its source run's formatting. The result is maximally coalesced:
// adjacent pieces whose resulting formatting compares equal merge into one
// run, including pieces that came from different source runs. Breaks,
// drawings, hyperlinks and every other non-text child keep their positions
// untouched and interrupt coalescing.
func Rewrite(p *ooxml.Paragraph, attrs []CharAttr) error {
	total := 0
	for _, item := range p.Content {
		if run, ok := item.(*ooxml.Run); ok && run.IsText() {
			total += len([]rune(run.GetText()))
		}
	}
	if total != len(attrs) {
		return NewInvariantError("attribute count %d does not match paragraph text length %d", len(attrs), total)
	}

	newContent := make([]ooxml.ParagraphContent, 0, len(p.Content))
	var tail *ooxml.Run // last appended piece, nil after non-piece content
	emit := func(piece *ooxml.Run) {
		if tail != nil && tail.Properties.Equal(piece.Properties) {
			tt, pt := tail.Text(), piece.Text()
			tt.Content += pt.Content
			if pt.Space == "preserve" {
				tt.Space = "preserve"
			}
			return
		}
		newContent = append(newContent, piece)
		tail = piece
	}

	offset := 0
	for _, item := range p.Content {
		run, ok := item.(*ooxml.Run)
		if !ok || !run.IsText() {
			newContent = append(newContent, item)
			tail = nil
			continue
		}

		textRunes := []rune(run.GetText())
		if len(textRunes) == 0 {
			newContent = append(newContent, item)
			tail = nil
			continue
		}
		start := 0
		for start < len(textRunes) {
			end := start + 1
			for end < len(textRunes) && attrs[offset+end] == attrs[offset+start] {
				end++
			}
			emit(pieceRun(run, string(textRunes[start:end]), attrs[offset+start]))
			start = end
		}
		offset += len(textRunes)
	}

	p.Content = newContent
	return nil
}

// pieceRun builds one run carrying a slice of the source run's text with the
// attribute applied over a copy of the source formatting.
func pieceRun(src *ooxml.Run, text string, attr CharAttr) *ooxml.Run {
	props := src.Properties.Clone()
	if attr.Color != "" {
		if props == nil {
			props = &ooxml.RunProperties{}
		}
		props.Color = &ooxml.Color{Val: attr.Color}
	}
	space := ""
	if t := src.Text(); t != nil {
		space = t.Space
	}
	return ooxml.NewTextRun(props, ooxml.Text{Content: text, Space: space})
}
