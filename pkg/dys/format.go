package dys

import (
	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

// Letter spacing in twentieths of a point, and the 1.5 line spacing value
// in 240ths of a line.
const (
	letterSpacingTwips = 48
	lineSpacingValue   = 360
)

// ApplyBaseFormatting stamps the reading font, size, and spacing options
// onto a paragraph. It runs after every recoloring pass so the new runs
// those passes created are covered too; colors set earlier are left alone.
func ApplyBaseFormatting(p *ooxml.Paragraph, opts Options) {
	for _, run := range p.Runs() {
		if !run.IsText() {
			continue
		}
		if run.Properties == nil {
			run.Properties = &ooxml.RunProperties{}
		}
		props := run.Properties
		if opts.FontName != "" {
			props.Fonts = &ooxml.Fonts{ASCII: opts.FontName, HAnsi: opts.FontName, CS: opts.FontName}
		}
		if opts.FontSize > 0 {
			halfPoints := opts.FontSize * 2
			props.Size = &ooxml.IntAttr{Val: halfPoints}
			props.SizeCs = &ooxml.IntAttr{Val: halfPoints}
		}
		if opts.LetterSpacing {
			props.Spacing = &ooxml.IntAttr{Val: letterSpacingTwips}
		}
	}

	if opts.LineSpacing {
		if p.Properties == nil {
			p.Properties = &ooxml.ParagraphProperties{}
		}
		p.Properties.Spacing = &ooxml.ParaSpacing{Line: lineSpacingValue, LineRule: "auto"}
	}
}
