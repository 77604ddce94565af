package dys

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

// txbxContentQuery matches box content regardless of namespace prefix,
// compiled once since it runs on every run of every paragraph.
var txbxContentQuery = xpath.MustCompile("//*[local-name()='txbxContent']")

// TextBox is the editable text content of a drawn shape: a modern text
// frame (wps:txbx) or a legacy VML box (v:textbox), both of which wrap
// their paragraphs in w:txbxContent inside a run's raw markup.
type TextBox struct {
	raw    *ooxml.RawXMLElement
	spans  []span
	Blocks []ooxml.BodyElement
}

type span struct {
	start, end int
}

// FindTextBoxes scans a run's raw markup for embedded text boxes and
// decodes their block content. One TextBox is returned per raw subtree
// that holds box content.
func FindTextBoxes(run *ooxml.Run) []*TextBox {
	var boxes []*TextBox
	for _, raw := range run.Raws() {
		if !containsTextBox(raw.Content) {
			continue
		}

		spans := boxBlockSpans(raw.Content)
		if len(spans) == 0 {
			continue
		}

		tb := &TextBox{raw: raw}
		for _, sp := range spans {
			block, err := ooxml.ParseFragment(raw.Content[sp.start:sp.end])
			if err != nil {
				GetLogger().WithField("error", err).Warn("skipping unreadable text box block")
				continue
			}
			tb.spans = append(tb.spans, sp)
			tb.Blocks = append(tb.Blocks, block)
		}
		if len(tb.Blocks) > 0 {
			boxes = append(boxes, tb)
		}
	}
	return boxes
}

// containsTextBox checks a raw subtree for w:txbxContent without scanning
// offsets, so blobs with no boxes are rejected cheaply.
func containsTextBox(content []byte) bool {
	doc, err := parseRawTree(content)
	if err != nil {
		GetLogger().WithField("error", err).Debug("unparseable run markup, assuming no text box")
		return false
	}
	return xmlquery.QuerySelector(doc, txbxContentQuery) != nil
}

// boxBlockSpans returns the byte ranges of block elements (w:p, w:tbl)
// sitting directly under a w:txbxContent element. Blocks of a box nested
// inside another box fall within the outer block's range and are reached
// recursively, never twice.
func boxBlockSpans(content []byte) []span {
	d := xml.NewDecoder(bytes.NewReader(content))

	var spans []span
	boxDepth := 0   // txbxContent nesting
	innerDepth := 0 // depth below the current txbxContent, capture only at 0
	blockDepth := 0 // >0 while inside a captured block
	var blockStart int64

	for {
		offset := d.InputOffset()
		token, err := d.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			if blockDepth > 0 {
				blockDepth++
				continue
			}
			if t.Name.Local == "txbxContent" {
				boxDepth++
				innerDepth = 0
				continue
			}
			if boxDepth > 0 {
				if innerDepth == 0 && (t.Name.Local == "p" || t.Name.Local == "tbl") {
					blockDepth = 1
					blockStart = offset
					continue
				}
				innerDepth++
			}
		case xml.EndElement:
			if blockDepth > 0 {
				blockDepth--
				if blockDepth == 0 {
					spans = append(spans, span{int(blockStart), int(d.InputOffset())})
				}
				continue
			}
			if boxDepth > 0 {
				if innerDepth == 0 && t.Name.Local == "txbxContent" {
					boxDepth--
					continue
				}
				innerDepth--
			}
		}
	}
	return spans
}

// Paragraphs returns every paragraph of the box, including table-cell
// paragraphs, in order.
func (tb *TextBox) Paragraphs() []*ooxml.Paragraph {
	var paras []*ooxml.Paragraph
	_ = visitParagraphs(tb.Blocks, func(p *ooxml.Paragraph) error {
		paras = append(paras, p)
		return nil
	})
	return paras
}

// Commit re-serializes the box's blocks and splices them back into the
// owning run's raw markup.
func (tb *TextBox) Commit() error {
	content := tb.raw.Content
	for i := len(tb.Blocks) - 1; i >= 0; i-- {
		rendered, err := ooxml.SerializeFragment(tb.Blocks[i])
		if err != nil {
			return fmt.Errorf("serializing text box block: %w", err)
		}
		sp := tb.spans[i]
		var buf bytes.Buffer
		buf.Write(content[:sp.start])
		buf.Write(rendered)
		buf.Write(content[sp.end:])
		content = buf.Bytes()
	}
	tb.raw.Content = content
	return nil
}

// WrapLegacy renders the box's content as a modern wps text-frame payload,
// for callers upgrading a legacy VML shape.
func WrapLegacy(tb *TextBox) (string, error) {
	var inner strings.Builder
	for _, block := range tb.Blocks {
		rendered, err := ooxml.SerializeFragment(block)
		if err != nil {
			return "", fmt.Errorf("serializing text box block: %w", err)
		}
		inner.Write(rendered)
	}
	return "<wps:txbx><w:txbxContent>" + inner.String() + "</w:txbxContent></wps:txbx>", nil
}
