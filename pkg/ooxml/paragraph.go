package ooxml

import (
	"encoding/xml"
	"io"
	"strings"
)

// ParagraphContent is an ordered child of a paragraph: a run or an opaque
// subtree (hyperlink, bookmark, proofing marker, field).
type ParagraphContent interface {
	isParagraphContent()
}

// Opaque is paragraph content the engine does not rewrite. It keeps its
// position among the runs and round-trips verbatim.
type Opaque struct {
	Raw RawXMLElement
}

func (o Opaque) isParagraphContent() {}

// Paragraph is an ordered sequence of runs and opaque content plus
// paragraph-level formatting.
type Paragraph struct {
	Properties *ParagraphProperties
	Content    []ParagraphContent
}

func (p Paragraph) isBodyElement() {}

// UnmarshalXML decodes a w:p element preserving child order.
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				var props ParagraphProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				p.Properties = &props
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Content = append(p.Content, &run)
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				p.Content = append(p.Content, &Opaque{Raw: raw})
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML encodes the paragraph with explicit w: prefixes, children in
// their original order.
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:p"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Properties != nil {
		if err := e.EncodeElement(p.Properties, xml.StartElement{Name: xml.Name{Local: "w:pPr"}}); err != nil {
			return err
		}
	}
	for _, content := range p.Content {
		switch c := content.(type) {
		case *Run:
			if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
				return err
			}
		case *Opaque:
			if err := e.EncodeElement(c.Raw, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
				return err
			}
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Runs returns the paragraph's runs in order, skipping opaque content.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, content := range p.Content {
		if r, ok := content.(*Run); ok {
			runs = append(runs, r)
		}
	}
	return runs
}

// PlainText returns the concatenated text of the paragraph's plain text
// runs. Opaque content and non-text runs contribute nothing; the rewriter
// operates on exactly this string.
func (p *Paragraph) PlainText() string {
	var b strings.Builder
	for _, content := range p.Content {
		if r, ok := content.(*Run); ok && r.IsText() {
			b.WriteString(r.GetText())
		}
	}
	return b.String()
}

// ParagraphProperties models the pPr record. Alignment, spacing and the
// keep/widow flags are typed because the engine must restore them across a
// clear-and-rebuild cycle; everything else passes through RawXML.
type ParagraphProperties struct {
	Style         *ValAttr
	KeepNext      *Empty
	KeepLines     *Empty
	WidowControl  *Empty
	Spacing       *ParaSpacing
	Alignment     *ValAttr
	RunProperties *RunProperties
	RawXML        []RawXMLElement
}

// UnmarshalXML decodes a w:pPr element.
func (p *ParagraphProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pStyle":
				p.Style = new(ValAttr)
				if err := d.DecodeElement(p.Style, &t); err != nil {
					return err
				}
			case "keepNext":
				p.KeepNext = new(Empty)
				if err := d.Skip(); err != nil {
					return err
				}
			case "keepLines":
				p.KeepLines = new(Empty)
				if err := d.Skip(); err != nil {
					return err
				}
			case "widowControl":
				p.WidowControl = new(Empty)
				if err := d.Skip(); err != nil {
					return err
				}
			case "spacing":
				p.Spacing = new(ParaSpacing)
				if err := d.DecodeElement(p.Spacing, &t); err != nil {
					return err
				}
			case "jc":
				p.Alignment = new(ValAttr)
				if err := d.DecodeElement(p.Alignment, &t); err != nil {
					return err
				}
			case "rPr":
				p.RunProperties = new(RunProperties)
				if err := d.DecodeElement(p.RunProperties, &t); err != nil {
					return err
				}
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				p.RawXML = append(p.RawXML, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "pPr" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML encodes w:pPr in schema order, rPr last.
func (p ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Style != nil {
		if err := e.EncodeElement(p.Style, xml.StartElement{Name: xml.Name{Local: "w:pStyle"}}); err != nil {
			return err
		}
	}
	encodeEmpty := func(local string, v *Empty) error {
		if v == nil {
			return nil
		}
		return e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: local}})
	}
	if err := encodeEmpty("w:keepNext", p.KeepNext); err != nil {
		return err
	}
	if err := encodeEmpty("w:keepLines", p.KeepLines); err != nil {
		return err
	}
	if err := encodeEmpty("w:widowControl", p.WidowControl); err != nil {
		return err
	}
	if p.Spacing != nil {
		if err := e.EncodeElement(p.Spacing, xml.StartElement{Name: xml.Name{Local: "w:spacing"}}); err != nil {
			return err
		}
	}
	if p.Alignment != nil {
		if err := e.EncodeElement(p.Alignment, xml.StartElement{Name: xml.Name{Local: "w:jc"}}); err != nil {
			return err
		}
	}
	for _, raw := range p.RawXML {
		if err := e.EncodeElement(raw, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
			return err
		}
	}
	if p.RunProperties != nil {
		if err := e.EncodeElement(p.RunProperties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// ParaSpacing is the w:spacing paragraph property.
type ParaSpacing struct {
	Before   int    `xml:"before,attr,omitempty"`
	After    int    `xml:"after,attr,omitempty"`
	Line     int    `xml:"line,attr,omitempty"`
	LineRule string `xml:"lineRule,attr,omitempty"`
}

// MarshalXML encodes w:spacing as a self-contained element.
func (s ParaSpacing) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:spacing"}
	start.Attr = nil
	addInt := func(local string, v int) {
		if v != 0 {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: local}, Value: itoa(v)})
		}
	}
	addInt("w:before", s.Before)
	addInt("w:after", s.After)
	addInt("w:line", s.Line)
	if s.LineRule != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:lineRule"}, Value: s.LineRule})
	}
	return e.EncodeElement(struct{}{}, start)
}
