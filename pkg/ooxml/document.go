package ooxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// BodyElement is any block-level element: paragraph, table, or an opaque
// block the engine leaves alone.
type BodyElement interface {
	isBodyElement()
}

// RawBlock is a body-level subtree the engine does not model (structured
// document tags, section breaks mid-body). It round-trips verbatim.
type RawBlock struct {
	Raw RawXMLElement
}

func (b RawBlock) isBodyElement() {}

// Document is the parsed word/document.xml part. Root attributes (namespace
// declarations, mc:Ignorable) are preserved verbatim.
type Document struct {
	Attrs []xml.Attr
	Body  *Body
}

// Body is the ordered document body. Trailing section properties are kept
// raw; the geometry adjuster edits them in place.
type Body struct {
	Elements []BodyElement
	SectPr   *RawXMLElement
}

// UnmarshalXML decodes w:body preserving element order.
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, &table)
			case "sectPr":
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				b.SectPr = &raw
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				b.Elements = append(b.Elements, &RawBlock{Raw: raw})
			}
		case xml.EndElement:
			if t.Name.Local == "body" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML encodes w:body, section properties last.
func (b Body) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:body"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := encodeElements(e, b.Elements); err != nil {
		return err
	}
	if b.SectPr != nil {
		if err := e.EncodeElement(*b.SectPr, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func encodeElements(e *xml.Encoder, elements []BodyElement) error {
	for _, elem := range elements {
		switch el := elem.(type) {
		case *Paragraph:
			if err := e.EncodeElement(el, xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
				return err
			}
		case *Table:
			if err := e.EncodeElement(el, xml.StartElement{Name: xml.Name{Local: "w:tbl"}}); err != nil {
				return err
			}
		case *RawBlock:
			if err := e.EncodeElement(el.Raw, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Parse reads a word/document.xml stream into a Document.
func Parse(r io.Reader) (*Document, error) {
	d := xml.NewDecoder(r)
	doc := &Document{}
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document: %w", err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "document":
			doc.Attrs = append([]xml.Attr(nil), start.Attr...)
		case "body":
			body := &Body{}
			if err := body.UnmarshalXML(d, start); err != nil {
				return nil, fmt.Errorf("parsing body: %w", err)
			}
			doc.Body = body
		}
	}
	if doc.Body == nil {
		return nil, fmt.Errorf("parsing document: no w:body element")
	}
	return doc, nil
}

// attrString reconstructs a root attribute in its source form.
func attrString(a xml.Attr) string {
	name := a.Name.Local
	switch {
	case a.Name.Space == "xmlns":
		name = "xmlns:" + a.Name.Local
	case a.Name.Space != "":
		name = prefixFor(a.Name.Space) + ":" + a.Name.Local
	}
	return fmt.Sprintf(`%s="%s"`, name, escapeAttr(a.Value))
}

// Serialize renders the document back to XML. The root tag is written by
// hand so namespace declarations survive Go's encoder untouched; raw
// placeholders are substituted afterwards.
func Serialize(doc *Document) ([]byte, error) {
	var root strings.Builder
	root.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	root.WriteString("<w:document")
	for _, attr := range doc.Attrs {
		root.WriteString(" ")
		root.WriteString(attrString(attr))
	}
	root.WriteString(">")

	body, err := SerializeElements(doc.Body)
	if err != nil {
		return nil, err
	}

	root.Write(body)
	root.WriteString("</w:document>")
	return []byte(root.String()), nil
}

// SerializeElements encodes any marshalable value and substitutes its raw
// placeholders. The value must be reachable by CollectRaw (Body, Paragraph,
// Table or slices of them).
func SerializeElements(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	raws := make(map[string][]byte)
	collectRaw(v, raws)
	return []byte(substituteRaw(buf.String(), raws)), nil
}

// collectRaw walks a model value gathering every RawXMLElement keyed by its
// placeholder marker.
func collectRaw(v interface{}, out map[string][]byte) {
	add := func(r *RawXMLElement) {
		if r != nil {
			out[r.rawMarker()] = r.Content
		}
	}
	addAll := func(rs []RawXMLElement) {
		for i := range rs {
			add(&rs[i])
		}
	}

	switch val := v.(type) {
	case *Document:
		if val != nil {
			collectRaw(val.Body, out)
		}
	case *Body:
		if val == nil {
			return
		}
		add(val.SectPr)
		for _, el := range val.Elements {
			collectRaw(el, out)
		}
	case []BodyElement:
		for _, el := range val {
			collectRaw(el, out)
		}
	case []*Paragraph:
		for _, p := range val {
			collectRaw(p, out)
		}
	case []*Table:
		for _, t := range val {
			collectRaw(t, out)
		}
	case *RawBlock:
		add(&val.Raw)
	case *Paragraph:
		if val == nil {
			return
		}
		if val.Properties != nil {
			addAll(val.Properties.RawXML)
			if val.Properties.RunProperties != nil {
				addAll(val.Properties.RunProperties.RawXML)
			}
		}
		for _, content := range val.Content {
			switch c := content.(type) {
			case *Run:
				if c.Properties != nil {
					addAll(c.Properties.RawXML)
				}
				for _, raw := range c.Raws() {
					add(raw)
				}
			case *Opaque:
				add(&c.Raw)
			}
		}
	case *Table:
		if val == nil {
			return
		}
		add(val.Properties)
		for _, child := range val.Content {
			switch item := child.(type) {
			case *TableRow:
				if item.Properties != nil {
					addAll(item.Properties.RawXML)
				}
				for _, rc := range item.Content {
					switch cell := rc.(type) {
					case *TableCell:
						add(cell.Properties)
						for _, el := range cell.Content {
							collectRaw(el, out)
						}
					case *RawBlock:
						add(&cell.Raw)
					}
				}
			case *RawBlock:
				add(&item.Raw)
			}
		}
	}
}

// CollectRaw exposes the raw-markup walk for callers that serialize
// fragments themselves.
func CollectRaw(v interface{}) map[string][]byte {
	out := make(map[string][]byte)
	collectRaw(v, out)
	return out
}
