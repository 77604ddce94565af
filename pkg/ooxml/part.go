package ooxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// HeaderFooter is a parsed header or footer part (w:hdr or w:ftr). Unlike
// the main document there is no body wrapper: block elements sit directly
// under the root.
type HeaderFooter struct {
	RootLocal string // "hdr" or "ftr"
	Attrs     []xml.Attr
	Elements  []BodyElement
}

// ParseHeaderFooter reads a header or footer part stream.
func ParseHeaderFooter(r io.Reader) (*HeaderFooter, error) {
	d := xml.NewDecoder(r)
	hf := &HeaderFooter{}
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing part: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if hf.RootLocal == "" {
			if start.Name.Local != "hdr" && start.Name.Local != "ftr" {
				return nil, fmt.Errorf("parsing part: unexpected root element %q", start.Name.Local)
			}
			hf.RootLocal = start.Name.Local
			hf.Attrs = append([]xml.Attr(nil), start.Attr...)
			continue
		}

		switch start.Name.Local {
		case "p":
			var para Paragraph
			if err := d.DecodeElement(&para, &start); err != nil {
				return nil, err
			}
			hf.Elements = append(hf.Elements, &para)
		case "tbl":
			var table Table
			if err := d.DecodeElement(&table, &start); err != nil {
				return nil, err
			}
			hf.Elements = append(hf.Elements, &table)
		default:
			raw, err := captureRaw(d, start)
			if err != nil {
				return nil, err
			}
			hf.Elements = append(hf.Elements, &RawBlock{Raw: raw})
		}
	}
	if hf.RootLocal == "" {
		return nil, fmt.Errorf("parsing part: no w:hdr or w:ftr root")
	}
	return hf, nil
}

// SerializeHeaderFooter renders the part back to XML, writing the root tag
// by hand the same way Serialize does for the main document.
func SerializeHeaderFooter(hf *HeaderFooter) ([]byte, error) {
	var root strings.Builder
	root.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	root.WriteString("<w:" + hf.RootLocal)
	for _, attr := range hf.Attrs {
		root.WriteString(" ")
		root.WriteString(attrString(attr))
	}
	root.WriteString(">")

	inner, err := SerializeElements(hf.Elements)
	if err != nil {
		return nil, err
	}
	root.Write(inner)
	root.WriteString("</w:" + hf.RootLocal + ">")
	return []byte(root.String()), nil
}
