package ooxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// ParseFragment decodes a single block element (w:p or w:tbl) from standalone
// markup, as cut out of a larger raw subtree. Namespace prefixes need not be
// declared in the fragment; undeclared prefixes survive the round trip.
func ParseFragment(fragment []byte) (BodyElement, error) {
	d := xml.NewDecoder(bytes.NewReader(fragment))
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("parsing fragment: no element found")
		}
		if err != nil {
			return nil, fmt.Errorf("parsing fragment: %w", err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "p":
			var para Paragraph
			if err := d.DecodeElement(&para, &start); err != nil {
				return nil, fmt.Errorf("parsing fragment: %w", err)
			}
			return &para, nil
		case "tbl":
			var table Table
			if err := d.DecodeElement(&table, &start); err != nil {
				return nil, fmt.Errorf("parsing fragment: %w", err)
			}
			return &table, nil
		default:
			return nil, fmt.Errorf("parsing fragment: unexpected element %q", start.Name.Local)
		}
	}
}

// SerializeFragment renders a single block element without any document
// wrapper.
func SerializeFragment(el BodyElement) ([]byte, error) {
	return SerializeElements([]BodyElement{el})
}
