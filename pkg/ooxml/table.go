package ooxml

import (
	"encoding/xml"
	"io"
	"strconv"
)

func itoa(v int) string { return strconv.Itoa(v) }

// TableContent is an ordered child of a table below its properties and
// grid: a row, or a captured subtree (bookmarks, structured document tags).
type TableContent interface {
	isTableContent()
}

func (r *TableRow) isTableContent() {}
func (b *RawBlock) isTableContent() {}

// Table is a w:tbl element. Table-level properties pass through raw; the
// grid and row heights are typed because page enlargement scales them.
type Table struct {
	Properties *RawXMLElement
	Grid       *TableGrid
	Content    []TableContent
}

func (t Table) isBodyElement() {}

// Rows returns the table's rows in order, skipping raw content.
func (t *Table) Rows() []*TableRow {
	var rows []*TableRow
	for _, child := range t.Content {
		if row, ok := child.(*TableRow); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// UnmarshalXML decodes a w:tbl element preserving content order.
func (t *Table) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "tblPr":
				raw, err := captureRaw(d, tok)
				if err != nil {
					return err
				}
				t.Properties = &raw
			case "tblGrid":
				t.Grid = new(TableGrid)
				if err := d.DecodeElement(t.Grid, &tok); err != nil {
					return err
				}
			case "tr":
				row := new(TableRow)
				if err := d.DecodeElement(row, &tok); err != nil {
					return err
				}
				t.Content = append(t.Content, row)
			default:
				raw, err := captureRaw(d, tok)
				if err != nil {
					return err
				}
				t.Content = append(t.Content, &RawBlock{Raw: raw})
			}
		case xml.EndElement:
			if tok.Name.Local == "tbl" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML encodes the table with w: prefixes.
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tbl"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if t.Properties != nil {
		if err := e.EncodeElement(*t.Properties, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
			return err
		}
	}
	if t.Grid != nil {
		if err := e.EncodeElement(t.Grid, xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}); err != nil {
			return err
		}
	}
	for _, child := range t.Content {
		switch c := child.(type) {
		case *TableRow:
			if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:tr"}}); err != nil {
				return err
			}
		case *RawBlock:
			if err := e.EncodeElement(c.Raw, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
				return err
			}
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableGrid holds the table's column definitions.
type TableGrid struct {
	Cols []GridCol `xml:"gridCol"`
}

// MarshalXML encodes w:tblGrid.
func (g TableGrid) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblGrid"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, col := range g.Cols {
		if err := e.EncodeElement(col, xml.StartElement{Name: xml.Name{Local: "w:gridCol"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GridCol is one column width in twentieths of a point.
type GridCol struct {
	W int `xml:"w,attr"`
}

// MarshalXML encodes w:gridCol.
func (g GridCol) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:gridCol"}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:w"}, Value: itoa(g.W)}}
	return e.EncodeElement(struct{}{}, start)
}

// RowContent is an ordered child of a table row: a cell or a captured
// subtree.
type RowContent interface {
	isRowContent()
}

func (c *TableCell) isRowContent() {}
func (b *RawBlock) isRowContent()  {}

// TableRow is a w:tr element.
type TableRow struct {
	Properties *TableRowProperties
	Content    []RowContent
}

// Cells returns the row's cells in order, skipping raw content.
func (r *TableRow) Cells() []*TableCell {
	var cells []*TableCell
	for _, child := range r.Content {
		if cell, ok := child.(*TableCell); ok {
			cells = append(cells, cell)
		}
	}
	return cells
}

// UnmarshalXML decodes a w:tr element preserving content order.
func (r *TableRow) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "trPr":
				r.Properties = new(TableRowProperties)
				if err := d.DecodeElement(r.Properties, &tok); err != nil {
					return err
				}
			case "tc":
				cell := new(TableCell)
				if err := d.DecodeElement(cell, &tok); err != nil {
					return err
				}
				r.Content = append(r.Content, cell)
			default:
				raw, err := captureRaw(d, tok)
				if err != nil {
					return err
				}
				r.Content = append(r.Content, &RawBlock{Raw: raw})
			}
		case xml.EndElement:
			if tok.Name.Local == "tr" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML encodes w:tr.
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:trPr"}}); err != nil {
			return err
		}
	}
	for _, child := range r.Content {
		switch c := child.(type) {
		case *TableCell:
			if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:tc"}}); err != nil {
				return err
			}
		case *RawBlock:
			if err := e.EncodeElement(c.Raw, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
				return err
			}
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableRowProperties types the row height and keeps the rest raw.
type TableRowProperties struct {
	Height *TrHeight
	RawXML []RawXMLElement
}

// UnmarshalXML decodes a w:trPr element.
func (p *TableRowProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "trHeight":
				p.Height = new(TrHeight)
				if err := d.DecodeElement(p.Height, &tok); err != nil {
					return err
				}
			default:
				raw, err := captureRaw(d, tok)
				if err != nil {
					return err
				}
				p.RawXML = append(p.RawXML, raw)
			}
		case xml.EndElement:
			if tok.Name.Local == "trPr" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML encodes w:trPr.
func (p TableRowProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:trPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Height != nil {
		if err := e.EncodeElement(p.Height, xml.StartElement{Name: xml.Name{Local: "w:trHeight"}}); err != nil {
			return err
		}
	}
	for _, raw := range p.RawXML {
		if err := e.EncodeElement(raw, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TrHeight is the w:trHeight row property.
type TrHeight struct {
	Val   int    `xml:"val,attr"`
	HRule string `xml:"hRule,attr,omitempty"`
}

// MarshalXML encodes w:trHeight.
func (h TrHeight) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:trHeight"}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: itoa(h.Val)}}
	if h.HRule != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:hRule"}, Value: h.HRule})
	}
	return e.EncodeElement(struct{}{}, start)
}

// TableCell is a w:tc element. Cell content is ordered body elements, so a
// table nested inside a cell stays in position.
type TableCell struct {
	Properties *RawXMLElement
	Content    []BodyElement
}

// UnmarshalXML decodes a w:tc element preserving content order.
func (c *TableCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "tcPr":
				raw, err := captureRaw(d, tok)
				if err != nil {
					return err
				}
				c.Properties = &raw
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &tok); err != nil {
					return err
				}
				c.Content = append(c.Content, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &tok); err != nil {
					return err
				}
				c.Content = append(c.Content, &table)
			default:
				raw, err := captureRaw(d, tok)
				if err != nil {
					return err
				}
				c.Content = append(c.Content, &RawBlock{Raw: raw})
			}
		case xml.EndElement:
			if tok.Name.Local == "tc" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML encodes w:tc.
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tc"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if c.Properties != nil {
		if err := e.EncodeElement(*c.Properties, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
			return err
		}
	}
	if err := encodeElements(e, c.Content); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
