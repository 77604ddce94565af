package ooxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// RunChild is an ordered child of a run: text, a break, or captured markup
// (drawings, tabs, field codes).
type RunChild interface {
	isRunChild()
}

func (t *Text) isRunChild()          {}
func (b *Break) isRunChild()         {}
func (r *RawXMLElement) isRunChild() {}

// Run is a span of characters sharing one set of formatting properties.
// Children keep their source order; a run whose content is anything other
// than a single text child is treated as opaque by the rewriter.
type Run struct {
	Properties *RunProperties
	Children   []RunChild
}

func (r Run) isParagraphContent() {}

// NewTextRun builds a run whose whole content is one text child.
func NewTextRun(props *RunProperties, text Text) *Run {
	return &Run{Properties: props, Children: []RunChild{&text}}
}

// Text returns the run's text when that is the run's sole child, else nil.
func (r *Run) Text() *Text {
	if len(r.Children) != 1 {
		return nil
	}
	t, _ := r.Children[0].(*Text)
	return t
}

// Break returns the run's break when that is the run's sole child, else nil.
func (r *Run) Break() *Break {
	if len(r.Children) != 1 {
		return nil
	}
	b, _ := r.Children[0].(*Break)
	return b
}

// Raws returns the run's captured markup children in order, as mutable
// pointers.
func (r *Run) Raws() []*RawXMLElement {
	var raws []*RawXMLElement
	for _, child := range r.Children {
		if raw, ok := child.(*RawXMLElement); ok {
			raws = append(raws, raw)
		}
	}
	return raws
}

// IsText reports whether the run carries plain rewriteable text and nothing
// else.
func (r *Run) IsText() bool {
	return r.Text() != nil
}

// GetText returns the concatenated content of the run's text children.
func (r *Run) GetText() string {
	var b strings.Builder
	for _, child := range r.Children {
		if t, ok := child.(*Text); ok {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

// UnmarshalXML decodes a w:r element, capturing unknown children verbatim.
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "rPr":
				var props RunProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				r.Properties = &props
			case "t":
				var text Text
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.Children = append(r.Children, &text)
			case "br":
				var br Break
				if err := d.DecodeElement(&br, &t); err != nil {
					return err
				}
				r.Children = append(r.Children, &br)
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				r.Children = append(r.Children, &raw)
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML encodes the run with explicit w: prefixes, children in their
// original order.
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:r"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}
	for _, child := range r.Children {
		switch c := child.(type) {
		case *Text:
			if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:t"}}); err != nil {
				return err
			}
		case *Break:
			if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:br"}}); err != nil {
				return err
			}
		case *RawXMLElement:
			if err := e.EncodeElement(*c, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
				return err
			}
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// RunProperties models the rPr formatting record. Unknown children survive
// in RawXML so a style stack the engine has never seen still round-trips.
type RunProperties struct {
	Style     *ValAttr
	Fonts     *Fonts
	Bold      *Empty
	Italic    *Empty
	Strike    *Empty
	Color     *Color
	Spacing   *IntAttr // letter spacing, twentieths of a point
	Size      *IntAttr // half-points
	SizeCs    *IntAttr
	Highlight *ValAttr
	Underline *ValAttr
	VertAlign *ValAttr
	RawXML    []RawXMLElement
}

// Clone returns a deep copy. Splitting a run must never share its style
// record with the original.
func (p *RunProperties) Clone() *RunProperties {
	if p == nil {
		return nil
	}
	out := &RunProperties{}
	out.Style = p.Style.clone()
	if p.Fonts != nil {
		f := *p.Fonts
		out.Fonts = &f
	}
	if p.Bold != nil {
		out.Bold = &Empty{}
	}
	if p.Italic != nil {
		out.Italic = &Empty{}
	}
	if p.Strike != nil {
		out.Strike = &Empty{}
	}
	if p.Color != nil {
		c := *p.Color
		out.Color = &c
	}
	out.Spacing = p.Spacing.clone()
	out.Size = p.Size.clone()
	out.SizeCs = p.SizeCs.clone()
	out.Highlight = p.Highlight.clone()
	out.Underline = p.Underline.clone()
	out.VertAlign = p.VertAlign.clone()
	out.RawXML = append([]RawXMLElement(nil), p.RawXML...)
	return out
}

// Key renders the properties to a comparable string. Two runs coalesce only
// when their keys match.
func (p *RunProperties) Key() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	writeVal := func(tag string, v *ValAttr) {
		if v != nil {
			fmt.Fprintf(&b, "%s=%s;", tag, v.Val)
		}
	}
	writeInt := func(tag string, v *IntAttr) {
		if v != nil {
			fmt.Fprintf(&b, "%s=%d;", tag, v.Val)
		}
	}
	writeVal("rStyle", p.Style)
	if p.Fonts != nil {
		fmt.Fprintf(&b, "rFonts=%s/%s/%s/%s;", p.Fonts.ASCII, p.Fonts.HAnsi, p.Fonts.CS, p.Fonts.EastAsia)
	}
	if p.Bold != nil {
		b.WriteString("b;")
	}
	if p.Italic != nil {
		b.WriteString("i;")
	}
	if p.Strike != nil {
		b.WriteString("strike;")
	}
	if p.Color != nil {
		fmt.Fprintf(&b, "color=%s;", p.Color.Val)
	}
	writeInt("spacing", p.Spacing)
	writeInt("sz", p.Size)
	writeInt("szCs", p.SizeCs)
	writeVal("highlight", p.Highlight)
	writeVal("u", p.Underline)
	writeVal("vertAlign", p.VertAlign)
	for _, raw := range p.RawXML {
		b.Write(raw.Content)
		b.WriteString(";")
	}
	return b.String()
}

// Equal compares two style records by value.
func (p *RunProperties) Equal(other *RunProperties) bool {
	return p.Key() == other.Key()
}

// UnmarshalXML decodes a w:rPr element.
func (p *RunProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "rStyle":
				p.Style = new(ValAttr)
				if err := d.DecodeElement(p.Style, &t); err != nil {
					return err
				}
			case "rFonts":
				p.Fonts = new(Fonts)
				if err := d.DecodeElement(p.Fonts, &t); err != nil {
					return err
				}
			case "b":
				p.Bold = new(Empty)
				if err := d.Skip(); err != nil {
					return err
				}
			case "i":
				p.Italic = new(Empty)
				if err := d.Skip(); err != nil {
					return err
				}
			case "strike":
				p.Strike = new(Empty)
				if err := d.Skip(); err != nil {
					return err
				}
			case "color":
				p.Color = new(Color)
				if err := d.DecodeElement(p.Color, &t); err != nil {
					return err
				}
			case "spacing":
				p.Spacing = new(IntAttr)
				if err := d.DecodeElement(p.Spacing, &t); err != nil {
					return err
				}
			case "sz":
				p.Size = new(IntAttr)
				if err := d.DecodeElement(p.Size, &t); err != nil {
					return err
				}
			case "szCs":
				p.SizeCs = new(IntAttr)
				if err := d.DecodeElement(p.SizeCs, &t); err != nil {
					return err
				}
			case "highlight":
				p.Highlight = new(ValAttr)
				if err := d.DecodeElement(p.Highlight, &t); err != nil {
					return err
				}
			case "u":
				p.Underline = new(ValAttr)
				if err := d.DecodeElement(p.Underline, &t); err != nil {
					return err
				}
			case "vertAlign":
				p.VertAlign = new(ValAttr)
				if err := d.DecodeElement(p.VertAlign, &t); err != nil {
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
			if t.Name.Local == "rPr" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML encodes the properties in schema order with w: prefixes.
func (p RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	encodeVal := func(local string, v *ValAttr) error {
		if v == nil {
			return nil
		}
		return e.EncodeElement(v, xml.StartElement{Name: xml.Name{Local: local}})
	}
	encodeInt := func(local string, v *IntAttr) error {
		if v == nil {
			return nil
		}
		return e.EncodeElement(v, xml.StartElement{Name: xml.Name{Local: local}})
	}
	encodeEmpty := func(local string, v *Empty) error {
		if v == nil {
			return nil
		}
		return e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: local}})
	}

	if err := encodeVal("w:rStyle", p.Style); err != nil {
		return err
	}
	if p.Fonts != nil {
		if err := e.EncodeElement(p.Fonts, xml.StartElement{Name: xml.Name{Local: "w:rFonts"}}); err != nil {
			return err
		}
	}
	if err := encodeEmpty("w:b", p.Bold); err != nil {
		return err
	}
	if err := encodeEmpty("w:i", p.Italic); err != nil {
		return err
	}
	if err := encodeEmpty("w:strike", p.Strike); err != nil {
		return err
	}
	if p.Color != nil {
		if err := e.EncodeElement(p.Color, xml.StartElement{Name: xml.Name{Local: "w:color"}}); err != nil {
			return err
		}
	}
	if err := encodeInt("w:spacing", p.Spacing); err != nil {
		return err
	}
	if err := encodeInt("w:sz", p.Size); err != nil {
		return err
	}
	if err := encodeInt("w:szCs", p.SizeCs); err != nil {
		return err
	}
	if err := encodeVal("w:highlight", p.Highlight); err != nil {
		return err
	}
	if err := encodeVal("w:u", p.Underline); err != nil {
		return err
	}
	if err := encodeVal("w:vertAlign", p.VertAlign); err != nil {
		return err
	}
	for _, raw := range p.RawXML {
		if err := e.EncodeElement(raw, xml.StartElement{Name: xml.Name{Local: "rawxml"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Text is the character content of a run.
type Text struct {
	XMLName xml.Name `xml:"t"`
	Space   string   `xml:"space,attr"`
	Content string   `xml:",chardata"`
}

// MarshalXML encodes w:t, declaring xml:space="preserve" whenever the text
// has edge whitespace Word would otherwise trim.
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:t"}
	start.Attr = nil
	if t.Space == "preserve" || t.Content != strings.TrimSpace(t.Content) {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Space: "http://www.w3.org/XML/1998/namespace", Local: "space"},
			Value: "preserve",
		})
	}
	return e.EncodeElement(t.Content, start)
}

// Break is a line, column, or page break.
type Break struct {
	Type string `xml:"type,attr,omitempty"`
}

// MarshalXML encodes w:br as an empty element.
func (b *Break) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:br"}
	start.Attr = nil
	if b.Type != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:type"}, Value: b.Type})
	}
	return e.EncodeElement(struct{}{}, start)
}

// Empty marks a boolean property expressed as a bare element.
type Empty struct{}

// ValAttr is the common single string w:val attribute shape.
type ValAttr struct {
	Val string `xml:"val,attr"`
}

func (v *ValAttr) clone() *ValAttr {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// MarshalXML encodes the element with a w:val attribute.
func (v ValAttr) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if !strings.HasPrefix(start.Name.Local, "w:") {
		start.Name.Local = "w:" + start.Name.Local
	}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: v.Val}}
	return e.EncodeElement(struct{}{}, start)
}

// IntAttr is the numeric w:val attribute shape (sizes, spacings).
type IntAttr struct {
	Val int `xml:"val,attr"`
}

func (v *IntAttr) clone() *IntAttr {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// MarshalXML encodes the element with a numeric w:val attribute.
func (v IntAttr) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if !strings.HasPrefix(start.Name.Local, "w:") {
		start.Name.Local = "w:" + start.Name.Local
	}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: fmt.Sprintf("%d", v.Val)}}
	return e.EncodeElement(struct{}{}, start)
}

// Color is the w:color run property.
type Color struct {
	Val string `xml:"val,attr"`
}

// MarshalXML encodes w:color.
func (c Color) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:color"}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: c.Val}}
	return e.EncodeElement(struct{}{}, start)
}

// Fonts is the w:rFonts run property.
type Fonts struct {
	ASCII    string `xml:"ascii,attr,omitempty"`
	HAnsi    string `xml:"hAnsi,attr,omitempty"`
	CS       string `xml:"cs,attr,omitempty"`
	EastAsia string `xml:"eastAsia,attr,omitempty"`
}

// MarshalXML encodes w:rFonts.
func (f Fonts) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rFonts"}
	start.Attr = nil
	add := func(local, val string) {
		if val != "" {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: local}, Value: val})
		}
	}
	add("w:ascii", f.ASCII)
	add("w:hAnsi", f.HAnsi)
	add("w:cs", f.CS)
	add("w:eastAsia", f.EastAsia)
	return e.EncodeElement(struct{}{}, start)
}
