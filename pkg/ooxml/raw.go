package ooxml

import (
	"encoding/xml"
	"fmt"
	"hash/fnv"
	"io"
	"sort"
	"strings"
)

// RawXMLElement holds a markup subtree the model does not parse. Content is
// the complete element text, opening and closing tags included, with the
// conventional OOXML prefixes restored.
type RawXMLElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr
	Content []byte
}

// ooxmlPrefixes maps namespace URIs back to their conventional prefixes.
// Go's decoder resolves prefixes to URIs; when we re-serialize captured
// markup we need the prefix form Word expects.
var ooxmlPrefixes = map[string]string{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main":           "w",
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships":    "r",
	"http://schemas.openxmlformats.org/officeDocument/2006/math":             "m",
	"http://www.w3.org/XML/1998/namespace":                                   "xml",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
	"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing":    "wp14",
	"http://schemas.microsoft.com/office/drawing/2010/main":                  "a14",
	"urn:schemas-microsoft-com:vml":                                          "v",
	"urn:schemas-microsoft-com:office:office":                                "o",
	"urn:schemas-microsoft-com:office:word":                                  "w10",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":            "mc",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":      "wps",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas":     "wpc",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":      "wpg",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingInk":        "wpi",
	"http://schemas.microsoft.com/office/word/2010/wordml":                   "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":                   "w15",
	"http://schemas.microsoft.com/office/word/2015/wordml/symex":             "w16se",
	"http://schemas.microsoft.com/office/word/2016/wordml/cid":               "w16cid",
	"http://schemas.microsoft.com/office/word/2018/wordml":                   "w16",
	"http://schemas.microsoft.com/office/word/2018/wordml/cex":               "w16cex",
	"http://schemas.microsoft.com/office/word/2020/wordml/sdtdatahash":       "w16sdtdh",
	"http://schemas.microsoft.com/office/word/2006/wordml":                   "wne",
	"http://schemas.microsoft.com/office/drawing/2016/ink":                   "aink",
	"http://schemas.microsoft.com/office/drawing/2017/model3d":               "am3d",
	"http://schemas.microsoft.com/office/2019/extlst":                        "oel",
}

var nsDeclarations = buildNSDeclarations()

func buildNSDeclarations() string {
	type binding struct{ prefix, uri string }
	bindings := make([]binding, 0, len(ooxmlPrefixes))
	for uri, prefix := range ooxmlPrefixes {
		if prefix == "xml" {
			// The xml prefix is predeclared in every document.
			continue
		}
		bindings = append(bindings, binding{prefix, uri})
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].prefix < bindings[j].prefix })

	var b strings.Builder
	for _, bd := range bindings {
		b.WriteString(` xmlns:`)
		b.WriteString(bd.prefix)
		b.WriteString(`="`)
		b.WriteString(bd.uri)
		b.WriteString(`"`)
	}
	return b.String()
}

// NamespaceDeclarations returns the xmlns attribute list declaring every
// conventional prefix, leading space included. Captured markup keeps its
// prefixes without declaring them; a caller handing that markup to a
// namespace-aware parser wraps it in an element carrying these.
func NamespaceDeclarations() string {
	return nsDeclarations
}

func prefixFor(uri string) string {
	if p, ok := ooxmlPrefixes[uri]; ok {
		return p
	}
	return uri
}

func writeName(buf *strings.Builder, name xml.Name) {
	if name.Space != "" {
		buf.WriteString(prefixFor(name.Space))
		buf.WriteString(":")
	}
	buf.WriteString(name.Local)
}

func writeStartTag(buf *strings.Builder, t xml.StartElement) {
	buf.WriteString("<")
	writeName(buf, t.Name)
	for _, attr := range t.Attr {
		buf.WriteString(" ")
		writeName(buf, attr.Name)
		buf.WriteString("=\"")
		buf.WriteString(escapeAttr(attr.Value))
		buf.WriteString("\"")
	}
	buf.WriteString(">")
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// captureRaw reads the element opened by start, including all nested content,
// and returns it as a RawXMLElement. The decoder is left positioned just
// after the element's end tag.
func captureRaw(d *xml.Decoder, start xml.StartElement) (RawXMLElement, error) {
	raw := RawXMLElement{XMLName: start.Name, Attrs: start.Attr}

	var buf strings.Builder
	writeStartTag(&buf, start)

	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return raw, fmt.Errorf("unexpected EOF inside <%s>", start.Name.Local)
			}
			return raw, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			writeStartTag(&buf, t)
		case xml.EndElement:
			depth--
			buf.WriteString("</")
			writeName(&buf, t.Name)
			buf.WriteString(">")
		case xml.CharData:
			buf.WriteString(escapeText(string(t)))
		}
	}

	raw.Content = []byte(buf.String())
	return raw, nil
}

// rawMarker returns the placeholder element emitted in place of raw content
// during encoding. The key is derived from the content so identical blobs
// collapse to the same marker, which substitutes identically.
func (r RawXMLElement) rawMarker() string {
	h := fnv.New64a()
	h.Write(r.Content)
	return fmt.Sprintf("%x-%d", h.Sum64(), len(r.Content))
}

// MarshalXML emits a placeholder that Serialize later replaces with the
// verbatim captured markup. encoding/xml cannot write pre-rendered bytes, so
// raw subtrees travel through the encoder as markers.
func (r RawXMLElement) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "rawxml"}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "key"}, Value: r.rawMarker()}}
	return e.EncodeElement(struct{}{}, start)
}

// substituteRaw replaces every raw placeholder in the encoded XML with its
// captured content.
func substituteRaw(encoded string, raws map[string][]byte) string {
	for key, content := range raws {
		marker := fmt.Sprintf(`<rawxml key="%s"></rawxml>`, key)
		encoded = strings.ReplaceAll(encoded, marker, string(content))
	}
	return encoded
}
