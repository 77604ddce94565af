package dys

import (
	"bytes"

	"github.com/antchfx/xmlquery"

	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

// parseRawTree parses captured markup into an xmlquery tree. Captured
// subtrees keep their conventional prefixes without declaring them, so the
// content is wrapped in an element declaring every known prefix first.
func parseRawTree(content []byte) (*xmlquery.Node, error) {
	var buf bytes.Buffer
	buf.WriteString("<nswrap")
	buf.WriteString(ooxml.NamespaceDeclarations())
	buf.WriteString(">")
	buf.Write(content)
	buf.WriteString("</nswrap>")
	return xmlquery.Parse(&buf)
}

// rawTreeBytes renders a parsed tree back to the undeclared prefix form,
// dropping the wrapper element and its declarations.
func rawTreeBytes(tree *xmlquery.Node) []byte {
	var buf bytes.Buffer
	for n := tree.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode || n.Data != "nswrap" {
			continue
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			buf.WriteString(child.OutputXML(true))
		}
	}
	return buf.Bytes()
}
