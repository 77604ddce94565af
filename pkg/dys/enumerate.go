package dys

import (
	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

// ParagraphVisitor receives each paragraph exactly once, in document order.
type ParagraphVisitor func(p *ooxml.Paragraph) error

// TableVisitor receives each table exactly once, nested tables included.
type TableVisitor func(t *ooxml.Table) error

// ForEachParagraph walks the document in order: body paragraphs, table-cell
// paragraphs (recursing through nested tables), then header and footer
// parts when includeExtra is set. Paragraphs inside text boxes are not
// yielded here; they are reached through FindTextBoxes so nothing is
// visited twice.
func ForEachParagraph(doc *Document, includeExtra bool, visit ParagraphVisitor) error {
	if err := visitParagraphs(doc.Main.Body.Elements, visit); err != nil {
		return err
	}
	if !includeExtra {
		return nil
	}
	for _, name := range doc.extraNames {
		if err := visitParagraphs(doc.Extra[name].Elements, visit); err != nil {
			return err
		}
	}
	return nil
}

func visitParagraphs(elements []ooxml.BodyElement, visit ParagraphVisitor) error {
	for _, el := range elements {
		switch e := el.(type) {
		case *ooxml.Paragraph:
			if err := visit(e); err != nil {
				return err
			}
		case *ooxml.Table:
			for _, row := range e.Rows() {
				for _, cell := range row.Cells() {
					if err := visitParagraphs(cell.Content, visit); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// ForEachTable walks every table of the document, outermost first.
func ForEachTable(doc *Document, includeExtra bool, visit TableVisitor) error {
	if err := visitTables(doc.Main.Body.Elements, visit); err != nil {
		return err
	}
	if !includeExtra {
		return nil
	}
	for _, name := range doc.extraNames {
		if err := visitTables(doc.Extra[name].Elements, visit); err != nil {
			return err
		}
	}
	return nil
}

func visitTables(elements []ooxml.BodyElement, visit TableVisitor) error {
	for _, el := range elements {
		table, ok := el.(*ooxml.Table)
		if !ok {
			continue
		}
		if err := visit(table); err != nil {
			return err
		}
		for _, row := range table.Rows() {
			for _, cell := range row.Cells() {
				if err := visitTables(cell.Content, visit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
