package dys

import (
	"bytes"
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

// Page dimensions in twentieths of a point. Margins come out at 20mm.
const (
	pageA4Width  = 11906
	pageA4Height = 16838
	pageA3Width  = 16838
	pageA3Height = 23811
	pageMargin   = 1134
)

// Enlargement factors applied when moving content onto the A3 page.
const (
	enlargeWidthFactor  = 1.40
	enlargeHeightFactor = 1.25
)

// ApplyGeometry sets the page size and margins of every section to the
// chosen format. Moving to A3 with EnlargeObjects set also widens tables
// and scales embedded drawings so they grow with the page.
func ApplyGeometry(doc *Document, opts Options) error {
	width, height := pageA4Width, pageA4Height
	if opts.PageFormat == PageA3 {
		width, height = pageA3Width, pageA3Height
	}

	if doc.Main.Body.SectPr != nil {
		if err := updateSectPr(doc.Main.Body.SectPr, width, height); err != nil {
			return err
		}
	}
	// Mid-document section breaks live inside paragraph properties.
	err := ForEachParagraph(doc, false, func(p *ooxml.Paragraph) error {
		if p.Properties == nil {
			return nil
		}
		for i := range p.Properties.RawXML {
			if p.Properties.RawXML[i].XMLName.Local != "sectPr" {
				continue
			}
			if err := updateSectPr(&p.Properties.RawXML[i], width, height); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if opts.PageFormat != PageA3 || !opts.EnlargeObjects {
		return nil
	}

	err = ForEachTable(doc, opts.IncludeHeadersFooters, func(t *ooxml.Table) error {
		return scaleTable(t)
	})
	if err != nil {
		return err
	}

	return ForEachParagraph(doc, opts.IncludeHeadersFooters, func(p *ooxml.Paragraph) error {
		for _, run := range p.Runs() {
			for _, raw := range run.Raws() {
				if err := scaleDrawing(raw); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// updateSectPr rewrites pgSz and pgMar inside a raw section-properties
// subtree. A landscape section stays landscape: the target dimensions are
// swapped when the current page is wider than tall.
func updateSectPr(raw *ooxml.RawXMLElement, width, height int) error {
	tree, err := parseRawTree(raw.Content)
	if err != nil {
		return NewInvariantError("unreadable section properties: %v", err)
	}

	if pgSz := xmlquery.FindOne(tree, "//*[local-name()='pgSz']"); pgSz != nil {
		curW, _ := strconv.Atoi(pgSz.SelectAttr("w:w"))
		curH, _ := strconv.Atoi(pgSz.SelectAttr("w:h"))
		if curW > 0 && curH > 0 && curW > curH {
			width, height = height, width
		}
		pgSz.SetAttr("w:w", strconv.Itoa(width))
		pgSz.SetAttr("w:h", strconv.Itoa(height))
	}
	if pgMar := xmlquery.FindOne(tree, "//*[local-name()='pgMar']"); pgMar != nil {
		for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
			pgMar.SetAttr(side, strconv.Itoa(pageMargin))
		}
	}

	raw.Content = rawTreeBytes(tree)
	return nil
}

// scaleTable widens a table's columns and heightens its rows for the A3
// page. Width attributes in tblPr and tcPr are scaled too so explicit
// widths do not fight the grid.
func scaleTable(t *ooxml.Table) error {
	if t.Grid != nil {
		for i := range t.Grid.Cols {
			t.Grid.Cols[i].W = scaleInt(t.Grid.Cols[i].W, enlargeWidthFactor)
		}
	}
	if t.Properties != nil {
		if err := scaleWidthAttrs(t.Properties); err != nil {
			return err
		}
	}
	for _, row := range t.Rows() {
		if row.Properties != nil && row.Properties.Height != nil {
			row.Properties.Height.Val = scaleInt(row.Properties.Height.Val, enlargeHeightFactor)
		}
		for _, cell := range row.Cells() {
			if cell.Properties != nil {
				if err := scaleWidthAttrs(cell.Properties); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// scaleWidthAttrs multiplies explicit dxa widths (tblW, tcW) inside a raw
// properties subtree.
func scaleWidthAttrs(raw *ooxml.RawXMLElement) error {
	tree, err := parseRawTree(raw.Content)
	if err != nil {
		return NewInvariantError("unreadable table properties: %v", err)
	}

	nodes := xmlquery.Find(tree, "//*[local-name()='tblW' or local-name()='tcW']")
	changed := false
	for _, node := range nodes {
		if node.SelectAttr("w:type") != "dxa" {
			continue
		}
		w, err := strconv.Atoi(node.SelectAttr("w:w"))
		if err != nil || w <= 0 {
			continue
		}
		node.SetAttr("w:w", strconv.Itoa(scaleInt(w, enlargeWidthFactor)))
		changed = true
	}
	if changed {
		raw.Content = rawTreeBytes(tree)
	}
	return nil
}

// scaleDrawing multiplies the EMU extents of inline and anchored drawings,
// width and height each by its own page factor. Blobs without extents are
// left byte-identical.
func scaleDrawing(raw *ooxml.RawXMLElement) error {
	if !bytes.Contains(raw.Content, []byte("extent")) && !bytes.Contains(raw.Content, []byte("ext ")) {
		return nil
	}
	tree, err := parseRawTree(raw.Content)
	if err != nil {
		// Not XML the scaler understands; leave the drawing alone.
		return nil
	}

	dims := []struct {
		name   string
		factor float64
	}{
		{"cx", enlargeWidthFactor},
		{"cy", enlargeHeightFactor},
	}
	nodes := xmlquery.Find(tree, "//*[local-name()='extent' or local-name()='ext']")
	changed := false
	for _, node := range nodes {
		for _, dim := range dims {
			val, err := strconv.Atoi(node.SelectAttr(dim.name))
			if err != nil || val <= 0 {
				continue
			}
			node.SetAttr(dim.name, strconv.Itoa(scaleInt(val, dim.factor)))
			changed = true
		}
	}
	if changed {
		raw.Content = rawTreeBytes(tree)
	}
	return nil
}

func scaleInt(v int, factor float64) int {
	return int(float64(v)*factor + 0.5)
}
