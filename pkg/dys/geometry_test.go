package dys

import (
	"strings"
	"testing"

	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

func docWithBody(t *testing.T, body string) *Document {
	t.Helper()
	input := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + body + `</w:body></w:document>`
	main, err := ooxml.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return &Document{Main: main}
}

func TestApplyGeometryA3(t *testing.T) {
	doc := docWithBody(t, `<w:p><w:r><w:t>texte</w:t></w:r></w:p>`+
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"></w:pgSz>`+
		`<w:pgMar w:top="1417" w:right="1417" w:bottom="1417" w:left="1417" w:header="708"></w:pgMar></w:sectPr>`)

	opts := DefaultOptions()
	opts.PageFormat = PageA3
	if err := ApplyGeometry(doc, opts); err != nil {
		t.Fatalf("ApplyGeometry() error: %v", err)
	}

	sect := string(doc.Main.Body.SectPr.Content)
	for _, want := range []string{`w:w="16838"`, `w:h="23811"`, `w:top="1134"`, `w:left="1134"`} {
		if !strings.Contains(sect, want) {
			t.Errorf("sectPr missing %s:\n%s", want, sect)
		}
	}
	// Attributes the adjuster does not own survive.
	if !strings.Contains(sect, `w:header="708"`) {
		t.Errorf("header margin lost:\n%s", sect)
	}
}

func TestApplyGeometryKeepsLandscape(t *testing.T) {
	doc := docWithBody(t, `<w:sectPr><w:pgSz w:w="16838" w:h="11906" w:orient="landscape"></w:pgSz></w:sectPr>`)

	opts := DefaultOptions()
	opts.PageFormat = PageA3
	if err := ApplyGeometry(doc, opts); err != nil {
		t.Fatalf("ApplyGeometry() error: %v", err)
	}

	sect := string(doc.Main.Body.SectPr.Content)
	if !strings.Contains(sect, `w:w="23811"`) || !strings.Contains(sect, `w:h="16838"`) {
		t.Errorf("landscape section not swapped:\n%s", sect)
	}
	if !strings.Contains(sect, `w:orient="landscape"`) {
		t.Errorf("orientation attribute lost:\n%s", sect)
	}
}

func TestApplyGeometryA4(t *testing.T) {
	doc := docWithBody(t, `<w:sectPr><w:pgSz w:w="12240" w:h="15840"></w:pgSz></w:sectPr>`)

	if err := ApplyGeometry(doc, DefaultOptions()); err != nil {
		t.Fatalf("ApplyGeometry() error: %v", err)
	}
	sect := string(doc.Main.Body.SectPr.Content)
	if !strings.Contains(sect, `w:w="11906"`) || !strings.Contains(sect, `w:h="16838"`) {
		t.Errorf("page not normalized to A4:\n%s", sect)
	}
}

func TestApplyGeometryScalesTables(t *testing.T) {
	doc := docWithBody(t, `<w:tbl>`+
		`<w:tblPr><w:tblW w:w="5000" w:type="dxa"></w:tblW></w:tblPr>`+
		`<w:tblGrid><w:gridCol w:w="1000"></w:gridCol></w:tblGrid>`+
		`<w:tr><w:trPr><w:trHeight w:val="400"></w:trHeight></w:trPr>`+
		`<w:tc><w:tcPr><w:tcW w:w="1000" w:type="dxa"></w:tcW></w:tcPr><w:p><w:r><w:t>c</w:t></w:r></w:p></w:tc>`+
		`</w:tr></w:tbl>`)

	opts := DefaultOptions()
	opts.PageFormat = PageA3
	opts.EnlargeObjects = true
	if err := ApplyGeometry(doc, opts); err != nil {
		t.Fatalf("ApplyGeometry() error: %v", err)
	}

	table := doc.Main.Body.Elements[0].(*ooxml.Table)
	if got := table.Grid.Cols[0].W; got != 1400 {
		t.Errorf("grid column = %d, want 1400", got)
	}
	row := table.Rows()[0]
	if got := row.Properties.Height.Val; got != 500 {
		t.Errorf("row height = %d, want 500", got)
	}
	props := string(table.Properties.Content)
	if !strings.Contains(props, `w:w="7000"`) {
		t.Errorf("tblW not scaled:\n%s", props)
	}
	if strings.Contains(props, "xmlns") || strings.Contains(props, "nswrap") {
		t.Errorf("scaling leaked declarations into tblPr:\n%s", props)
	}
	if !strings.Contains(string(row.Cells()[0].Properties.Content), `w:w="1400"`) {
		t.Errorf("tcW not scaled:\n%s", row.Cells()[0].Properties.Content)
	}
}

func TestApplyGeometryTablesUntouchedWithoutEnlarge(t *testing.T) {
	doc := docWithBody(t, `<w:tbl>`+
		`<w:tblGrid><w:gridCol w:w="1000"></w:gridCol></w:tblGrid>`+
		`<w:tr><w:tc><w:p><w:r><w:t>c</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`)

	opts := DefaultOptions()
	opts.PageFormat = PageA3
	if err := ApplyGeometry(doc, opts); err != nil {
		t.Fatalf("ApplyGeometry() error: %v", err)
	}
	table := doc.Main.Body.Elements[0].(*ooxml.Table)
	if table.Grid.Cols[0].W != 1000 {
		t.Errorf("tables must stay put without enlargement, got %d", table.Grid.Cols[0].W)
	}
}

func TestApplyGeometryTablesUntouchedOnA4(t *testing.T) {
	doc := docWithBody(t, `<w:tbl>`+
		`<w:tblGrid><w:gridCol w:w="1000"></w:gridCol></w:tblGrid>`+
		`<w:tr><w:tc><w:p><w:r><w:t>c</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`)

	if err := ApplyGeometry(doc, DefaultOptions()); err != nil {
		t.Fatalf("ApplyGeometry() error: %v", err)
	}
	table := doc.Main.Body.Elements[0].(*ooxml.Table)
	if table.Grid.Cols[0].W != 1000 {
		t.Errorf("A4 must not scale tables, got %d", table.Grid.Cols[0].W)
	}
}

func TestApplyGeometryScalesDrawings(t *testing.T) {
	doc := docWithBody(t, `<w:p><w:r>`+
		`<w:drawing><wp:inline><wp:extent cx="914400" cy="457200"></wp:extent></wp:inline></w:drawing>`+
		`</w:r></w:p>`)

	opts := DefaultOptions()
	opts.PageFormat = PageA3
	opts.EnlargeObjects = true
	if err := ApplyGeometry(doc, opts); err != nil {
		t.Fatalf("ApplyGeometry() error: %v", err)
	}

	para := doc.Main.Body.Elements[0].(*ooxml.Paragraph)
	content := string(para.Runs()[0].Raws()[0].Content)
	if !strings.Contains(content, `cx="1280160"`) || !strings.Contains(content, `cy="571500"`) {
		t.Errorf("extent not scaled:\n%s", content)
	}
}

func TestApplyGeometryHandlesNamespacedSectPr(t *testing.T) {
	doc := docWithBody(t, `<w:sectPr>`+
		`<w:pgSz w:w="11906" w:h="16838"></w:pgSz>`+
		`<w:footnotePr><w:footnote w:id="-1"></w:footnote></w:footnotePr>`+
		`<w:cols w:space="708"></w:cols>`+
		`<w:docGrid w:linePitch="360"></w:docGrid></w:sectPr>`)

	opts := DefaultOptions()
	opts.PageFormat = PageA3
	if err := ApplyGeometry(doc, opts); err != nil {
		t.Fatalf("ApplyGeometry() error: %v", err)
	}

	sect := string(doc.Main.Body.SectPr.Content)
	if !strings.Contains(sect, `w:w="16838"`) || !strings.Contains(sect, `w:h="23811"`) {
		t.Errorf("prefixed sectPr not resized:\n%s", sect)
	}
	for _, keep := range []string{`w:id="-1"`, `w:space="708"`, `w:linePitch="360"`} {
		if !strings.Contains(sect, keep) {
			t.Errorf("sectPr lost %s:\n%s", keep, sect)
		}
	}
	if strings.Contains(sect, "xmlns") || strings.Contains(sect, "nswrap") {
		t.Errorf("resizing leaked declarations into sectPr:\n%s", sect)
	}
}
