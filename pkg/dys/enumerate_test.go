package dys

import (
	"testing"

	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

// fourContainerBody holds one paragraph in each container kind: body, table
// cell, legacy text box, modern text frame.
const fourContainerBody = `<w:p><w:r><w:t>corps</w:t></w:r></w:p>` +
	`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cellule</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
	legacyBoxFragment +
	modernBoxFragment

func TestEnumerationReachesEveryContainerOnce(t *testing.T) {
	doc := docWithBody(t, fourContainerBody)

	var texts []string
	err := applyParagraphs(doc, DefaultOptions(), func(p *ooxml.Paragraph) error {
		if text := p.PlainText(); text != "" {
			texts = append(texts, text)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"corps", "cellule", "note en marge", "cadre", "moderne"}
	if len(texts) != len(want) {
		t.Fatalf("visited %v, want %v", texts, want)
	}
	seen := map[string]int{}
	for _, text := range texts {
		seen[text]++
	}
	for _, text := range want {
		if seen[text] != 1 {
			t.Errorf("%q visited %d times, want once", text, seen[text])
		}
	}
}

func TestForEachParagraphRecursesNestedTables(t *testing.T) {
	doc := docWithBody(t, `<w:tbl><w:tr><w:tc>`+
		`<w:p><w:r><w:t>externe</w:t></w:r></w:p>`+
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>interne</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`+
		`</w:tc></w:tr></w:tbl>`)

	var texts []string
	err := ForEachParagraph(doc, false, func(p *ooxml.Paragraph) error {
		texts = append(texts, p.PlainText())
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 2 || texts[0] != "externe" || texts[1] != "interne" {
		t.Errorf("texts = %v", texts)
	}
}

func TestForEachTableFindsNested(t *testing.T) {
	doc := docWithBody(t, `<w:tbl><w:tr><w:tc>`+
		`<w:tbl><w:tr><w:tc><w:p></w:p></w:tc></w:tr></w:tbl>`+
		`</w:tc></w:tr></w:tbl>`)

	count := 0
	err := ForEachTable(doc, false, func(tbl *ooxml.Table) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("found %d tables, want 2", count)
	}
}
