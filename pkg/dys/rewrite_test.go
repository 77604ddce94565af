package dys

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

func parseParagraph(t *testing.T, fragment string) *ooxml.Paragraph {
	t.Helper()
	el, err := ooxml.ParseFragment([]byte(fragment))
	if err != nil {
		t.Fatalf("ParseFragment() error: %v", err)
	}
	para, ok := el.(*ooxml.Paragraph)
	if !ok {
		t.Fatalf("expected paragraph, got %T", el)
	}
	return para
}

func serializeParagraph(t *testing.T, p *ooxml.Paragraph) string {
	t.Helper()
	out, err := ooxml.SerializeFragment(p)
	if err != nil {
		t.Fatalf("SerializeFragment() error: %v", err)
	}
	return string(out)
}

func uniformAttrs(n int, color string) []CharAttr {
	attrs := make([]CharAttr, n)
	for i := range attrs {
		attrs[i] = CharAttr{Color: color}
	}
	return attrs
}

func TestRewriteIdentity(t *testing.T) {
	fragment := `<w:p><w:r><w:rPr><w:b></w:b></w:rPr><w:t>Bonjour</w:t></w:r>` +
		`<w:r><w:t xml:space="preserve"> le monde</w:t></w:r></w:p>`
	para := parseParagraph(t, fragment)
	before := serializeParagraph(t, para)

	if err := Rewrite(para, uniformAttrs(len([]rune(para.PlainText())), "")); err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}

	after := serializeParagraph(t, para)
	if after != before {
		t.Errorf("identity rewrite changed the paragraph\n got: %s\nwant: %s", after, before)
	}
}

func TestRewriteSplitsAtAttributeBoundaries(t *testing.T) {
	para := parseParagraph(t, `<w:p><w:r><w:t>abcd</w:t></w:r></w:p>`)

	attrs := []CharAttr{
		{Color: "FF0000"}, {Color: "FF0000"},
		{Color: "0000FF"}, {Color: "0000FF"},
	}
	if err := Rewrite(para, attrs); err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}

	runs := para.Runs()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].GetText() != "ab" || runs[1].GetText() != "cd" {
		t.Errorf("texts = %q, %q", runs[0].GetText(), runs[1].GetText())
	}
	if runs[0].Properties.Color.Val != "FF0000" || runs[1].Properties.Color.Val != "0000FF" {
		t.Errorf("colors = %v, %v", runs[0].Properties.Color, runs[1].Properties.Color)
	}
	if para.PlainText() != "abcd" {
		t.Errorf("PlainText() = %q after rewrite", para.PlainText())
	}
}

func TestRewritePreservesRunFormatting(t *testing.T) {
	fragment := `<w:p><w:r><w:rPr><w:b></w:b><w:i></w:i><w:sz w:val="28"></w:sz></w:rPr><w:t>gras</w:t></w:r></w:p>`
	para := parseParagraph(t, fragment)

	if err := Rewrite(para, uniformAttrs(4, "DC143C")); err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}

	run := para.Runs()[0]
	props := run.Properties
	if props.Bold == nil || props.Italic == nil {
		t.Error("bold/italic lost in rewrite")
	}
	if props.Size == nil || props.Size.Val != 28 {
		t.Error("size lost in rewrite")
	}
	if props.Color == nil || props.Color.Val != "DC143C" {
		t.Errorf("color = %v, want DC143C", props.Color)
	}
}

func TestRewriteKeepsOpaqueContentPinned(t *testing.T) {
	fragment := `<w:p><w:r><w:t>un</w:t></w:r>` +
		`<w:bookmarkStart w:id="1" w:name="ici"></w:bookmarkStart>` +
		`<w:r><w:br></w:br></w:r>` +
		`<w:r><w:t>deux</w:t></w:r></w:p>`
	para := parseParagraph(t, fragment)

	if err := Rewrite(para, uniformAttrs(6, "1E90FF")); err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}

	if len(para.Content) != 4 {
		t.Fatalf("content length = %d, want 4", len(para.Content))
	}
	if _, ok := para.Content[1].(*ooxml.Opaque); !ok {
		t.Errorf("bookmark moved: %T", para.Content[1])
	}
	br, ok := para.Content[2].(*ooxml.Run)
	if !ok || br.Break() == nil {
		t.Errorf("break run moved or rewritten: %T", para.Content[2])
	}
	if para.PlainText() != "undeux" {
		t.Errorf("PlainText() = %q", para.PlainText())
	}
}

func TestRewriteCoalescesAcrossRunBoundaries(t *testing.T) {
	fragment := `<w:p><w:r><w:t>aa</w:t></w:r><w:r><w:t>bb</w:t></w:r></w:p>`
	para := parseParagraph(t, fragment)

	if err := Rewrite(para, uniformAttrs(4, "DC143C")); err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}

	runs := para.Runs()
	if len(runs) != 1 {
		t.Fatalf("expected 1 coalesced run, got %d", len(runs))
	}
	if runs[0].GetText() != "aabb" {
		t.Errorf("text = %q", runs[0].GetText())
	}
}

func TestRewriteNeverLeavesEqualNeighbors(t *testing.T) {
	fragment := `<w:p><w:r><w:t>abc</w:t></w:r><w:r><w:t>def</w:t></w:r>` +
		`<w:r><w:rPr><w:b></w:b></w:rPr><w:t>ghi</w:t></w:r></w:p>`
	para := parseParagraph(t, fragment)

	attrs := []CharAttr{
		{Color: "DC143C"}, {Color: "DC143C"}, {},
		{}, {Color: "1E90FF"}, {Color: "1E90FF"},
		{}, {}, {},
	}
	if err := Rewrite(para, attrs); err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}

	runs := para.Runs()
	for i := 1; i < len(runs); i++ {
		if runs[i-1].Properties.Equal(runs[i].Properties) {
			t.Errorf("adjacent runs %d and %d share formatting: %q %q",
				i-1, i, runs[i-1].GetText(), runs[i].GetText())
		}
	}
	if para.PlainText() != "abcdefghi" {
		t.Errorf("PlainText() = %q", para.PlainText())
	}
}

func TestRewriteAttributeCountMismatch(t *testing.T) {
	para := parseParagraph(t, `<w:p><w:r><w:t>abc</w:t></w:r></w:p>`)
	err := Rewrite(para, uniformAttrs(2, ""))
	if err == nil {
		t.Fatal("expected error for mismatched attribute count")
	}
	var invariant *InvariantError
	if !errors.As(err, &invariant) {
		t.Errorf("error type = %T, want *InvariantError", err)
	}
}

// Identity attributes must never change a paragraph, whatever mix of runs
// and opaque children it has.
func TestRewriteIdentityProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"chat", "école", "vent ", " plats", "42", "déjà-vu"}
	pieces := []string{
		`<w:bookmarkStart w:id="9" w:name="x"></w:bookmarkStart>`,
		`<w:r><w:br></w:br></w:r>`,
		`<w:proofErr w:type="spellStart"></w:proofErr>`,
	}

	for trial := 0; trial < 50; trial++ {
		var b strings.Builder
		b.WriteString(`<w:p>`)
		// Styles alternate strictly so no two neighboring runs compare
		// equal; an already-coalesced input must round-trip byte for byte.
		styled := false
		for n := rng.Intn(6) + 1; n > 0; n-- {
			if rng.Intn(3) == 0 {
				b.WriteString(pieces[rng.Intn(len(pieces))])
				continue
			}
			word := words[rng.Intn(len(words))]
			if styled {
				b.WriteString(`<w:r><w:rPr><w:b></w:b></w:rPr><w:t xml:space="preserve">` + word + `</w:t></w:r>`)
			} else {
				b.WriteString(`<w:r><w:t xml:space="preserve">` + word + `</w:t></w:r>`)
			}
			styled = !styled
		}
		b.WriteString(`</w:p>`)

		para := parseParagraph(t, b.String())
		before := serializeParagraph(t, para)
		if err := Rewrite(para, uniformAttrs(len([]rune(para.PlainText())), "")); err != nil {
			t.Fatalf("trial %d: Rewrite() error: %v", trial, err)
		}
		after := serializeParagraph(t, para)
		if after != before {
			t.Fatalf("trial %d: identity rewrite changed paragraph\nsource: %s\n got: %s", trial, b.String(), after)
		}
	}
}
