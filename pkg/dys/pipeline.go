package dys

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

// OutputDirName is the subfolder created next to each source document.
const OutputDirName = "DYS"

// Process transforms the document at path according to opts and writes the
// result into a DYS subfolder next to the source. The source file is never
// touched. Returns the path of the written copy.
func Process(path string, opts Options, progress ProgressFunc) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	lex, err := DefaultLexicon()
	if err != nil {
		return "", NewStageError("prepare", err)
	}

	logger := GetLogger().WithField("document", filepath.Base(path))
	logger.Info("processing document")

	report(progress, 10, "opening document")
	doc, err := Open(path)
	if err != nil {
		return "", NewStageError("open", err)
	}

	classifier := NewClassifier(lex, opts)
	if classifier.Active() {
		err := applyParagraphs(doc, opts, func(p *ooxml.Paragraph) error {
			classifier.Reset()
			colors := classifier.Colors(p.PlainText())
			return Rewrite(p, AttrsFromColors(colors))
		})
		if err != nil {
			return "", NewStageError("text", err)
		}
	}
	report(progress, 50, "text treatments applied")

	if opts.Digits != DigitsOff && opts.Digits != "" {
		err := applyParagraphs(doc, opts, func(p *ooxml.Paragraph) error {
			return ColorDigits(p, opts.Digits)
		})
		if err != nil {
			return "", NewStageError("digits", err)
		}
	}
	report(progress, 70, "digits colored")

	// Formatting runs last so the runs created by the coloring passes are
	// stamped too.
	err = applyParagraphs(doc, opts, func(p *ooxml.Paragraph) error {
		ApplyBaseFormatting(p, opts)
		return nil
	})
	if err != nil {
		return "", NewStageError("format", err)
	}
	if err := ApplyGeometry(doc, opts); err != nil {
		return "", NewStageError("geometry", err)
	}
	report(progress, 85, "formatting applied")

	outPath, err := OutputPath(path)
	if err != nil {
		return "", NewStageError("save", err)
	}
	if err := doc.Save(outPath); err != nil {
		return "", NewStageError("save", err)
	}
	report(progress, 100, "done")

	logger.WithField("output", outPath).Info("document processed")
	return outPath, nil
}

// applyParagraphs runs fn over every paragraph of the document, descending
// into text boxes (and boxes nested inside them) and committing each box's
// content back into its run.
func applyParagraphs(doc *Document, opts Options, fn func(p *ooxml.Paragraph) error) error {
	var apply func(p *ooxml.Paragraph) error
	apply = func(p *ooxml.Paragraph) error {
		if err := fn(p); err != nil {
			return err
		}
		for _, run := range p.Runs() {
			for _, box := range FindTextBoxes(run) {
				for _, boxed := range box.Paragraphs() {
					if err := apply(boxed); err != nil {
						return err
					}
				}
				if err := box.Commit(); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return ForEachParagraph(doc, opts.IncludeHeadersFooters, apply)
}

// OutputPath returns the destination for path's adapted copy: a DYS
// subfolder beside the source, the file name suffixed _DYS, and " (n)"
// appended when that name is already taken. The subfolder is created.
func OutputPath(path string) (string, error) {
	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	outDir := filepath.Join(dir, OutputDirName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output folder: %w", err)
	}

	candidate := filepath.Join(outDir, base+"_DYS.docx")
	for n := 1; fileExists(candidate); n++ {
		candidate = filepath.Join(outDir, fmt.Sprintf("%s_DYS (%d).docx", base, n))
	}
	return candidate, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
