package dys

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

// Document is an open DOCX package. The main document part and any header
// and footer parts are parsed into the model; every other part is carried
// as untouched bytes and copied verbatim on save.
type Document struct {
	path   string
	source []byte
	reader *DocxReader

	Main  *ooxml.Document
	Extra map[string]*ooxml.HeaderFooter
	// extraNames is the stable iteration order of Extra.
	extraNames []string
}

// Open reads and parses a DOCX file.
func Open(path string) (*Document, error) {
	reader, source, err := DocxReaderFromFile(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}

	mainXML, err := reader.GetPart("word/document.xml")
	if err != nil {
		return nil, NewDocumentError("extract", path, err)
	}
	main, err := ooxml.Parse(bytes.NewReader(mainXML))
	if err != nil {
		return nil, NewDocumentError("parse", path, err)
	}

	doc := &Document{
		path:   path,
		source: source,
		reader: reader,
		Main:   main,
		Extra:  make(map[string]*ooxml.HeaderFooter),
	}

	for _, name := range reader.HeaderFooterParts() {
		partXML, err := reader.GetPart(name)
		if err != nil {
			return nil, NewDocumentError("extract", path, err)
		}
		hf, err := ooxml.ParseHeaderFooter(bytes.NewReader(partXML))
		if err != nil {
			return nil, NewDocumentError("parse", path, fmt.Errorf("%s: %w", name, err))
		}
		doc.Extra[name] = hf
		doc.extraNames = append(doc.extraNames, name)
	}

	GetLogger().WithField("path", path).WithField("parts", len(doc.extraNames)).Debug("document opened")
	return doc, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// HeaderFooterNames returns the parsed header and footer part names in a
// stable order.
func (d *Document) HeaderFooterNames() []string {
	return append([]string(nil), d.extraNames...)
}

// Bytes serializes the package: parsed parts are re-rendered, every other
// part is copied byte for byte from the source package.
func (d *Document) Bytes() ([]byte, error) {
	rendered := make(map[string][]byte, 1+len(d.Extra))

	mainXML, err := ooxml.Serialize(d.Main)
	if err != nil {
		return nil, NewDocumentError("serialize", d.path, err)
	}
	rendered["word/document.xml"] = mainXML

	for name, hf := range d.Extra {
		partXML, err := ooxml.SerializeHeaderFooter(hf)
		if err != nil {
			return nil, NewDocumentError("serialize", d.path, fmt.Errorf("%s: %w", name, err))
		}
		rendered[name] = partXML
	}

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	zipReader, err := zip.NewReader(bytes.NewReader(d.source), int64(len(d.source)))
	if err != nil {
		return nil, fmt.Errorf("failed to read source zip: %w", err)
	}

	for _, file := range zipReader.File {
		fw, err := w.Create(file.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", file.Name, err)
		}
		if content, ok := rendered[file.Name]; ok {
			if _, err := fw.Write(content); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", file.Name, err)
			}
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
		}
		if _, err := io.Copy(fw, rc); err != nil {
			rc.Close()
			return nil, fmt.Errorf("failed to copy %s: %w", file.Name, err)
		}
		rc.Close()
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the package to a new file.
func (d *Document) Save(path string) error {
	content, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return NewDocumentError("save", path, err)
	}
	GetLogger().WithField("path", path).Debug("document saved")
	return nil
}
