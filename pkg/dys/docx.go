package dys

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
)

// DocxReader handles reading DOCX packages.
type DocxReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

var headerFooterPattern = regexp.MustCompile(`^word/(header|footer)\d+\.xml$`)

// NewDocxReader creates a new DOCX reader over in-memory content.
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &DocxReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}
	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	if _, ok := dr.Parts["word/document.xml"]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing word/document.xml")
	}
	return dr, nil
}

// DocxReaderFromBytes creates a DocxReader from package bytes.
func DocxReaderFromBytes(content []byte) (*DocxReader, error) {
	return NewDocxReader(bytes.NewReader(content), int64(len(content)))
}

// DocxReaderFromFile creates a DocxReader from a file path. The whole
// package is read into memory; saving later copies untouched parts from
// these bytes.
func DocxReaderFromFile(path string) (*DocxReader, []byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	dr, err := DocxReaderFromBytes(content)
	if err != nil {
		return nil, nil, err
	}
	return dr, content, nil
}

// GetPart retrieves the content of a specific part.
func (dr *DocxReader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}
	return content, nil
}

// HeaderFooterParts returns the names of all header and footer parts in
// a stable order.
func (dr *DocxReader) HeaderFooterParts() []string {
	var names []string
	for name := range dr.Parts {
		if headerFooterPattern.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ListParts returns all part names in the package.
func (dr *DocxReader) ListParts() []string {
	parts := make([]string, 0, len(dr.Parts))
	for name := range dr.Parts {
		parts = append(parts, name)
	}
	sort.Strings(parts)
	return parts
}
