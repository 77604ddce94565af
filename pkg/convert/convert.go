// Package convert turns foreign document formats into DOCX so the
// adaptation pipeline only ever sees one input format. Office formats go
// through a local LibreOffice install; PDFs go through Google Document AI.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// ProgressFunc receives coarse conversion milestones. A nil sink is valid.
type ProgressFunc func(percent int, message string)

// report calls the sink, swallowing nils.
func report(sink ProgressFunc, percent int, message string) {
	if sink != nil {
		sink(percent, message)
	}
}

// Converter produces a DOCX copy of a source document, reporting milestones
// along the way. The returned path points at a freshly written file the
// caller owns.
type Converter interface {
	Convert(ctx context.Context, path string, progress ProgressFunc) (string, error)
}

// ConvertError reports a failed conversion with its source format.
type ConvertError struct {
	Path   string
	Format string
	Cause  error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("converting %s (%s): %v", e.Path, e.Format, e.Cause)
}

func (e *ConvertError) Unwrap() error {
	return e.Cause
}

// NewConvertError creates a ConvertError.
func NewConvertError(path, format string, cause error) *ConvertError {
	return &ConvertError{Path: path, Format: format, Cause: cause}
}

// officeExtensions are the formats LibreOffice converts locally.
var officeExtensions = map[string]bool{
	".odt": true,
	".doc": true,
	".rtf": true,
}

// ForPath picks the converter for a source file, or nil when the file is
// already a DOCX. An unsupported extension is an error.
func ForPath(path string, soffice *LibreOfficeConverter, docai *DocumentAIConverter) (Converter, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".docx":
		return nil, nil
	case officeExtensions[ext]:
		if soffice == nil {
			soffice = NewLibreOfficeConverter()
		}
		return soffice, nil
	case ext == ".pdf":
		if docai == nil {
			return nil, NewConvertError(path, ext, fmt.Errorf("PDF conversion requires Document AI credentials"))
		}
		return docai, nil
	default:
		return nil, NewConvertError(path, ext, fmt.Errorf("unsupported format"))
	}
}
