package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSofficeTimeout bounds a single LibreOffice conversion.
const DefaultSofficeTimeout = 2 * time.Minute

// LibreOfficeConverter shells out to a headless LibreOffice to convert
// office formats to DOCX.
type LibreOfficeConverter struct {
	// Binary is the soffice executable; defaults to "soffice" on PATH.
	Binary  string
	Timeout time.Duration
}

// NewLibreOfficeConverter returns a converter with defaults filled in.
func NewLibreOfficeConverter() *LibreOfficeConverter {
	return &LibreOfficeConverter{Binary: "soffice", Timeout: DefaultSofficeTimeout}
}

// Convert runs soffice --headless --convert-to docx into a private staging
// directory and returns the produced file.
func (c *LibreOfficeConverter) Convert(ctx context.Context, path string, progress ProgressFunc) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	outDir, err := os.MkdirTemp("", "dys-convert-"+uuid.NewString())
	if err != nil {
		return "", NewConvertError(path, ext, err)
	}
	report(progress, 10, "starting LibreOffice")

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultSofficeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	binary := c.Binary
	if binary == "" {
		binary = "soffice"
	}
	cmd := exec.CommandContext(ctx, binary, "--headless", "--convert-to", "docx", "--outdir", outDir, path)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(outDir)
		return "", NewConvertError(path, ext, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output))))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	produced := filepath.Join(outDir, base+".docx")
	if _, err := os.Stat(produced); err != nil {
		os.RemoveAll(outDir)
		return "", NewConvertError(path, ext, fmt.Errorf("soffice produced no output: %w", err))
	}
	report(progress, 90, "conversion finished")
	return produced, nil
}
