package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

// DocumentAIConfig holds the Google Document AI processor coordinates.
// Authentication uses the GOOGLE_APPLICATION_CREDENTIALS environment
// variable.
type DocumentAIConfig struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
}

// LoadDocumentAIConfig reads the processor coordinates from a YAML file.
func LoadDocumentAIConfig(path string) (*DocumentAIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg DocumentAIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.ProjectID == "" || cfg.Location == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("config %s: project_id, location and processor_id are all required", path)
	}
	return &cfg, nil
}

// DocumentAIConverter extracts the text layout of a PDF through Google
// Document AI and synthesizes a plain DOCX from it. Only text survives:
// images and exact positioning do not, which is acceptable for a document
// that is about to be recolored and reflowed anyway.
type DocumentAIConverter struct {
	Config *DocumentAIConfig
}

// Convert processes a PDF and writes the synthesized DOCX to a staging
// file.
func (c *DocumentAIConverter) Convert(ctx context.Context, path string, progress ProgressFunc) (string, error) {
	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		return "", NewConvertError(path, ".pdf", err)
	}

	report(progress, 10, "sending PDF to Document AI")
	doc, err := c.process(ctx, pdfBytes)
	if err != nil {
		return "", NewConvertError(path, ".pdf", err)
	}

	report(progress, 70, "assembling DOCX")
	docxBytes, err := synthesizeDocx(paragraphTexts(doc))
	if err != nil {
		return "", NewConvertError(path, ".pdf", err)
	}

	outPath := filepath.Join(os.TempDir(), "dys-convert-"+uuid.NewString()+".docx")
	if err := os.WriteFile(outPath, docxBytes, 0o644); err != nil {
		return "", NewConvertError(path, ".pdf", err)
	}
	report(progress, 90, "conversion finished")
	return outPath, nil
}

// process sends the PDF to the configured Document AI processor.
func (c *DocumentAIConverter) process(ctx context.Context, pdfBytes []byte) (*documentaipb.Document, error) {
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", c.Config.Location)

	client, err := documentai.NewDocumentProcessorClient(
		ctx,
		option.WithEndpoint(endpoint),
		option.WithCredentialsFile(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	name := fmt.Sprintf(
		"projects/%s/locations/%s/processors/%s",
		c.Config.ProjectID, c.Config.Location, c.Config.ProcessorID,
	)

	req := &documentaipb.ProcessRequest{
		Name: name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
		SkipHumanReview: true,
	}

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return resp.Document, nil
}

// paragraphTexts flattens the recognized layout to one string per
// paragraph, page by page.
func paragraphTexts(doc *documentaipb.Document) []string {
	if doc == nil {
		return nil
	}
	var texts []string
	for _, page := range doc.Pages {
		for _, para := range page.Paragraphs {
			text := strings.TrimSpace(textFromLayout(para.Layout, doc.Text))
			if text != "" {
				texts = append(texts, text)
			}
		}
	}
	if len(texts) == 0 && strings.TrimSpace(doc.Text) != "" {
		texts = strings.Split(strings.TrimSpace(doc.Text), "\n")
	}
	return texts
}

// textFromLayout resolves a layout's text anchor segments against the full
// document text.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	textRunes := []rune(fullText)
	var result strings.Builder
	for _, seg := range layout.TextAnchor.TextSegments {
		start, end := int(seg.StartIndex), int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > len(textRunes) {
			end = len(textRunes)
		}
		if start > end {
			start = end
		}
		result.WriteString(string(textRunes[start:end]))
	}
	return result.String()
}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// synthesizeDocx builds a minimal single-part DOCX holding one paragraph
// per extracted text block.
func synthesizeDocx(texts []string) ([]byte, error) {
	doc := &ooxml.Document{
		Attrs: []xml.Attr{{
			Name:  xml.Name{Space: "xmlns", Local: "w"},
			Value: "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
		}},
		Body: &ooxml.Body{},
	}
	for _, text := range texts {
		doc.Body.Elements = append(doc.Body.Elements, &ooxml.Paragraph{
			Content: []ooxml.ParagraphContent{
				ooxml.NewTextRun(nil, ooxml.Text{Content: text}),
			},
		})
	}

	documentXML, err := ooxml.Serialize(doc)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRootRels)},
		{"word/document.xml", documentXML},
	}
	for _, part := range parts {
		fw, err := w.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(part.content); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
