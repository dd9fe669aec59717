package bootstrap

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vpetrenko/glr-docfill/internal/config"
	"github.com/vpetrenko/glr-docfill/internal/core/domain"
)

// The fixtures below are the smallest valid documents the real parsers accept,
// built in memory so the wired pipeline can run end to end against a canned
// completion server.

func buildTemplate(t *testing.T, bodyText string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body><w:p><w:r><w:t>` + bodyText + `</w:t></w:r></w:p></w:body></w:document>`,
	}
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(parts[name])); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func buildReport(t *testing.T, pageText string) []byte {
	t.Helper()
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", pageText)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefPos)
	return buf.Bytes()
}

func documentText(t *testing.T, docxBytes []byte) string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		t.Fatalf("open rendered document: %v", err)
	}
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		return string(content)
	}
	t.Fatalf("rendered document has no word/document.xml")
	return ""
}

func TestWiredPipelineFillsTemplateEndToEnd(t *testing.T) {
	var seenPrompt string
	var seenAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode chat request: %v", err)
		}
		if len(body.Messages) > 0 {
			seenPrompt = body.Messages[0].Content
		}
		completion := `{"claim_number": "CLM-4471", "adjuster_name": "R. Alvarez"}`
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": completion}},
			},
		})
	}))
	defer server.Close()

	cfg := config.Load()
	cfg.LLMBaseURL = server.URL
	cfg.OutputPrefix = "filled_insurance_template"

	app := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), "glr-docfill-test")

	doc, err := app.Filler.Fill(context.Background(), domain.FillRequest{
		Template: domain.UploadedFile{
			Filename: "glr_template.docx",
			Content:  buildTemplate(t, "Claim {claim_number} handled by {adjuster_name}."),
		},
		Reports: []domain.UploadedFile{
			{Filename: "site_photos.pdf", Content: buildReport(t, "Claim CLM-4471 inspected by R. Alvarez")},
		},
		APIKey: "sk-or-e2e",
	})
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}

	if seenAuth != "Bearer sk-or-e2e" {
		t.Errorf("Authorization = %q", seenAuth)
	}
	if !strings.Contains(seenPrompt, "claim_number") || !strings.Contains(seenPrompt, "adjuster_name") {
		t.Errorf("prompt missing discovered fields: %q", seenPrompt)
	}
	if !strings.Contains(seenPrompt, "Claim CLM-4471 inspected") {
		t.Errorf("prompt missing extracted report text: %q", seenPrompt)
	}

	if doc.ContentType != domain.WordMIMEType {
		t.Errorf("ContentType = %q", doc.ContentType)
	}
	if !strings.HasPrefix(doc.Filename, "filled_insurance_template_") || !strings.HasSuffix(doc.Filename, ".docx") {
		t.Errorf("Filename = %q", doc.Filename)
	}

	rendered := documentText(t, doc.Content)
	if !strings.Contains(rendered, "CLM-4471") || !strings.Contains(rendered, "R. Alvarez") {
		t.Errorf("rendered document missing mapped values: %q", rendered)
	}
	if strings.Contains(rendered, "{claim_number}") || strings.Contains(rendered, "{adjuster_name}") {
		t.Errorf("rendered document still has placeholders: %q", rendered)
	}
}

func TestWiredPipelineSurfacesMalformedCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Sure! Here are the fields: claim_number=CLM-1"}},
			},
		})
	}))
	defer server.Close()

	cfg := config.Load()
	cfg.LLMBaseURL = server.URL

	app := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), "glr-docfill-test")

	_, err := app.Filler.Fill(context.Background(), domain.FillRequest{
		Template: domain.UploadedFile{
			Filename: "glr_template.docx",
			Content:  buildTemplate(t, "Claim {claim_number}."),
		},
		Reports: []domain.UploadedFile{
			{Filename: "report.pdf", Content: buildReport(t, "some findings")},
		},
		APIKey: "sk-or-e2e",
	})
	if !domain.IsKind(err, domain.ErrResponseFormat) {
		t.Fatalf("Fill() error = %v, want response format kind", err)
	}
}
