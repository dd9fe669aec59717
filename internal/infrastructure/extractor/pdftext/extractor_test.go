package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/vpetrenko/glr-docfill/internal/core/domain"
)

// buildPDF writes a minimal uncompressed PDF with one page per text, exact
// xref offsets included, so the extractor can be exercised without fixtures.
func buildPDF(t *testing.T, pageTexts ...string) []byte {
	t.Helper()

	pageCount := len(pageTexts)
	fontObj := 3 + 2*pageCount

	var kids []string
	for i := 0; i < pageCount; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+i))
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount),
	}
	for i := 0; i < pageCount; i++ {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, 3+pageCount+i,
		))
	}
	for _, text := range pageTexts {
		escaped := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(text)
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escaped)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

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

func TestExtractAllReadsPagesInOrder(t *testing.T) {
	extractor := New(nil)
	reports := []domain.UploadedFile{
		{Filename: "first.pdf", Content: buildPDF(t, "alpha page one", "alpha page two")},
		{Filename: "second.pdf", Content: buildPDF(t, "beta page one")},
	}

	text, err := extractor.ExtractAll(context.Background(), reports)
	if err != nil {
		t.Fatalf("ExtractAll() error = %v", err)
	}

	positions := []int{
		strings.Index(text, "alpha page one"),
		strings.Index(text, "alpha page two"),
		strings.Index(text, "beta page one"),
	}
	for i, pos := range positions {
		if pos < 0 {
			t.Fatalf("missing expected page text %d in %q", i, text)
		}
		if i > 0 && positions[i-1] >= pos {
			t.Fatalf("pages out of order: %v in %q", positions, text)
		}
	}
}

func TestExtractAllSkipsUnreadableDocuments(t *testing.T) {
	extractor := New(nil)
	reports := []domain.UploadedFile{
		{Filename: "broken.pdf", Content: []byte("definitely not a pdf")},
		{Filename: "ok.pdf", Content: buildPDF(t, "surviving text")},
	}

	text, err := extractor.ExtractAll(context.Background(), reports)
	if err != nil {
		t.Fatalf("ExtractAll() error = %v", err)
	}
	if !strings.Contains(text, "surviving text") {
		t.Fatalf("readable document lost: %q", text)
	}
}

func TestExtractAllReturnsEmptyForAllBrokenInput(t *testing.T) {
	extractor := New(nil)
	reports := []domain.UploadedFile{
		{Filename: "broken1.pdf", Content: []byte{0x00, 0x01}},
		{Filename: "broken2.pdf", Content: nil},
	}

	text, err := extractor.ExtractAll(context.Background(), reports)
	if err != nil {
		t.Fatalf("ExtractAll() error = %v", err)
	}
	if strings.TrimSpace(text) != "" {
		t.Fatalf("expected no text, got %q", text)
	}
}

func TestExtractAllHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).ExtractAll(ctx, []domain.UploadedFile{
		{Filename: "a.pdf", Content: buildPDF(t, "text")},
	})
	if err == nil {
		t.Fatalf("expected context error")
	}
}
