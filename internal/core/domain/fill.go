package domain

import (
	"path/filepath"
	"strings"
)

const (
	DocxExtension = ".docx"
	PDFExtension  = ".pdf"

	// WordMIMEType is the OOXML word-processing content type of the
	// rendered output document.
	WordMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// UploadedFile is one uploaded part, consumed exactly once during a run.
type UploadedFile struct {
	Filename string
	Content  []byte
}

func (f UploadedFile) Extension() string {
	return strings.ToLower(filepath.Ext(f.Filename))
}

// FillRequest carries everything one pipeline run needs. The API key is
// supplied per run and never stored.
type FillRequest struct {
	Template UploadedFile
	Reports  []UploadedFile
	APIKey   string
}

// RenderedDocument is the final output artifact, owned by the current run.
type RenderedDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}
