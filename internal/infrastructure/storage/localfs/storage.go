package localfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vpetrenko/glr-docfill/internal/core/domain"
)

// Storage reads uploads from and writes rendered documents to the local
// filesystem. Only the terminal form front end uses it; the HTTP front end
// never touches disk.
type Storage struct {
	outputDir string
}

func New(outputDir string) (*Storage, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Storage{outputDir: outputDir}, nil
}

func (s *Storage) LoadUpload(path string) (domain.UploadedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("read upload: %w", err)
	}
	return domain.UploadedFile{
		Filename: filepath.Base(path),
		Content:  content,
	}, nil
}

// StoreRendered writes the document under its generated filename and returns
// the full path.
func (s *Storage) StoreRendered(doc *domain.RenderedDocument) (string, error) {
	path := filepath.Join(s.outputDir, doc.Filename)
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return "", fmt.Errorf("write rendered document: %w", err)
	}
	return path, nil
}
