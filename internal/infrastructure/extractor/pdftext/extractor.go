package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/vpetrenko/glr-docfill/internal/core/domain"
)

// Extractor pulls plain text out of paged PDF payloads. A page that yields
// no text is skipped with a warning; a document that cannot be parsed at all
// is skipped with an error log. Neither is fatal to the batch.
type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

func (e *Extractor) ExtractAll(ctx context.Context, reports []domain.UploadedFile) (string, error) {
	var chunks []string
	for _, report := range reports {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pages, err := e.extractDocument(report)
		if err != nil {
			e.logger.Error("report_unreadable",
				"filename", report.Filename,
				"size_bytes", len(report.Content),
				"error", err,
			)
			continue
		}
		chunks = append(chunks, pages...)
	}

	combined := strings.Join(chunks, "\n")
	e.logger.Info("text_extraction_completed",
		"report_count", len(reports),
		"page_count", len(chunks),
		"extracted_chars", len(combined),
	)
	return combined, nil
}

func (e *Extractor) extractDocument(report domain.UploadedFile) (pages []string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(report.Content), int64(len(report.Content)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	total := reader.NumPage()
	for number := 1; number <= total; number++ {
		text, pageErr := extractPage(reader, number)
		if pageErr != nil {
			e.logger.Warn("page_skipped",
				"filename", report.Filename,
				"page", number,
				"error", pageErr,
			)
			continue
		}
		if strings.TrimSpace(text) == "" {
			e.logger.Warn("page_has_no_text", "filename", report.Filename, "page", number)
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func extractPage(reader *pdf.Reader, number int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page text extraction: %v", rec)
		}
	}()

	page := reader.Page(number)
	if page.V.IsNull() {
		return "", fmt.Errorf("page object missing")
	}
	return page.GetPlainText(nil)
}
