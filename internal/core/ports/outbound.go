package ports

import (
	"context"

	"github.com/vpetrenko/glr-docfill/internal/core/domain"
)

// ReportTextExtractor extracts plain text from paged report documents.
// Unreadable pages and documents are skipped, not fatal; the result is the
// newline-joined text of every readable page in document-then-page order.
type ReportTextExtractor interface {
	ExtractAll(ctx context.Context, reports []domain.UploadedFile) (string, error)
}

// PlaceholderDiscoverer returns the ordered set of distinct placeholder
// names referenced by a template payload. Deterministic for a given payload.
type PlaceholderDiscoverer interface {
	Discover(template []byte) ([]string, error)
}

// TemplateRenderer substitutes placeholder values into the original template
// payload and serializes the result.
type TemplateRenderer interface {
	Render(template []byte, fields map[string]any) ([]byte, error)
}

// CompletionClient performs one synchronous chat-completion call. The
// credential is supplied per call; a run makes exactly one attempt.
type CompletionClient interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}
