package ports

import (
	"context"

	"github.com/vpetrenko/glr-docfill/internal/core/domain"
)

// DocumentFiller is the inbound contract for one end-to-end pipeline run.
// Both transport adapters (HTTP and the terminal form) consume it.
type DocumentFiller interface {
	Fill(ctx context.Context, req domain.FillRequest) (*domain.RenderedDocument, error)
}
