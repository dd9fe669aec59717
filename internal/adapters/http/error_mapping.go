package httpadapter

import (
	"net/http"

	"github.com/vpetrenko/glr-docfill/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrValidation),
		domain.IsKind(err, domain.ErrExtraction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// userMessage keeps client-fault and format errors specific and everything
// else generic; internal detail belongs in the server log.
func userMessage(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrValidation),
		domain.IsKind(err, domain.ErrExtraction):
		return err.Error()
	case domain.IsKind(err, domain.ErrResponseFormat):
		return "AI response was not valid JSON. Please try again."
	default:
		return "processing failed"
	}
}
