package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("invalid input")
	ErrExtraction     = errors.New("no extractable text")
	ErrTemplate       = errors.New("template unreadable")
	ErrLLMCall        = errors.New("llm call failed")
	ErrResponseFormat = errors.New("llm response is not valid json")
	ErrRender         = errors.New("template render failed")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
