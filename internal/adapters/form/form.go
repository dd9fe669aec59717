// Package formadapter is the interactive front end: it collects the same
// inputs as the HTTP surface through terminal prompts and hands them to the
// same pipeline.
package formadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vpetrenko/glr-docfill/internal/core/domain"
	"github.com/vpetrenko/glr-docfill/internal/core/ports"
	"github.com/vpetrenko/glr-docfill/internal/infrastructure/storage/localfs"
)

type Form struct {
	prompter Prompter
	filler   ports.DocumentFiller
	files    *localfs.Storage
	logger   *slog.Logger
	out      io.Writer

	defaultAPIKey string
}

func New(prompter Prompter, filler ports.DocumentFiller, files *localfs.Storage, logger *slog.Logger, out io.Writer, defaultAPIKey string) *Form {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Form{
		prompter:      prompter,
		filler:        filler,
		files:         files,
		logger:        logger,
		out:           out,
		defaultAPIKey: defaultAPIKey,
	}
}

// Run drives one interactive session: collect inputs, run the pipeline,
// write the rendered document to disk. A failure prints one inline error
// line and stops.
func (f *Form) Run(ctx context.Context) error {
	req, ok, err := f.collect()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(f.out, "Aborted.")
		return nil
	}

	doc, err := f.filler.Fill(ctx, req)
	if err != nil {
		fmt.Fprintf(f.out, "Error: %s\n", inlineMessage(err))
		return err
	}

	path, err := f.files.StoreRendered(doc)
	if err != nil {
		fmt.Fprintf(f.out, "Error: %s\n", err)
		return err
	}

	fmt.Fprintf(f.out, "Document generated successfully: %s\n", path)
	return nil
}

func (f *Form) collect() (domain.FillRequest, bool, error) {
	templatePath, err := f.prompter.Input("Path to insurance template (.docx):", validateTemplatePath)
	if err != nil {
		return domain.FillRequest{}, false, err
	}
	template, err := f.files.LoadUpload(templatePath)
	if err != nil {
		return domain.FillRequest{}, false, err
	}

	var reports []domain.UploadedFile
	for {
		message := fmt.Sprintf("Path to photo report %d (.pdf, blank to finish):", len(reports)+1)
		validate := validateReportPath
		if len(reports) > 0 {
			validate = validateOptionalReportPath
		}
		reportPath, err := f.prompter.Input(message, validate)
		if err != nil {
			return domain.FillRequest{}, false, err
		}
		if strings.TrimSpace(reportPath) == "" {
			if len(reports) > 0 {
				break
			}
			continue
		}
		report, err := f.files.LoadUpload(reportPath)
		if err != nil {
			return domain.FillRequest{}, false, err
		}
		reports = append(reports, report)
	}

	apiKey, err := f.prompter.Password("OpenRouter API key (blank to use OPENROUTER_API_KEY):")
	if err != nil {
		return domain.FillRequest{}, false, err
	}
	if strings.TrimSpace(apiKey) == "" {
		apiKey = f.defaultAPIKey
	}

	proceed, err := f.prompter.Confirm("Generate filled document?", true)
	if err != nil {
		return domain.FillRequest{}, false, err
	}

	return domain.FillRequest{
		Template: template,
		Reports:  reports,
		APIKey:   apiKey,
	}, proceed, nil
}

func validateTemplatePath(path string) error {
	return validatePath(path, domain.DocxExtension, false)
}

func validateReportPath(path string) error {
	return validatePath(path, domain.PDFExtension, false)
}

func validateOptionalReportPath(path string) error {
	return validatePath(path, domain.PDFExtension, true)
}

func validatePath(path, extension string, allowBlank bool) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		if allowBlank {
			return nil
		}
		return errors.New("a file path is required")
	}
	if !strings.HasSuffix(strings.ToLower(trimmed), extension) {
		return fmt.Errorf("file must have the %s extension", extension)
	}
	info, err := os.Stat(trimmed)
	if err != nil {
		return fmt.Errorf("cannot read %s", trimmed)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", trimmed)
	}
	return nil
}

func inlineMessage(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrValidation),
		domain.IsKind(err, domain.ErrExtraction):
		return err.Error()
	case domain.IsKind(err, domain.ErrResponseFormat):
		return "LLM response was not valid JSON. Please retry."
	default:
		return "processing failed, see the log for details"
	}
}
