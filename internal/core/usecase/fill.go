package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vpetrenko/glr-docfill/internal/core/domain"
	"github.com/vpetrenko/glr-docfill/internal/core/ports"
)

// RunObserver receives per-stage and per-run outcomes for recording.
type RunObserver interface {
	ObserveStage(stage string, duration time.Duration, success bool)
	ObserveRun(status string, duration time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveStage(string, time.Duration, bool) {}
func (noopObserver) ObserveRun(string, time.Duration)         {}

type FillPipeline struct {
	extractor  ports.ReportTextExtractor
	discoverer ports.PlaceholderDiscoverer
	llm        ports.CompletionClient
	renderer   ports.TemplateRenderer

	logger   *slog.Logger
	observer RunObserver
	prefix   string
}

func NewFillPipeline(
	extractor ports.ReportTextExtractor,
	discoverer ports.PlaceholderDiscoverer,
	llm ports.CompletionClient,
	renderer ports.TemplateRenderer,
	logger *slog.Logger,
	observer RunObserver,
	filenamePrefix string,
) *FillPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if filenamePrefix == "" {
		filenamePrefix = "filled_insurance_template"
	}
	return &FillPipeline{
		extractor:  extractor,
		discoverer: discoverer,
		llm:        llm,
		renderer:   renderer,
		logger:     logger,
		observer:   observer,
		prefix:     filenamePrefix,
	}
}

// Fill runs the whole pipeline once: validate, extract text and discover
// placeholders, prompt the model, parse its JSON, render the template.
// Every stage fails fast; there is no retry and no partial result.
func (p *FillPipeline) Fill(ctx context.Context, req domain.FillRequest) (*domain.RenderedDocument, error) {
	runID := uuid.NewString()
	log := p.logger.With("run_id", runID)
	start := time.Now()

	doc, err := p.run(ctx, log, req)
	if err != nil {
		p.observer.ObserveRun("failed", time.Since(start))
		log.Error("fill_run_failed",
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			"error", err,
		)
		return nil, err
	}

	p.observer.ObserveRun("ok", time.Since(start))
	log.Info("fill_run_completed",
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
		"output_bytes", len(doc.Content),
		"filename", doc.Filename,
	)
	return doc, nil
}

func (p *FillPipeline) run(ctx context.Context, log *slog.Logger, req domain.FillRequest) (*domain.RenderedDocument, error) {
	if err := p.stage(log, "collect_input", func() error {
		return validateRequest(req)
	}); err != nil {
		return nil, err
	}
	log.Info("input_accepted",
		"template", req.Template.Filename,
		"report_count", len(req.Reports),
		"api_key_len", len(strings.TrimSpace(req.APIKey)),
	)

	// Text extraction and placeholder discovery are independent.
	var (
		text         string
		placeholders []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.stage(log, "extract_text", func() error {
			extracted, err := p.extractor.ExtractAll(gctx, req.Reports)
			if err != nil {
				return domain.WrapError(domain.ErrExtraction, "extract report text", err)
			}
			if strings.TrimSpace(extracted) == "" {
				return domain.WrapError(domain.ErrExtraction, "extract report text",
					errors.New("no text could be extracted from the PDF files"))
			}
			text = extracted
			return nil
		})
	})
	g.Go(func() error {
		return p.stage(log, "discover_fields", func() error {
			names, err := p.discoverer.Discover(req.Template.Content)
			if err != nil {
				return domain.WrapError(domain.ErrTemplate, "discover placeholders", err)
			}
			if len(names) == 0 {
				return domain.WrapError(domain.ErrTemplate, "discover placeholders",
					errors.New("template declares no placeholders"))
			}
			placeholders = names
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("inputs_prepared", "extracted_chars", len(text), "placeholder_count", len(placeholders))

	prompt := BuildPrompt(placeholders, text)
	log.Debug("prompt_built", "prompt_chars", len(prompt))

	var raw string
	if err := p.stage(log, "llm_call", func() error {
		completion, err := p.llm.Complete(ctx, req.APIKey, prompt)
		if err != nil {
			return domain.WrapError(domain.ErrLLMCall, "call completion endpoint", err)
		}
		raw = completion
		return nil
	}); err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := p.stage(log, "parse_response", func() error {
		parsed, err := parseFieldContext(raw)
		if err != nil {
			return domain.WrapError(domain.ErrResponseFormat, "parse completion", err)
		}
		fields = parsed
		return nil
	}); err != nil {
		return nil, err
	}
	logFieldMismatch(log, placeholders, fields)

	// Placeholders the model omitted render as empty strings.
	for _, name := range placeholders {
		if _, ok := fields[name]; !ok {
			fields[name] = ""
		}
	}

	var rendered []byte
	if err := p.stage(log, "render_template", func() error {
		out, err := p.renderer.Render(req.Template.Content, fields)
		if err != nil {
			return domain.WrapError(domain.ErrRender, "render template", err)
		}
		rendered = out
		return nil
	}); err != nil {
		return nil, err
	}

	return &domain.RenderedDocument{
		Filename:    fmt.Sprintf("%s_%s.docx", p.prefix, time.Now().UTC().Format("20060102_150405")),
		ContentType: domain.WordMIMEType,
		Content:     rendered,
	}, nil
}

func (p *FillPipeline) stage(log *slog.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start)
	p.observer.ObserveStage(name, duration, err == nil)

	attrs := []any{
		"stage", name,
		"duration_ms", float64(duration.Microseconds()) / 1000.0,
	}
	if err != nil {
		log.Error("stage_failed", append(attrs, "error", err)...)
		return err
	}
	log.Info("stage_completed", attrs...)
	return nil
}

func validateRequest(req domain.FillRequest) error {
	fail := func(reason string) error {
		return domain.WrapError(domain.ErrValidation, "collect input", errors.New(reason))
	}

	if req.Template.Filename == "" {
		return fail("no template file provided")
	}
	if req.Template.Extension() != domain.DocxExtension {
		return fail("template must be a .docx file")
	}
	if len(req.Reports) == 0 {
		return fail("no report files provided")
	}
	for _, report := range req.Reports {
		if report.Filename == "" {
			return fail("report file has no filename")
		}
		if report.Extension() != domain.PDFExtension {
			return fail("all report files must be .pdf files")
		}
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return fail("api key is required")
	}
	return nil
}

func logFieldMismatch(log *slog.Logger, placeholders []string, fields map[string]any) {
	expected := make(map[string]struct{}, len(placeholders))
	for _, name := range placeholders {
		expected[name] = struct{}{}
	}

	var extra, missing []string
	for key := range fields {
		if _, ok := expected[key]; !ok {
			extra = append(extra, key)
		}
	}
	for _, name := range placeholders {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(extra) > 0 {
		log.Warn("response_has_unknown_keys", "keys", extra)
	}
	if len(missing) > 0 {
		log.Warn("response_missing_placeholders", "placeholders", missing)
	}
}
