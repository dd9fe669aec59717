package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/vpetrenko/glr-docfill/internal/config"
	"github.com/vpetrenko/glr-docfill/internal/core/domain"
	"github.com/vpetrenko/glr-docfill/internal/core/ports"
	"github.com/vpetrenko/glr-docfill/internal/observability/metrics"
)

type Router struct {
	cfg     config.Config
	filler  ports.DocumentFiller
	metrics *metrics.ServerMetrics
	logger  *slog.Logger
}

func NewRouter(cfg config.Config, filler ports.DocumentFiller, m *metrics.ServerMetrics, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		cfg:     cfg,
		filler:  filler,
		metrics: m,
		logger:  logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", rt.health)
	mux.HandleFunc("/process", rt.process)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, handler))
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   rt.cfg.Version,
	})
}

// process marshals the multipart request into the pipeline's input contract
// and streams the rendered document back as an attachment. All pipeline
// semantics, validation included, live behind the DocumentFiller port.
func (rt *Router) process(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if r.ContentLength > rt.cfg.MaxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
			"error": fmt.Sprintf("request too large, maximum is %d bytes", rt.cfg.MaxUploadBytes),
		})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(rt.cfg.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": fmt.Sprintf("request too large, maximum is %d bytes", rt.cfg.MaxUploadBytes),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req, err := fillRequestFromForm(r.MultipartForm)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	doc, err := rt.filler.Fill(r.Context(), req)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			// Detail stays in the server log; the credential never does.
			rt.logger.Error("process_failed",
				"request_id", requestIDFromContext(r.Context()),
				"status", status,
				"error", err,
			)
		}
		writeJSON(w, status, map[string]string{"error": userMessage(err)})
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Content)
}

// fillRequestFromForm reads the buffered multipart parts. Missing parts
// produce zero values so the pipeline's own validation reports them.
func fillRequestFromForm(form *multipart.Form) (domain.FillRequest, error) {
	var req domain.FillRequest

	if headers := form.File["template"]; len(headers) > 0 {
		upload, err := readFormFile(headers[0])
		if err != nil {
			return domain.FillRequest{}, err
		}
		req.Template = upload
	}

	for _, header := range form.File["reports"] {
		upload, err := readFormFile(header)
		if err != nil {
			return domain.FillRequest{}, err
		}
		req.Reports = append(req.Reports, upload)
	}

	if values := form.Value["api_key"]; len(values) > 0 {
		req.APIKey = values[0]
	}
	return req, nil
}

func readFormFile(header *multipart.FileHeader) (domain.UploadedFile, error) {
	file, err := header.Open()
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("open uploaded file %q: %w", header.Filename, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("read uploaded file %q: %w", header.Filename, err)
	}
	return domain.UploadedFile{Filename: header.Filename, Content: content}, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
