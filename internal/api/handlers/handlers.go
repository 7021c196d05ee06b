package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-summarizer/internal/api/middleware"
	"github.com/dvloznov/statement-summarizer/internal/logger"
	"github.com/dvloznov/statement-summarizer/internal/pipeline"
)

// UploadField is the multipart form field carrying the statement workbook.
const UploadField = "file"

// Error kinds reported in JSON error bodies.
const (
	KindInvalidInput       = "invalid_input"
	KindUpstreamDependency = "upstream_dependency"
)

// Summarizer produces a summary for one uploaded workbook.
type Summarizer interface {
	Summarize(ctx context.Context, data []byte) (*pipeline.Summary, error)
}

// SummarizeHandler handles statement uploads.
type SummarizeHandler struct {
	summarizer     Summarizer
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewSummarizeHandler creates a new summarize handler.
func NewSummarizeHandler(summarizer Summarizer, maxUploadBytes int64, log zerolog.Logger) *SummarizeHandler {
	return &SummarizeHandler{
		summarizer:     summarizer,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type upstreamBody struct {
	errorBody
	*pipeline.Summary
}

// Summarize handles POST /api/summarize
func (h *SummarizeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.requestLogger(ctx)

	data, status, err := h.readUpload(w, r, log)
	if err != nil {
		log.Warn().Err(err).Int("status", status).Msg("Rejected upload")
		middleware.WriteJSON(w, status, errorBody{Error: err.Error(), Kind: KindInvalidInput})
		return
	}

	summary, err := h.summarizer.Summarize(ctx, data)
	switch {
	case err == nil:
		log.Info().
			Int("rows", summary.Rows).
			Int("missing_amounts", summary.MissingAmounts).
			Msg("Statement summarized")
		middleware.WriteJSON(w, http.StatusOK, summary)

	case errors.Is(err, pipeline.ErrInvalidInput):
		log.Warn().Err(err).Msg("Invalid statement")
		middleware.WriteJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: KindInvalidInput})

	case errors.Is(err, pipeline.ErrUpstream):
		log.Error().Err(err).Msg("Narrative generation failed")
		body := upstreamBody{errorBody: errorBody{Error: "Narrative service unavailable", Kind: KindUpstreamDependency}, Summary: summary}
		middleware.WriteJSON(w, http.StatusBadGateway, body)

	default:
		log.Error().Err(err).Msg("Failed to summarize statement")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to summarize statement")
	}
}

// readUpload returns the uploaded file bytes, or the status to reply with.
func (h *SummarizeHandler) readUpload(w http.ResponseWriter, r *http.Request, log zerolog.Logger) ([]byte, int, error) {
	if r.ContentLength > h.maxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, errors.New("upload exceeds size limit")
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, errors.New("upload exceeds size limit")
		}
		return nil, http.StatusBadRequest, errors.New("expected a multipart form upload")
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("missing file field \"" + UploadField + "\"")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("failed to read uploaded file")
	}

	log.Debug().
		Str("filename", header.Filename).
		Int("bytes", len(data)).
		Msg("Upload received")

	return data, 0, nil
}

// requestLogger prefers the request-scoped logger set by middleware.Logger,
// which carries the request ID, and falls back to the handler's logger.
func (h *SummarizeHandler) requestLogger(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(logger.LoggerKey).(zerolog.Logger); ok {
		return l
	}
	return h.log
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
