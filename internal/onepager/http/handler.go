package onepagerhttp

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/onepager/onepager/internal/onepager"
	"github.com/onepager/onepager/internal/platform/httpx"
)

// GenerationIDHeader carries the id logged for a generation request.
const GenerationIDHeader = "X-Generation-Id"

// Converter renders a generated deck to PDF.
type Converter interface {
	ConvertPresentation(ctx context.Context, filename string, deck []byte) ([]byte, error)
}

// Handler wires the one-pager generation endpoints.
type Handler struct {
	logger    *slog.Logger
	generator *onepager.Generator
	converter Converter
	validate  *validator.Validate
	maxBody   int64
}

// NewHandler constructs a Handler. converter may be nil, in which case the
// preview route is not mounted.
func NewHandler(logger *slog.Logger, generator *onepager.Generator, converter Converter, maxBody int64) *Handler {
	return &Handler{
		logger:    logger,
		generator: generator,
		converter: converter,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		maxBody:   maxBody,
	}
}

// MountRoutes registers HTTP routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/api/generate-nav", func(r chi.Router) {
		r.Use(httpx.CORS("POST, OPTIONS", "Content-Type"))
		r.Post("/", h.generate)
		if h.converter != nil {
			r.Post("/preview", h.preview)
		}
	})
}

type generateResponse struct {
	Success bool     `json:"success"`
	File    string   `json:"file"`
	Updates []string `json:"updates"`
	Message string   `json:"message"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(w, r)
	res, ok := h.run(w, r, logger)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, generateResponse{
		Success: true,
		File:    base64.StdEncoding.EncodeToString(res.File),
		Updates: updatesOf(res),
		Message: res.Message,
	})
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(w, r)
	res, ok := h.run(w, r, logger)
	if !ok {
		return
	}
	pdf, err := h.converter.ConvertPresentation(r.Context(), "one-pager.pptx", res.File)
	if err != nil {
		h.fail(w, logger, fmt.Errorf("%w: convert preview: %w", httpx.ErrUpstream, err))
		return
	}
	httpx.JSON(w, http.StatusOK, generateResponse{
		Success: true,
		File:    base64.StdEncoding.EncodeToString(pdf),
		Updates: updatesOf(res),
		Message: res.Message,
	})
}

// run decodes and validates the body and applies it. It writes the failure
// response itself and reports whether the caller should continue.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (onepager.Result, bool) {
	var req onepager.Request
	if err := httpx.DecodeJSON(w, r, h.maxBody, &req); err != nil {
		h.fail(w, logger, fmt.Errorf("%w: decode request body: %w", httpx.ErrValidation, err))
		return onepager.Result{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.fail(w, logger, fmt.Errorf("%w: %w", onepager.ErrNoTemplate, err))
		return onepager.Result{}, false
	}
	res, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		h.fail(w, logger, err)
		return onepager.Result{}, false
	}
	logger.Info("generation completed", slog.Any("updates", res.Updates))
	return res, true
}

func (h *Handler) requestLogger(w http.ResponseWriter, r *http.Request) *slog.Logger {
	id := uuid.NewString()
	w.Header().Set(GenerationIDHeader, id)
	return h.logger.With(slog.String("generation_id", id), slog.String("path", r.URL.Path))
}

func (h *Handler) fail(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("generation failed", slog.Int("status", status), slog.Any("error", err))
	} else {
		logger.Warn("generation rejected", slog.Int("status", status), slog.Any("error", err))
	}
	httpx.Fail(w, status, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, onepager.ErrNoTemplate), errors.Is(err, onepager.ErrNoSlides):
		return http.StatusBadRequest
	case errors.Is(err, onepager.ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return httpx.StatusFor(err)
	}
}

func updatesOf(res onepager.Result) []string {
	if res.Updates == nil {
		return []string{}
	}
	return res.Updates
}
