// Package handlers provides HTTP handlers for the PDF tools API.
//
// Every endpoint is a one-shot multipart upload: the request carries the
// input files and the tool parameters, and the response is the finished
// document. Runs are serialized through the session manager and their
// scratch files are removed before the response completes.
//
// Example usage:
//
//	h := handlers.NewAPIHandler(sessionManager, cfg.Limits, cfg.Run.WaitTimeout)
//	r := chi.NewRouter()
//	r.Post("/api/merge", h.MergeDocuments)
//
// All handlers are designed to be used with the chi router.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-pdftools/internal/config"
	"go-pdftools/internal/geometry"
	"go-pdftools/internal/imagepdf"
	"go-pdftools/internal/merge"
	"go-pdftools/internal/metrics"
	"go-pdftools/internal/overlay"
	"go-pdftools/internal/pagerange"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/raster"
	"go-pdftools/internal/session"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/hlog"
)

const megabyte = 1 << 20

var (
	errBadRequest = errors.New("bad request")
	errEmptyPDF   = errors.New("document has no pages")
)

type APIHandler struct {
	SessionManager *session.SessionManager
	Limits         config.LimitsConfig
	WaitTimeout    time.Duration
}

func NewAPIHandler(sm *session.SessionManager, limits config.LimitsConfig, wait time.Duration) *APIHandler {
	return &APIHandler{SessionManager: sm, Limits: limits, WaitTimeout: wait}
}

// upload is one file taken from a multipart form.
type upload struct {
	Name string
	Data []byte
}

// run waits for the run slot and calls fn with a fresh session. The session's
// scratch files are removed when fn returns.
func (h *APIHandler) run(r *http.Request, tool string, fn func(s *session.Session) error) error {
	ctx := r.Context()
	if h.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.WaitTimeout)
		defer cancel()
	}
	s, err := h.SessionManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer h.SessionManager.End(s)

	start := time.Now()
	err = fn(s)
	metrics.ObserveRun(tool, err, time.Since(start))
	hlog.FromRequest(r).Info().Str("tool", tool).Str("session", s.ID).
		Dur("took", time.Since(start)).AnErr("error", err).Msg("run finished")
	return err
}

func (h *APIHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	limit := h.Limits.MaxUploadMB * megabyte
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 * megabyte); err != nil {
		return fmt.Errorf("%w: upload too large or malformed", errBadRequest)
	}
	return nil
}

func readUpload(fh *multipart.FileHeader, limit int64) (upload, error) {
	f, err := fh.Open()
	if err != nil {
		return upload{}, fmt.Errorf("%w: error retrieving file", errBadRequest)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return upload{}, fmt.Errorf("%w: failed to read file", errBadRequest)
	}
	if int64(len(data)) > limit {
		return upload{}, fmt.Errorf("%w: %s is larger than %d MB", errBadRequest, fh.Filename, limit/megabyte)
	}
	return upload{Name: fh.Filename, Data: data}, nil
}

// formFiles returns every file sent under key, at least one.
func formFiles(r *http.Request, key string, limit int64) ([]upload, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[key]) == 0 {
		return nil, fmt.Errorf("%w: missing file field %q", errBadRequest, key)
	}
	headers := r.MultipartForm.File[key]
	out := make([]upload, 0, len(headers))
	for _, fh := range headers {
		u, err := readUpload(fh, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (h *APIHandler) pdfUploads(r *http.Request, key string) ([]upload, error) {
	files, err := formFiles(r, key, h.Limits.MaxUploadMB*megabyte)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if !mimetype.Detect(f.Data).Is("application/pdf") {
			return nil, fmt.Errorf("%w: %s is not a valid PDF", errBadRequest, f.Name)
		}
	}
	return files, nil
}

func (h *APIHandler) imageUploads(r *http.Request, key string) ([]upload, error) {
	files, err := formFiles(r, key, h.Limits.MaxImageMB*megabyte)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if !raster.IsSupported(f.Data) {
			return nil, fmt.Errorf("%w: %s: only PNG, JPEG, GIF, BMP and TIFF images are allowed", errBadRequest, f.Name)
		}
	}
	return files, nil
}

func formFloat(r *http.Request, key string, def float64) (float64, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadRequest, key)
	}
	return f, nil
}

func formBool(r *http.Request, key string) (bool, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", errBadRequest, key)
	}
	return b, nil
}

// parsed wraps a parameter parse error as a bad request.
func parsed[T any](v T, err error) (T, error) {
	if err != nil {
		return v, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return v, nil
}

func writeFile(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func statusFor(err error) int {
	var pce *overlay.PageCompositionError
	switch {
	case errors.As(err, &pce):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, errBadRequest),
		errors.Is(err, errEmptyPDF),
		errors.Is(err, pagerange.ErrInvalidRange),
		errors.Is(err, geometry.ErrInvalidImageDimensions),
		errors.Is(err, geometry.ErrInvalidMargin),
		errors.Is(err, overlay.ErrInvalidPlacement),
		errors.Is(err, pdf.ErrDocumentParse),
		errors.Is(err, raster.ErrUnsupportedImage),
		errors.Is(err, imagepdf.ErrNoInputImages),
		errors.Is(err, merge.ErrNoInputDocuments):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		msg = "Another job is still running, try again later"
	case http.StatusBadRequest:
		msg = strings.TrimPrefix(msg, errBadRequest.Error()+": ")
	}
	l := hlog.FromRequest(r)
	if status >= http.StatusInternalServerError {
		l.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		l.Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	http.Error(w, msg, status)
}
