package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/justestif/feelora/internal/analysis"
	"github.com/justestif/feelora/internal/logger"
	"github.com/justestif/feelora/internal/receipt"
	"github.com/justestif/feelora/internal/tracks"
)

// MaxUploadBytes bounds the size of an uploaded photo.
const MaxUploadBytes = 10 << 20

const appTitle = "Feelora"

// Analyzer runs mood analyses. *analysis.Service implements it.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (receipt.Receipt, error)
	AnalyzeSample(ctx context.Context, language string) (receipt.Receipt, error)
}

// Errors shown to the user.
var (
	errNoUpload = errors.New("please upload a photo of your face first")
	errTooLarge = errors.New("that photo is too large, the limit is 10 MB")
	errBadForm  = errors.New("we couldn't read the submitted form, please try again")
)

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	analyzer  Analyzer
	templates *Templates
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(analyzer Analyzer, templates *Templates) *Handlers {
	return &Handlers{
		analyzer:  analyzer,
		templates: templates,
	}
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, http.StatusOK, tracks.DefaultLanguage, nil, nil)
}

// Analyze handles a photo upload (POST /analyze).
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	image, language, err := readUpload(w, r)
	if err != nil {
		h.renderResult(w, r, language, nil, err)
		return
	}

	rec, err := h.analyzer.Analyze(r.Context(), analysis.Request{Image: image, Language: language})
	h.renderResult(w, r, language, &rec, err)
}

// AnalyzeSample analyses the sample photo (POST /analyze/sample).
func (h *Handlers) AnalyzeSample(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.renderResult(w, r, "", nil, err)
		return
	}
	language := r.FormValue("language")

	rec, err := h.analyzer.AnalyzeSample(r.Context(), language)
	h.renderResult(w, r, language, &rec, err)
}

// APIAnalyze handles a photo upload and responds with the receipt as JSON (POST /api/analyze).
func (h *Handlers) APIAnalyze(w http.ResponseWriter, r *http.Request) {
	image, language, err := readUpload(w, r)
	if err != nil {
		h.writeJSON(w, r, statusFor(err), map[string]string{"error": userMessage(err)})
		return
	}

	rec, err := h.analyzer.Analyze(r.Context(), analysis.Request{Image: image, Language: language})
	if err != nil {
		status := statusFor(err)
		logFailure(r, status, err)
		h.writeJSON(w, r, status, map[string]string{"error": userMessage(err)})
		return
	}

	h.writeJSON(w, r, http.StatusOK, rec)
}

// Healthz reports liveness (GET /healthz).
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// readUpload reads the "image" file and "language" field of a multipart form.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	if err := parseForm(w, r); err != nil {
		return nil, "", err
	}

	language := r.FormValue("language")

	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, language, errNoUpload
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, language, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, language, errNoUpload
	}
	return data, language, nil
}

// parseForm parses a multipart or url-encoded body of at most MaxUploadBytes.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(MaxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errTooLarge
	}
	return fmt.Errorf("%w: %v", errBadForm, err)
}

// renderResult renders a receipt or an error, as a fragment for HTMX requests
// or as the full home page otherwise.
func (h *Handlers) renderResult(w http.ResponseWriter, r *http.Request, language string, rec *receipt.Receipt, err error) {
	status := http.StatusOK
	var flash *FlashMessage
	if err != nil {
		status = statusFor(err)
		logFailure(r, status, err)
		flash = &FlashMessage{Type: "error", Message: userMessage(err)}
		rec = nil
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := h.templates.RenderPartial(w, "result", ResultData{Flash: flash, Receipt: rec}); err != nil {
			logger.Error("web: rendering result partial", err, requestFields(r))
		}
		return
	}

	h.renderHome(w, r, status, language, rec, flash)
}

func (h *Handlers) renderHome(w http.ResponseWriter, r *http.Request, status int, language string, rec *receipt.Receipt, flash *FlashMessage) {
	data := HomePageData{
		PageData: PageData{
			Title:       appTitle,
			Flash:       flash,
			CurrentPath: r.URL.Path,
		},
		Languages: tracks.SuggestedLanguages,
		Language:  tracks.NormalizeLanguage(language),
		Receipt:   rec,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "home", data); err != nil {
		logger.Error("web: rendering home page", err, requestFields(r))
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("web: encoding json response", err, requestFields(r))
	}
}

// statusFor maps an analysis error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoUpload), errors.Is(err, errBadForm), errors.Is(err, analysis.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrNoSample):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// userMessage returns the message shown to the user for err.
func userMessage(err error) string {
	switch {
	case errors.Is(err, errTooLarge), errors.Is(err, errNoUpload):
		return err.Error()
	case errors.Is(err, errBadForm):
		return errBadForm.Error()
	case errors.Is(err, analysis.ErrInvalidImage):
		return "we couldn't read that image, try a JPEG or PNG photo"
	case errors.Is(err, analysis.ErrNoSample):
		return "no sample photo is configured"
	case errors.Is(err, analysis.ErrClassification):
		return "the mood classifier is unavailable right now, please try again shortly"
	default:
		return "something went wrong fetching the photo, please try again"
	}
}

func logFailure(r *http.Request, status int, err error) {
	fields := requestFields(r)
	fields["status"] = status
	if status >= http.StatusInternalServerError {
		logger.Error("web: analysis failed", err, fields)
		return
	}
	fields["error"] = err.Error()
	logger.Warn("web: analysis rejected", fields)
}

func requestFields(r *http.Request) logger.Fields {
	return logger.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"path":       r.URL.Path,
	}
}
