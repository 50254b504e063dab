package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
	"github.com/secmon-lab/assessor/pkg/usecase"
	"github.com/secmon-lab/assessor/pkg/utils/errutil"
	"github.com/secmon-lab/assessor/pkg/utils/safe"
)

var errBadRequest = goerr.New("bad request")

// statusOf maps an error to the HTTP status of its response
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrUnknownQuestion),
		errors.Is(err, model.ErrInvalidOption),
		errors.Is(err, usecase.ErrEmptySubmission):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrIncompleteSubmission):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrCategoryNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	var incomplete *model.IncompleteSubmissionError
	if errors.As(err, &incomplete) {
		errutil.HandleHTTPWithDetails(ctx, w, err, http.StatusUnprocessableEntity, newIncompleteView(incomplete))
		return
	}

	status := statusOf(err)
	if status < http.StatusInternalServerError {
		if details := clientDetails(err); len(details) > 0 {
			errutil.HandleHTTPWithDetails(ctx, w, err, status, details)
			return
		}
	}
	errutil.HandleHTTP(ctx, w, err, status)
}

// detailKeys are the error values a client may act upon
var detailKeys = []string{model.CategoryIDKey, model.QuestionIDKey, model.OptionValueKey}

// clientDetails picks the identifiers of the offending input from the error
// chain. Other values stay in the logs.
func clientDetails(err error) map[string]any {
	var gerr *goerr.Error
	if !errors.As(err, &gerr) {
		return nil
	}
	values := gerr.Values()
	details := make(map[string]any)
	for _, key := range detailKeys {
		if v, ok := values[key]; ok {
			details[key] = v
		}
	}
	return details
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}

// decodeJSON reads a size limited JSON body into v and validates it
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBodySize)
	defer safe.Close(r.Context(), body)

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return goerr.Wrap(errBadRequest, "invalid JSON body: "+err.Error())
	}
	if err := s.validate.Struct(v); err != nil {
		return goerr.Wrap(errBadRequest, "invalid request: "+err.Error())
	}
	return nil
}

func (s *Server) locale(r *http.Request) types.Locale {
	return s.uc.Catalog.ResolveLocale(parseLocale(r.URL.Query().Get("lang")))
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	endpoints := []string{
		"GET /api/health",
		"GET /api/questions?lang={fr|en}",
		"GET /api/questions/{categoryID}?lang={fr|en}",
		"POST /api/submit",
		"POST /api/progress",
		"GET /api/stats",
	}
	if s.uc.Export != nil {
		endpoints = append(endpoints, "GET /api/export/template?lang={fr|en}", "POST /api/export/results")
	}
	if s.metricsHandler != nil {
		endpoints = append(endpoints, "GET /metrics")
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"service":   "assessor",
		"version":   s.version,
		"endpoints": endpoints,
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) questionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, newCatalogView(s.uc.Catalog.Catalog(), s.locale(r)))
}

func (s *Server) categoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	categoryID := types.CategoryID(chi.URLParam(r, "categoryID"))

	cat, err := s.uc.Catalog.Category(categoryID)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, newCategoryView(cat))
}

func (s *Server) submitHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	result, err := s.uc.Assessment.Submit(ctx, req.toInput())
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, newResultView(result))
}

func (s *Server) progressHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req progressRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	progress, err := s.uc.Assessment.Progress(ctx, model.ResponseSet(req.Responses))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, newProgressView(progress))
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, newStatsView(s.uc.Catalog.Stats()))
}

func (s *Server) exportTemplateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := s.locale(r)

	var buf bytes.Buffer
	if err := s.uc.Export.Template(ctx, &buf, lang); err != nil {
		handleError(ctx, w, err)
		return
	}
	writeAttachment(ctx, w, s.uc.Export.ContentType(), s.uc.Export.TemplateFileName(lang), buf.Bytes())
}

func (s *Server) exportResultsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	var buf bytes.Buffer
	result, err := s.uc.Export.Results(ctx, &buf, req.toInput())
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeAttachment(ctx, w, s.uc.Export.ContentType(), s.uc.Export.ResultsFileName(result), buf.Bytes())
}

func writeAttachment(ctx context.Context, w http.ResponseWriter, contentType, fileName string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	safe.Write(ctx, w, data)
}
