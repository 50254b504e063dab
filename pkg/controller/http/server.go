package http

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/secmon-lab/assessor/pkg/usecase"
	"github.com/secmon-lab/assessor/pkg/utils/logging"
)

// DefaultMaxBodySize bounds request bodies
const DefaultMaxBodySize int64 = 1 << 20

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	validate       *validator.Validate
	metricsHandler http.Handler
	maxBodySize    int64
	version        string
}

type Options func(*Server)

// WithMetrics exposes handler at /metrics
func WithMetrics(handler http.Handler) Options {
	return func(s *Server) {
		s.metricsHandler = handler
	}
}

// WithMaxBodySize sets the maximum size of a request body in bytes
func WithMaxBodySize(n int64) Options {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

// WithVersion sets the version reported by the index endpoint
func WithVersion(version string) Options {
	return func(s *Server) {
		s.version = version
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		uc:          uc,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	if sentry.CurrentHub().Client() != nil {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}

	r.Get("/", s.indexHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler)
		r.Get("/questions", s.questionsHandler)
		r.Get("/questions/{categoryID}", s.categoryHandler)
		r.Post("/submit", s.submitHandler)
		r.Post("/progress", s.progressHandler)
		r.Get("/stats", s.statsHandler)

		if uc.Export != nil {
			r.Get("/export/template", s.exportTemplateHandler)
			r.Post("/export/results", s.exportResultsHandler)
		}
	})

	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger attaches a logger carrying the request ID to the context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.From(ctx).With("request_id", middleware.GetReqID(ctx))
		next.ServeHTTP(w, r.WithContext(logging.With(ctx, logger)))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
