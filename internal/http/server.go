package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/godilite/ta-grader/internal/llm"
	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/rubric"
	"github.com/godilite/ta-grader/internal/service"
)

const (
	maxBodyBytes   = 10 << 20
	maxUploadBytes = 32 << 20
	requestTimeout = 2 * time.Minute
)

// SummaryStore registers and lists graded results.
type SummaryStore interface {
	Append(ctx context.Context, student, rubricText string) (models.StudentGradeSummary, error)
	Summaries(ctx context.Context) ([]models.StudentGradeSummary, error)
}

// ReportBuilder flattens stored results into report rows.
type ReportBuilder interface {
	BuildReportRows(ctx context.Context) ([]service.ReportRow, error)
}

// Grader holds the current rubric and grades submissions against it.
type Grader interface {
	SetRubric(sheet *rubric.Sheet)
	Rubric() (*rubric.Sheet, error)
	GradeSubmissions(ctx context.Context, subs []service.Submission) ([]models.StudentGradeSummary, error)
}

// Server serves the browser-facing JSON API.
type Server struct {
	store     SummaryStore
	reports   ReportBuilder
	grader    Grader
	completer llm.Completer
	logger    *zap.Logger
}

func NewServer(store SummaryStore, reports ReportBuilder, grader Grader, completer llm.Completer, logger *zap.Logger) *Server {
	if store == nil {
		panic("store must not be nil")
	}
	if reports == nil {
		panic("reports must not be nil")
	}
	if grader == nil {
		panic("grader must not be nil")
	}
	if completer == nil {
		panic("completer must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:     store,
		reports:   reports,
		grader:    grader,
		completer: completer,
		logger:    logger.Named("http"),
	}
}

// Routes builds the router. An empty origins list allows any origin.
func (s *Server) Routes(origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/rubric", s.uploadRubric)
		r.Get("/rubric", s.getRubric)

		r.Post("/grade", s.gradeSubmissions)
		r.Post("/grades", s.registerGradeResult)
		r.Get("/grades", s.listGrades)

		r.Get("/report", s.reportJSON)
		r.Get("/report.pdf", s.reportPDF)
		r.Get("/report.csv", s.reportCSV)

		r.Post("/llm", s.callLLM)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
