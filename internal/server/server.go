package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"reviewalyze/internal/domain"
	"reviewalyze/internal/infrastructure/csvsource"
	"reviewalyze/internal/ports"
	"reviewalyze/internal/usecase"
)

// Server exposes the analysis pipeline over HTTP: CSV uploads in, summary
// tables out.
type Server struct {
	pipeline      *usecase.Pipeline
	classifiers   ports.ClassifierSource
	repository    ports.SummaryRepository
	defaultGroups []domain.Keyword
	logger        *slog.Logger
}

// Deps wires the server's collaborators.
type Deps struct {
	Pipeline      *usecase.Pipeline
	Classifiers   ports.ClassifierSource
	Repository    ports.SummaryRepository
	DefaultGroups []domain.Keyword
	Logger        *slog.Logger
}

// New builds the server.
func New(deps Deps) *Server {
	return &Server{
		pipeline:      deps.Pipeline,
		classifiers:   deps.Classifiers,
		repository:    deps.Repository,
		defaultGroups: deps.DefaultGroups,
		logger:        deps.Logger,
	}
}

// Router assembles the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/analyze/groups", s.handleAnalyzeGroups)
	r.Get("/summaries", s.handleSummaries)

	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var name string
	if s.classifiers != nil {
		if classifier := s.classifiers.Classifier(); classifier != nil {
			name = classifier.Name()
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"classifier":   name,
		"model_loaded": name != "",
	})
}

// handleAnalyze runs a flat-taxonomy analysis over uploaded CSVs. Form fields:
// "reviews" (required) and "keywords" (required, one keyword per line).
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reviews, ok := s.reviewsUpload(w, r)
	if !ok {
		return
	}

	file, _, err := r.FormFile("keywords")
	if err != nil {
		writeError(w, http.StatusBadRequest, "keywords file is required")
		return
	}
	keywords, err := readKeywords(file, csvsource.ReadKeywords)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondAnalysis(w, r, reviews, keywords, false)
}

// handleAnalyzeGroups runs a grouped-taxonomy analysis. The "keywords" upload
// (keyword_group,keyword CSV) is optional; the built-in taxonomy is used when
// it is absent.
func (s *Server) handleAnalyzeGroups(w http.ResponseWriter, r *http.Request) {
	reviews, ok := s.reviewsUpload(w, r)
	if !ok {
		return
	}

	keywords := s.defaultGroups
	if file, _, err := r.FormFile("keywords"); err == nil {
		keywords, err = readKeywords(file, csvsource.ReadKeywordGroups)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	s.respondAnalysis(w, r, reviews, keywords, true)
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	if s.repository == nil {
		writeError(w, http.StatusServiceUnavailable, "summary storage is not configured")
		return
	}

	var apps []string
	if app := strings.TrimSpace(r.URL.Query().Get("app")); app != "" {
		apps = []string{app}
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := s.repository.RecentSummaries(r.Context(), apps, limit)
	if err != nil {
		s.error("summary lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "summary lookup failed")
		return
	}
	if rows == nil {
		rows = []domain.SummaryRow{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"summary": rows})
}

func (s *Server) reviewsUpload(w http.ResponseWriter, r *http.Request) ([]domain.Review, bool) {
	file, _, err := r.FormFile("reviews")
	if err != nil {
		writeError(w, http.StatusBadRequest, "reviews file is required")
		return nil, false
	}
	defer file.Close()

	reviews, err := csvsource.ReadReviews(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return reviews, true
}

func (s *Server) respondAnalysis(w http.ResponseWriter, r *http.Request, reviews []domain.Review, keywords []domain.Keyword, grouped bool) {
	report, err := s.pipeline.Analyze(r.Context(), reviews, keywords, grouped)
	switch {
	case errors.Is(err, usecase.ErrNoMatches):
		writeJSON(w, http.StatusOK, map[string]any{
			"app_name": report.AppName,
			"summary":  report.Summary,
			"message":  "no keyword matches",
		})
	case err != nil:
		s.error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func readKeywords(file multipart.File, parse func(io.Reader) ([]domain.Keyword, error)) ([]domain.Keyword, error) {
	defer file.Close()
	return parse(file)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) error(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
