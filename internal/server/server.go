// Package server exposes the analysis pipeline over a JSON HTTP API:
// one endpoint to run an analysis, two to read stored records back, and a
// health probe reporting which external integrations are configured.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/config"
	"github.com/sells-group/bizintel/internal/model"
	"github.com/sells-group/bizintel/internal/store"
)

// healthPingTimeout bounds the database probe inside the health handler.
const healthPingTimeout = 2 * time.Second

// Runner runs one analysis end to end. Satisfied by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, in model.BusinessInput) (*model.AnalysisRecord, error)
}

// Server handles the HTTP API.
type Server struct {
	cfg    *config.Config
	store  store.Store
	runner Runner
}

// New creates a Server.
func New(cfg *config.Config, st store.Store, runner Runner) *Server {
	return &Server{cfg: cfg, store: st, runner: runner}
}

// Router builds the API routes with CORS applied to every endpoint.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze-business", s.handleAnalyzeBusiness)
		r.Get("/analysis/{analysisID}", s.handleGetAnalysis)
		r.Get("/analyses", s.handleListAnalyses)
		r.Get("/health", s.handleHealth)
	})
	return r
}

func (s *Server) handleAnalyzeBusiness(w http.ResponseWriter, r *http.Request) {
	var in model.BusinessInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(in.BusinessName) == "" {
		writeDetail(w, http.StatusBadRequest, "business_name is required")
		return
	}

	rec, err := s.runner.Run(r.Context(), in)
	if err != nil {
		zap.L().Error("server: analysis failed",
			zap.String("business_name", in.BusinessName),
			zap.Error(err),
		)
		writeDetail(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"analysis_id": rec.AnalysisID,
		"data":        rec,
	})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysisID := chi.URLParam(r, "analysisID")

	rec, err := s.store.GetAnalysis(r.Context(), analysisID)
	if err != nil {
		zap.L().Error("server: get analysis failed", zap.String("analysis_id", analysisID), zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve analysis: "+err.Error())
		return
	}
	if rec == nil {
		writeDetail(w, http.StatusNotFound, "Analysis not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    rec,
	})
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	// The API lists everything; total is the full count, not a page size.
	records, err := s.store.ListAnalyses(r.Context(), -1)
	if err != nil {
		zap.L().Error("server: list analyses failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve analyses: "+err.Error())
		return
	}
	if records == nil {
		records = []model.AnalysisRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    records,
		"total":   len(records),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "healthy",
		"database_connected": s.store.Ping(ctx) == nil,
		"gemini_configured":  s.cfg.Gemini.Configured(),
		// Key presence only. The client itself also needs the engine id,
		// but health reports whether the key is set.
		"google_search_configured": s.cfg.Google.APIKey != "",
		"timestamp":                time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

// writeDetail writes the error body shape callers expect on every
// non-2xx response.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
