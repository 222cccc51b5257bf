// Package artifactserver exposes the audit outputs read-only over HTTP for
// the dashboard.
package artifactserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/infrastructure/dataset"
	"fairness-auditor/internal/infrastructure/reportstore"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

// Reports is the read side of the report store.
type Reports interface {
	Load(ctx context.Context, role entity.AgentRole) (entity.AgentReport, error)
	List(ctx context.Context) ([]entity.AgentReport, error)
}

type Sources struct {
	MetricsPath string
	Tables      map[entity.GroupKey]string
	Reports     Reports
}

type Server struct {
	sources Sources
	logger  output.LoggerPort
	router  chi.Router
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type reportSummary struct {
	Role      entity.AgentRole `json:"role"`
	File      string           `json:"file"`
	RunID     string           `json:"run_id,omitempty"`
	Model     string           `json:"model,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Chars     int              `json:"chars"`
}

func New(sources Sources, logger output.LoggerPort) *Server {
	s := &Server{sources: sources, logger: logger}

	accessLog := httplog.NewLogger("fairaudit", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(accessLog))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/metrics", s.handleMetrics)
		r.Get("/tables/{attribute}", s.handleTable)
		r.Get("/reports", s.handleReports)
		r.Get("/reports/{role}", s.handleReport)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Artifact server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Artifact server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := dataset.ReadMetrics(s.sources.MetricsPath)
	if err != nil {
		s.fail(w, "metrics", err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	attribute := entity.GroupKey(chi.URLParam(r, "attribute"))
	path, ok := s.sources.Tables[attribute]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown attribute: "+string(attribute))
		return
	}

	table, err := dataset.ReadGroupTable(path, attribute)
	if err != nil {
		s.fail(w, "table", err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.sources.Reports.List(r.Context())
	if err != nil {
		s.fail(w, "reports", err)
		return
	}

	out := make([]reportSummary, 0, len(reports))
	for _, rep := range reports {
		out = append(out, reportSummary{
			Role:      rep.Role,
			File:      rep.Role.ReportFileName(),
			RunID:     rep.RunID,
			Model:     rep.Model,
			CreatedAt: rep.CreatedAt,
			Chars:     len(rep.Text),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleReport returns the report text as markdown, or the whole report as
// JSON with ?format=json.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	role := entity.AgentRole(chi.URLParam(r, "role"))
	if !role.Valid() {
		writeError(w, http.StatusNotFound, "unknown report: "+string(role))
		return
	}

	report, err := s.sources.Reports.Load(r.Context(), role)
	if err != nil {
		s.fail(w, "report", err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, report)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report.Text + "\n"))
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, reportstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not available")
		return
	}
	s.logger.Error("Artifact request failed", "artifact", what, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
