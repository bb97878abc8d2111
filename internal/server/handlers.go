package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/export"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/markdown"
	"github.com/thomas-vilte/devrecap/internal/models"
	"github.com/thomas-vilte/devrecap/internal/services"
)

type repositoriesResponse struct {
	Repositories []models.Repository   `json:"repositories"`
	Stats        models.RepositoryStats `json:"stats"`
}

type searchRequest struct {
	Repository string             `json:"repository"`
	StartDate  string             `json:"startDate"`
	EndDate    string             `json:"endDate"`
	Scope      models.SearchScope `json:"scope"`
	MaxPRs     int                `json:"maxPRs"`
	MaxCommits int                `json:"maxCommits"`
}

type reportRequest struct {
	Result   models.AnalysisResult `json:"result"`
	Language string                `json:"language"`
	Type     models.ReportType     `json:"type"`
	Save     bool                  `json:"save"`
	Title    string                `json:"title"`
}

type reportResponse struct {
	Report models.Report `json:"report"`
	Draft  *models.Draft `json:"draft,omitempty"`
}

type parseRequest struct {
	Markdown string `json:"markdown"`
}

type exportRequest struct {
	Document models.Document `json:"document"`
	Title    string          `json:"title"`
	Language string          `json:"language"`
}

type cacheClearResponse struct {
	Removed int `json:"removed"`
}

var contentTypes = map[export.Format]string{
	export.FormatHTML:     "text/html; charset=utf-8",
	export.FormatPDF:      "application/pdf",
	export.FormatMarkdown: "text/markdown; charset=utf-8",
}

func (s *Server) handleRepositories(w http.ResponseWriter, r *http.Request) {
	svc, err := s.deps.RepositoryService()
	if err != nil {
		writeError(w, err)
		return
	}

	force := r.URL.Query().Get("refresh") == "true"
	if _, err := svc.Load(r.Context(), force); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, repositoriesResponse{
		Repositories: svc.Filter(r.URL.Query().Get("filter")),
		Stats:        svc.Stats(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	svc, err := s.deps.SearchService(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := svc.PerformSearch(r.Context(), services.SearchOptions{
		Repository: req.Repository,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Scope:      req.Scope,
		MaxPRs:     req.MaxPRs,
		MaxCommits: req.MaxCommits,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	svc, err := s.deps.ReportService(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := svc.Generate(r.Context(), req.Result, req.Language, req.Type)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := reportResponse{Report: report}
	if req.Save {
		draft, err := svc.SaveDraft(r.Context(), report, req.Title, req.Result.Repository)
		if err != nil {
			logger.Warn(r.Context(), "report generated but draft not saved", "error", err)
		} else {
			resp.Draft = &draft
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markdown.Parse(req.Markdown))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, req.Document, format, req.Title, req.Language); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(req.Title, format)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleListDrafts(w http.ResponseWriter, _ *http.Request) {
	st, err := s.deps.Store()
	if err != nil {
		writeError(w, err)
		return
	}
	drafts, err := st.ListDrafts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(draft.Title) == "" {
		writeError(w, domainErrors.NewValidationError(domainErrors.KindMissingFields, "title", "El borrador necesita un título"))
		return
	}

	st, err := s.deps.Store()
	if err != nil {
		writeError(w, err)
		return
	}
	saved, err := st.SaveDraft(draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Store()
	if err != nil {
		writeError(w, err)
		return
	}
	draft, err := st.GetDraft(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Store()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := st.DeleteDraft(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	st, err := s.deps.Store()
	if err != nil {
		writeError(w, err)
		return
	}
	history, err := st.History()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, _ *http.Request) {
	st, err := s.deps.Store()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := st.ClearHistory(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Cache().Stats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	removed := s.deps.GitHubCache().ClearAll()
	logger.Info(r.Context(), "cache cleared", "removed", removed)
	writeJSON(w, http.StatusOK, cacheClearResponse{Removed: removed})
}
