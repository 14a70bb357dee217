package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fwojciec/docmerge"
)

// Pagination bounds for GET /extractions.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type extractResponse struct {
	FilePath string `json:"file_path"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req docmerge.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Error(w, r, docmerge.Errorf(docmerge.EINVALID, "invalid JSON body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		s.Error(w, r, err)
		return
	}

	s.mu.Lock()
	result, err := s.Merger.Run(r.Context(), req, nil)
	s.mu.Unlock()
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{FilePath: result.Path})
}

func (s *Server) handleExtractions(w http.ResponseWriter, r *http.Request) {
	if s.Extractions == nil {
		s.Error(w, r, docmerge.Errorf(docmerge.EUNAVAILABLE, "extraction ledger is not configured"))
		return
	}

	var filter docmerge.ExtractionFilter
	var err error
	if filter.Limit, err = queryInt(r, "limit", DefaultListLimit); err != nil {
		s.Error(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		s.Error(w, r, err)
		return
	}
	if filter.Limit < 1 || filter.Limit > MaxListLimit {
		s.Error(w, r, docmerge.Errorf(docmerge.EINVALID, "limit must be between 1 and %d", MaxListLimit))
		return
	}
	if filter.Offset < 0 {
		s.Error(w, r, docmerge.Errorf(docmerge.EINVALID, "offset must not be negative"))
		return
	}
	if v := r.URL.Query().Get("start_url"); v != "" {
		filter.StartURL = &v
	}

	extractions, err := s.Extractions.FindExtractions(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if extractions == nil {
		extractions = []*docmerge.Extraction{}
	}

	writeJSON(w, http.StatusOK, extractions)
}

func (s *Server) handleExtraction(w http.ResponseWriter, r *http.Request) {
	if s.Extractions == nil {
		s.Error(w, r, docmerge.Errorf(docmerge.EUNAVAILABLE, "extraction ledger is not configured"))
		return
	}

	e, err := s.Extractions.FindExtractionByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, docmerge.Errorf(docmerge.EINVALID, "invalid %s: %q", name, v)
	}
	return n, nil
}
