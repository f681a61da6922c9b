package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/masato/tag-generator/internal/types"
)

// ExtractRequest is the body for POST /api/stage1/extract.
type ExtractRequest struct {
	Rows []types.Row `json:"rows"`
}

// ExtractResponse groups the per-row extraction results with the pooled
// keyword list ready to feed into optimization.
type ExtractResponse struct {
	Results  []types.ExtractResult `json:"results"`
	Keywords []string              `json:"keywords"`
}

// OptimizeRequest is the body for POST /api/stage1/optimize.
type OptimizeRequest struct {
	Keywords []string `json:"keywords"`
}

// SelectRequest is the body for POST /api/stage2. BatchIndex and
// BatchSize let callers page through large row sets; zero BatchSize means
// all rows in one call.
type SelectRequest struct {
	Rows       []types.Row `json:"rows"`
	Vocabulary []string    `json:"tag_candidates"`
	BatchIndex int         `json:"batch_index,omitempty"`
	BatchSize  int         `json:"batch_size,omitempty"`
}

// SelectResponse carries one batch of assignments plus paging state.
type SelectResponse struct {
	Assignments []types.Assignment `json:"assignments"`
	BatchIndex  int                `json:"batch_index"`
	HasMore     bool               `json:"has_more"`
}

// StatusResponse is the body for GET /api/status.
type StatusResponse struct {
	Status    string    `json:"status"`
	Providers []string  `json:"providers"`
	Timestamp time.Time `json:"timestamp"`
}

// handleExtract runs Stage 1A over the posted rows.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Rows) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "rows is required")
		return
	}

	resp := ExtractResponse{Keywords: []string{}}
	for i, row := range req.Rows {
		result := s.pipe.Extract(r.Context(), row, i)
		resp.Results = append(resp.Results, result)
		resp.Keywords = append(resp.Keywords, result.Keywords...)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleOptimize runs Stage 1B over a pooled keyword list.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Keywords) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "keywords is required")
		return
	}

	result, err := s.pipe.Optimize(r.Context(), req.Keywords)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSelect runs Stage 2 for one batch of rows against an approved
// vocabulary.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Rows) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "rows is required")
		return
	}
	if len(req.Vocabulary) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "tag_candidates is required")
		return
	}
	if req.BatchIndex < 0 || req.BatchSize < 0 {
		s.errorResponse(w, http.StatusBadRequest, "batch_index and batch_size must be non-negative")
		return
	}

	start, end := 0, len(req.Rows)
	if req.BatchSize > 0 {
		start = req.BatchIndex * req.BatchSize
		if start >= len(req.Rows) {
			s.errorResponse(w, http.StatusBadRequest, "batch_index is past the end of rows")
			return
		}
		end = start + req.BatchSize
		if end > len(req.Rows) {
			end = len(req.Rows)
		}
	}

	resp := SelectResponse{
		BatchIndex: req.BatchIndex,
		HasMore:    end < len(req.Rows),
	}
	for i := start; i < end; i++ {
		resp.Assignments = append(resp.Assignments,
			s.pipe.Select(r.Context(), req.Rows[i], i, req.Vocabulary))
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleStatus reports service availability.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, StatusResponse{
		Status:    "ok",
		Providers: s.providers,
		Timestamp: time.Now().UTC(),
	})
}
