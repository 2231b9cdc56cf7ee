package http

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/interfaces"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

// APIHandler handles the manual analysis and record read endpoints
type APIHandler struct {
	uc interfaces.Analyze
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(uc interfaces.Analyze) *APIHandler {
	return &APIHandler{uc: uc}
}

// HandleAnalyze handles a manual analysis request. Unlike the webhook this
// runs the pipeline synchronously and returns the full record, so it
// doubles as the testing entry point.
func (h *APIHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ctx, goerr.Wrap(err, "failed to parse request body"), http.StatusBadRequest)
		return
	}

	ctxlog.From(ctx).Info("Manual analysis requested",
		"issue_key", req.IssueKey,
		"has_report", req.Report != "",
		"org", req.Org,
	)

	record, err := h.uc.AnalyzeManual(ctx, &req)
	if err != nil {
		writeError(w, ctx, err, statusFromError(err))
		return
	}

	writeJSON(w, ctx, http.StatusOK, record)
}

// HandleAnalyzeRaw echoes the shape of any JSON payload. It exists to
// inspect webhook bodies during integration setup.
func (h *APIHandler) HandleAnalyzeRaw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, ctx, goerr.Wrap(err, "failed to parse request body"), http.StatusBadRequest)
		return
	}

	var keys any = "not an object"
	if obj, ok := body.(map[string]any); ok {
		names := make([]string, 0, len(obj))
		for name := range obj {
			names = append(names, name)
		}
		sort.Strings(names)
		keys = names
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"status":       "received",
		"payload_keys": keys,
		"message":      "Use /api/analyze for actual processing",
	})
}

// HandleListAnalyses handles analysis record listing. An issue_key query
// narrows the result to one tracker issue's history.
func (h *APIHandler) HandleListAnalyses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var records []*model.AnalysisRecord
	var err error

	if key := r.URL.Query().Get("issue_key"); key != "" {
		records, err = h.uc.ListAnalysesByIssue(ctx, types.IssueKey(key))
	} else {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			limit, err = strconv.Atoi(v)
			if err != nil {
				writeError(w, ctx, goerr.Wrap(err, "invalid limit"), http.StatusBadRequest)
				return
			}
		}
		records, err = h.uc.ListAnalyses(ctx, limit)
	}
	if err != nil {
		writeError(w, ctx, err, statusFromError(err))
		return
	}

	if records == nil {
		records = []*model.AnalysisRecord{}
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"analyses": records,
		"count":    len(records),
	})
}

// HandleGetAnalysis handles single analysis record reads
func (h *APIHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := types.AnalysisID(chi.URLParam(r, "analysisID"))

	record, err := h.uc.GetAnalysis(ctx, id)
	if err != nil {
		writeError(w, ctx, err, statusFromError(err))
		return
	}

	writeJSON(w, ctx, http.StatusOK, record)
}
