package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rooshmintted/apitable-widgets/internal/analytics"
	"github.com/rooshmintted/apitable-widgets/internal/api/middleware"
	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
	"github.com/rooshmintted/apitable-widgets/internal/fieldroles"
	"github.com/rooshmintted/apitable-widgets/internal/hierarchy"
	"github.com/rooshmintted/apitable-widgets/internal/ledger"
	"github.com/rooshmintted/apitable-widgets/internal/split"
)

// DashboardHandler serves the read-only widget endpoints: summary, chart,
// and the title tree. Field roles are re-discovered on every request so the
// widget follows schema edits without a restart.
type DashboardHandler struct {
	store datasheet.Datasheet
	log   zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(store datasheet.Datasheet, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{store: store, log: log}
}

// loadTransactions resolves roles and normalizes the current records.
func (h *DashboardHandler) loadTransactions(w http.ResponseWriter, r *http.Request) ([]ledger.Transaction, bool) {
	ctx := r.Context()

	fields, err := h.store.Fields(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load fields")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load fields")
		return nil, false
	}

	roles := fieldroles.Discover(fields)
	if err := roles.RequireSummaryRoles(); err != nil {
		writeRoleError(w, err)
		return nil, false
	}

	recs, err := h.store.Records(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load records")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load records")
		return nil, false
	}

	return ledger.NormalizeAll(recs, roles), true
}

// GetSummary handles GET /api/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.loadTransactions(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, analytics.Summarize(txs))
}

// GetChart handles GET /api/chart?group_by={type|merchant|category|date}
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	groupBy := analytics.GroupBy(r.URL.Query().Get("group_by"))
	switch groupBy {
	case "":
		groupBy = analytics.GroupByType
	case analytics.GroupByType, analytics.GroupByMerchant, analytics.GroupByCategory, analytics.GroupByDate:
	default:
		middleware.WriteError(w, http.StatusBadRequest, "Invalid group_by value")
		return
	}

	txs, ok := h.loadTransactions(w, r)
	if !ok {
		return
	}

	buckets := analytics.GroupForChart(txs, groupBy)
	if buckets == nil {
		buckets = []analytics.ChartBucket{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"group_by": groupBy,
		"buckets":  buckets,
	})
}

// GetTransactions handles GET /api/transactions
func (h *DashboardHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.loadTransactions(w, r)
	if !ok {
		return
	}

	revenue, expenses := analytics.Partition(txs)
	if revenue == nil {
		revenue = []ledger.Transaction{}
	}
	if expenses == nil {
		expenses = []ledger.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"revenue":  revenue,
		"expenses": expenses,
		"summary":  analytics.Summarize(txs),
	})
}

// GetTree handles GET /api/tree
func (h *DashboardHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.loadTransactions(w, r)
	if !ok {
		return
	}

	items := make([]hierarchy.Item, 0, len(txs))
	for _, tx := range txs {
		items = append(items, hierarchy.Item{ID: tx.ID, Title: tx.Title})
	}

	nodes := hierarchy.BuildTree(items, nil)
	if nodes == nil {
		nodes = []hierarchy.Node{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"nodes": nodes,
		"count": len(nodes),
	})
}

// SplitHandler serves the split workflow endpoints.
type SplitHandler struct {
	engine *split.Engine
	log    zerolog.Logger
}

// NewSplitHandler creates a new split handler.
func NewSplitHandler(engine *split.Engine, log zerolog.Logger) *SplitHandler {
	return &SplitHandler{engine: engine, log: log}
}

// ListCandidates handles GET /api/split/candidates
func (h *SplitHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.engine.Candidates(r.Context())
	if err != nil {
		var setupErr *fieldroles.SetupIncompleteError
		if errors.As(err, &setupErr) {
			writeRoleError(w, err)
			return
		}
		h.log.Error().Err(err).Msg("Failed to list split candidates")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list split candidates")
		return
	}

	if candidates == nil {
		candidates = []ledger.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// Select handles POST /api/split/select
func (h *SplitHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecordID string `json:"record_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RecordID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "record_id is required")
		return
	}

	candidates, err := h.engine.Candidates(r.Context())
	if err != nil {
		var setupErr *fieldroles.SetupIncompleteError
		if errors.As(err, &setupErr) {
			writeRoleError(w, err)
			return
		}
		h.log.Error().Err(err).Msg("Failed to load candidates")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load candidates")
		return
	}

	for _, tx := range candidates {
		if tx.ID != req.RecordID {
			continue
		}
		allocations, err := h.engine.SelectForSplit(tx)
		if err != nil {
			middleware.WriteError(w, http.StatusConflict, err.Error())
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"record_id":   tx.ID,
			"allocations": allocations,
		})
		return
	}

	middleware.WriteError(w, http.StatusNotFound, "Record is not a split candidate")
}

// EditAllocation handles POST /api/split/edit
func (h *SplitHandler) EditAllocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductKey string  `json:"product_key"`
		Amount     float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductKey == "" {
		middleware.WriteError(w, http.StatusBadRequest, "product_key is required")
		return
	}

	if err := h.engine.EditAllocationAmount(req.ProductKey, req.Amount); err != nil {
		if errors.Is(err, split.ErrNoSession) {
			middleware.WriteError(w, http.StatusConflict, "No active split session")
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	allocations, err := h.engine.Allocations()
	if err != nil {
		middleware.WriteError(w, http.StatusConflict, "No active split session")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"allocations": allocations,
	})
}

// Commit handles POST /api/split/commit
func (h *SplitHandler) Commit(w http.ResponseWriter, r *http.Request) {
	ids, err := h.engine.Commit(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, split.ErrNoSession):
			middleware.WriteError(w, http.StatusConflict, "No active split session")
		case errors.Is(err, split.ErrCommitInFlight):
			middleware.WriteError(w, http.StatusConflict, "Commit already in progress")
		default:
			var mismatch *split.CountMismatchError
			if errors.As(err, &mismatch) {
				middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			h.log.Error().Err(err).Msg("Split commit failed")
			middleware.WriteError(w, http.StatusBadGateway, "Failed to write split records")
		}
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"created_ids": ids,
		"count":       len(ids),
	})
}

// Cancel handles POST /api/split/cancel
func (h *SplitHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.engine.Cancel()
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// writeRoleError reports unresolved mandatory field roles as a setup
// problem, not a server failure.
func writeRoleError(w http.ResponseWriter, err error) {
	var setupErr *fieldroles.SetupIncompleteError
	if errors.As(err, &setupErr) {
		missing := make([]string, 0, len(setupErr.Missing))
		for _, r := range setupErr.Missing {
			missing = append(missing, string(r))
		}
		middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":         "Setup incomplete",
			"missing_roles": missing,
		})
		return
	}
	middleware.WriteError(w, http.StatusInternalServerError, err.Error())
}
