package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/tradejournal/internal/journal"
	"github.com/wonny/tradejournal/pkg/logger"
)

// StrategyHandler handles strategy CRUD endpoints
type StrategyHandler struct {
	journal *journal.Service
	logger  *logger.Logger
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(svc *journal.Service, log *logger.Logger) *StrategyHandler {
	return &StrategyHandler{
		journal: svc,
		logger:  log,
	}
}

// List returns one page of the caller's strategies
// GET /api/strategies?page=&page_size=&search=
func (h *StrategyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	page, err := queryInt(r, "page")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'page' (expected integer)")
		return
	}
	pageSize, err := queryInt(r, "page_size")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'page_size' (expected integer)")
		return
	}

	result, err := h.journal.ListStrategies(r.Context(), userID, journal.StrategyListOptions{
		Page:     page,
		PageSize: pageSize,
		Search:   r.URL.Query().Get("search"),
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// All returns every strategy of the caller, by name
// GET /api/strategies/all
func (h *StrategyHandler) All(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	strategies, err := h.journal.AllStrategies(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, strategies)
}

// Create stores a new strategy
// POST /api/strategies
func (h *StrategyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var req journal.StrategyInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.journal.CreateStrategy(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Get returns one strategy
// GET /api/strategies/{id}
func (h *StrategyHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	strategy, err := h.journal.GetStrategy(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, strategy)
}

// Update replaces a strategy and returns it
// PUT /api/strategies/{id}
func (h *StrategyHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var req journal.StrategyInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.journal.UpdateStrategy(r.Context(), userID, id, req); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	strategy, err := h.journal.GetStrategy(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, strategy)
}

// Delete removes a strategy; its trades become unclassified
// DELETE /api/strategies/{id}
func (h *StrategyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	if err := h.journal.DeleteStrategy(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
