package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/internal/journal"
	"github.com/wonny/tradejournal/pkg/logger"
)

// TradeHandler handles trade CRUD endpoints
// ⭐ SSOT: 매매 기록 API 핸들러는 이 구조체에서만
type TradeHandler struct {
	journal *journal.Service
	logger  *logger.Logger
}

// NewTradeHandler creates a new trade handler
func NewTradeHandler(svc *journal.Service, log *logger.Logger) *TradeHandler {
	return &TradeHandler{
		journal: svc,
		logger:  log,
	}
}

// List returns one page of the caller's trades
// GET /api/trades?page=&page_size=&search=&strategy_id=&without_strategy=&date_from=&date_to=&result=
func (h *TradeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	q := r.URL.Query()

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

	withoutStrategy := false
	if v := q.Get("without_strategy"); v != "" {
		withoutStrategy, err = strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'without_strategy' (expected boolean)")
			return
		}
	}

	from, to, err := journal.ParseDateRange(q.Get("date_from"), q.Get("date_to"), h.journal.Location())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	result, err := h.journal.ListTrades(r.Context(), userID, journal.TradeListOptions{
		Page:            page,
		PageSize:        pageSize,
		Search:          q.Get("search"),
		StrategyID:      q.Get("strategy_id"),
		WithoutStrategy: withoutStrategy,
		DateFrom:        from,
		DateTo:          to,
		Result:          contracts.ParseResultType(q.Get("result")),
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create stores a new trade
// POST /api/trades
func (h *TradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var req journal.TradeInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.journal.CreateTrade(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Get returns one trade
// GET /api/trades/{id}
func (h *TradeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	trade, err := h.journal.GetTrade(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, trade)
}

// Update applies a partial update and returns the stored trade
// PUT /api/trades/{id}
func (h *TradeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var req journal.TradePatch
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.journal.UpdateTrade(r.Context(), userID, id, req); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	trade, err := h.journal.GetTrade(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, trade)
}

// Delete removes a trade
// DELETE /api/trades/{id}
func (h *TradeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	if err := h.journal.DeleteTrade(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
