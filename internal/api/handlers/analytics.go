package handlers

import (
	"net/http"

	"github.com/wonny/tradejournal/internal/analytics"
	"github.com/wonny/tradejournal/internal/journal"
	"github.com/wonny/tradejournal/pkg/logger"
)

// AnalyticsHandler serves the dashboard reports
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalyticsHandler struct {
	analytics *analytics.Service
	logger    *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc *analytics.Service, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: svc,
		logger:    log,
	}
}

// query reads the shared date_from/date_to/strategy_id parameters
func (h *AnalyticsHandler) query(w http.ResponseWriter, r *http.Request) (analytics.Query, bool) {
	userID := requireUser(w, r)
	if userID == "" {
		return analytics.Query{}, false
	}

	q := r.URL.Query()
	from, to, err := journal.ParseDateRange(q.Get("date_from"), q.Get("date_to"), h.analytics.Calculator().Location())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return analytics.Query{}, false
	}

	return analytics.Query{
		UserID:     userID,
		DateFrom:   from,
		DateTo:     to,
		StrategyID: q.Get("strategy_id"),
	}, true
}

func (h *AnalyticsHandler) period(w http.ResponseWriter, r *http.Request) (analytics.Period, bool) {
	period, err := analytics.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return "", false
	}
	return period, true
}

// Summary returns the overall analytics
// GET /api/analytics/summary
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}

	summary, err := h.analytics.Summary(r.Context(), q)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Strategies returns the per-strategy breakdown
// GET /api/analytics/strategies
func (h *AnalyticsHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}

	performance, err := h.analytics.StrategyPerformance(r.Context(), q)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, performance)
}

// Evolution returns the cumulative result series
// GET /api/analytics/evolution?period=day|week|month
func (h *AnalyticsHandler) Evolution(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	period, ok := h.period(w, r)
	if !ok {
		return
	}

	points, err := h.analytics.Evolution(r.Context(), q, period)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// Monthly returns the monthly gain/loss series
// GET /api/analytics/monthly
func (h *AnalyticsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}

	points, err := h.analytics.Monthly(r.Context(), q)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// Daily returns the weekday series
// GET /api/analytics/daily
func (h *AnalyticsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}

	points, err := h.analytics.Daily(r.Context(), q)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// WinLoss returns the win/loss distribution
// GET /api/analytics/winloss
func (h *AnalyticsHandler) WinLoss(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}

	slices, err := h.analytics.WinLoss(r.Context(), q)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, slices)
}

// Dashboard returns every report over one snapshot
// GET /api/analytics/dashboard?period=day|week|month
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	period, ok := h.period(w, r)
	if !ok {
		return
	}

	dashboard, err := h.analytics.Dashboard(r.Context(), q, period)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, dashboard)
}

// History returns the stored daily snapshots (equity curve)
// GET /api/analytics/history?date_from=&date_to=
func (h *AnalyticsHandler) History(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}

	points, err := h.analytics.History(r.Context(), q)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, points)
}
