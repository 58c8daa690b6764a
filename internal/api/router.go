package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/pkg/logger"
)

// Handlers groups the endpoint handlers mounted by the router
type Handlers struct {
	Health     *handlers.HealthHandler
	Trades     *handlers.TradeHandler
	Strategies *handlers.StrategyHandler
	Analytics  *handlers.AnalyticsHandler
}

// NewRouter creates and configures the HTTP router.
// limiter may be nil to disable per-user limits.
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, limiter Limiter, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Health.Check).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Trades
	api.HandleFunc("/trades", h.Trades.List).Methods("GET")
	api.HandleFunc("/trades", h.Trades.Create).Methods("POST")
	api.HandleFunc("/trades/{id}", h.Trades.Get).Methods("GET")
	api.HandleFunc("/trades/{id}", h.Trades.Update).Methods("PUT")
	api.HandleFunc("/trades/{id}", h.Trades.Delete).Methods("DELETE")

	// Strategies ("/all" before "/{id}")
	api.HandleFunc("/strategies", h.Strategies.List).Methods("GET")
	api.HandleFunc("/strategies", h.Strategies.Create).Methods("POST")
	api.HandleFunc("/strategies/all", h.Strategies.All).Methods("GET")
	api.HandleFunc("/strategies/{id}", h.Strategies.Get).Methods("GET")
	api.HandleFunc("/strategies/{id}", h.Strategies.Update).Methods("PUT")
	api.HandleFunc("/strategies/{id}", h.Strategies.Delete).Methods("DELETE")

	// Analytics
	api.HandleFunc("/analytics/summary", h.Analytics.Summary).Methods("GET")
	api.HandleFunc("/analytics/strategies", h.Analytics.Strategies).Methods("GET")
	api.HandleFunc("/analytics/evolution", h.Analytics.Evolution).Methods("GET")
	api.HandleFunc("/analytics/monthly", h.Analytics.Monthly).Methods("GET")
	api.HandleFunc("/analytics/daily", h.Analytics.Daily).Methods("GET")
	api.HandleFunc("/analytics/winloss", h.Analytics.WinLoss).Methods("GET")
	api.HandleFunc("/analytics/dashboard", h.Analytics.Dashboard).Methods("GET")
	api.HandleFunc("/analytics/history", h.Analytics.History).Methods("GET")

	api.Use(userMiddleware)
	if limiter != nil {
		api.Use(rateLimitMiddleware(limiter, log))
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}
