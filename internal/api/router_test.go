package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/analytics"
	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/internal/journal"
	"github.com/wonny/tradejournal/internal/store/memory"
	"github.com/wonny/tradejournal/pkg/logger"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// brokenStore fails every trade read with a driver-looking error
type brokenStore struct {
	*memory.Store
}

func (brokenStore) FindTrades(context.Context, contracts.TradeFilter) ([]contracts.Trade, error) {
	return nil, errors.New("pq: connection reset by peer")
}

func newTestRouter(t *testing.T, store contracts.Store, limiter Limiter, checks map[string]handlers.HealthChecker) http.Handler {
	t.Helper()

	log := logger.Nop()
	calc := analytics.NewCalculator(time.UTC, time.Sunday)
	journalSvc := journal.NewService(store, store, time.UTC, log)
	analyticsSvc := analytics.NewService(store, store, calc, log).WithSnapshots(store)

	return NewRouter(Handlers{
		Health:     handlers.NewHealthHandler("tradejournal", checks),
		Trades:     handlers.NewTradeHandler(journalSvc, log),
		Strategies: handlers.NewStrategyHandler(journalSvc, log),
		Analytics:  handlers.NewAnalyticsHandler(analyticsSvc, log),
	}, limiter, log)
}

func do(t *testing.T, h http.Handler, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func createdID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out map[string]string
	decode(t, rec, &out)
	return out["id"]
}

func TestRouter_RequiresUser(t *testing.T) {
	h := newTestRouter(t, memory.New(), nil, nil)

	for _, path := range []string{"/api/trades", "/api/strategies/all", "/api/analytics/summary"} {
		rec := do(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_JournalFlow(t *testing.T) {
	h := newTestRouter(t, memory.New(), nil, nil)

	sid := createdID(t, do(t, h, http.MethodPost, "/api/strategies", "u1", journal.StrategyInput{
		Name: "Scalp", Direction: contracts.DirectionTrend,
	}))

	trades := []journal.TradeInput{
		{StrategyID: sid, StockType: "WINFUT", Quantity: 1, Result: 100, Date: "2025-03-03"},
		{StrategyID: sid, StockType: "WINFUT", Quantity: 1, Result: -40, Date: "2025-03-03"},
		{StockType: "WDOFUT", Quantity: 2, Result: 0, Date: "2025-03-04"},
	}
	var ids []string
	for _, in := range trades {
		ids = append(ids, createdID(t, do(t, h, http.MethodPost, "/api/trades", "u1", in)))
	}

	t.Run("list", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/trades?page_size=2&search=win", "u1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page journal.TradePage
		decode(t, rec, &page)
		assert.Equal(t, 2, page.Total)
		assert.Len(t, page.Trades, 2)
		assert.False(t, page.HasMore)
	})

	t.Run("other user sees nothing", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/trades/"+ids[0], "u2", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/api/trades/"+ids[2], "u1", map[string]interface{}{"result": 25.5})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var trade contracts.Trade
		decode(t, rec, &trade)
		assert.Equal(t, 25.5, trade.Result)
		assert.Equal(t, "WDOFUT", trade.StockType)
	})

	t.Run("summary", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/analytics/summary", "u1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary contracts.AnalyticsSummary
		decode(t, rec, &summary)
		assert.Equal(t, 3, summary.TotalTrades)
		assert.Equal(t, 2, summary.TotalGains)
		assert.InDelta(t, 85.5, summary.TotalProfit, 1e-9)
		assert.Equal(t, 1.5, summary.TradesPerDay)
	})

	t.Run("summary with date range", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/analytics/summary?date_from=2025-03-04&date_to=2025-03-04", "u1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary contracts.AnalyticsSummary
		decode(t, rec, &summary)
		assert.Equal(t, 1, summary.TotalTrades)
	})

	t.Run("strategy breakdown", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/analytics/strategies", "u1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var perf []contracts.StrategyPerformance
		decode(t, rec, &perf)
		require.Len(t, perf, 1)
		assert.Equal(t, "Scalp", perf[0].StrategyName)
		assert.Equal(t, 60.0, perf[0].NetResult)
	})

	t.Run("dashboard", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/analytics/dashboard?period=week", "u1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var d contracts.Dashboard
		decode(t, rec, &d)
		assert.Equal(t, 3, d.Summary.TotalTrades)
		assert.Equal(t, []contracts.ChartPoint{{Name: "2025-03-02", Value: 85.5}}, d.Evolution)
		assert.Len(t, d.Daily, 7)
		assert.Len(t, d.WinLoss, 2)
	})

	t.Run("series endpoints", func(t *testing.T) {
		for _, path := range []string{"/api/analytics/evolution", "/api/analytics/monthly", "/api/analytics/daily", "/api/analytics/winloss"} {
			rec := do(t, h, http.MethodGet, path, "u1", nil)
			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
	})

	t.Run("all strategies", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/strategies/all", "u1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var all []contracts.Strategy
		decode(t, rec, &all)
		require.Len(t, all, 1)
		assert.Equal(t, sid, all[0].ID)
	})

	t.Run("delete strategy unclassifies", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, "/api/strategies/"+sid, "u1", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, h, http.MethodGet, "/api/trades?without_strategy=true", "u1", nil)
		var page journal.TradePage
		decode(t, rec, &page)
		assert.Equal(t, 3, page.Total)
	})

	t.Run("delete trade", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, "/api/trades/"+ids[0], "u1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, h, http.MethodDelete, "/api/trades/"+ids[0], "u1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_BadRequests(t *testing.T) {
	h := newTestRouter(t, memory.New(), nil, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"malformed body", http.MethodPost, "/api/trades", "{not json"},
		{"validation", http.MethodPost, "/api/trades", journal.TradeInput{StockType: "WIN", Quantity: 0, Date: "2025-03-03"}},
		{"short strategy name", http.MethodPost, "/api/strategies", journal.StrategyInput{Name: "x", Direction: contracts.DirectionTrend}},
		{"bad page", http.MethodGet, "/api/trades?page=two", nil},
		{"bad bool", http.MethodGet, "/api/trades?without_strategy=maybe", nil},
		{"bad date", http.MethodGet, "/api/analytics/summary?date_from=03/03/2025", nil},
		{"inverted range", http.MethodGet, "/api/analytics/monthly?date_from=2025-03-05&date_to=2025-03-01", nil},
		{"bad period", http.MethodGet, "/api/analytics/evolution?period=year", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, "u1", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var out map[string]string
			decode(t, rec, &out)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestRouter_StorageFailureIsGeneric500(t *testing.T) {
	h := newTestRouter(t, brokenStore{memory.New()}, nil, nil)

	rec := do(t, h, http.MethodGet, "/api/analytics/dashboard", "u1", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var out map[string]string
	decode(t, rec, &out)
	assert.Equal(t, "Internal server error", out["error"])
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestRouter_RateLimit(t *testing.T) {
	h := newTestRouter(t, memory.New(), NewLocalLimiter(1, 1), nil)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/strategies/all", "u1", nil).Code)

	rec := do(t, h, http.MethodGet, "/api/strategies/all", "u1", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// buckets are per user
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/strategies/all", "u2", nil).Code)

	// health is never limited
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "", nil).Code)
}

func TestRouter_Health(t *testing.T) {
	healthy := newTestRouter(t, memory.New(), nil, map[string]handlers.HealthChecker{
		"database": pingFunc(func(context.Context) error { return nil }),
	})
	rec := do(t, healthy, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var out map[string]interface{}
	decode(t, rec, &out)
	assert.Equal(t, "ok", out["status"])

	down := newTestRouter(t, memory.New(), nil, map[string]handlers.HealthChecker{
		"database": pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
		"redis":    nil,
	})
	rec = do(t, down, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	decode(t, rec, &out)
	assert.Equal(t, "degraded", out["status"])
	assert.NotContains(t, out["dependencies"], "redis")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(nil, 0, 10))

	l := NewLimiter(nil, 5, 0)
	local, ok := l.(*LocalLimiter)
	require.True(t, ok)
	assert.Equal(t, 5, local.burst)
}

func TestRouter_History(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	for i, profit := range []float64{100, 60} {
		require.NoError(t, store.SaveSnapshot(ctx, &contracts.PerformanceSnapshot{
			UserID:  "u1",
			Date:    time.Date(2025, 1, 10+i, 0, 0, 0, 0, time.UTC),
			Summary: contracts.AnalyticsSummary{TotalTrades: 2 + i, TotalProfit: profit},
		}))
	}
	h := newTestRouter(t, store, nil, nil)

	rec := do(t, h, http.MethodGet, "/api/analytics/history?date_from=2025-01-01&date_to=2025-01-31", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var points []contracts.HistoryPoint
	decode(t, rec, &points)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-01-11", points[1].Date)
	assert.Equal(t, -40.0, points[1].Change)

	rec = do(t, h, http.MethodGet, "/api/analytics/history?date_from=2025-01-01&date_to=2025-01-31", "u2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
