package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradejournal/internal/api"
	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/internal/scheduler"
	"github.com/wonny/tradejournal/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

모든 /api 요청은 X-User-ID 헤더로 사용자를 식별합니다.

Endpoints:
  GET  /health
  GET|POST            /api/trades
  GET|PUT|DELETE      /api/trades/{id}
  GET|POST            /api/strategies
  GET                 /api/strategies/all
  GET|PUT|DELETE      /api/strategies/{id}
  GET  /api/analytics/{summary,strategies,evolution,monthly,daily,winloss,dashboard,history}

Example:
  go run ./cmd/journal api
  go run ./cmd/journal api --port 8080 --migrate`,
	RunE: runAPIServer,
}

var (
	apiPort    string
	apiMigrate bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default PORT)")
	apiCmd.Flags().BoolVar(&apiMigrate, "migrate", false, "시작 전 마이그레이션 적용")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	if apiMigrate && a.db != nil {
		applied, err := a.db.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		a.log.WithField("files", len(applied)).Info("Migrations applied")
	}

	router := api.NewRouter(api.Handlers{
		Health:     handlers.NewHealthHandler("tradejournal", a.healthChecks()),
		Trades:     handlers.NewTradeHandler(a.journal, a.log),
		Strategies: handlers.NewStrategyHandler(a.journal, a.log),
		Analytics:  handlers.NewAnalyticsHandler(a.analytics, a.log),
	}, api.NewLimiter(a.redis, a.cfg.API.RateLimit, a.cfg.API.RateBurst), a.log)

	server := api.New(a.cfg, a.log, router)

	// The in-process cache needs its own sweeper; Redis expires keys itself
	if a.localCache != nil {
		sweeper := scheduler.New(a.log)
		if err := sweeper.AddJob(jobs.NewCacheCleanupJob(a.localCache, a.log)); err != nil {
			return err
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	PrintSuccess(fmt.Sprintf("Server running on http://localhost:%s", a.cfg.Port))
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
