package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tradejournal/internal/store/migrations"
	"github.com/wonny/tradejournal/pkg/config"
	"github.com/wonny/tradejournal/pkg/database"
	"github.com/wonny/tradejournal/pkg/logger"
)

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "DB 스키마 마이그레이션",
	Long: `내장된 SQL 마이그레이션을 순서대로 적용합니다.
모든 파일은 재실행해도 안전합니다 (IF NOT EXISTS).

Example:
  go run ./cmd/journal migrate
  go run ./cmd/journal migrate --list`,
	RunE: runMigrate,
}

var migrateList bool

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "적용하지 않고 파일 목록만 출력")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if migrateList {
		files, err := migrations.Files()
		if err != nil {
			return err
		}
		PrintNumberedList(files)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store != config.StorePostgres {
		return fmt.Errorf("migrate requires STORE=postgres (got %s)", cfg.Store)
	}

	log := logger.New(cfg)

	db, err := database.New(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	applied, err := db.Migrate(cmd.Context())
	if err != nil {
		PrintError(err.Error())
		return err
	}

	log.WithField("files", len(applied)).Info("Migrations applied")
	PrintList(applied)
	PrintSuccess(fmt.Sprintf("%d migrations applied", len(applied)))
	return nil
}
