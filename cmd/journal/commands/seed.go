package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tradejournal/internal/fixtures"
)

// seedCmd loads YAML fixtures for one user
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "YAML 픽스처로 전략/매매 데이터 생성",
	Long: `YAML 파일의 전략과 매매 기록을 지정한 사용자로 저장합니다.
API와 동일한 검증을 거칩니다.

File format:
  strategies:
    - name: Breakout
      direction: trend        # trend | counter_trend | neutral
  trades:
    - strategy: Breakout      # 위 전략 이름 (선택)
      stock_type: WINFUT
      quantity: 1
      result: 120.5
      date: "2025-01-10"

Example:
  go run ./cmd/journal seed --file fixtures.yaml --user demo`,
	RunE: runSeed,
}

var (
	seedFile string
	seedUser string
)

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFile, "file", "", "fixtures YAML 경로")
	seedCmd.Flags().StringVar(&seedUser, "user", "", "소유 사용자 ID")
	_ = seedCmd.MarkFlagRequired("file")
	_ = seedCmd.MarkFlagRequired("user")
}

func runSeed(cmd *cobra.Command, args []string) error {
	fx, _, err := fixtures.Load(seedFile)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	hash, err := fixtures.Hash(fx)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	res, err := fixtures.Apply(cmd.Context(), a.journal, seedUser, fx)
	a.log.WithFields(map[string]interface{}{
		"user":       seedUser,
		"file":       seedFile,
		"hash":       hash[:12],
		"strategies": res.Strategies,
		"trades":     res.Trades,
	}).Info("Seed finished")
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintSuccess(fmt.Sprintf("%d strategies, %d trades created for %s", res.Strategies, res.Trades, seedUser))
	return nil
}
