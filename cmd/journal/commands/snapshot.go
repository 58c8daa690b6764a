package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// snapshotCmd runs the performance snapshot job once
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "성과 스냅샷 1회 실행",
	Long: `모든 사용자의 누적 요약을 오늘 날짜 스냅샷으로 저장합니다.
스케줄러의 performance_snapshot 작업과 동일합니다.

Example:
  go run ./cmd/journal snapshot`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := a.newScheduler()
	if err != nil {
		return err
	}

	result, err := sched.RunJob(cmd.Context(), snapshotJobName)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintSuccess(fmt.Sprintf("%s completed in %s (%d attempt(s))", result.JobName, result.Duration.Round(time.Millisecond), result.Attempts))
	return nil
}
