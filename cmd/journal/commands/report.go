package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wonny/tradejournal/internal/analytics"
	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/internal/journal"
)

// reportCmd prints a user's dashboard to the terminal
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "성과 대시보드 출력",
	Long: `사용자의 대시보드(요약, 전략별 성과, 누적 손익, 월별/요일별, 승패 비율)를
표 형식으로 출력합니다.

Example:
  go run ./cmd/journal report --user demo
  go run ./cmd/journal report --user demo --from 2025-01-01 --to 2025-03-31 --period week`,
	RunE: runReport,
}

var (
	reportUser     string
	reportFrom     string
	reportTo       string
	reportStrategy string
	reportPeriod   string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportUser, "user", "", "사용자 ID")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "시작일 (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "종료일 (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportStrategy, "strategy", "", "전략 ID 필터")
	reportCmd.Flags().StringVar(&reportPeriod, "period", "day", "누적 손익 구간 (day|week|month)")
	_ = reportCmd.MarkFlagRequired("user")
}

func runReport(cmd *cobra.Command, args []string) error {
	period, err := analytics.ParsePeriod(reportPeriod)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	from, to, err := journal.ParseDateRange(reportFrom, reportTo, a.analytics.Calculator().Location())
	if err != nil {
		return err
	}

	dashboard, err := a.analytics.Dashboard(cmd.Context(), analytics.Query{
		UserID:     reportUser,
		DateFrom:   from,
		DateTo:     to,
		StrategyID: reportStrategy,
	}, period)
	if err != nil {
		return fmt.Errorf("build dashboard: %w", err)
	}

	renderDashboard(cmd.OutOrStdout(), dashboard)
	return nil
}

// renderDashboard writes every dashboard section as a table
func renderDashboard(w io.Writer, d *contracts.Dashboard) {
	s := d.Summary

	section(w, "Summary")
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	table.Append("Trades", strconv.Itoa(s.TotalTrades))
	table.Append("Gains / Losses", fmt.Sprintf("%d / %d", s.TotalGains, s.TotalLosses))
	table.Append("Net result", money(s.TotalProfit))
	table.Append("Win rate", fmt.Sprintf("%.2f%%", s.WinRate))
	table.Append("Average gain", money(s.AverageGain))
	table.Append("Average loss", money(s.AverageLoss))
	table.Append("Risk/reward", fmt.Sprintf("%.2f", s.RiskRewardRatio))
	table.Append("Average MEN / MEP", fmt.Sprintf("%s / %s", money(s.AverageMEN), money(s.AverageMEP)))
	table.Append("Trades per day", fmt.Sprintf("%.1f", s.TradesPerDay))
	table.Render()

	section(w, "Strategies")
	if len(d.Strategies) == 0 {
		fmt.Fprintln(w, "  (no classified trades)")
	} else {
		table = tablewriter.NewWriter(w)
		table.Header("Strategy", "Trades", "Win rate", "R/R", "Net", "Avg gain", "Avg loss")
		for _, p := range d.Strategies {
			table.Append(
				p.StrategyName,
				strconv.Itoa(p.TotalTrades),
				fmt.Sprintf("%.2f%%", p.WinRate),
				fmt.Sprintf("%.2f", p.RiskRewardRatio),
				money(p.NetResult),
				money(p.AverageGain),
				money(p.AverageLoss),
			)
		}
		table.Render()
	}

	section(w, "Evolution")
	table = tablewriter.NewWriter(w)
	table.Header("Period", "Cumulative")
	for _, p := range d.Evolution {
		table.Append(p.Name, money(p.Value))
	}
	table.Render()

	section(w, "Monthly")
	table = tablewriter.NewWriter(w)
	table.Header("Month", "Gain", "Loss", "Net")
	for _, m := range d.Monthly {
		table.Append(m.Name, money(m.Gain), money(m.Loss), money(m.Net))
	}
	table.Render()

	section(w, "Weekday")
	table = tablewriter.NewWriter(w)
	table.Header("Day", "Net")
	for _, p := range d.Daily {
		table.Append(p.Name, money(p.Value))
	}
	table.Render()

	section(w, "Win / Loss")
	table = tablewriter.NewWriter(w)
	table.Header("Outcome", "Share")
	for _, sl := range d.WinLoss {
		table.Append(sl.Name, fmt.Sprintf("%.0f%%", sl.Value))
	}
	table.Render()
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
