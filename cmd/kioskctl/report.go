package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils"
)

const reportTimeLayout = "2006-01-02 15:04"

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the profit report for a period",
	Long: `Prints per-currency totals, average rates and profit.

Periods: today, shift, 3days, week, month. With --advanced the report adds
transaction counts and the busiest hours; today and shift are not available there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		advanced, _ := cmd.Flags().GetBool("advanced")
		plain, _ := cmd.Flags().GetBool("plain")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var md string
		if advanced {
			report, err := a.services.Analytics.GetAdvancedAnalytics(cmd.Context(), period)
			if err != nil {
				return err
			}
			md = advancedReportMarkdown(report, cfg.BaseCurrencyName)
		} else {
			report, err := a.services.Analytics.GetAnalytics(cmd.Context(), period)
			if err != nil {
				return err
			}
			md = reportMarkdown(report, cfg.BaseCurrencyName)
		}

		if plain {
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		}
		return printMarkdown(cmd, md)
	},
}

func init() {
	reportCmd.Flags().StringP("period", "p", "today", "today, shift, 3days, week or month")
	reportCmd.Flags().Bool("advanced", false, "include transaction counts and peak hours")
	reportCmd.Flags().Bool("plain", false, "print raw markdown")
}

func printMarkdown(cmd *cobra.Command, md string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func reportMarkdown(report *domain.AnalyticsReport, baseName string) string {
	var b strings.Builder
	writeReportHeader(&b, report, baseName)
	writeDetailsTable(&b, report.Details, baseName)
	return b.String()
}

func advancedReportMarkdown(report *domain.AdvancedAnalyticsReport, baseName string) string {
	var b strings.Builder
	writeReportHeader(&b, &report.AnalyticsReport, baseName)
	fmt.Fprintf(&b, "- Transactions: %d (%d buys, %d sells)\n", report.TotalTransactions, report.TotalBuys, report.TotalSells)
	fmt.Fprintf(&b, "- Profit per transaction: %s\n", utils.FormatMoney(report.AverageProfitPerTransaction, baseName))
	writeDetailsTable(&b, report.Details, baseName)

	b.WriteString("\n## Peak hours\n\n")
	if len(report.PeakHours) == 0 {
		b.WriteString("No operations in this period.\n")
		return b.String()
	}
	b.WriteString("| Hour | Operations |\n|---|---:|\n")
	for _, p := range report.PeakHours {
		fmt.Fprintf(&b, "| %s | %d |\n", p.Hour.Format(reportTimeLayout), p.OperationCount)
	}
	return b.String()
}

func writeReportHeader(b *strings.Builder, report *domain.AnalyticsReport, baseName string) {
	fmt.Fprintf(b, "# Report: %s\n\n", report.Period)
	fmt.Fprintf(b, "%s to %s\n\n", report.StartTime.Format(reportTimeLayout), report.EndTime.Format(reportTimeLayout))
	fmt.Fprintf(b, "- %s balance: %s\n", baseName, utils.FormatMoney(report.BaseBalance, baseName))
	fmt.Fprintf(b, "- Total profit: %s\n", utils.FormatMoney(report.TotalProfit, baseName))
}

func writeDetailsTable(b *strings.Builder, details []domain.CurrencyAnalytics, baseName string) {
	b.WriteString("\n## Currencies\n\n")
	if len(details) == 0 {
		b.WriteString("No currencies to report.\n")
		return
	}
	b.WriteString("| Currency | Balance | Bought | Avg buy | Sold | Avg sell | Profit |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
	for _, d := range details {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			d.Currency,
			d.Balance.StringFixed(2),
			d.TotalBought.StringFixed(2),
			d.AvgBuyRate.StringFixed(4),
			d.TotalSold.StringFixed(2),
			d.AvgSellRate.StringFixed(4),
			utils.FormatMoney(d.Profit, baseName))
	}
}
