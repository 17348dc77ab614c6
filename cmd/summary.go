package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cash-flow/internal/cli"
	"cash-flow/internal/finance"
	"cash-flow/internal/models"
	"cash-flow/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagEmail string
	flagDays  int
	flagLang  string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print totals, recent days and the expense breakdown for one user",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&flagEmail, "email", "e", "", "Owner email")
	summaryCmd.Flags().IntVarP(&flagDays, "days", "n", -1, "Lookback window in days (default from config)")
	summaryCmd.Flags().StringVar(&flagLang, "lang", "", "Label language, en or zh (default the user's preference)")
	_ = summaryCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	st := store.New(rt.db)
	clock := finance.SystemClock(rt.cfg.Location())

	lang := finance.ParseLanguage(flagLang)
	if flagLang == "" {
		lang = finance.ParseLanguage(rt.cfg.App.DefaultLanguage)
		if u, err := st.UserByEmail(ctx, flagEmail); err == nil {
			lang = finance.ParseLanguage(u.Language)
		}
	}

	days := flagDays
	if days < 0 {
		days = rt.cfg.App.LookbackDays
	}

	rows, err := st.CashFlowsByOwner(ctx, flagEmail)
	if err != nil {
		return fmt.Errorf("load cash flows: %w", err)
	}
	entries := models.Entries(rows)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CASH FLOW  %s", store.NormalizeEmail(flagEmail))))
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("  No entries recorded yet.")
		return nil
	}

	fmt.Print(renderTotals(entries, clock.Today()))
	fmt.Println()

	buckets, skipped := finance.BucketByDay(entries, finance.BucketOptions{
		Now:      clock.Time(),
		Location: clock.Location,
		Days:     days,
	})
	fmt.Print(renderBuckets(buckets, days))
	if len(skipped) > 0 {
		fmt.Println(cli.Muted(fmt.Sprintf("  %d entries with unreadable dates skipped", len(skipped))))
	}
	fmt.Println()

	fmt.Print(renderBreakdown(finance.Breakdown(entries, finance.Expense, lang)))

	if line, err := limitLine(ctx, st, flagEmail, clock.Today()); err == nil && line != "" {
		fmt.Println()
		fmt.Println("  " + line)
	}
	return nil
}

func renderTotals(entries []finance.Entry, today finance.Day) string {
	all := finance.Totals(entries)
	day := finance.TotalsOn(entries, today)
	return cli.RenderTable(cli.Table{
		Headers: []string{"", "All time", "Today"},
		Rows: [][]string{
			{"Income", cli.Income(finance.FormatAmount(all.Income)), cli.Income(finance.FormatAmount(day.Income))},
			{"Expenses", cli.Spend(finance.FormatAmount(all.Expenses)), cli.Spend(finance.FormatAmount(day.Expenses))},
			{cli.Separator},
			{"Balance", finance.FormatAmount(all.Balance), finance.FormatAmount(day.Balance)},
		},
	})
}

func renderBuckets(buckets []finance.DayBucket, days int) string {
	title := "All days"
	if days > 0 {
		title = fmt.Sprintf("Last %d days", days)
	}
	t := cli.Table{
		Title:   title,
		Headers: []string{"Date", "Entries", "Income", "Expenses"},
	}
	for _, b := range buckets {
		t.Rows = append(t.Rows, []string{
			b.Date.String(),
			fmt.Sprint(len(b.Entries)),
			finance.FormatAmount(b.Income),
			finance.FormatAmount(b.Expenses),
		})
	}
	if len(t.Rows) == 0 {
		return cli.Muted("  No entries in the window.") + "\n"
	}
	return cli.RenderTable(t)
}

func renderBreakdown(shares []finance.CategoryShare) string {
	if len(shares) == 0 {
		return cli.Muted("  No expenses to break down.") + "\n"
	}
	var b strings.Builder
	t := cli.Table{
		Title:   "Expenses by category",
		Headers: []string{"Category", "Count", "Amount", "Share"},
	}
	for _, s := range shares {
		t.Rows = append(t.Rows, []string{
			s.Label,
			fmt.Sprint(s.Count),
			finance.FormatAmount(s.Amount),
			s.Percent.StringFixed(2) + "%",
		})
	}
	b.WriteString(cli.RenderTable(t))
	for _, s := range shares {
		pct, _ := s.Percent.Float64()
		fmt.Fprintf(&b, "  %-10s %s\n", s.Label, cli.RenderShareBar(pct, 24))
	}
	return b.String()
}

// limitLine reports today's spending against the daily limit without
// touching the notification flag.
func limitLine(ctx context.Context, st *store.Store, email string, today finance.Day) (string, error) {
	l, err := st.DailyLimitFor(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	spent, err := st.OutflowOn(ctx, email, today)
	if err != nil {
		return "", err
	}
	state := finance.LimitState{Limit: l.LimitValue}
	text := fmt.Sprintf("Daily limit %s, spent today %s", finance.FormatAmount(l.LimitValue), finance.FormatAmount(spent))
	if state.Exceeded(spent) {
		return cli.Spend(text + "  (over)"), nil
	}
	return cli.Income(text), nil
}
