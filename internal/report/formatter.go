package report

import (
	"fmt"
	"strings"

	"MarketPulse/internal/model"
)

// FormatEvaluation renders one cycle as plain text for the terminal and logs.
func FormatEvaluation(ev *model.Evaluation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("MarketPulse | as of %s", ev.AsOf.Format("2006-01-02")))
	if ev.CycleID != "" {
		b.WriteString(fmt.Sprintf(" | cycle %s", ev.CycleID))
	}
	b.WriteString("\n\n")

	// Per-instrument table
	b.WriteString(fmt.Sprintf("%-10s %-22s %10s %8s %-6s %6s %-10s %8s %5s\n",
		"SYMBOL", "NAME", "PRICE", "BIAS%", "TREND", "RSI", "RSI-ST", "MOM%", "SCORE"))
	for _, r := range ev.Records {
		b.WriteString(fmt.Sprintf("%-10s %-22s %10.2f %+8.2f %-6s %6.1f %-10s %+8.2f %5d\n",
			r.Symbol, truncate(r.DisplayName, 22), r.LatestPrice, r.TrendBias, r.TrendStatus,
			r.RSIValue, r.RSIStatus, r.QuarterMomentum, r.CompositeScore))
	}

	if len(ev.Strength) > 0 {
		b.WriteString("\nRelative strength:\n")
		for _, s := range ev.Strength {
			mark := "under"
			if s.Outperforming {
				mark = "OUT"
			}
			b.WriteString(fmt.Sprintf("  %-10s ratio %.4f (%+.2f%% vs %+.2f%%) %s\n",
				s.Symbol, s.Ratio, s.TargetReturn*100, s.BenchmarkReturn*100, mark))
		}
	}

	if len(ev.Baskets) > 0 {
		b.WriteString("\nBaskets:\n")
		for _, s := range ev.Baskets {
			writeSummary(&b, s)
		}
	}
	if len(ev.Cohorts) > 0 {
		b.WriteString("\nCohorts:\n")
		for _, s := range ev.Cohorts {
			writeSummary(&b, s)
		}
	}

	if sc := ev.Scorecard; sc != nil {
		b.WriteString(fmt.Sprintf("\nScorecard %d/%d: %s\n", sc.Score, len(sc.Factors), sc.Regime))
		for _, f := range sc.Factors {
			state := "fail"
			switch {
			case !f.Available:
				state = "n/a"
			case f.Pass:
				state = "pass"
			}
			b.WriteString(fmt.Sprintf("  %-20s %-10s %-8s %+7.2f %s\n", f.Name, f.Symbol, f.Polarity, f.Bias, state))
		}
	}

	if rot := ev.Rotation; rot != nil {
		b.WriteString(fmt.Sprintf("\nRotation: %s (growth %s scored %d)", rot.Mode, rot.Growth, rot.GrowthScore))
		if rot.Favor != "" {
			b.WriteString(fmt.Sprintf(", favor %s", rot.Favor))
		}
		b.WriteString("\n")
	}

	if len(ev.Skipped) > 0 {
		b.WriteString(fmt.Sprintf("\nSkipped (%d):\n", len(ev.Skipped)))
		for _, s := range ev.Skipped {
			b.WriteString(fmt.Sprintf("  %-10s %-10s %s", s.Symbol, s.Stage, s.Reason))
			if s.Detail != "" {
				b.WriteString(": " + s.Detail)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeSummary(b *strings.Builder, s model.BasketSummary) {
	b.WriteString(fmt.Sprintf("  %-16s n=%d avg bias %+.2f%% strong %d weak %d", s.Name, s.Members, s.AverageBias, s.StrongCount, s.WeakCount))
	if s.Floor > 0 {
		b.WriteString(fmt.Sprintf(" floor %.0f", s.Floor))
	}
	if s.HasLeader() {
		b.WriteString(fmt.Sprintf(" leader %s (%s %.2f)", s.Leader, s.LeaderKey, s.LeaderValue))
	} else {
		b.WriteString(" no leader")
	}
	b.WriteString("\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
