package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StarTrade/internal/calculator"
	"StarTrade/internal/model"
)

// FormatAnalysis formats one symbol's analysis into a Telegram message.
func FormatAnalysis(a *model.Analysis) string {
	var b strings.Builder
	snap := &a.Snapshot

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(a.Symbol), snap.AsOf.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Price: %.2f", snap.Price))
	if change, pct, ok := snap.Change(); ok {
		b.WriteString(fmt.Sprintf(" (%+.2f, %+.2f%%)", change, pct))
	}
	b.WriteString("\n")
	if snap.High52w > 0 {
		b.WriteString(fmt.Sprintf("52w range: %.2f - %.2f (%.0f%%)\n", snap.Low52w, snap.High52w, snap.Position52w*100))
	}
	b.WriteString(fmt.Sprintf("SMA20: %s | SMA50: %s | RSI: %s\n\n",
		reading(snap, calculator.KeySMA20), reading(snap, calculator.KeySMA50), reading(snap, calculator.KeyRSI)))

	b.WriteString(html.EscapeString(a.Summary))
	b.WriteString("\n")

	if sig := a.Signal; sig != nil {
		b.WriteString("\n📈 <b>Score breakdown:</b>\n")
		for _, f := range sig.Factors {
			b.WriteString(fmt.Sprintf("  %s: %+.0f (%s)\n", f.Name, f.Points, html.EscapeString(f.Commentary)))
		}
		b.WriteString("  ─────────────────\n")
		b.WriteString(fmt.Sprintf("  Technical score: %.0f/100\n", sig.Score))
		b.WriteString(fmt.Sprintf("💡 <b>%s</b> (%s confidence)\n", sig.Recommendation.Action, sig.Recommendation.Confidence))
	}
	return b.String()
}

// DigestFailure is a symbol the digest could not analyze.
type DigestFailure struct {
	Symbol string
	Err    error
}

// FormatDigest formats the compact watchlist table sent by the scheduled digest.
func FormatDigest(now time.Time, analyses []*model.Analysis, failures []DigestFailure) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>StarTrade digest</b> | %s\n\n", now.Format("2006-01-02")))

	if len(analyses) == 0 && len(failures) == 0 {
		b.WriteString("The board is empty.\n")
		return b.String()
	}

	for _, a := range analyses {
		line := fmt.Sprintf("<b>%s</b> %.2f", html.EscapeString(a.Symbol), a.Snapshot.Price)
		if _, pct, ok := a.Snapshot.Change(); ok {
			line += fmt.Sprintf(" %+.2f%%", pct)
		}
		line += " | RSI " + reading(&a.Snapshot, calculator.KeyRSI)
		if a.Signal != nil {
			line += fmt.Sprintf(" | %.0f %s", a.Signal.Score, a.Signal.Recommendation.Action)
		}
		b.WriteString(line + "\n")
	}
	if len(failures) > 0 {
		b.WriteString("\n⚠️ <b>Unavailable:</b>\n")
		for _, f := range failures {
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(f.Symbol), html.EscapeString(f.Err.Error())))
		}
	}
	return b.String()
}

// FormatBoard formats the grouped-symbol layout for display.
func FormatBoard(groups []model.Group) string {
	var b strings.Builder
	b.WriteString("📦 <b>Board</b>\n\n")
	for _, g := range groups {
		b.WriteString(fmt.Sprintf("<b>%s</b> (%d)\n", html.EscapeString(g.Name), len(g.Symbols)))
		if len(g.Symbols) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		b.WriteString("  " + html.EscapeString(strings.Join(g.Symbols, ", ")) + "\n")
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /summary SYMBOL - technical summary for one symbol\n" +
		"• /board - show the grouped watchlist\n" +
		"• /digest - run the watchlist digest now\n" +
		"• /help - this message"
}

func reading(snap *model.IndicatorSnapshot, name string) string {
	if v, ok := snap.Get(name); ok {
		return fmt.Sprintf("%.2f", v)
	}
	return "n/a"
}
