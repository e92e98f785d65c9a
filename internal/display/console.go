// Package display renders cycle results as terminal tables. The engine only
// sees the Presenter side of it.
package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rutsinsao/smart-money-alert/internal/models"
)

// Console writes human-readable cycle output to a single writer.
type Console struct {
	w io.Writer
}

// NewConsole creates a console renderer.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// ShowAlert prints the immediate one-line notice for a newly fired alert.
// Satisfies engine.Presenter.
func (c *Console) ShowAlert(a models.Alert) {
	fmt.Fprintf(c.w, "🚨 ALERT: %s %s %s | %s vs %s | Sign %s | Smart %.1f%% & Drop %.1f%%\n",
		a.League, a.Date, a.Time, a.Home, a.Away, a.Outcome, a.SmartPct, a.DropPct)
}

// ShowSignals renders every decoded moneyway row for the cycle.
func (c *Console) ShowSignals(entities []models.SignalEntity) {
	if len(entities) == 0 {
		return
	}
	fmt.Fprintf(c.w, "Moneyway rows (%d):\n", len(entities))
	tw := tabwriter.NewWriter(c.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEAGUE\tDATE\tTIME\tHOME\tAWAY\t1\tX\t2\t% 1\t% X\t% 2\tSIGN\tVOL")
	for _, e := range entities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.League, e.DateText, e.TimeText, e.Home, e.Away,
			fmtOdds(e.Odds1), fmtOdds(e.OddsX), fmtOdds(e.Odds2),
			fmtFloat(e.Pct1), fmtFloat(e.PctX), fmtFloat(e.Pct2),
			string(e.SmartOutcome), fmtFloat(e.Volume))
	}
	tw.Flush() //nolint:errcheck
}

// ShowPrices renders every decoded dropping-odds row for the cycle.
func (c *Console) ShowPrices(entities []models.PriceEntity) {
	if len(entities) == 0 {
		return
	}
	fmt.Fprintf(c.w, "Dropping-odds rows (%d):\n", len(entities))
	tw := tabwriter.NewWriter(c.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEAGUE\tDATE\tTIME\tHOME\tAWAY\t1 O→N\tX O→N\t2 O→N\tSIGN\tDROP %\tVOL")
	for _, e := range entities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.League, e.DateText, e.TimeText, e.Home, e.Away,
			fmtPair(e.Odds1Open, e.Odds1Now),
			fmtPair(e.OddsXOpen, e.OddsXNow),
			fmtPair(e.Odds2Open, e.Odds2Now),
			string(e.DropOutcome), fmtFloat(e.DropPct), fmtFloat(e.Volume))
	}
	tw.Flush() //nolint:errcheck
}

// ShowRecentAlerts renders the tail of the alert journal, newest first.
func (c *Console) ShowRecentAlerts(alerts []models.Alert) {
	if len(alerts) == 0 {
		return
	}
	fmt.Fprintf(c.w, "Recent alerts (%d):\n", len(alerts))
	tw := tabwriter.NewWriter(c.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DETECTED\tLEAGUE\tDATE\tTIME\tHOME\tAWAY\tSIGN\tSMART %\tDROP %")
	for _, a := range alerts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.1f\t%.1f\n",
			a.DetectedAt.Format("2006-01-02 15:04"),
			a.League, a.Date, a.Time, a.Home, a.Away,
			string(a.Outcome), a.SmartPct, a.DropPct)
	}
	tw.Flush() //nolint:errcheck
}

// ShowInsufficientData reports which feeds came back empty this cycle.
func (c *Console) ShowInsufficientData(moneywayEmpty, droppingEmpty bool) {
	switch {
	case moneywayEmpty && droppingEmpty:
		fmt.Fprintln(c.w, "Insufficient data: both feeds returned no rows this cycle")
	case moneywayEmpty:
		fmt.Fprintln(c.w, "Insufficient data: moneyway feed returned no rows this cycle")
	case droppingEmpty:
		fmt.Fprintln(c.w, "Insufficient data: dropping-odds feed returned no rows this cycle")
	}
}

// ShowMatched renders every correlated pair, flagging the ones whose alert
// fired. This is the unfiltered "all matched" view; triggered pairs appear
// regardless of whether their notification was suppressed as a duplicate.
func (c *Console) ShowMatched(pairs []models.CorrelatedPair, alerts []models.Alert) {
	if len(pairs) == 0 {
		fmt.Fprintln(c.w, "No fixtures matched across both feeds")
		return
	}

	triggered := make(map[string]bool, len(alerts))
	for _, a := range alerts {
		triggered[a.Identity()] = true
	}

	fmt.Fprintf(c.w, "Matched fixtures (%d), alerts flagged:\n", len(pairs))
	tw := tabwriter.NewWriter(c.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tLEAGUE\tDATE\tTIME\tHOME\tAWAY\tSIGN\tSMART %\tDROP %\t1 O→N\tX O→N\t2 O→N\tVOL(MW)\tVOL(DR)")
	for _, p := range pairs {
		flag := ""
		if p.Signal.SmartOutcome != "" && triggered[models.AlertIdentity(p.Key, p.Signal.SmartOutcome)] {
			flag = "🚨"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			flag,
			p.Signal.League, p.Signal.DateText, p.Signal.TimeText,
			p.Signal.Home, p.Signal.Away,
			string(p.Signal.SmartOutcome),
			fmtFloat(p.Signal.SmartPct), fmtFloat(p.Price.DropPct),
			fmtPair(p.Price.Odds1Open, p.Price.Odds1Now),
			fmtPair(p.Price.OddsXOpen, p.Price.OddsXNow),
			fmtPair(p.Price.Odds2Open, p.Price.Odds2Now),
			fmtFloat(p.Signal.Volume), fmtFloat(p.Price.Volume))
	}
	tw.Flush() //nolint:errcheck
}

// ShowFeedCounts prints the per-feed row counts for the cycle.
func (c *Console) ShowFeedCounts(signals, prices int) {
	fmt.Fprintf(c.w, "Fetched %d moneyway rows, %d dropping-odds rows\n", signals, prices)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func fmtOdds(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func fmtPair(open, now *float64) string {
	return fmtOdds(open) + "→" + fmtOdds(now)
}
