// Package models defines the core domain entities: feed rows, fixtures,
// correlated pairs, and alerts.
package models

import (
	"errors"
	"fmt"
	"time"
)

// Outcome identifies one of the three 1X2 results.
type Outcome string

const (
	OutcomeHome Outcome = "1"
	OutcomeDraw Outcome = "X"
	OutcomeAway Outcome = "2"
)

// OutcomeOrder is the stable enumeration order used for tie-breaking
// when two outcomes carry the same percentage.
var OutcomeOrder = [3]Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}

// RawRow is one table row as extracted from a source document, in cell order.
type RawRow []string

// SignalEntity is one fixture row from the moneyway (signal-percentage) feed.
// Cell values that fail to parse stay nil and propagate as nil through the
// derived fields.
type SignalEntity struct {
	League   string `json:"league"`
	DateText string `json:"date"`
	TimeText string `json:"time"`
	Home     string `json:"home"`
	Away     string `json:"away"`

	Odds1 *float64 `json:"odds_1,omitempty"`
	OddsX *float64 `json:"odds_x,omitempty"`
	Odds2 *float64 `json:"odds_2,omitempty"`

	Pct1 *float64 `json:"pct_1,omitempty"`
	PctX *float64 `json:"pct_x,omitempty"`
	Pct2 *float64 `json:"pct_2,omitempty"`

	Volume *float64 `json:"volume,omitempty"`

	// Derived: the outcome carrying the largest share of wagered money.
	// Empty/nil when all three percentages are nil.
	SmartOutcome Outcome  `json:"smart_outcome,omitempty"`
	SmartPct     *float64 `json:"smart_pct,omitempty"`
}

// PriceEntity is one fixture row from the dropping-odds (price-movement) feed.
type PriceEntity struct {
	League   string `json:"league"`
	DateText string `json:"date"`
	TimeText string `json:"time"`
	Home     string `json:"home"`
	Away     string `json:"away"`

	Odds1Open *float64 `json:"odds_1_open,omitempty"`
	Odds1Now  *float64 `json:"odds_1_now,omitempty"`
	OddsXOpen *float64 `json:"odds_x_open,omitempty"`
	OddsXNow  *float64 `json:"odds_x_now,omitempty"`
	Odds2Open *float64 `json:"odds_2_open,omitempty"`
	Odds2Now  *float64 `json:"odds_2_now,omitempty"`

	Volume *float64 `json:"volume,omitempty"`

	// Derived: per-outcome drop from opening price, in percent. Nil when
	// either side of the pair is missing or the opening price is zero.
	Drop1 *float64 `json:"drop_1,omitempty"`
	DropX *float64 `json:"drop_x,omitempty"`
	Drop2 *float64 `json:"drop_2,omitempty"`

	DropOutcome Outcome  `json:"drop_outcome,omitempty"`
	DropPct     *float64 `json:"drop_pct,omitempty"`
}

// MatchKey is the normalized fixture identity used to correlate a moneyway
// row with a dropping-odds row describing the same real-world match. Two
// distinct fixtures sharing a date and normalized team names collide; the
// correlator keeps every pairing rather than guessing which one was meant.
type MatchKey struct {
	Date string
	Home string
	Away string
}

// CorrelatedPair is one moneyway row joined with one dropping-odds row
// sharing a MatchKey.
type CorrelatedPair struct {
	Key    MatchKey
	Signal SignalEntity
	Price  PriceEntity
}

// Alert records a correlated pair whose dominant outcomes agree and whose
// magnitudes both clear the configured thresholds. Immutable once built.
type Alert struct {
	Key     MatchKey
	League  string
	Date    string
	Time    string
	Home    string
	Away    string
	Outcome Outcome

	SmartPct float64
	DropPct  float64

	DetectedAt time.Time
}

// AlertIdentity builds the de-duplication key for a fixture/outcome pair.
func AlertIdentity(key MatchKey, outcome Outcome) string {
	return fmt.Sprintf("%s|%s|%s|%s", key.Date, key.Home, key.Away, outcome)
}

// Identity is the de-duplication key: a repeated identity across refresh
// cycles is shown but not re-dispatched.
func (a *Alert) Identity() string {
	return AlertIdentity(a.Key, a.Outcome)
}

// Validate checks alert field constraints before journaling.
func (a *Alert) Validate() error {
	if a.Key.Home == "" || a.Key.Away == "" {
		return errors.New("alert key must carry both team names")
	}
	switch a.Outcome {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
	default:
		return fmt.Errorf("unknown outcome %q", a.Outcome)
	}
	if a.SmartPct < 0 || a.SmartPct > 100 {
		return errors.New("smart percentage must be between 0 and 100")
	}
	if a.DetectedAt.IsZero() {
		return errors.New("detected at must be set")
	}
	return nil
}
