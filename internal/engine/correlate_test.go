package engine

import (
	"testing"

	"github.com/rutsinsao/smart-money-alert/internal/models"
)

func signal(date, home, away string) models.SignalEntity {
	return models.SignalEntity{DateText: date, Home: home, Away: away}
}

func price(date, home, away string) models.PriceEntity {
	return models.PriceEntity{DateText: date, Home: home, Away: away}
}

func TestSignalKeyNormalizes(t *testing.T) {
	k := SignalKey(signal("28 Oct", "Arsenal FC", " Chelsea "), 2025)
	want := models.MatchKey{Date: "2025-10-28", Home: "arsenal", Away: "chelsea"}
	if k != want {
		t.Errorf("SignalKey = %+v, want %+v", k, want)
	}
}

func TestKeysAgreeAcrossFeeds(t *testing.T) {
	s := SignalKey(signal("28 Oct", "Arsenal FC", "Chelsea"), 2025)
	p := PriceKey(price("28 Oct", "arsenal", "CHELSEA"), 2025)
	if s != p {
		t.Errorf("keys differ: %+v vs %+v", s, p)
	}
}

func TestCorrelateInnerJoin(t *testing.T) {
	signals := []models.SignalEntity{
		signal("28 Oct", "Arsenal FC", "Chelsea"),
		signal("28 Oct", "Liverpool", "Everton"), // no counterpart
	}
	prices := []models.PriceEntity{
		price("28 Oct", "arsenal", "Chelsea"),
		price("29 Oct", "Liverpool", "Everton"), // different date
	}

	pairs := Correlate(signals, prices, 2025)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Signal.Home != "Arsenal FC" || pairs[0].Price.Home != "arsenal" {
		t.Errorf("wrong pairing: %q / %q", pairs[0].Signal.Home, pairs[0].Price.Home)
	}
}

func TestCorrelateCrossProductOnDuplicateKeys(t *testing.T) {
	signals := []models.SignalEntity{
		signal("28 Oct", "Arsenal", "Chelsea"),
		signal("28 Oct", "Arsenal FC", "Chelsea"),
	}
	prices := []models.PriceEntity{
		price("28 Oct", "arsenal", "chelsea"),
		price("28 Oct", "Arsenal", "Chelsea FC"),
	}

	pairs := Correlate(signals, prices, 2025)
	// Both signal rows and the first price row normalize to the same key;
	// the second price row differs ("chelsea fc" keeps its trailing token
	// stripped, matching too). Every combination appears.
	if len(pairs) != 4 {
		t.Fatalf("expected 4 pairs (2x2 cross product), got %d", len(pairs))
	}
}

func TestCorrelateDeterministicOrder(t *testing.T) {
	signals := []models.SignalEntity{
		signal("28 Oct", "A", "B"),
		signal("28 Oct", "C", "D"),
	}
	prices := []models.PriceEntity{
		{DateText: "28 Oct", Home: "C", Away: "D", League: "second"},
		{DateText: "28 Oct", Home: "A", Away: "B", League: "first"},
	}

	for i := 0; i < 10; i++ {
		pairs := Correlate(signals, prices, 2025)
		if len(pairs) != 2 {
			t.Fatalf("expected 2 pairs, got %d", len(pairs))
		}
		if pairs[0].Price.League != "first" || pairs[1].Price.League != "second" {
			t.Fatalf("unstable order: %q then %q", pairs[0].Price.League, pairs[1].Price.League)
		}
	}
}

func TestCorrelateUnparsableDateExactMatch(t *testing.T) {
	// Dates that fail to parse stay joinable by exact text equality.
	signals := []models.SignalEntity{signal("someday", "A", "B")}
	prices := []models.PriceEntity{price("someday", "a", "b")}

	if pairs := Correlate(signals, prices, 2025); len(pairs) != 1 {
		t.Fatalf("expected degraded exact-text date match, got %d pairs", len(pairs))
	}

	prices[0].DateText = "Someday"
	if pairs := Correlate(signals, prices, 2025); len(pairs) != 0 {
		t.Fatalf("expected no match for differing unparsable dates, got %d pairs", len(pairs))
	}
}

func TestCorrelateEmptyInputs(t *testing.T) {
	if pairs := Correlate(nil, nil, 2025); len(pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(pairs))
	}
	if pairs := Correlate([]models.SignalEntity{signal("28 Oct", "A", "B")}, nil, 2025); len(pairs) != 0 {
		t.Errorf("expected no pairs with empty price feed, got %d", len(pairs))
	}
}
