// Package engine correlates the two decoded feeds and evaluates the
// compound-threshold alert predicate.
package engine

import (
	"github.com/rutsinsao/smart-money-alert/internal/models"
	"github.com/rutsinsao/smart-money-alert/internal/normalize"
)

// SignalKey builds the normalized fixture identity for a moneyway row.
// year is the processing year appended to year-less source dates.
func SignalKey(e models.SignalEntity, year int) models.MatchKey {
	return models.MatchKey{
		Date: normalize.Date(e.DateText, year),
		Home: normalize.TeamName(e.Home),
		Away: normalize.TeamName(e.Away),
	}
}

// PriceKey builds the normalized fixture identity for a dropping-odds row.
func PriceKey(e models.PriceEntity, year int) models.MatchKey {
	return models.MatchKey{
		Date: normalize.Date(e.DateText, year),
		Home: normalize.TeamName(e.Home),
		Away: normalize.TeamName(e.Away),
	}
}

// Correlate performs an inner equi-join of the two feeds on MatchKey. Rows
// with no counterpart on the other side are dropped. When several rows on
// either side share a key the result is the full cross product over that
// key; distinct fixtures that normalize to the same key therefore multiply
// rather than being silently deduplicated. Output order is deterministic:
// moneyway row order on the left, dropping-odds row order nested within.
func Correlate(signals []models.SignalEntity, prices []models.PriceEntity, year int) []models.CorrelatedPair {
	byKey := make(map[models.MatchKey][]models.PriceEntity)
	for _, p := range prices {
		k := PriceKey(p, year)
		byKey[k] = append(byKey[k], p)
	}

	var pairs []models.CorrelatedPair
	for _, s := range signals {
		k := SignalKey(s, year)
		for _, p := range byKey[k] {
			pairs = append(pairs, models.CorrelatedPair{Key: k, Signal: s, Price: p})
		}
	}
	return pairs
}
