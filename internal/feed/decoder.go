// Package feed decodes extracted table rows into typed moneyway and
// dropping-odds entities, and fetches the source documents.
package feed

import (
	"regexp"
	"strings"

	"github.com/rutsinsao/smart-money-alert/internal/extract"
	"github.com/rutsinsao/smart-money-alert/internal/models"
	"github.com/rutsinsao/smart-money-alert/internal/normalize"
)

// Minimum cell counts below which a row is treated as noise rather than data.
const (
	MinSignalColumns = 10
	MinPriceColumns  = 12
)

// percentRe matches a number immediately followed by a percent sign, used to
// re-derive percentage columns when injected cells shift fixed positions.
var percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// signalStrategy decodes an extracted table into moneyway entities.
// Strategies are tried in a fixed order; the first that succeeds wins.
type signalStrategy func(extract.Table) ([]models.SignalEntity, bool)

type priceStrategy func(extract.Table) ([]models.PriceEntity, bool)

// DecodeSignalTable turns an extracted table into moneyway entities. The
// header-mapped strategy runs first; any failure there, including a panic on
// unexpected header layouts, falls through to positional decoding.
func DecodeSignalTable(tbl extract.Table) []models.SignalEntity {
	for _, strat := range []signalStrategy{decodeSignalByHeaders, decodeSignalPositional} {
		if entities, ok := strat(tbl); ok {
			return entities
		}
	}
	return nil
}

// DecodePriceTable is the dropping-odds counterpart of DecodeSignalTable.
func DecodePriceTable(tbl extract.Table) []models.PriceEntity {
	for _, strat := range []priceStrategy{decodePriceByHeaders, decodePricePositional} {
		if entities, ok := strat(tbl); ok {
			return entities
		}
	}
	return nil
}

// headerIndex maps recognized header texts to their column positions using
// substring/keyword heuristics. Header cells that match nothing are ignored.
type headerIndex map[string]int

func indexHeaders(headers []string, price bool) headerIndex {
	idx := make(headerIndex)
	for i, raw := range headers {
		h := strings.ToLower(strings.TrimSpace(raw))
		if h == "" {
			continue
		}
		field := classifyHeader(h, price)
		if field == "" {
			continue
		}
		if _, taken := idx[field]; !taken {
			idx[field] = i
		}
	}
	return idx
}

func classifyHeader(h string, price bool) string {
	switch {
	case strings.Contains(h, "league") || strings.Contains(h, "competition"):
		return "league"
	case strings.Contains(h, "date"):
		return "date"
	case strings.Contains(h, "time"):
		return "time"
	case strings.Contains(h, "home"):
		return "home"
	case strings.Contains(h, "away"):
		return "away"
	case strings.Contains(h, "vol"):
		return "volume"
	}

	if price {
		open := strings.Contains(h, "open")
		now := strings.Contains(h, "now") || strings.Contains(h, "current")
		switch {
		case open && hasToken(h, "1"):
			return "odds1_open"
		case now && hasToken(h, "1"):
			return "odds1_now"
		case open && hasToken(h, "x"):
			return "oddsx_open"
		case now && hasToken(h, "x"):
			return "oddsx_now"
		case open && hasToken(h, "2"):
			return "odds2_open"
		case now && hasToken(h, "2"):
			return "odds2_now"
		}
		return ""
	}

	if strings.Contains(h, "%") {
		switch {
		case hasToken(h, "1"):
			return "pct1"
		case hasToken(h, "x"):
			return "pctx"
		case hasToken(h, "2"):
			return "pct2"
		}
		return ""
	}
	switch h {
	case "1":
		return "odds1"
	case "x":
		return "oddsx"
	case "2":
		return "odds2"
	}
	return ""
}

// hasToken reports whether h contains tok as a whole word once percent signs
// are stripped ("% 1", "1%", and "1 open" all carry the token "1").
func hasToken(h, tok string) bool {
	cleaned := strings.ReplaceAll(h, "%", " ")
	for _, f := range strings.Fields(cleaned) {
		if f == tok {
			return true
		}
	}
	return false
}

// cell returns the value of the named field from a row, or "" when the field
// was not recognized in the headers. A mapped index past the end of the row
// panics; the strategy's recover turns that into a fallthrough to positional
// decoding.
func (idx headerIndex) cell(row models.RawRow, field string) string {
	i, ok := idx[field]
	if !ok {
		return ""
	}
	return row[i]
}

func decodeSignalByHeaders(tbl extract.Table) (entities []models.SignalEntity, ok bool) {
	// Header layouts in the wild are not trustworthy; any panic while
	// mapping them falls through to the positional strategy.
	defer func() {
		if r := recover(); r != nil {
			entities, ok = nil, false
		}
	}()

	idx := indexHeaders(tbl.Headers, false)
	if !headersUsable(idx) {
		return nil, false
	}

	for _, row := range tbl.Rows {
		e := models.SignalEntity{
			League:   idx.cell(row, "league"),
			DateText: idx.cell(row, "date"),
			TimeText: idx.cell(row, "time"),
			Home:     idx.cell(row, "home"),
			Away:     idx.cell(row, "away"),
			Odds1:    normalize.Number(idx.cell(row, "odds1")),
			OddsX:    normalize.Number(idx.cell(row, "oddsx")),
			Odds2:    normalize.Number(idx.cell(row, "odds2")),
			Pct1:     normalize.Number(idx.cell(row, "pct1")),
			PctX:     normalize.Number(idx.cell(row, "pctx")),
			Pct2:     normalize.Number(idx.cell(row, "pct2")),
			Volume:   normalize.Number(idx.cell(row, "volume")),
		}
		e.SmartOutcome, e.SmartPct = normalize.Dominant(e.Pct1, e.PctX, e.Pct2)
		entities = append(entities, e)
	}
	return entities, true
}

func decodePriceByHeaders(tbl extract.Table) (entities []models.PriceEntity, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			entities, ok = nil, false
		}
	}()

	idx := indexHeaders(tbl.Headers, true)
	if !headersUsable(idx) {
		return nil, false
	}

	for _, row := range tbl.Rows {
		e := models.PriceEntity{
			League:    idx.cell(row, "league"),
			DateText:  idx.cell(row, "date"),
			TimeText:  idx.cell(row, "time"),
			Home:      idx.cell(row, "home"),
			Away:      idx.cell(row, "away"),
			Odds1Open: normalize.Number(idx.cell(row, "odds1_open")),
			Odds1Now:  normalize.Number(idx.cell(row, "odds1_now")),
			OddsXOpen: normalize.Number(idx.cell(row, "oddsx_open")),
			OddsXNow:  normalize.Number(idx.cell(row, "oddsx_now")),
			Odds2Open: normalize.Number(idx.cell(row, "odds2_open")),
			Odds2Now:  normalize.Number(idx.cell(row, "odds2_now")),
			Volume:    normalize.Number(idx.cell(row, "volume")),
		}
		derivePriceDrops(&e)
		entities = append(entities, e)
	}
	return entities, true
}

// headersUsable requires the identity columns at minimum; odds columns can be
// absent without making the mapping useless.
func headersUsable(idx headerIndex) bool {
	for _, field := range []string{"date", "home", "away"} {
		if _, ok := idx[field]; !ok {
			return false
		}
	}
	return true
}

// decodeSignalPositional assumes the fixed moneyway cell ordering
// [league, date, time, home, odds 1/X/2, pct 1/X/2, ..., away, volume] with
// away and volume anchored to the last two cells regardless of row length.
// Percentages are additionally re-derived from a "number followed by %" scan
// over the middle cells, which survives injected icon cells that shift the
// fixed positions.
func decodeSignalPositional(tbl extract.Table) ([]models.SignalEntity, bool) {
	var entities []models.SignalEntity
	for _, row := range tbl.Rows {
		if len(row) < MinSignalColumns {
			continue
		}
		e := models.SignalEntity{
			League:   row[0],
			DateText: row[1],
			TimeText: row[2],
			Home:     row[3],
			Odds1:    normalize.Number(row[4]),
			OddsX:    normalize.Number(row[5]),
			Odds2:    normalize.Number(row[6]),
			Pct1:     normalize.Number(row[7]),
			PctX:     normalize.Number(row[8]),
			Pct2:     normalize.Number(row[9]),
			Away:     row[len(row)-2],
			Volume:   normalize.Number(row[len(row)-1]),
		}
		if p1, px, p2, ok := scanPercents(row[4 : len(row)-2]); ok {
			e.Pct1, e.PctX, e.Pct2 = p1, px, p2
		}
		e.SmartOutcome, e.SmartPct = normalize.Dominant(e.Pct1, e.PctX, e.Pct2)
		entities = append(entities, e)
	}
	return entities, true
}

// decodePricePositional assumes the fixed dropping-odds cell ordering
// [league, date, time, home, 1 open, 1 now, X open, X now, 2 open, 2 now,
// ..., away, volume], away and volume anchored last.
func decodePricePositional(tbl extract.Table) ([]models.PriceEntity, bool) {
	var entities []models.PriceEntity
	for _, row := range tbl.Rows {
		if len(row) < MinPriceColumns {
			continue
		}
		e := models.PriceEntity{
			League:    row[0],
			DateText:  row[1],
			TimeText:  row[2],
			Home:      row[3],
			Odds1Open: normalize.Number(row[4]),
			Odds1Now:  normalize.Number(row[5]),
			OddsXOpen: normalize.Number(row[6]),
			OddsXNow:  normalize.Number(row[7]),
			Odds2Open: normalize.Number(row[8]),
			Odds2Now:  normalize.Number(row[9]),
			Away:      row[len(row)-2],
			Volume:    normalize.Number(row[len(row)-1]),
		}
		derivePriceDrops(&e)
		entities = append(entities, e)
	}
	return entities, true
}

// scanPercents collects "number%" matches across the middle cells in
// left-to-right order as the 1, X, and 2 percentages. Only a full set of
// three is trusted; fewer matches keep the positional values.
func scanPercents(cells []string) (p1, px, p2 *float64, ok bool) {
	var found []*float64
	for _, c := range cells {
		for _, m := range percentRe.FindAllStringSubmatch(c, -1) {
			found = append(found, normalize.Number(m[1]))
			if len(found) == 3 {
				return found[0], found[1], found[2], true
			}
		}
	}
	return nil, nil, nil, false
}

// derivePriceDrops fills the per-outcome drop percentages and the dominant
// drop. A drop needs both the opening and current price, and a non-zero
// opening price; anything else stays nil.
func derivePriceDrops(e *models.PriceEntity) {
	e.Drop1 = dropPct(e.Odds1Open, e.Odds1Now)
	e.DropX = dropPct(e.OddsXOpen, e.OddsXNow)
	e.Drop2 = dropPct(e.Odds2Open, e.Odds2Now)
	e.DropOutcome, e.DropPct = normalize.Dominant(e.Drop1, e.DropX, e.Drop2)
}

func dropPct(open, now *float64) *float64 {
	if open == nil || now == nil || *open == 0 {
		return nil
	}
	v := (*open - *now) / *open * 100
	return &v
}
