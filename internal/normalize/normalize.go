// Package normalize converts raw cell text into typed values and builds the
// normalized strings used for fixture matching.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rutsinsao/smart-money-alert/internal/models"
)

var (
	nonNumericRe   = regexp.MustCompile(`[^0-9.\-]`)
	trailingFCRe   = regexp.MustCompile(`\s+fc$`)
	trailingCFRe   = regexp.MustCompile(`\s+cf$`)
	multiSpaceRe   = regexp.MustCompile(`\s{2,}`)
	dateHeadTrimRe = regexp.MustCompile(`^[A-Za-z]{3,9},?\s+`)

	dateLayouts = []string{"2 Jan 2006", "2 January 2006", "2.1 2006", "2/1 2006", "2-1 2006"}
)

// Number parses free-form numeric cell text: currency symbols, thousands
// separators, and surrounding junk are stripped before parsing. Unparsable
// or empty input is nil, never an error.
func Number(text string) *float64 {
	s := strings.ReplaceAll(text, "£", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	s = nonNumericRe.ReplaceAllString(s, "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// TeamName lowercases, trims, drops trailing " fc"/" cf" tokens, and
// collapses runs of whitespace. Idempotent; empty input stays empty.
func TeamName(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = trailingFCRe.ReplaceAllString(s, "")
	s = trailingCFRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return s
}

// Date reduces a day-and-month expression with no year ("28 Oct") to
// YYYY-MM-DD using the given processing year, parsing day-before-month.
// On parse failure the original text is returned unchanged, leaving the
// row joinable only by exact text equality.
func Date(text string, year int) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return text
	}
	// Some layouts lead with a weekday name ("Tue 28 Oct").
	candidate := dateHeadTrimRe.ReplaceAllString(s, "")
	for _, c := range []string{s, candidate} {
		full := fmt.Sprintf("%s %d", c, year)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, full); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}
	return text
}

// Dominant picks the largest of three optional percentages in the stable
// enumeration order home, draw, away; an earlier outcome wins ties. When
// all three are nil both results are empty.
func Dominant(home, draw, away *float64) (models.Outcome, *float64) {
	values := [3]*float64{home, draw, away}

	var best *float64
	var bestOutcome models.Outcome
	for i, outcome := range models.OutcomeOrder {
		v := values[i]
		if v == nil {
			continue
		}
		if best == nil || *v > *best {
			best = v
			bestOutcome = outcome
		}
	}
	if best == nil {
		return "", nil
	}
	return bestOutcome, best
}
