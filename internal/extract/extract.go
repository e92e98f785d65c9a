// Package extract pulls tabular rows out of semi-structured HTML documents.
// Source pages drift: columns appear and disappear, icons get injected into
// cells, headers come and go. Extraction therefore never fails hard; a
// document without a usable table yields an empty result.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rutsinsao/smart-money-alert/internal/models"
)

// Table is the first table-like structure found in a document: its header
// texts (possibly empty) and its data rows in document order.
type Table struct {
	Headers []string
	Rows    []models.RawRow
}

// Empty reports whether no data rows were extracted.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Parse locates the first <table> in the document and returns its header
// cells and every data row with at least minColumns cells. Shorter rows are
// header/footer/malformed noise and are discarded. A document without a
// table parses to an empty Table, never an error.
func Parse(html string, minColumns int) Table {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Table{}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return Table{}
	}

	var out Table
	table.Find("thead tr").First().Find("th, td").Each(func(_ int, s *goquery.Selection) {
		out.Headers = append(out.Headers, cellText(s))
	})

	rows := table.Find("tbody tr")
	if rows.Length() == 0 {
		rows = table.Find("tr")
	}

	rows.Each(func(_ int, tr *goquery.Selection) {
		// A row of <th> cells outside <thead> is still a header row.
		if tr.Find("td").Length() == 0 {
			if len(out.Headers) == 0 {
				tr.Find("th").Each(func(_ int, s *goquery.Selection) {
					out.Headers = append(out.Headers, cellText(s))
				})
			}
			return
		}

		var row models.RawRow
		tr.Find("td").Each(func(_ int, s *goquery.Selection) {
			row = append(row, cellText(s))
		})
		if len(row) < minColumns {
			return
		}
		out.Rows = append(out.Rows, row)
	})

	return out
}

// cellText returns the visible text of a cell with internal whitespace
// collapsed to single spaces.
func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
