// Package scrape turns saved wiki HTML drop tables into the NDJSON row shape
// the name-resolution variant consumes. The resolution engine itself never
// touches HTML; it only sees the emitted rows.
package scrape

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dropdex/internal/resolve"
)

// ScrapeTables extracts every table row from the document, attributing each
// to the nearest preceding h3 heading. Tables without a header row are
// skipped; rows with no cells are skipped.
func ScrapeTables(r io.Reader, file string) ([]resolve.Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("wiki document %s: %w", file, err)
	}

	var out []resolve.Row
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}

		h3Text, h3ID := precedingHeading(table)

		var columns []string
		rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			columns = append(columns, normalizeSpaces(cell.Text()))
		})
		if len(columns) == 0 {
			return
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
			var values []string
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				values = append(values, normalizeSpaces(cell.Text()))
			})
			if len(values) == 0 {
				return
			}

			row := resolve.Row{
				Columns:  columns,
				Values:   values,
				ByColumn: map[string]string{},
			}
			row.Section.File = file
			row.Section.H3Text = h3Text
			row.Section.H3ID = h3ID
			for i, col := range columns {
				if i < len(values) && col != "" {
					row.ByColumn[col] = values[i]
				}
			}
			out = append(out, row)
		})
	})

	return out, nil
}

// WriteNDJSON emits one compact JSON object per line, in row order.
func WriteNDJSON(rows []resolve.Row, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

func precedingHeading(table *goquery.Selection) (text, id string) {
	heading := table.PrevAllFiltered("h3").First()
	if heading.Length() == 0 {
		heading = table.Parent().PrevAllFiltered("h3").First()
	}
	if heading.Length() == 0 {
		return "", ""
	}

	text = normalizeSpaces(heading.Text())
	if v, ok := heading.Attr("id"); ok {
		id = v
	} else if span := heading.Find("span[id]").First(); span.Length() > 0 {
		id, _ = span.Attr("id")
	}
	return text, id
}

func normalizeSpaces(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
