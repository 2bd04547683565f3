package onepager

import (
	"strings"

	"github.com/onepager/onepager/internal/pptx"
)

// metricRows maps the upper-cased first cell of a financials row to the
// metric key in the payload.
var metricRows = map[string]string{
	"ARR":     "ARR",
	"REVENUE": "Revenue",
	"GM":      "GM",
	"EBITDA":  "EBITDA",
	"FTES":    "FTEs",
}

// UpdateQuarterlyFinancials writes period metrics into the quarterly
// financials table. It reports whether the table was found.
func UpdateQuarterlyFinancials(shapes []*pptx.Shape, periods Periods) bool {
	if len(periods) == 0 {
		return false
	}
	for _, table := range tables(shapes) {
		rows := table.Rows()
		if len(rows) == 0 || !isFinancialsTable(rows) {
			continue
		}

		columns := periodColumns(rows[0], periods)
		for _, row := range rows[1:] {
			cells := row.Cells()
			if len(cells) == 0 {
				continue
			}
			metric, ok := metricRows[upper(strings.TrimSpace(cells[0].Text()))]
			if !ok {
				continue
			}
			for _, col := range columns {
				if col.index >= len(cells) {
					continue
				}
				if v := col.period.Metrics[metric]; !v.IsNull() {
					cells[col.index].SetText(v.String())
				}
			}
		}
		return true
	}
	return false
}

func isFinancialsTable(rows []*pptx.Row) bool {
	for _, row := range rows {
		for _, cell := range row.Cells() {
			if containsAny(normalize(cell.Text()), "yf 31st dec", "quarterly actual") {
				return true
			}
		}
	}
	for _, row := range rows {
		cells := row.Cells()
		if len(cells) == 0 {
			continue
		}
		if _, ok := metricRows[upper(strings.TrimSpace(cells[0].Text()))]; ok {
			return true
		}
	}
	return false
}

type periodColumn struct {
	index  int
	period Period
}

// periodColumns maps header cells to the first period whose label occurs in
// the cell text, in column order.
func periodColumns(header *pptx.Row, periods Periods) []periodColumn {
	var cols []periodColumn
	for i, cell := range header.Cells() {
		text := strings.TrimSpace(cell.Text())
		for _, p := range periods {
			if strings.Contains(text, p.Label) {
				cols = append(cols, periodColumn{index: i, period: p})
				break
			}
		}
	}
	return cols
}
