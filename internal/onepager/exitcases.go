package onepager

import (
	"strings"

	"github.com/onepager/onepager/internal/pptx"
)

type exitColumn int

const (
	colEVExit exitColumn = iota
	colMOIC
	colIRR
	colFactors
)

// exitFieldKeys lists the payload keys read for each column, in preference order.
var exitFieldKeys = map[exitColumn][]string{
	colEVExit:  {"EV/Exit", "Multiple"},
	colMOIC:    {"MOIC"},
	colIRR:     {"IRR"},
	colFactors: {"Key factors"},
}

// UpdateExitCases fills the exit cases table from the scenario payload. It
// reports whether the table was found.
func UpdateExitCases(shapes []*pptx.Shape, scenarios Scenarios) bool {
	if len(scenarios) == 0 {
		return false
	}
	for _, table := range tables(shapes) {
		rows := table.Rows()
		if len(rows) == 0 {
			continue
		}
		header := rows[0].Cells()
		if !isExitHeader(header) {
			continue
		}

		columns := exitColumns(header)
		for _, row := range rows[1:] {
			cells := row.Cells()
			if len(cells) == 0 {
				continue
			}
			scenario, ok := matchScenario(scenarios, normalize(cells[0].Text()))
			if !ok {
				continue
			}
			for _, col := range []exitColumn{colEVExit, colMOIC, colIRR, colFactors} {
				idx, ok := columns[col]
				if !ok || idx >= len(cells) {
					continue
				}
				if v := scenario.Field(exitFieldKeys[col]...); !v.Empty() {
					cells[idx].SetText(v.String())
				}
			}
		}
		return true
	}
	return false
}

func isExitHeader(header []*pptx.Cell) bool {
	for _, cell := range header {
		if containsAny(normalize(cell.Text()), "exit case", "ev/exit", "moic") {
			return true
		}
	}
	return false
}

// exitColumns maps each field to the first header column naming it.
func exitColumns(header []*pptx.Cell) map[exitColumn]int {
	cols := make(map[exitColumn]int)
	set := func(c exitColumn, i int) {
		if _, ok := cols[c]; !ok {
			cols[c] = i
		}
	}
	for i, cell := range header {
		text := normalize(cell.Text())
		switch {
		case containsAny(text, "ev/exit", "multiple"):
			set(colEVExit, i)
		case strings.Contains(text, "moic"):
			set(colMOIC, i)
		case strings.Contains(text, "irr"):
			set(colIRR, i)
		case strings.Contains(text, "factor"):
			set(colFactors, i)
		}
	}
	return cols
}

// matchScenario returns the first scenario whose name occurs in the row label.
// Blank names are ignored since they would match every row.
func matchScenario(scenarios Scenarios, label string) (Scenario, bool) {
	for _, s := range scenarios {
		name := normalize(s.Name)
		if name == "" {
			continue
		}
		if strings.Contains(label, name) {
			return s, true
		}
	}
	return Scenario{}, false
}
