package onepager

import (
	"strings"

	"github.com/onepager/onepager/internal/pptx"
)

type summaryField struct {
	label  string
	format func(fields map[string]Value) string
}

func plain(key string) func(map[string]Value) string {
	return func(f map[string]Value) string {
		if f[key].Empty() {
			return ""
		}
		return f[key].String()
	}
}

func wrapped(key, prefix, suffix string) func(map[string]Value) string {
	return func(f map[string]Value) string {
		if f[key].Empty() {
			return ""
		}
		return prefix + f[key].String() + suffix
	}
}

// summaryFields are matched in order against each label cell; the first label
// contained in the cell text wins.
var summaryFields = []summaryField{
	{label: "erve investment", format: wrapped("erveInvestmentEUR", "€", "m")},
	{label: "break-down by round", format: plain("investmentRound")},
	{label: "breakdown by round", format: plain("investmentRound")},
	{label: "total raised", format: plain("totalRaised")},
	{label: "erve %", format: wrapped("erveOwnership", "", "%")},
	{label: "security", format: plain("securityType")},
	{label: "other shareholders", format: plain("otherShareholders")},
	{label: "governance", format: func(f map[string]Value) string {
		return "Board Member: " + f["boardMember"].String() + ", Observer: " + f["boardObserver"].String()
	}},
	{label: "cash", format: plain("cash")},
	{label: "monthly burn", format: wrapped("monthlyBurn", "€", "m")},
	{label: "fume", format: wrapped("fume", "", " months")},
	{label: "last pre-/post-money valuation", format: func(f map[string]Value) string {
		if f["preMoneyValuation"].Empty() {
			return ""
		}
		return "€" + f["preMoneyValuation"].String() + "m / €" + f["postMoneyValuation"].String() + "m"
	}},
}

type navCell struct {
	label string
	value *pptx.Cell
}

// UpdateInvestmentSummary fills the table that follows the "Investment
// summary" heading. It reports whether such a table was found.
func UpdateInvestmentSummary(shapes []*pptx.Shape, fields map[string]Value) bool {
	if len(fields) == 0 {
		return false
	}
	table := summaryTable(shapes)
	if table == nil {
		return false
	}

	var navs []navCell
	for _, row := range table.Rows() {
		cells := row.Cells()
		for i, cell := range cells {
			text := normalize(cell.Text())
			hasValueCell := i+1 < len(cells)
			if strings.Contains(text, "nav") && hasValueCell {
				navs = append(navs, navCell{label: text, value: cells[i+1]})
				continue
			}
			for _, field := range summaryFields {
				if !strings.Contains(text, field.label) {
					continue
				}
				if v := field.format(fields); hasValueCell && v != "" {
					cells[i+1].SetText(v)
				}
				break
			}
		}
	}
	assignNAV(navs, fields)
	return true
}

func summaryTable(shapes []*pptx.Shape) *pptx.Table {
	heading := false
	for _, sh := range shapes {
		if sh.HasTextFrame() && strings.Contains(lower(sh.Text()), "investment summary") {
			heading = true
			continue
		}
		if heading && sh.HasTable() {
			return sh.Table()
		}
	}
	return nil
}

// assignNAV writes NAV figures in label order: the first half of the NAV
// cells (rounded up) take the current quarter, the rest the prior quarter.
// Within a half, an explicit currency marker decides EUR or USD; otherwise
// cells alternate EUR, USD.
func assignNAV(navs []navCell, fields map[string]Value) {
	current := (len(navs) + 1) / 2
	for i, nav := range navs {
		eurKey, usdKey, pos := "currentQuarterNAV", "currentQuarterNAVUSD", i
		if i >= current {
			eurKey, usdKey, pos = "priorQuarterNAV", "priorQuarterNAVUSD", i-current
		}
		key := eurKey
		switch {
		case containsAny(nav.label, "(eur)", "€"):
		case containsAny(nav.label, "(usd)", "$", "usd"):
			key = usdKey
		case pos%2 == 1:
			key = usdKey
		}
		if v := fields[key]; !v.Empty() {
			nav.value.SetText(v.String())
		}
	}
}
