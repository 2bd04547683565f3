package onepager_test

import (
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onepager/onepager/internal/onepager"
	"github.com/onepager/onepager/internal/pptx"
	"github.com/onepager/onepager/internal/pptx/pptxtest"
	_ "github.com/onepager/onepager/testing"
)

var ragLefts = []float64{5.0, 5.6, 6.2, 6.8, 7.4, 8.0}

// onePagerDeck mirrors the layout of the portfolio one-pager template.
func onePagerDeck(tb testing.TB) []byte {
	tb.Helper()
	body := pptxtest.TextBox(2, "Investment heading", pptxtest.In(0.3, 0.4, 3, 0.3), "Investment summary") +
		pptxtest.Table(3, "Investment table", pptxtest.In(0.3, 0.8, 4, 4),
			[]string{"ERVE investment (€m)", ""},
			[]string{"Break-down by round", ""},
			[]string{"Total raised", ""},
			[]string{"ERVE %", ""},
			[]string{"Security", ""},
			[]string{"Other shareholders", ""},
			[]string{"Governance", ""},
			[]string{"Cash", ""},
			[]string{"Monthly burn", ""},
			[]string{"FUME", ""},
			[]string{"Last pre-/post-money valuation", ""},
			[]string{"Q4 NAV", ""},
			[]string{"Q4 NAV", ""},
			[]string{"Q3 NAV", ""},
			[]string{"Q3 NAV", ""},
		)
	labels := []string{"Financials", "Cash", "Market", "Team", "Governance", "Overall"}
	for i, left := range ragLefts {
		body += pptxtest.TextBox(10+i, labels[i]+" label", pptxtest.In(left, 0.7, 0.55, 0.2), labels[i])
	}
	// reverse document order so sorting by position matters
	for i := len(ragLefts) - 1; i >= 0; i-- {
		body += pptxtest.Rect(20+i, "RAG "+labels[i], pptxtest.In(ragLefts[i], 1.0, 0.25, 0.25), "FFFFFF")
	}
	body += pptxtest.Rect(30, "Company update box", pptxtest.In(5, 5, 4, 2), "EEEEEE") +
		pptxtest.TextBox(31, "Company update text", pptxtest.In(5, 5, 4, 2), "Company update", "Old commentary", "More old text") +
		pptxtest.Table(40, "Financials", pptxtest.In(5, 2, 4, 2),
			[]string{"Quarterly Actuals (€k)", "Sep-24", "Dec-24"},
			[]string{"ARR", "", ""},
			[]string{"Revenue", "", ""},
			[]string{"GM", "", ""},
			[]string{"EBITDA", "", ""},
			[]string{"FTEs", "", ""},
		) +
		pptxtest.Table(50, "Exit cases", pptxtest.In(0.3, 5.5, 4, 1.5),
			[]string{"Exit case", "EV/Exit", "MOIC", "IRR", "Key factors"},
			[]string{"Bear case", "", "", "", ""},
			[]string{"Base case", "", "", "", ""},
			[]string{"Bull case", "", "", "", ""},
		)
	return pptxtest.Build(tb, body)
}

func shapesOf(t *testing.T, data []byte) []*pptx.Shape {
	t.Helper()
	deck, err := pptx.Open(data)
	require.NoError(t, err)
	slide, err := deck.Slide(0)
	require.NoError(t, err)
	return slide.Shapes()
}

func shapeNamed(t *testing.T, shapes []*pptx.Shape, name string) *pptx.Shape {
	t.Helper()
	for _, sh := range shapes {
		if sh.Name() == name {
			return sh
		}
	}
	t.Fatalf("shape %q not found", name)
	return nil
}

func tableTexts(t *testing.T, shapes []*pptx.Shape, name string) [][]string {
	t.Helper()
	table := shapeNamed(t, shapes, name).Table()
	require.NotNil(t, table)
	var out [][]string
	for _, row := range table.Rows() {
		var texts []string
		for _, cell := range row.Cells() {
			texts = append(texts, cell.Text())
		}
		out = append(out, texts)
	}
	return out
}

func fillOf(t *testing.T, shapes []*pptx.Shape, name string) pptx.RGB {
	t.Helper()
	c, ok := shapeNamed(t, shapes, name).SolidFill()
	require.True(t, ok, name)
	return c
}

// decodeRequest builds a request from a JSON payload the way the HTTP layer does.
func decodeRequest(tb testing.TB, template []byte, payload string) onepager.Request {
	tb.Helper()
	var req onepager.Request
	require.NoError(tb, json.Unmarshal([]byte(payload), &req))
	req.TemplateFile = base64.StdEncoding.EncodeToString(template)
	return req
}

func fieldsOf(tb testing.TB, s onepager.Section) map[string]onepager.Value {
	tb.Helper()
	fields, err := s.Fields()
	require.NoError(tb, err)
	return fields
}

func periodsOf(tb testing.TB, s onepager.Section) onepager.Periods {
	tb.Helper()
	periods, err := s.Periods()
	require.NoError(tb, err)
	return periods
}

func scenariosOf(tb testing.TB, s onepager.Section) onepager.Scenarios {
	tb.Helper()
	scenarios, err := s.Scenarios()
	require.NoError(tb, err)
	return scenarios
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string]string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{outcomes: make(map[string]string)}
}

func (r *recordingObserver) ObserveSection(section, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[section] = outcome
}

func (r *recordingObserver) outcome(section string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[section]
}

const fullPayload = `{
  "investmentSummary": {
    "erveInvestmentEUR": 1.5,
    "investmentRound": "Series A",
    "totalRaised": "€12m",
    "erveOwnership": 8,
    "securityType": "Preferred",
    "otherShareholders": "Founders, Seed VC",
    "boardMember": "Jane Roe",
    "boardObserver": "John Doe",
    "cash": "€3.2m",
    "monthlyBurn": "0.25",
    "fume": 14,
    "preMoneyValuation": 40,
    "postMoneyValuation": 52,
    "currentQuarterNAV": "4.5",
    "currentQuarterNAVUSD": "4.9",
    "priorQuarterNAV": "4.1",
    "priorQuarterNAVUSD": "4.4"
  },
  "ragStatus": {
    "financialsStatus": "Green",
    "cashStatus": "Amber",
    "marketStatus": "Red",
    "teamStatus": "Purple",
    "governanceStatus": ""
  },
  "quarterlyFinancials": {
    "Dec-24": {"ARR": 1200, "Revenue": 310.5, "GM": 0, "EBITDA": null, "FTEs": 42},
    "Sep-24": {"ARR": 1100, "Revenue": 290, "GM": 0.61, "EBITDA": -120, "FTEs": 40.0}
  },
  "companyUpdate": "## Company Update\nStrong quarter.\nHiring on plan.",
  "exitCasesTable": {
    "Base": {"EV/Exit": "€150m", "MOIC": "3.0x", "IRR": "28%", "Key factors": "Organic growth"},
    "Bull": {"multiple": "12x", "moic": "5.2x", "irr": "41%", "key factors": ""},
    "Bear": {"EV/Exit": "", "MOIC": "0.8x"}
  }
}`
