package onepager

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/onepager/onepager/internal/pptx"
)

// Request is the payload accepted by the generator. Every section is
// optional; an empty section is not applied. Sections stay undecoded until
// their pass runs so a malformed one fails alone.
type Request struct {
	TemplateFile        string  `json:"templateFile" validate:"required"`
	RAGStatus           Section `json:"ragStatus"`
	QuarterlyFinancials Section `json:"quarterlyFinancials"`
	CompanyUpdate       Value   `json:"companyUpdate"`
	InvestmentSummary   Section `json:"investmentSummary"`
	ExitCasesTable      Section `json:"exitCasesTable"`
}

// Section is a payload section kept as raw JSON.
type Section struct {
	raw json.RawMessage
}

// RawSection wraps a JSON document as a section.
func RawSection(doc string) Section {
	return Section{raw: json.RawMessage(doc)}
}

func (s *Section) UnmarshalJSON(b []byte) error {
	s.raw = append(s.raw[:0], b...)
	return nil
}

func (s Section) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// object returns the section when it is a JSON object. Absent, null and blank
// sections return nil; any other shape is an error.
func (s Section) object() (json.RawMessage, error) {
	raw := bytes.TrimSpace(s.raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '{' {
		return raw, nil
	}
	var v Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if v.Empty() {
		return nil, nil
	}
	return nil, fmt.Errorf("%w, got %s", ErrSectionShape, v)
}

// Fields decodes the section as a flat object of values.
func (s Section) Fields() (map[string]Value, error) {
	raw, err := s.object()
	if err != nil || raw == nil {
		return nil, err
	}
	var fields map[string]Value
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Periods decodes the section as quarterly financials.
func (s Section) Periods() (Periods, error) {
	raw, err := s.object()
	if err != nil || raw == nil {
		return nil, err
	}
	var ps Periods
	if err := json.Unmarshal(raw, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// Scenarios decodes the section as the exit cases table.
func (s Section) Scenarios() (Scenarios, error) {
	raw, err := s.object()
	if err != nil || raw == nil {
		return nil, err
	}
	var ss Scenarios
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, err
	}
	return ss, nil
}

// Result is the outcome of a generation.
type Result struct {
	File    []byte
	Updates []string
	Message string
}

// Period holds the metrics reported for one period column, e.g. "Dec-24".
type Period struct {
	Label   string
	Metrics map[string]Value
}

// Periods keeps the payload order of quarterlyFinancials; header columns are
// matched against period labels in that order.
type Periods []Period

// UnmarshalJSON decodes an object of period label to metrics, keeping key
// order. A repeated label keeps its first position and its last metrics.
// Every period must map to an object of metrics.
func (ps *Periods) UnmarshalJSON(b []byte) error {
	var out Periods
	index := make(map[string]int)
	err := decodeOrdered(b, func(key string, raw json.RawMessage) error {
		if !isObject(raw) {
			return fmt.Errorf("period %q: %w", key, ErrSectionShape)
		}
		metrics := map[string]Value{}
		if err := json.Unmarshal(raw, &metrics); err != nil {
			return fmt.Errorf("period %q: %w", key, err)
		}
		if i, ok := index[key]; ok {
			out[i].Metrics = metrics
			return nil
		}
		index[key] = len(out)
		out = append(out, Period{Label: key, Metrics: metrics})
		return nil
	})
	if err != nil {
		return err
	}
	*ps = out
	return nil
}

// Scenario holds the exit case figures for one scenario, e.g. "Base case".
type Scenario struct {
	Name   string
	Fields map[string]Value
}

// Field returns the first of keys present in the scenario. Keys are compared
// case-insensitively; an exact match is preferred.
func (s Scenario) Field(keys ...string) Value {
	names := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, key := range keys {
		if v, ok := s.Fields[key]; ok {
			return v
		}
		want := lower(key)
		for _, k := range names {
			if lower(k) == want {
				return s.Fields[k]
			}
		}
	}
	return Value{}
}

// Scenarios keeps the payload order of exitCasesTable.
type Scenarios []Scenario

// UnmarshalJSON decodes an object of scenario name to fields, keeping key order.
func (ss *Scenarios) UnmarshalJSON(b []byte) error {
	var out Scenarios
	index := make(map[string]int)
	err := decodeOrdered(b, func(key string, raw json.RawMessage) error {
		fields := map[string]Value{}
		if isObject(raw) {
			if err := json.Unmarshal(raw, &fields); err != nil {
				return fmt.Errorf("scenario %q: %w", key, err)
			}
		}
		if i, ok := index[key]; ok {
			out[i].Fields = fields
			return nil
		}
		index[key] = len(out)
		out = append(out, Scenario{Name: key, Fields: fields})
		return nil
	})
	if err != nil {
		return err
	}
	*ss = out
	return nil
}

// decodeOrdered walks the members of a JSON object in document order.
// null decodes to no members.
func decodeOrdered(b []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// RAG is a traffic-light status.
type RAG string

const (
	RAGGreen RAG = "Green"
	RAGAmber RAG = "Amber"
	RAGRed   RAG = "Red"
)

// Fill colours for RAG indicators.
var (
	ColorGreen = pptx.RGB{R: 77, G: 191, B: 175}
	ColorAmber = pptx.RGB{R: 255, G: 192, B: 0}
	ColorRed   = pptx.RGB{R: 192, G: 0, B: 0}
	ColorGray  = pptx.RGB{R: 128, G: 128, B: 128}
)

// Color maps a status to its fill. Anything but the exact status names is gray.
func (r RAG) Color() pptx.RGB {
	switch r {
	case RAGGreen:
		return ColorGreen
	case RAGAmber:
		return ColorAmber
	case RAGRed:
		return ColorRed
	}
	return ColorGray
}

// RAGStrategy selects how indicator shapes are located on the slide.
type RAGStrategy string

const (
	// RAGPositional colours the first six small auto shapes in reading order.
	RAGPositional RAGStrategy = "positional"
	// RAGLabel colours the auto shape just below each category label.
	RAGLabel RAGStrategy = "label"
)

// Category is a RAG status category in slide order.
type Category struct {
	Key   string
	Label string
}

// Categories lists the RAG categories in the order indicators appear.
var Categories = []Category{
	{Key: "financialsStatus", Label: "Financials"},
	{Key: "cashStatus", Label: "Cash"},
	{Key: "marketStatus", Label: "Market"},
	{Key: "teamStatus", Label: "Team"},
	{Key: "governanceStatus", Label: "Governance"},
	{Key: "overallStatus", Label: "Overall"},
}

// Section names used in logs and metrics.
const (
	SectionInvestmentSummary   = "investment_summary"
	SectionRAGStatus           = "rag_status"
	SectionQuarterlyFinancials = "quarterly_financials"
	SectionCompanyUpdate       = "company_update"
	SectionExitCases           = "exit_cases"
)

// Section outcomes reported to the SectionObserver.
const (
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

var (
	ErrNoTemplate = errors.New("onepager: no template file provided")
	ErrNoSlides   = errors.New("onepager: template has no slides")
	ErrBusy       = errors.New("onepager: generator busy")

	ErrSectionShape = errors.New("onepager: expected a JSON object")
)
