package onepager

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"unicode"

	"golang.org/x/sync/semaphore"

	"github.com/onepager/onepager/internal/pptx"
)

// SectionObserver receives the outcome of every section pass.
type SectionObserver interface {
	ObserveSection(section, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveSection(string, string) {}

// Generator applies a payload to the first slide of a template.
type Generator struct {
	logger   *slog.Logger
	observer SectionObserver
	strategy RAGStrategy
	slots    *semaphore.Weighted
}

// Option configures a Generator.
type Option func(*Generator)

// WithObserver reports section outcomes to o.
func WithObserver(o SectionObserver) Option {
	return func(g *Generator) {
		if o != nil {
			g.observer = o
		}
	}
}

// WithRAGStrategy selects how RAG indicators are located.
func WithRAGStrategy(s RAGStrategy) Option {
	return func(g *Generator) {
		if s != "" {
			g.strategy = s
		}
	}
}

// WithConcurrency bounds the number of generations running at once.
func WithConcurrency(n int64) Option {
	return func(g *Generator) {
		if n > 0 {
			g.slots = semaphore.NewWeighted(n)
		}
	}
}

// NewGenerator constructs a Generator.
func NewGenerator(logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		logger:   logger,
		observer: nopObserver{},
		strategy: RAGPositional,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate decodes the template, applies every section of req to its first
// slide and returns the re-encoded deck. A failing section is logged and
// skipped; the other sections still apply.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.TemplateFile) == "" {
		return Result{}, ErrNoTemplate
	}
	if g.slots != nil {
		if err := g.slots.Acquire(ctx, 1); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrBusy, err)
		}
		defer g.slots.Release(1)
	}

	data, err := DecodeTemplate(req.TemplateFile)
	if err != nil {
		return Result{}, err
	}
	deck, err := pptx.Open(data)
	if err != nil {
		return Result{}, fmt.Errorf("onepager: open template: %w", err)
	}
	if deck.SlideCount() == 0 {
		return Result{}, ErrNoSlides
	}
	slide, err := deck.Slide(0)
	if err != nil {
		return Result{}, fmt.Errorf("onepager: read first slide: %w", err)
	}

	shapes := slide.Shapes()
	var updates []string
	record := func(update string) {
		if update != "" {
			updates = append(updates, update)
		}
	}

	record(g.apply(ctx, SectionInvestmentSummary, func() (string, error) {
		fields, err := req.InvestmentSummary.Fields()
		if err != nil {
			return "", err
		}
		if UpdateInvestmentSummary(shapes, fields) {
			return "Updated investment summary table", nil
		}
		return "", nil
	}))
	record(g.apply(ctx, SectionRAGStatus, func() (string, error) {
		statuses, err := req.RAGStatus.Fields()
		if err != nil {
			return "", err
		}
		n, err := UpdateRAGStatus(shapes, statuses, g.strategy)
		if err != nil {
			return "", err
		}
		if n > 0 {
			return fmt.Sprintf("Updated %d RAG indicators", n), nil
		}
		return "", nil
	}))
	record(g.apply(ctx, SectionQuarterlyFinancials, func() (string, error) {
		periods, err := req.QuarterlyFinancials.Periods()
		if err != nil {
			return "", err
		}
		if UpdateQuarterlyFinancials(shapes, periods) {
			return "Updated quarterly financials table", nil
		}
		return "", nil
	}))
	record(g.apply(ctx, SectionCompanyUpdate, func() (string, error) {
		ok, err := UpdateCompanyUpdate(shapes, req.CompanyUpdate)
		if err != nil || !ok {
			return "", err
		}
		return "Updated company update section", nil
	}))
	record(g.apply(ctx, SectionExitCases, func() (string, error) {
		scenarios, err := req.ExitCasesTable.Scenarios()
		if err != nil {
			return "", err
		}
		if UpdateExitCases(shapes, scenarios) {
			return "Updated exit cases table", nil
		}
		return "", nil
	}))

	out, err := deck.Save()
	if err != nil {
		return Result{}, fmt.Errorf("onepager: save deck: %w", err)
	}

	res := Result{File: out, Updates: updates, Message: "No updates made"}
	if len(updates) > 0 {
		res.Message = "Successfully updated: " + strings.Join(updates, ", ")
	}
	g.logger.InfoContext(ctx, "one-pager generated",
		slog.Int("updates", len(updates)),
		slog.Int("input_bytes", len(data)),
		slog.Int("output_bytes", len(out)),
	)
	return res, nil
}

// apply runs one section pass. Errors and panics are logged and reported as
// a failed section instead of aborting the generation.
func (g *Generator) apply(ctx context.Context, section string, fn func() (string, error)) (update string) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.ErrorContext(ctx, "section update panicked",
				slog.String("section", section),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			g.observer.ObserveSection(section, OutcomeFailed)
			update = ""
		}
	}()

	var err error
	update, err = fn()
	switch {
	case err != nil:
		g.logger.ErrorContext(ctx, "section update failed", slog.String("section", section), slog.Any("error", err))
		g.observer.ObserveSection(section, OutcomeFailed)
		return ""
	case update == "":
		g.observer.ObserveSection(section, OutcomeSkipped)
	default:
		g.logger.DebugContext(ctx, "section updated", slog.String("section", section), slog.String("update", update))
		g.observer.ObserveSection(section, OutcomeUpdated)
	}
	return update
}

// DecodeTemplate decodes a base64 template. Surrounding whitespace, embedded
// line breaks, a data URL prefix and missing padding are tolerated.
func DecodeTemplate(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.IndexByte(s, ','); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	if data, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
		return data, nil
	}
	return nil, fmt.Errorf("onepager: decode template: %w", err)
}
