// ABOUTME: Facade over scoring, rules, quotes, interpreter and closer guidance
// ABOUTME: Holds injected configuration and a clock; every call is a pure transform over a lead snapshot
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/leadcoach/catalog"
	"github.com/harperreed/leadcoach/closer"
	"github.com/harperreed/leadcoach/interpreter"
	"github.com/harperreed/leadcoach/models"
	"github.com/harperreed/leadcoach/quotes"
	"github.com/harperreed/leadcoach/rules"
	"github.com/harperreed/leadcoach/scoring"
	"github.com/harperreed/leadcoach/templates"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchLimit bounds SuggestBatch when the caller passes a non-positive limit.
const DefaultBatchLimit = 8

// Config is the data the engine runs on. Zero values fall back to the built-in tables.
type Config struct {
	Catalog    *catalog.Catalog
	ScoreTable *scoring.Table
	Templates  []templates.Template
	Guidance   *closer.Generator

	// Quote overrides. Zero leaves the generator default in place.
	Discounts       map[models.PsychType]decimal.Decimal
	BudgetTolerance decimal.Decimal
	QuoteValidity   time.Duration
}

// DefaultConfig returns the built-in catalog, score table, templates and scripts.
func DefaultConfig() Config {
	t := scoring.DefaultTable()
	return Config{
		Catalog:    catalog.Default(),
		ScoreTable: &t,
		Templates:  templates.DefaultTable(),
		Guidance:   closer.Default(),
	}
}

type Option func(*Engine)

// WithClock replaces time.Now for every time-dependent rule.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

type Engine struct {
	catalog     *catalog.Catalog
	scoreTable  scoring.Table
	rules       *rules.Evaluator
	quotes      *quotes.Generator
	interpreter *interpreter.Interpreter
	guidance    *closer.Generator
	now         func() time.Time
}

// New validates cfg and wires the engine components.
func New(cfg Config, opts ...Option) (*Engine, error) {
	def := DefaultConfig()
	if cfg.Catalog == nil {
		cfg.Catalog = def.Catalog
	}
	if cfg.ScoreTable == nil {
		cfg.ScoreTable = def.ScoreTable
	}
	if cfg.Templates == nil {
		cfg.Templates = def.Templates
	}
	if cfg.Guidance == nil {
		cfg.Guidance = def.Guidance
	}

	if err := cfg.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if cfg.BudgetTolerance.IsNegative() {
		return nil, fmt.Errorf("budget tolerance must not be negative, got %s", cfg.BudgetTolerance)
	}
	if cfg.QuoteValidity < 0 {
		return nil, fmt.Errorf("quote validity must not be negative, got %s", cfg.QuoteValidity)
	}

	qg := quotes.Default(cfg.Catalog)
	for psych, d := range cfg.Discounts {
		qg.Discounts[psych] = d
	}
	if cfg.BudgetTolerance.IsPositive() {
		qg.BudgetTolerance = cfg.BudgetTolerance
	}
	if cfg.QuoteValidity > 0 {
		qg.Validity = cfg.QuoteValidity
	}

	guidance := *cfg.Guidance
	guidance.Currency = cfg.Catalog.Currency

	e := &Engine{
		catalog:     cfg.Catalog,
		scoreTable:  *cfg.ScoreTable,
		rules:       rules.NewEvaluator(templates.NewMatcher(cfg.Templates), &guidance),
		quotes:      qg,
		interpreter: interpreter.New(cfg.Catalog),
		guidance:    &guidance,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Catalog returns the catalog the engine prices quotes from.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Now reports the engine clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Score computes the 0..100 lead score.
func (e *Engine) Score(lead *models.Lead) int {
	return scoring.Score(lead, e.scoreTable)
}

// Suggest returns the next-best-actions for lead, most urgent first.
func (e *Engine) Suggest(lead *models.Lead) []models.Suggestion {
	return e.rules.Evaluate(lead, e.now())
}

// GenerateQuote prices a quote and its alternatives for lead.
func (e *Engine) GenerateQuote(lead *models.Lead) quotes.Result {
	return e.quotes.Generate(lead, e.now())
}

// EditQuote applies a free-text edit request and returns the edited copy.
func (e *Engine) EditQuote(q *models.Quote, text string) *models.Quote {
	return e.interpreter.Edit(q, text, e.now())
}

// AdvanceQuote returns a copy of q moved to status next.
func (e *Engine) AdvanceQuote(q *models.Quote, next string) (*models.Quote, error) {
	return quotes.Advance(q, next, e.now())
}

func (e *Engine) Guidance(lead *models.Lead) models.CloserGuidance {
	return e.guidance.Guidance(lead)
}

func (e *Engine) CanAIClose(lead *models.Lead) models.AutoCloseDecision {
	return e.guidance.CanAIClose(lead)
}

// SuggestBatch evaluates every lead with at most limit running at once.
// Results are in input order. A cancelled context stops leads not yet started.
func (e *Engine) SuggestBatch(ctx context.Context, leads []*models.Lead, limit int) ([][]models.Suggestion, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	now := e.now()
	out := make([][]models.Suggestion, len(leads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, lead := range leads {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.rules.Evaluate(lead, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to evaluate leads: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to evaluate leads: %w", err)
	}
	return out, nil
}
