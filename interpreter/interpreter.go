// ABOUTME: Applies free-text edit requests to a quote via keyword matching
// ABOUTME: Classifies text into typed instructions consumed by one mutation function
package interpreter

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/leadcoach/catalog"
	"github.com/harperreed/leadcoach/models"
	"github.com/harperreed/leadcoach/quotes"
	"github.com/shopspring/decimal"
)

// FlatDiscountPercent is added for every discount request. Percentages written in the
// request text are ignored; see DESIGN.md for the open product question.
const FlatDiscountPercent = 10

type Op int

const (
	OpAddDiscount Op = iota
	OpAddService
	OpRemoveService
)

func (o Op) String() string {
	switch o {
	case OpAddDiscount:
		return "add_discount"
	case OpAddService:
		return "add_service"
	case OpRemoveService:
		return "remove_service"
	}
	return "unknown"
}

// Instruction is one typed edit. Percent is set for OpAddDiscount, ServiceID otherwise.
type Instruction struct {
	Op        Op
	Percent   int
	ServiceID string
}

func AddDiscount(percent int) Instruction { return Instruction{Op: OpAddDiscount, Percent: percent} }
func AddService(id string) Instruction    { return Instruction{Op: OpAddService, ServiceID: id} }
func RemoveService(id string) Instruction { return Instruction{Op: OpRemoveService, ServiceID: id} }

// Vocabulary lists the trigger keywords for each intent.
type Vocabulary struct {
	Discount []string
	Add      []string
	Remove   []string
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Discount: []string{"discount", "lower"},
		Add:      []string{"add", "include"},
		Remove:   []string{"remove", "eliminate"},
	}
}

// Interpreter edits quotes using a catalog and vocabulary.
type Interpreter struct {
	Catalog    *catalog.Catalog
	Vocabulary Vocabulary
}

func New(c *catalog.Catalog) *Interpreter {
	return &Interpreter{Catalog: c, Vocabulary: DefaultVocabulary()}
}

// Classify turns text into instructions. The three intents are independent and
// are emitted in discount, add, remove order. Each intent is matched against the
// quote as the earlier intents left it, so "add X and remove X" cancels out.
func (in *Interpreter) Classify(q *models.Quote, text string) []Instruction {
	out, _ := in.plan(q, text, q.UpdatedAt)
	return out
}

// plan walks the intents in order, applying each match before classifying the next.
func (in *Interpreter) plan(q *models.Quote, text string, now time.Time) ([]Instruction, *models.Quote) {
	lower := strings.ToLower(text)
	var out []Instruction
	working := q

	for _, match := range []func(*models.Quote, string) (Instruction, bool){
		in.matchDiscount,
		in.matchAdd,
		in.matchRemove,
	} {
		if ins, ok := match(working, lower); ok {
			out = append(out, ins)
			working = in.Apply(working, []Instruction{ins}, now)
		}
	}
	return out, working
}

func (in *Interpreter) matchDiscount(_ *models.Quote, lower string) (Instruction, bool) {
	if !containsAny(lower, in.Vocabulary.Discount) {
		return Instruction{}, false
	}
	return AddDiscount(FlatDiscountPercent), true
}

func (in *Interpreter) matchAdd(q *models.Quote, lower string) (Instruction, bool) {
	if !containsAny(lower, in.Vocabulary.Add) {
		return Instruction{}, false
	}
	for _, s := range in.Catalog.Services {
		if q.HasService(s.ID) {
			continue
		}
		if mentions(lower, s.Name) || mentions(lower, s.Category) {
			return AddService(s.ID), true
		}
	}
	return Instruction{}, false
}

func (in *Interpreter) matchRemove(q *models.Quote, lower string) (Instruction, bool) {
	if !containsAny(lower, in.Vocabulary.Remove) {
		return Instruction{}, false
	}
	for _, item := range q.Items {
		if mentions(lower, item.Name) {
			return RemoveService(item.ServiceID), true
		}
	}
	return Instruction{}, false
}

// Apply is the canonical quote mutation. It returns a new quote; q is not modified.
// UpdatedAt is always refreshed, even when no instruction applies.
func (in *Interpreter) Apply(q *models.Quote, instructions []Instruction, now time.Time) *models.Quote {
	out := q.Clone()

	for _, ins := range instructions {
		switch ins.Op {
		case OpAddDiscount:
			pct := decimal.NewFromInt(int64(ins.Percent)).Div(decimal.NewFromInt(100))
			out.Discount = out.Discount.Add(out.Subtotal.Mul(pct))
			out.Notes = append(out.Notes, fmt.Sprintf("Additional %d%% discount applied", ins.Percent))
		case OpAddService:
			if out.HasService(ins.ServiceID) {
				continue
			}
			s, ok := in.Catalog.Lookup(ins.ServiceID)
			if !ok {
				continue
			}
			out.Items = append(out.Items, quotes.ItemFor(s))
			out.Notes = append(out.Notes, "Added "+s.Name)
		case OpRemoveService:
			for i, item := range out.Items {
				if item.ServiceID == ins.ServiceID {
					out.Items = append(out.Items[:i:i], out.Items[i+1:]...)
					out.Notes = append(out.Notes, "Removed "+item.Name)
					break
				}
			}
		}
		out.Recalculate()
	}

	out.Recalculate()
	out.UpdatedAt = now
	return out
}

// Edit classifies text and applies the result.
func (in *Interpreter) Edit(q *models.Quote, text string, now time.Time) *models.Quote {
	_, out := in.plan(q, text, now)
	if out == q {
		// nothing matched; still a new copy with UpdatedAt refreshed
		out = in.Apply(q, nil, now)
	}
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func mentions(text, phrase string) bool {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	return phrase != "" && strings.Contains(text, phrase)
}
