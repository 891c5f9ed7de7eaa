// Package expert implements a rule-based inference engine: a working memory
// of facts, a knowledge base of IF/THEN rules, forward and backward chaining,
// and an explanation facility that reconstructs how a fact was derived.
package expert

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/memstore"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/trace"
)

// Options configures an ExpertSystem.
type Options struct {
	// Logger receives Debug-level reasoning events (rule firings, proof
	// steps, cycle detections). Nil discards them.
	Logger *logrus.Logger

	// MaxDepth caps backward-chaining recursion depth. Zero means bounded
	// only by the acyclic-ancestor guard; set a cap when rule sets come from
	// untrusted input.
	MaxDepth int
}

// ExpertSystem owns the knowledge base, working memory and inference trace.
// All public operations hold one coarse lock, so a single instance may be
// shared across goroutines.
type ExpertSystem struct {
	mu       sync.Mutex
	rules    *memstore.KnowledgeBase
	facts    *memstore.WorkingMemory
	log      *logrus.Logger
	maxDepth int

	entropy *ulid.MonotonicEntropy
	session string
	forward []trace.ForwardStep
	back    []trace.Step
}

// New creates an empty expert system.
func New(opts Options) *ExpertSystem {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &ExpertSystem{
		rules:    memstore.NewKnowledgeBase(),
		facts:    memstore.NewWorkingMemory(),
		log:      logger,
		maxDepth: opts.MaxDepth,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
}

// AddRule inserts or overwrites the knowledge-base entry keyed by the rule
// name. Rules that did not pass through kb.NewRule are re-validated here.
func (es *ExpertSystem) AddRule(r kb.Rule) error {
	if err := r.Valid(); err != nil {
		return err
	}
	es.mu.Lock()
	defer es.mu.Unlock()
	es.rules.Put(r)
	return nil
}

// AddFact inserts or overwrites the working-memory entry keyed by the fact
// statement. Last write wins; no confidence merging.
func (es *ExpertSystem) AddFact(f kb.Fact) error {
	if err := f.Valid(); err != nil {
		return err
	}
	es.mu.Lock()
	defer es.mu.Unlock()
	es.facts.Put(f)
	return nil
}

// ClearFacts empties working memory.
func (es *ExpertSystem) ClearFacts() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.facts.Clear()
}

// ClearRules empties the knowledge base.
func (es *ExpertSystem) ClearRules() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.rules.Clear()
}

// ClearTrace discards the retained trace of the last inference run.
func (es *ExpertSystem) ClearTrace() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.resetTrace()
}

// FactExists reports whether a statement is in working memory.
func (es *ExpertSystem) FactExists(statement string) bool {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.facts.Exists(statement)
}

// RuleExists reports whether a rule name is in the knowledge base.
func (es *ExpertSystem) RuleExists(name string) bool {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.rules.Exists(name)
}

// Fact returns the working-memory entry for a statement.
func (es *ExpertSystem) Fact(statement string) (kb.Fact, bool) {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.facts.Get(statement)
}

// Rule returns the knowledge-base entry for a name.
func (es *ExpertSystem) Rule(name string) (kb.Rule, bool) {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.rules.Get(name)
}

// Facts returns a snapshot of working memory keyed by statement.
func (es *ExpertSystem) Facts() map[string]kb.Fact {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.facts.Snapshot()
}

// Rules returns a snapshot of the knowledge base keyed by rule name.
func (es *ExpertSystem) Rules() map[string]kb.Rule {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.rules.Snapshot()
}

// OrderedRules returns the rules in knowledge-base insertion order.
func (es *ExpertSystem) OrderedRules() []kb.Rule {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.rules.All()
}

// Session returns the ULID of the most recent inference run, or "" if none
// has run since the last clear.
func (es *ExpertSystem) Session() string {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.session
}

// ForwardTrace returns a copy of the trace retained from the last
// forward-chaining run.
func (es *ExpertSystem) ForwardTrace() []trace.ForwardStep {
	es.mu.Lock()
	defer es.mu.Unlock()
	return append([]trace.ForwardStep(nil), es.forward...)
}

// BackwardTrace returns a copy of the trace retained from the last
// backward-chaining run.
func (es *ExpertSystem) BackwardTrace() []trace.Step {
	es.mu.Lock()
	defer es.mu.Unlock()
	return append([]trace.Step(nil), es.back...)
}

func (es *ExpertSystem) resetTrace() {
	es.session = ""
	es.forward = nil
	es.back = nil
}

// newSession stamps a fresh ULID for an inference run.
func (es *ExpertSystem) newSession() {
	es.session = ulid.MustNew(ulid.Now(), es.entropy).String()
}

// minConfidence returns the minimum confidence across the named antecedent
// facts. All antecedents must already be in working memory.
func (es *ExpertSystem) minConfidence(antecedents []string) float64 {
	min := 1.0
	for _, ant := range antecedents {
		if f, ok := es.facts.Get(ant); ok && f.Confidence < min {
			min = f.Confidence
		}
	}
	return min
}

// allKnown reports whether every statement is in working memory.
func (es *ExpertSystem) allKnown(statements []string) bool {
	for _, s := range statements {
		if !es.facts.Exists(s) {
			return false
		}
	}
	return true
}

// renderFacts returns the String form of the named facts, in order.
func (es *ExpertSystem) renderFacts(statements []string) []string {
	out := make([]string, 0, len(statements))
	for _, s := range statements {
		if f, ok := es.facts.Get(s); ok {
			out = append(out, f.String())
		} else {
			out = append(out, fmt.Sprintf("%s [unknown]", s))
		}
	}
	return out
}
