// Package memstore holds the in-memory stores owned by the expert system:
// working memory (facts keyed by statement) and the knowledge base (rules
// keyed by name). Reads hand out copies so callers cannot mutate engine state
// through returned values.
package memstore

import (
	"sort"
	"sync"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
)

// WorkingMemory is the fact store, keyed by statement. Last write wins; there
// is no confidence merging.
type WorkingMemory struct {
	mu    sync.RWMutex
	facts map[string]kb.Fact
}

// NewWorkingMemory creates an empty working memory.
func NewWorkingMemory() *WorkingMemory {
	return &WorkingMemory{facts: make(map[string]kb.Fact)}
}

// Put inserts or replaces the fact keyed by its statement.
func (m *WorkingMemory) Put(f kb.Fact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facts[f.Statement] = f
}

// Get returns the fact for a statement.
func (m *WorkingMemory) Get(statement string) (kb.Fact, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.facts[statement]
	return f, ok
}

// Exists reports whether a statement is a known fact.
func (m *WorkingMemory) Exists(statement string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.facts[statement]
	return ok
}

// Len returns the number of facts.
func (m *WorkingMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.facts)
}

// Clear removes all facts.
func (m *WorkingMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facts = make(map[string]kb.Fact)
}

// Snapshot returns a copy of the fact map. Mutating the copy does not affect
// the store.
func (m *WorkingMemory) Snapshot() map[string]kb.Fact {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]kb.Fact, len(m.facts))
	for statement, f := range m.facts {
		out[statement] = f
	}
	return out
}

// Statements returns all fact statements in sorted order, for deterministic
// iteration.
func (m *WorkingMemory) Statements() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.facts))
	for statement := range m.facts {
		out = append(out, statement)
	}
	sort.Strings(out)
	return out
}

// KnowledgeBase is the rule store, keyed by rule name. Iteration order is
// insertion order: backward chaining tries relevant rules first-in first-out
// and stops at the first success, so order is behaviorally significant.
type KnowledgeBase struct {
	mu    sync.RWMutex
	order []string
	rules map[string]kb.Rule
}

// NewKnowledgeBase creates an empty knowledge base.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{rules: make(map[string]kb.Rule)}
}

// Put inserts or replaces the rule keyed by its name. Replacing an existing
// rule keeps its original position in iteration order.
func (b *KnowledgeBase) Put(r kb.Rule) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.rules[r.Name]; !ok {
		b.order = append(b.order, r.Name)
	}
	b.rules[r.Name] = r
}

// Get returns a copy of the rule with the given name.
func (b *KnowledgeBase) Get(name string) (kb.Rule, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.rules[name]
	return r.Clone(), ok
}

// Exists reports whether a rule with the given name is present.
func (b *KnowledgeBase) Exists(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.rules[name]
	return ok
}

// Len returns the number of rules.
func (b *KnowledgeBase) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rules)
}

// Clear removes all rules.
func (b *KnowledgeBase) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.order = nil
	b.rules = make(map[string]kb.Rule)
}

// Snapshot returns a copy of the rule map. Rules are cloned, so mutating a
// returned rule's antecedent or consequent lists does not affect the store.
func (b *KnowledgeBase) Snapshot() map[string]kb.Rule {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]kb.Rule, len(b.rules))
	for name, r := range b.rules {
		out[name] = r.Clone()
	}
	return out
}

// All returns cloned rules in insertion order.
func (b *KnowledgeBase) All() []kb.Rule {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]kb.Rule, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.rules[name].Clone())
	}
	return out
}
