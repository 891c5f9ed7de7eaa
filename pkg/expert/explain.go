package expert

import (
	"encoding/json"
	"fmt"
)

// ExplanationEntry is one link in a fact's derivation chain. Terminal entries
// (missing fact, direct input) carry only Explanation; derived entries carry
// the rule that produced the fact, via DerivedBy (forward chaining) or
// ProvenBy (backward chaining), plus its antecedents.
type ExplanationEntry struct {
	Explanation     string
	Fact            string
	DerivedBy       string
	ProvenBy        string
	RuleDescription string
	Confidence      float64
	Antecedents     []string
}

// MarshalJSON keys the antecedent list "antecedents" for forward-chained
// entries and "antecedents_proven" for backward-chained ones, matching what
// presentation layers render.
func (e ExplanationEntry) MarshalJSON() ([]byte, error) {
	type derived struct {
		Fact              string   `json:"fact"`
		DerivedBy         string   `json:"derived_by,omitempty"`
		ProvenBy          string   `json:"proven_by,omitempty"`
		RuleDescription   string   `json:"rule_description"`
		Confidence        float64  `json:"confidence"`
		Antecedents       []string `json:"antecedents,omitempty"`
		AntecedentsProven []string `json:"antecedents_proven,omitempty"`
	}
	if e.Explanation != "" {
		return json.Marshal(struct {
			Explanation string `json:"explanation"`
		}{e.Explanation})
	}
	d := derived{
		Fact:            e.Fact,
		DerivedBy:       e.DerivedBy,
		ProvenBy:        e.ProvenBy,
		RuleDescription: e.RuleDescription,
		Confidence:      e.Confidence,
	}
	if e.ProvenBy != "" {
		d.AntecedentsProven = e.Antecedents
	} else {
		d.Antecedents = e.Antecedents
	}
	return json.Marshal(d)
}

// ExplainFact reconstructs the derivation chain of a fact by walking its
// recorded provenance: the entry for the fact itself, followed by the
// explanation of each antecedent in order. A missing fact or a directly
// provided one yields a single terminal entry. A fact whose source names a
// rule no longer in the knowledge base contributes nothing.
//
// The walk has no cycle guard. Provenance written by the chaining engines is
// acyclic by construction (an existing fact is never re-derived), so this
// only matters for hand-crafted sources.
func (es *ExpertSystem) ExplainFact(statement string) []ExplanationEntry {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.explain(statement)
}

func (es *ExpertSystem) explain(statement string) []ExplanationEntry {
	fact, ok := es.facts.Get(statement)
	if !ok {
		return []ExplanationEntry{{
			Explanation: fmt.Sprintf("Fact '%s' does not exist in working memory.", statement),
		}}
	}
	if fact.Direct() {
		return []ExplanationEntry{{
			Explanation: fmt.Sprintf("Fact '%s' was directly provided as input.", statement),
		}}
	}

	ruleName, backward, ok := fact.DerivedBy()
	if !ok {
		// Free-form provenance with no rule marker; nothing to walk.
		return nil
	}
	rule, ok := es.rules.Get(ruleName)
	if !ok {
		// Stale source: the deriving rule has since been removed.
		return nil
	}

	entry := ExplanationEntry{
		Fact:            statement,
		RuleDescription: rule.Description,
		Confidence:      fact.Confidence,
		Antecedents:     append([]string(nil), rule.Antecedents...),
	}
	if backward {
		entry.ProvenBy = ruleName
	} else {
		entry.DerivedBy = ruleName
	}

	out := []ExplanationEntry{entry}
	for _, antecedent := range rule.Antecedents {
		out = append(out, es.explain(antecedent)...)
	}
	return out
}
