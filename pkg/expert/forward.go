package expert

import (
	"github.com/sirupsen/logrus"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/trace"
)

// ForwardChain runs fixpoint inference: each round, every rule whose
// antecedents are all known facts and whose consequents are not yet all known
// fires once, asserting its missing consequents with confidence equal to the
// minimum of its antecedent confidences. Candidacy is decided against the
// fact set at the start of the round, so a fact asserted mid-round enables
// rules only in the next round. The loop stops on the first round in which no
// rule fires.
//
// The retained trace is reset and repopulated; working memory only grows.
// Re-running immediately afterward yields an empty trace.
func (es *ExpertSystem) ForwardChain() []trace.ForwardStep {
	es.mu.Lock()
	defer es.mu.Unlock()

	es.resetTrace()
	es.newSession()

	iteration := 0
	for {
		iteration++

		// Round-level snapshot decision: collect every candidate before
		// applying any rule of this round.
		var candidates []kb.Rule
		for _, rule := range es.rules.All() {
			if es.allKnown(rule.Consequents) {
				continue // already applied
			}
			if !es.allKnown(rule.Antecedents) {
				continue
			}
			candidates = append(candidates, rule)
		}
		if len(candidates) == 0 {
			break
		}

		fired := false
		for _, rule := range candidates {
			confidence := es.minConfidence(rule.Antecedents)

			var newFacts []string
			for _, consequent := range rule.Consequents {
				if es.facts.Exists(consequent) {
					continue
				}
				fact := kb.Fact{
					Statement:  consequent,
					Confidence: confidence,
					Source:     kb.SourceRulePrefix + rule.Name,
				}
				es.facts.Put(fact)
				newFacts = append(newFacts, fact.String())
				fired = true

				es.log.WithFields(logrus.Fields{
					"session":    es.session,
					"iteration":  iteration,
					"rule":       rule.Name,
					"fact":       consequent,
					"confidence": confidence,
				}).Debug("forward chaining asserted fact")
			}

			if len(newFacts) > 0 {
				es.forward = append(es.forward, trace.ForwardStep{
					Iteration:       iteration,
					RuleApplied:     rule.Name,
					RuleDescription: rule.Description,
					Antecedents:     es.renderFacts(rule.Antecedents),
					NewFacts:        newFacts,
				})
			}
		}
		if !fired {
			break
		}
	}

	es.log.WithFields(logrus.Fields{
		"session": es.session,
		"rounds":  iteration,
		"fired":   len(es.forward),
	}).Debug("forward chaining converged")

	return append([]trace.ForwardStep(nil), es.forward...)
}
