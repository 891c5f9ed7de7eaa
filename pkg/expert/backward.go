package expert

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/trace"
)

// BackwardChain attempts to prove a goal by recursive proof search. Relevant
// rules (those with the goal among their consequents) are tried in
// knowledge-base insertion order and the first rule whose antecedents can all
// be satisfied wins. Every antecedent proven along the way is asserted into
// working memory and stays there even if an ancestor rule ultimately fails.
//
// Circular rule chains are cut by a per-branch ancestor set: each recursive
// branch threads its own copy, so sibling antecedents do not see each other's
// visited goals beyond the shared ancestor chain.
func (es *ExpertSystem) BackwardChain(goal string) (bool, []trace.Step) {
	es.mu.Lock()
	defer es.mu.Unlock()

	es.resetTrace()
	es.newSession()

	if es.facts.Exists(goal) {
		es.back = append(es.back, trace.Step{
			Kind:   trace.KindGoalVerification,
			Result: fmt.Sprintf("Goal '%s' is already a known fact", goal),
			Status: trace.StatusProven,
		})
		return true, append([]trace.Step(nil), es.back...)
	}

	proven := es.prove(goal, map[string]struct{}{}, 1)
	return proven, append([]trace.Step(nil), es.back...)
}

func (es *ExpertSystem) prove(goal string, ancestors map[string]struct{}, depth int) bool {
	if _, seen := ancestors[goal]; seen {
		es.back = append(es.back, trace.Step{
			Kind:   trace.KindRecursionCheck,
			Depth:  depth,
			Goal:   goal,
			Result: "Circular reasoning detected",
			Status: trace.StatusFailed,
		})
		es.log.WithFields(logrus.Fields{
			"session": es.session,
			"goal":    goal,
			"depth":   depth,
		}).Debug("backward chaining detected circular reasoning")
		return false
	}
	if es.maxDepth > 0 && depth > es.maxDepth {
		es.back = append(es.back, trace.Step{
			Kind:   trace.KindRecursionCheck,
			Depth:  depth,
			Goal:   goal,
			Result: "Maximum proof depth exceeded",
			Status: trace.StatusFailed,
		})
		return false
	}

	branch := make(map[string]struct{}, len(ancestors)+1)
	for g := range ancestors {
		branch[g] = struct{}{}
	}
	branch[goal] = struct{}{}

	var relevant []kb.Rule
	for _, rule := range es.rules.All() {
		for _, consequent := range rule.Consequents {
			if consequent == goal {
				relevant = append(relevant, rule)
				break
			}
		}
	}

	if len(relevant) == 0 {
		status := trace.StatusFailed
		if es.facts.Exists(goal) {
			status = trace.StatusProven
		}
		es.back = append(es.back, trace.Step{
			Kind:   trace.KindGoalExploration,
			Depth:  depth,
			Goal:   goal,
			Result: "No rules found that infer this goal",
			Status: status,
		})
		return es.facts.Exists(goal)
	}

	for _, rule := range relevant {
		es.back = append(es.back, trace.Step{
			Kind:         trace.KindRuleExamination,
			Depth:        depth,
			Rule:         rule.Name,
			Description:  rule.Description,
			Goal:         goal,
			NeedsToProve: append([]string(nil), rule.Antecedents...),
		})

		satisfied := true
		for _, antecedent := range rule.Antecedents {
			if es.facts.Exists(antecedent) {
				continue
			}
			// Each child branch gets its own copy of the ancestor chain.
			child := make(map[string]struct{}, len(branch))
			for g := range branch {
				child[g] = struct{}{}
			}
			if !es.prove(antecedent, child, depth+1) {
				satisfied = false
				break
			}
		}
		if !satisfied {
			continue
		}

		if !es.facts.Exists(goal) {
			confidence := es.minConfidence(rule.Antecedents)
			es.facts.Put(kb.Fact{
				Statement:  goal,
				Confidence: confidence,
				Source:     kb.SourceBackwardPrefix + rule.Name,
			})
			es.log.WithFields(logrus.Fields{
				"session":    es.session,
				"goal":       goal,
				"rule":       rule.Name,
				"confidence": confidence,
				"depth":      depth,
			}).Debug("backward chaining proved goal")
		}
		es.back = append(es.back, trace.Step{
			Kind:     trace.KindGoalVerification,
			Depth:    depth,
			Goal:     goal,
			RuleUsed: rule.Name,
			Result:   "All antecedents satisfied",
			Status:   trace.StatusProven,
		})
		return true
	}

	es.back = append(es.back, trace.Step{
		Kind:   trace.KindGoalVerification,
		Depth:  depth,
		Goal:   goal,
		Result: "No applicable rules could satisfy all conditions",
		Status: trace.StatusFailed,
	})
	return false
}
