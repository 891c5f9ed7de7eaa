// Package trace defines the step records emitted by the inference engines.
// Forward chaining emits one ForwardStep per rule fired per round; backward
// chaining emits a Step per reasoning event, tagged by Kind.
package trace

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome recorded on a backward-chaining step.
type Status string

const (
	StatusProven Status = "Proven"
	StatusFailed Status = "Failed"
)

// Kind tags the variant of a backward-chaining step.
type Kind int

const (
	// KindGoalVerification records a goal being settled: already known,
	// proven via a rule, or exhausted without success.
	KindGoalVerification Kind = iota
	// KindRecursionCheck records a goal rejected because it already appears
	// in its own ancestor chain.
	KindRecursionCheck
	// KindGoalExploration records a goal with no rules that infer it.
	KindGoalExploration
	// KindRuleExamination records a rule being tried for a goal.
	KindRuleExamination
)

func (k Kind) String() string {
	switch k {
	case KindGoalVerification:
		return "Goal verification"
	case KindRecursionCheck:
		return "Recursion check"
	case KindGoalExploration:
		return "Goal exploration"
	case KindRuleExamination:
		return "Rule examination"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ForwardStep records one rule firing during a forward-chaining round.
type ForwardStep struct {
	Iteration       int      `json:"iteration"`
	RuleApplied     string   `json:"rule_applied"`
	RuleDescription string   `json:"rule_description"`
	Antecedents     []string `json:"antecedents"`
	NewFacts        []string `json:"new_facts"`
}

// Step records one backward-chaining reasoning event. Which fields are set
// depends on Kind: RuleExamination carries Rule, Description and
// NeedsToProve; GoalVerification may carry RuleUsed; all terminal kinds carry
// Result and Status.
type Step struct {
	Kind         Kind
	Depth        int // 0 on the entry-point verification of an already-known goal
	Goal         string
	Rule         string
	Description  string
	NeedsToProve []string
	RuleUsed     string
	Result       string
	Status       Status
}

// Label renders the step heading, e.g. "Rule examination at depth 2".
func (s Step) Label() string {
	if s.Depth == 0 {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s at depth %d", s.Kind, s.Depth)
}

// MarshalJSON emits the step as a flat object keyed the way presentation
// layers expect: the Kind and Depth collapse into a "step" label and unset
// fields are omitted.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Step         string   `json:"step"`
		Goal         string   `json:"goal,omitempty"`
		Rule         string   `json:"rule,omitempty"`
		Description  string   `json:"description,omitempty"`
		NeedsToProve []string `json:"needs_to_prove,omitempty"`
		RuleUsed     string   `json:"rule_used,omitempty"`
		Result       string   `json:"result,omitempty"`
		Status       Status   `json:"status,omitempty"`
	}{
		Step:         s.Label(),
		Goal:         s.Goal,
		Rule:         s.Rule,
		Description:  s.Description,
		NeedsToProve: s.NeedsToProve,
		RuleUsed:     s.RuleUsed,
		Result:       s.Result,
		Status:       s.Status,
	})
}
