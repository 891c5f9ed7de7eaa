package expert

import (
	"testing"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/trace"
)

func TestBackwardChainAlreadyKnownGoal(t *testing.T) {
	es := New(Options{})
	es.AddFact(kb.MustFact("fever", 1.0, kb.SourceUser))

	proven, steps := es.BackwardChain("fever")
	if !proven {
		t.Fatal("known fact should be proven immediately")
	}
	if len(steps) != 1 {
		t.Fatalf("expected a single trace record, got %d", len(steps))
	}
	step := steps[0]
	if step.Kind != trace.KindGoalVerification || step.Depth != 0 {
		t.Errorf("step = %+v, want depth-0 goal verification", step)
	}
	if step.Result != "Goal 'fever' is already a known fact" || step.Status != trace.StatusProven {
		t.Errorf("step = %+v", step)
	}
}

func TestBackwardChainFluScenario(t *testing.T) {
	es := fluSystem(t)

	proven, steps := es.BackwardChain("flu")
	if !proven {
		t.Fatalf("flu should be provable; trace: %+v", steps)
	}
	if len(steps) == 0 {
		t.Fatal("expected reasoning steps")
	}

	flu, ok := es.Fact("flu")
	if !ok {
		t.Fatal("proven goal should be asserted into working memory")
	}
	if flu.Confidence != 0.7 {
		t.Errorf("flu confidence = %v, want 0.7", flu.Confidence)
	}
	if flu.Source != kb.SourceBackwardPrefix+"R3" {
		t.Errorf("flu source = %q, want %q", flu.Source, kb.SourceBackwardPrefix+"R3")
	}

	// Intermediate goals proven along the way persist too.
	possible, _ := es.Fact("possible_flu")
	if possible.Confidence != 0.8 || possible.Source != kb.SourceBackwardPrefix+"R1" {
		t.Errorf("possible_flu = %+v", possible)
	}
	likely, _ := es.Fact("likely_flu")
	if likely.Confidence != 0.7 {
		t.Errorf("likely_flu confidence = %v, want 0.7", likely.Confidence)
	}
}

func TestBackwardChainUnprovableGoal(t *testing.T) {
	es := fluSystem(t)
	es.AddRule(kb.MustRule("R4", []string{"fever", "dry_cough"}, []string{"possible_covid"},
		"Basic COVID symptoms suggest possible COVID-19"))
	es.AddRule(kb.MustRule("R5", []string{"possible_covid", "loss_of_taste"}, []string{"likely_covid"},
		"COVID symptoms with taste loss increase COVID likelihood"))
	es.AddRule(kb.MustRule("R6", []string{"likely_covid", "shortness_of_breath"}, []string{"covid"},
		"Severe symptoms confirm COVID-19 diagnosis"))

	proven, steps := es.BackwardChain("covid")
	if proven {
		t.Fatal("covid should not be provable without covid symptoms")
	}
	if es.FactExists("covid") {
		t.Error("failed goal must not be asserted")
	}

	last := steps[len(steps)-1]
	if last.Status != trace.StatusFailed {
		t.Errorf("final step = %+v, want Failed", last)
	}
}

func TestBackwardChainUnknownGoalNoRules(t *testing.T) {
	es := New(Options{})

	proven, steps := es.BackwardChain("covid")
	if proven {
		t.Fatal("goal with no rules and no fact should fail")
	}
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	step := steps[0]
	if step.Kind != trace.KindGoalExploration || step.Depth != 1 {
		t.Errorf("step = %+v, want depth-1 goal exploration", step)
	}
	if step.Result != "No rules found that infer this goal" || step.Status != trace.StatusFailed {
		t.Errorf("step = %+v", step)
	}
}

func TestBackwardChainCircularRules(t *testing.T) {
	// a and b derive each other and neither is a fact. The ancestor guard
	// must cut the cycle and the search must fail cleanly.
	es := New(Options{})
	es.AddRule(kb.MustRule("RA", []string{"b"}, []string{"a"}, ""))
	es.AddRule(kb.MustRule("RB", []string{"a"}, []string{"b"}, ""))

	proven, steps := es.BackwardChain("a")
	if proven {
		t.Fatal("cyclic goal must not be proven")
	}

	found := false
	for _, step := range steps {
		if step.Kind == trace.KindRecursionCheck && step.Result == "Circular reasoning detected" {
			found = true
			if step.Status != trace.StatusFailed {
				t.Errorf("recursion check status = %v, want Failed", step.Status)
			}
		}
	}
	if !found {
		t.Errorf("expected a circular-reasoning record, trace: %+v", steps)
	}
}

func TestBackwardChainPartialDerivationsPersist(t *testing.T) {
	// p is provable but the overall goal is not; p must stay asserted.
	es := New(Options{})
	es.AddRule(kb.MustRule("R1", []string{"x"}, []string{"p"}, ""))
	es.AddRule(kb.MustRule("R2", []string{"p", "q"}, []string{"goal"}, ""))
	es.AddFact(kb.MustFact("x", 0.9, kb.SourceUser))

	proven, _ := es.BackwardChain("goal")
	if proven {
		t.Fatal("goal should fail on unprovable q")
	}
	p, ok := es.Fact("p")
	if !ok {
		t.Fatal("partially proven antecedent p should persist")
	}
	if p.Confidence != 0.9 || p.Source != kb.SourceBackwardPrefix+"R1" {
		t.Errorf("p = %+v", p)
	}
}

func TestBackwardChainFirstSuccessfulRuleWins(t *testing.T) {
	// Both rules can prove the goal; the one inserted first must be used.
	es := New(Options{})
	es.AddRule(kb.MustRule("RB", []string{"b"}, []string{"goal"}, ""))
	es.AddRule(kb.MustRule("RA", []string{"a"}, []string{"goal"}, ""))
	es.AddFact(kb.MustFact("a", 1.0, kb.SourceUser))
	es.AddFact(kb.MustFact("b", 0.5, kb.SourceUser))

	proven, steps := es.BackwardChain("goal")
	if !proven {
		t.Fatal("goal should be proven")
	}
	goal, _ := es.Fact("goal")
	if goal.Source != kb.SourceBackwardPrefix+"RB" {
		t.Errorf("goal source = %q, want first-inserted rule RB", goal.Source)
	}
	if goal.Confidence != 0.5 {
		t.Errorf("goal confidence = %v, want 0.5 from RB's antecedent", goal.Confidence)
	}

	// No examination of RA should follow the successful RB proof.
	sawProof := false
	for _, step := range steps {
		if step.Kind == trace.KindGoalVerification && step.RuleUsed == "RB" {
			sawProof = true
		}
		if sawProof && step.Kind == trace.KindRuleExamination && step.Rule == "RA" {
			t.Error("RA was examined after RB already proved the goal")
		}
	}
}

func TestBackwardChainSiblingBranchesDoNotShareVisited(t *testing.T) {
	// The same subgoal appears under two sibling antecedents. Each branch
	// threads its own ancestor copy, so the second sibling must not be
	// rejected as circular.
	es := New(Options{})
	es.AddRule(kb.MustRule("R1", []string{"shared"}, []string{"left"}, ""))
	es.AddRule(kb.MustRule("R2", []string{"shared"}, []string{"right"}, ""))
	es.AddRule(kb.MustRule("R3", []string{"left", "right"}, []string{"goal"}, ""))
	es.AddFact(kb.MustFact("shared", 0.9, kb.SourceUser))

	proven, steps := es.BackwardChain("goal")
	if !proven {
		t.Fatalf("goal should be proven; trace: %+v", steps)
	}
	for _, step := range steps {
		if step.Kind == trace.KindRecursionCheck {
			t.Errorf("unexpected recursion check: %+v", step)
		}
	}
}

func TestBackwardChainMaxDepth(t *testing.T) {
	es := New(Options{MaxDepth: 2})
	es.AddRule(kb.MustRule("R1", []string{"a2"}, []string{"a1"}, ""))
	es.AddRule(kb.MustRule("R2", []string{"a3"}, []string{"a2"}, ""))
	es.AddRule(kb.MustRule("R3", []string{"a4"}, []string{"a3"}, ""))
	es.AddFact(kb.MustFact("a4", 1.0, kb.SourceUser))

	proven, steps := es.BackwardChain("a1")
	if proven {
		t.Fatal("proof deeper than MaxDepth must fail")
	}
	found := false
	for _, step := range steps {
		if step.Result == "Maximum proof depth exceeded" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a depth-cap record, trace: %+v", steps)
	}
}
