package kb

import (
	"errors"
	"testing"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/internalerr"
)

func TestNewRule(t *testing.T) {
	r, err := NewRule("R1", []string{"fever", "headache"}, []string{"possible_flu"}, "Test rule")
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	if r.Name != "R1" {
		t.Errorf("Name = %q, want R1", r.Name)
	}
	if len(r.Antecedents) != 2 || r.Antecedents[0] != "fever" {
		t.Errorf("Antecedents = %v", r.Antecedents)
	}
	if len(r.Consequents) != 1 || r.Consequents[0] != "possible_flu" {
		t.Errorf("Consequents = %v", r.Consequents)
	}
}

func TestNewRuleCopiesSlices(t *testing.T) {
	ants := []string{"fever"}
	r, err := NewRule("R1", ants, []string{"possible_flu"}, "")
	if err != nil {
		t.Fatal(err)
	}
	ants[0] = "mutated"
	if r.Antecedents[0] != "fever" {
		t.Error("Rule should hold its own copy of antecedents")
	}
}

func TestNewRuleValidation(t *testing.T) {
	cases := []struct {
		name        string
		ruleName    string
		antecedents []string
		consequents []string
	}{
		{"empty name", "", []string{"a"}, []string{"b"}},
		{"no antecedents", "R1", nil, []string{"b"}},
		{"no consequents", "R1", []string{"a"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRule(tc.ruleName, tc.antecedents, tc.consequents, "")
			if !errors.Is(err, internalerr.ErrInvalidRule) {
				t.Errorf("err = %v, want ErrInvalidRule", err)
			}
		})
	}
}

func TestRuleString(t *testing.T) {
	r := MustRule("R1", []string{"fever", "headache"}, []string{"possible_flu"}, "Test rule")
	want := "Rule R1: IF fever AND headache THEN possible_flu"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNewFact(t *testing.T) {
	f, err := NewFact("fever", 0.9, SourceUser)
	if err != nil {
		t.Fatalf("NewFact: %v", err)
	}
	if f.Statement != "fever" || f.Confidence != 0.9 || f.Source != "user input" {
		t.Errorf("unexpected fact %+v", f)
	}
}

func TestNewFactValidation(t *testing.T) {
	cases := []struct {
		name       string
		statement  string
		confidence float64
	}{
		{"empty statement", "", 1.0},
		{"confidence above range", "fever", 1.5},
		{"confidence below range", "fever", -0.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFact(tc.statement, tc.confidence, "")
			if !errors.Is(err, internalerr.ErrInvalidFact) {
				t.Errorf("err = %v, want ErrInvalidFact", err)
			}
		})
	}
}

func TestFactString(t *testing.T) {
	f := MustFact("fever", 0.9, "user input")
	want := "fever [conf=0.90, src=user input]"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFactDirect(t *testing.T) {
	cases := []struct {
		source string
		want   bool
	}{
		{"", true},
		{"user input", true},
		{"user input (dashboard)", true},
		{"Rule: R1", false},
		{"Backward chaining: R1", false},
		{"patient report", false},
	}
	for _, tc := range cases {
		f := Fact{Statement: "x", Confidence: 1.0, Source: tc.source}
		if got := f.Direct(); got != tc.want {
			t.Errorf("Direct() with source %q = %v, want %v", tc.source, got, tc.want)
		}
	}
}

func TestFactDerivedBy(t *testing.T) {
	f := Fact{Statement: "possible_flu", Confidence: 0.8, Source: "Rule: R1"}
	name, backward, ok := f.DerivedBy()
	if !ok || backward || name != "R1" {
		t.Errorf("DerivedBy() = (%q, %v, %v), want (R1, false, true)", name, backward, ok)
	}

	f = Fact{Statement: "flu", Confidence: 0.7, Source: "Backward chaining: R3"}
	name, backward, ok = f.DerivedBy()
	if !ok || !backward || name != "R3" {
		t.Errorf("DerivedBy() = (%q, %v, %v), want (R3, true, true)", name, backward, ok)
	}

	f = Fact{Statement: "fever", Confidence: 1.0, Source: "user input"}
	if _, _, ok := f.DerivedBy(); ok {
		t.Error("DerivedBy() on a direct fact should report ok = false")
	}
}
