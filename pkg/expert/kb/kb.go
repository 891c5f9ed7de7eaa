// Package kb defines the value types of the expert system: rules in the
// knowledge base and facts in working memory. Both are validated once at
// construction and treated as immutable afterwards.
package kb

import (
	"fmt"
	"strings"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/internalerr"
)

// Recognized machine-readable source markers. A fact whose source starts with
// SourceRulePrefix or SourceBackwardPrefix was derived by the named rule;
// SourceUser marks direct user input. Anything else is free-form provenance.
const (
	SourceRulePrefix     = "Rule: "
	SourceBackwardPrefix = "Backward chaining: "
	SourceUser           = "user input"
)

// Rule is an IF/THEN production: when every antecedent is a known fact, the
// consequents may be asserted.
type Rule struct {
	Name        string   `json:"name"`
	Antecedents []string `json:"antecedents"`
	Consequents []string `json:"consequents"`
	Description string   `json:"description"`
}

// NewRule validates and constructs a Rule. The name must be non-empty and
// both the antecedent and consequent lists must contain at least one entry.
func NewRule(name string, antecedents, consequents []string, description string) (Rule, error) {
	if name == "" {
		return Rule{}, fmt.Errorf("%w: name cannot be empty", internalerr.ErrInvalidRule)
	}
	if len(antecedents) == 0 {
		return Rule{}, fmt.Errorf("%w: rule %s needs at least one antecedent", internalerr.ErrInvalidRule, name)
	}
	if len(consequents) == 0 {
		return Rule{}, fmt.Errorf("%w: rule %s needs at least one consequent", internalerr.ErrInvalidRule, name)
	}
	return Rule{
		Name:        name,
		Antecedents: append([]string(nil), antecedents...),
		Consequents: append([]string(nil), consequents...),
		Description: description,
	}, nil
}

// MustRule is like NewRule but panics on validation failure. Intended for
// statically known rule sets.
func MustRule(name string, antecedents, consequents []string, description string) Rule {
	r, err := NewRule(name, antecedents, consequents, description)
	if err != nil {
		panic(err)
	}
	return r
}

// Valid re-checks the construction invariants. Zero-value Rules handed to the
// engine without going through NewRule are caught here.
func (r Rule) Valid() error {
	_, err := NewRule(r.Name, r.Antecedents, r.Consequents, r.Description)
	return err
}

// Clone returns a copy that shares no backing arrays with the receiver.
func (r Rule) Clone() Rule {
	r.Antecedents = append([]string(nil), r.Antecedents...)
	r.Consequents = append([]string(nil), r.Consequents...)
	return r
}

func (r Rule) String() string {
	return fmt.Sprintf("Rule %s: IF %s THEN %s",
		r.Name, strings.Join(r.Antecedents, " AND "), strings.Join(r.Consequents, " AND "))
}

// Fact is a statement held in working memory with a confidence in [0,1] and a
// provenance source.
type Fact struct {
	Statement  string  `json:"statement"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// NewFact validates and constructs a Fact. The statement must be non-empty
// and the confidence must lie in [0.0, 1.0].
func NewFact(statement string, confidence float64, source string) (Fact, error) {
	if statement == "" {
		return Fact{}, fmt.Errorf("%w: statement cannot be empty", internalerr.ErrInvalidFact)
	}
	if confidence < 0.0 || confidence > 1.0 {
		return Fact{}, fmt.Errorf("%w: confidence %v outside [0.0, 1.0]", internalerr.ErrInvalidFact, confidence)
	}
	return Fact{Statement: statement, Confidence: confidence, Source: source}, nil
}

// MustFact is like NewFact but panics on validation failure.
func MustFact(statement string, confidence float64, source string) Fact {
	f, err := NewFact(statement, confidence, source)
	if err != nil {
		panic(err)
	}
	return f
}

// Valid re-checks the construction invariants.
func (f Fact) Valid() error {
	_, err := NewFact(f.Statement, f.Confidence, f.Source)
	return err
}

// Direct reports whether the fact was asserted directly (empty source or a
// user-input marker) rather than derived by a rule.
func (f Fact) Direct() bool {
	return f.Source == "" || strings.HasPrefix(f.Source, SourceUser)
}

// DerivedBy extracts the rule name recorded in the source. backward reports
// whether the fact was asserted by backward chaining. ok is false when the
// source carries no recognized rule marker.
func (f Fact) DerivedBy() (rule string, backward bool, ok bool) {
	if name, found := strings.CutPrefix(f.Source, SourceRulePrefix); found {
		return name, false, true
	}
	if name, found := strings.CutPrefix(f.Source, SourceBackwardPrefix); found {
		return name, true, true
	}
	return "", false, false
}

func (f Fact) String() string {
	return fmt.Sprintf("%s [conf=%.2f, src=%s]", f.Statement, f.Confidence, f.Source)
}
