// Package config loads and saves knowledge-base files in YAML form: rules,
// initial facts and an optional symptom glossary.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/internalerr"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
)

// File is the YAML schema of a knowledge-base file.
type File struct {
	Rules    []RuleSpec        `yaml:"rules"`
	Facts    []FactSpec        `yaml:"facts,omitempty"`
	Symptoms map[string]string `yaml:"symptoms,omitempty"`
}

// RuleSpec is one rule entry.
type RuleSpec struct {
	Name        string   `yaml:"name"`
	If          []string `yaml:"if"`
	Then        []string `yaml:"then"`
	Description string   `yaml:"description,omitempty"`
}

// FactSpec is one initial fact entry. A nil Confidence defaults to 1.0.
type FactSpec struct {
	Statement  string   `yaml:"statement"`
	Confidence *float64 `yaml:"confidence,omitempty"`
	Source     string   `yaml:"source,omitempty"`
}

// Load reads a knowledge-base file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	return Parse(data)
}

// Parse decodes a knowledge-base file from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return &f, nil
}

// BuildRules validates the rule entries into kb.Rule values, in file order.
func (f *File) BuildRules() ([]kb.Rule, error) {
	rules := make([]kb.Rule, 0, len(f.Rules))
	for _, spec := range f.Rules {
		r, err := kb.NewRule(spec.Name, spec.If, spec.Then, spec.Description)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// BuildFacts validates the fact entries into kb.Fact values, in file order.
func (f *File) BuildFacts() ([]kb.Fact, error) {
	facts := make([]kb.Fact, 0, len(f.Facts))
	for _, spec := range f.Facts {
		confidence := 1.0
		if spec.Confidence != nil {
			confidence = *spec.Confidence
		}
		fact, err := kb.NewFact(spec.Statement, confidence, spec.Source)
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

// Loader assembles a populated expert system from a knowledge-base file.
type Loader struct {
	Path    string
	Options expert.Options
}

// Load reads the file, validates its contents and returns an expert system
// loaded with its rules and facts, plus the decoded file for glossary access.
func (l *Loader) Load() (*expert.ExpertSystem, *File, error) {
	f, err := Load(l.Path)
	if err != nil {
		return nil, nil, err
	}

	rules, err := f.BuildRules()
	if err != nil {
		return nil, nil, fmt.Errorf("knowledge base %s: %w", l.Path, err)
	}
	facts, err := f.BuildFacts()
	if err != nil {
		return nil, nil, fmt.Errorf("knowledge base %s: %w", l.Path, err)
	}

	es := expert.New(l.Options)
	for _, r := range rules {
		if err := es.AddRule(r); err != nil {
			return nil, nil, err
		}
	}
	for _, fact := range facts {
		if err := es.AddFact(fact); err != nil {
			return nil, nil, err
		}
	}
	return es, f, nil
}

// Export renders the current knowledge base and working memory back into the
// file schema. Rules keep knowledge-base order; facts are sorted by
// statement.
func Export(es *expert.ExpertSystem) ([]byte, error) {
	var f File
	for _, r := range es.OrderedRules() {
		f.Rules = append(f.Rules, RuleSpec{
			Name:        r.Name,
			If:          r.Antecedents,
			Then:        r.Consequents,
			Description: r.Description,
		})
	}

	facts := es.Facts()
	statements := make([]string, 0, len(facts))
	for s := range facts {
		statements = append(statements, s)
	}
	sort.Strings(statements)
	for _, s := range statements {
		fact := facts[s]
		confidence := fact.Confidence
		f.Facts = append(f.Facts, FactSpec{
			Statement:  fact.Statement,
			Confidence: &confidence,
			Source:     fact.Source,
		})
	}

	return yaml.Marshal(&f)
}
