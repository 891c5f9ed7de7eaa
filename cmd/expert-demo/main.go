// Command expert-demo walks through the medical diagnosis workflow: load the
// built-in knowledge base, report a patient's symptoms, run forward chaining,
// then confirm the diagnosis with backward chaining and the explanation
// facility.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/medical"
)

func main() {
	verbose := flag.Bool("v", false, "Log reasoning events")
	goal := flag.String("goal", "flu", "Goal for the backward-chaining demo")
	flag.Parse()

	var opts expert.Options
	if *verbose {
		logger := logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		opts.Logger = logger
	}

	fmt.Println("=== Medical Diagnosis Expert System Demo ===")
	fmt.Println()

	fmt.Println("1. Initializing Expert System...")
	es := expert.New(opts)

	fmt.Println("2. Loading Medical Knowledge Base...")
	if err := medical.Populate(es); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("   - Loaded %d rules\n", len(es.Rules()))
	fmt.Printf("   - System initialized with %d facts\n\n", len(es.Facts()))

	fmt.Println("3. Adding Patient Symptoms...")
	symptoms := []kb.Fact{
		kb.MustFact("fever", 1.0, "patient report"),
		kb.MustFact("headache", 0.9, "patient report"),
		kb.MustFact("body_ache", 0.8, "patient report"),
		kb.MustFact("sore_throat", 0.7, "patient report"),
		kb.MustFact("fatigue", 0.9, "patient report"),
	}
	for _, symptom := range symptoms {
		if err := es.AddFact(symptom); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("   - Added: %s\n", symptom)
	}
	fmt.Printf("\n   Total facts in working memory: %d\n", len(es.Facts()))

	fmt.Println("\n4. Running Forward Chaining Inference...")
	steps := es.ForwardChain()
	fmt.Printf("   - Inference completed in %d steps (session %s)\n", len(steps), es.Session())
	fmt.Printf("   - Total facts after inference: %d\n", len(es.Facts()))

	fmt.Println("\n5. Inference Trace:")
	for i, step := range steps {
		fmt.Printf("   Step %d: Applied rule %s (round %d)\n", i+1, step.RuleApplied, step.Iteration)
		fmt.Printf("           %s\n", step.RuleDescription)
		fmt.Printf("           New facts: %s\n\n", strings.Join(step.NewFacts, ", "))
	}

	fmt.Println("6. Diagnostic Results:")
	facts := es.Facts()
	fmt.Println("   Diagnoses:")
	for _, diagnosis := range medical.Diagnoses() {
		if f, ok := facts[diagnosis]; ok {
			fmt.Printf("   - %s (confidence: %.2f)\n", strings.ToUpper(diagnosis), f.Confidence)
		}
	}
	fmt.Println("   Recommendations:")
	for _, statement := range sortedStatements(facts) {
		if strings.HasPrefix(statement, "recommend_") {
			fmt.Printf("   - %s\n", titleCase(statement))
		}
	}

	fmt.Println("\n7. Testing Backward Chaining...")
	proven, bt := es.BackwardChain(*goal)
	verdict := "NOT PROVEN"
	if proven {
		verdict = "PROVEN"
	}
	fmt.Printf("   - Goal '%s' was %s\n", *goal, verdict)
	fmt.Printf("   - Reasoning steps: %d\n", len(bt))

	fmt.Println("\n8. Explanation Facility:")
	if es.FactExists(*goal) {
		fmt.Printf("   How was '%s' derived?\n", *goal)
		for _, item := range es.ExplainFact(*goal) {
			switch {
			case item.Explanation != "":
				fmt.Printf("   - %s\n", item.Explanation)
			case item.DerivedBy != "":
				fmt.Printf("   - Derived by rule: %s\n", item.DerivedBy)
				fmt.Printf("     Description: %s\n", item.RuleDescription)
			case item.ProvenBy != "":
				fmt.Printf("   - Proven by rule: %s\n", item.ProvenBy)
				fmt.Printf("     Description: %s\n", item.RuleDescription)
			}
		}
	}
}

func sortedStatements(facts map[string]kb.Fact) []string {
	out := make([]string, 0, len(facts))
	for statement := range facts {
		out = append(out, statement)
	}
	sort.Strings(out)
	return out
}

func titleCase(statement string) string {
	words := strings.Split(statement, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
