// Command diagnose-cli is an interactive consultation shell: report symptoms,
// run forward or backward chaining, and inspect traces, explanations and the
// derivation graph. By default it loads the built-in medical knowledge base;
// -kb loads a YAML knowledge-base file instead.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/config"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/graph"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/medical"
)

func main() {
	var (
		kbPath   = flag.String("kb", "", "Knowledge-base YAML file (default: built-in medical rules)")
		maxDepth = flag.Int("maxdepth", 0, "Backward-chaining depth cap (0 = uncapped)")
		verbose  = flag.Bool("v", false, "Log reasoning events")
	)
	flag.Parse()

	opts := expert.Options{MaxDepth: *maxDepth}
	if *verbose {
		logger := logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		opts.Logger = logger
	}

	es, glossary, err := buildSystem(*kbPath, opts)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("===========================================")
	fmt.Println("  Medical Diagnosis Expert System")
	fmt.Printf("  %d rules loaded\n", len(es.Rules()))
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Type 'help' for commands (Ctrl+D to exit).")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if err := dispatch(es, glossary, cmd, args); err != nil {
			fmt.Println("Error:", err)
		}
	}
	fmt.Println("\nGoodbye!")
}

func buildSystem(kbPath string, opts expert.Options) (*expert.ExpertSystem, map[string]string, error) {
	if kbPath == "" {
		es := expert.New(opts)
		if err := medical.Populate(es); err != nil {
			return nil, nil, err
		}
		return es, medical.SymptomDescriptions(), nil
	}
	loader := &config.Loader{Path: kbPath, Options: opts}
	es, file, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}
	return es, file.Symptoms, nil
}

func dispatch(es *expert.ExpertSystem, glossary map[string]string, cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp()
	case "symptoms":
		printGlossary(glossary)
	case "add":
		return addFact(es, args)
	case "facts":
		printFacts(es)
	case "rules":
		for _, r := range es.OrderedRules() {
			fmt.Println(" ", r)
		}
	case "forward":
		runForward(es)
	case "prove":
		if len(args) != 1 {
			return fmt.Errorf("usage: prove <goal>")
		}
		runBackward(es, args[0])
	case "explain":
		if len(args) != 1 {
			return fmt.Errorf("usage: explain <fact>")
		}
		printExplanation(es, args[0])
	case "graph":
		if len(args) != 1 {
			return fmt.Errorf("usage: graph <fact>")
		}
		fmt.Print(graph.FromExplanation(es.ExplainFact(args[0])).DOT())
	case "save":
		if len(args) != 1 {
			return fmt.Errorf("usage: save <path>")
		}
		return saveKB(es, args[0])
	case "reset":
		es.ClearFacts()
		es.ClearTrace()
		fmt.Println("Working memory cleared.")
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	return nil
}

func printHelp() {
	fmt.Println(`Commands:
  symptoms               list known symptoms
  add <fact> [conf]      report a symptom (confidence defaults to 1.0)
  facts                  show working memory
  rules                  show the knowledge base
  forward                run forward chaining and show the trace
  prove <goal>           run backward chaining on a goal
  explain <fact>         show how a fact was derived
  graph <fact>           print the derivation graph in DOT format
  save <path>            export rules and facts to a YAML file
  reset                  clear working memory and trace`)
}

func printGlossary(glossary map[string]string) {
	names := make([]string, 0, len(glossary))
	for name := range glossary {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-24s %s\n", name, glossary[name])
	}
}

func addFact(es *expert.ExpertSystem, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("usage: add <fact> [confidence]")
	}
	confidence := 1.0
	if len(args) == 2 {
		var err error
		confidence, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("confidence %q: %w", args[1], err)
		}
	}
	fact, err := kb.NewFact(args[0], confidence, kb.SourceUser)
	if err != nil {
		return err
	}
	if err := es.AddFact(fact); err != nil {
		return err
	}
	fmt.Println("Added:", fact)
	return nil
}

func printFacts(es *expert.ExpertSystem) {
	facts := es.Facts()
	statements := make([]string, 0, len(facts))
	for s := range facts {
		statements = append(statements, s)
	}
	sort.Strings(statements)
	for _, s := range statements {
		fmt.Println(" ", facts[s])
	}
	fmt.Printf("  (%d facts)\n", len(facts))
}

func runForward(es *expert.ExpertSystem) {
	steps := es.ForwardChain()
	if len(steps) == 0 {
		fmt.Println("No rules fired.")
		return
	}
	for _, step := range steps {
		fmt.Printf("Round %d: %s - %s\n", step.Iteration, step.RuleApplied, step.RuleDescription)
		for _, f := range step.NewFacts {
			fmt.Println("   +", f)
		}
	}
	fmt.Printf("(%d rule firings, session %s)\n", len(steps), es.Session())
}

func runBackward(es *expert.ExpertSystem, goal string) {
	proven, steps := es.BackwardChain(goal)
	for _, step := range steps {
		fmt.Printf("  [%s] %s", step.Label(), step.Result)
		if step.Rule != "" {
			fmt.Printf(" rule=%s needs=%s", step.Rule, strings.Join(step.NeedsToProve, ","))
		}
		if step.Status != "" {
			fmt.Printf(" (%s)", step.Status)
		}
		fmt.Println()
	}
	if proven {
		f, _ := es.Fact(goal)
		fmt.Printf("Goal '%s' PROVEN with confidence %.2f\n", goal, f.Confidence)
	} else {
		fmt.Printf("Goal '%s' NOT proven\n", goal)
	}
}

func printExplanation(es *expert.ExpertSystem, statement string) {
	for _, item := range es.ExplainFact(statement) {
		switch {
		case item.Explanation != "":
			fmt.Println(" ", item.Explanation)
		case item.DerivedBy != "":
			fmt.Printf("  %s derived by %s (confidence %.2f): %s\n",
				item.Fact, item.DerivedBy, item.Confidence, item.RuleDescription)
		case item.ProvenBy != "":
			fmt.Printf("  %s proven by %s (confidence %.2f): %s\n",
				item.Fact, item.ProvenBy, item.Confidence, item.RuleDescription)
		}
	}
}

func saveKB(es *expert.ExpertSystem, path string) error {
	data, err := config.Export(es)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Println("Saved to", path)
	return nil
}
