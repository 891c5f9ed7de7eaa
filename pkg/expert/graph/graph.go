// Package graph builds a derivation graph from explanation entries: fact and
// rule nodes, with edges antecedent -> rule -> consequent. The graph renders to
// Graphviz DOT for presentation layers.
package graph

import (
	"fmt"
	"strings"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert"
)

type edge struct {
	from string
	to   string
}

// Graph is a derivation graph over facts and the rules that connect them.
// Node and edge iteration order is insertion order, so rendering is
// deterministic for a given explanation.
type Graph struct {
	factOrder []string
	facts     map[string]struct{}
	ruleOrder []string
	rules     map[string]string // rule name -> description
	edgeOrder []edge
	edges     map[edge]struct{}
}

// New creates an empty derivation graph.
func New() *Graph {
	return &Graph{
		facts: make(map[string]struct{}),
		rules: make(map[string]string),
		edges: make(map[edge]struct{}),
	}
}

// FromExplanation builds the derivation graph of an ExplainFact result.
// Terminal entries (direct input, missing fact) contribute no nodes.
func FromExplanation(entries []expert.ExplanationEntry) *Graph {
	g := New()
	for _, e := range entries {
		if e.Explanation != "" {
			continue
		}
		rule := e.DerivedBy
		if rule == "" {
			rule = e.ProvenBy
		}
		if rule == "" {
			continue
		}
		g.addFact(e.Fact)
		g.addRule(rule, e.RuleDescription)
		g.addEdge(ruleNodeID(rule), e.Fact)
		for _, ant := range e.Antecedents {
			g.addFact(ant)
			g.addEdge(ant, ruleNodeID(rule))
		}
	}
	return g
}

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool {
	return len(g.factOrder) == 0 && len(g.ruleOrder) == 0
}

// Facts returns the fact nodes in insertion order.
func (g *Graph) Facts() []string {
	return append([]string(nil), g.factOrder...)
}

// Rules returns the rule nodes in insertion order.
func (g *Graph) Rules() []string {
	return append([]string(nil), g.ruleOrder...)
}

func (g *Graph) addFact(name string) {
	if _, ok := g.facts[name]; ok {
		return
	}
	g.facts[name] = struct{}{}
	g.factOrder = append(g.factOrder, name)
}

func (g *Graph) addRule(name, description string) {
	if _, ok := g.rules[name]; ok {
		return
	}
	g.rules[name] = description
	g.ruleOrder = append(g.ruleOrder, name)
}

func (g *Graph) addEdge(from, to string) {
	e := edge{from: from, to: to}
	if _, ok := g.edges[e]; ok {
		return
	}
	g.edges[e] = struct{}{}
	g.edgeOrder = append(g.edgeOrder, e)
}

// DOT renders the graph in Graphviz DOT format. Fact nodes are ellipses,
// rule nodes are boxes carrying the rule description as a tooltip.
func (g *Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph derivation {\n")
	b.WriteString("  rankdir=BT;\n")

	for _, f := range g.factOrder {
		fmt.Fprintf(&b, "  %s [shape=ellipse, style=filled, fillcolor=lightblue];\n", quote(f))
	}
	for _, r := range g.ruleOrder {
		fmt.Fprintf(&b, "  %s [shape=box, style=filled, fillcolor=lightgreen, tooltip=%s];\n",
			quote(ruleNodeID(r)), quote(g.rules[r]))
	}
	for _, e := range g.edgeOrder {
		fmt.Fprintf(&b, "  %s -> %s;\n", quote(e.from), quote(e.to))
	}

	b.WriteString("}\n")
	return b.String()
}

func ruleNodeID(name string) string {
	return "Rule: " + name
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
