package memstore

import (
	"testing"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
)

func TestWorkingMemoryPutGet(t *testing.T) {
	m := NewWorkingMemory()

	if m.Exists("fever") {
		t.Error("empty memory should not contain fever")
	}

	m.Put(kb.MustFact("fever", 0.9, "user input"))

	f, ok := m.Get("fever")
	if !ok {
		t.Fatal("fever should exist after Put")
	}
	if f.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", f.Confidence)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestWorkingMemoryLastWriteWins(t *testing.T) {
	m := NewWorkingMemory()
	m.Put(kb.MustFact("fever", 0.9, "user input"))
	m.Put(kb.MustFact("fever", 0.5, "Rule: R1"))

	f, _ := m.Get("fever")
	if f.Confidence != 0.5 || f.Source != "Rule: R1" {
		t.Errorf("fact after overwrite = %+v, want last write", f)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestWorkingMemorySnapshotIsolation(t *testing.T) {
	m := NewWorkingMemory()
	m.Put(kb.MustFact("fever", 1.0, ""))

	snap := m.Snapshot()
	snap["fever"] = kb.MustFact("fever", 0.1, "tampered")
	delete(snap, "fever")

	f, ok := m.Get("fever")
	if !ok || f.Confidence != 1.0 {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestWorkingMemoryClear(t *testing.T) {
	m := NewWorkingMemory()
	m.Put(kb.MustFact("fever", 1.0, ""))
	m.Put(kb.MustFact("headache", 1.0, ""))
	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", m.Len())
	}
}

func TestWorkingMemoryStatementsSorted(t *testing.T) {
	m := NewWorkingMemory()
	m.Put(kb.MustFact("headache", 1.0, ""))
	m.Put(kb.MustFact("fever", 1.0, ""))
	m.Put(kb.MustFact("body_ache", 1.0, ""))

	got := m.Statements()
	want := []string{"body_ache", "fever", "headache"}
	if len(got) != len(want) {
		t.Fatalf("Statements() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Statements() = %v, want %v", got, want)
		}
	}
}

func TestKnowledgeBaseInsertionOrder(t *testing.T) {
	b := NewKnowledgeBase()
	b.Put(kb.MustRule("R2", []string{"possible_flu"}, []string{"likely_flu"}, ""))
	b.Put(kb.MustRule("R1", []string{"fever"}, []string{"possible_flu"}, ""))
	b.Put(kb.MustRule("R3", []string{"likely_flu"}, []string{"flu"}, ""))

	all := b.All()
	wantOrder := []string{"R2", "R1", "R3"}
	for i, name := range wantOrder {
		if all[i].Name != name {
			t.Fatalf("All() order = %v, want %v", ruleNames(all), wantOrder)
		}
	}
}

func TestKnowledgeBaseOverwriteKeepsPosition(t *testing.T) {
	b := NewKnowledgeBase()
	b.Put(kb.MustRule("R1", []string{"a"}, []string{"b"}, ""))
	b.Put(kb.MustRule("R2", []string{"b"}, []string{"c"}, ""))
	b.Put(kb.MustRule("R1", []string{"a"}, []string{"b"}, "updated"))

	all := b.All()
	if len(all) != 2 {
		t.Fatalf("Len = %d, want 2", len(all))
	}
	if all[0].Name != "R1" || all[0].Description != "updated" {
		t.Errorf("overwritten rule should keep its position, got order %v", ruleNames(all))
	}
}

func TestKnowledgeBaseSnapshotIsolation(t *testing.T) {
	b := NewKnowledgeBase()
	b.Put(kb.MustRule("R1", []string{"a"}, []string{"b"}, ""))

	snap := b.Snapshot()
	delete(snap, "R1")

	if !b.Exists("R1") {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestKnowledgeBaseReadsCloneSlices(t *testing.T) {
	b := NewKnowledgeBase()
	b.Put(kb.MustRule("R1", []string{"fever", "headache"}, []string{"possible_flu"}, ""))

	r, _ := b.Get("R1")
	r.Antecedents[0] = "tampered"
	b.Snapshot()["R1"].Antecedents[1] = "tampered"
	b.All()[0].Consequents[0] = "tampered"

	stored, _ := b.Get("R1")
	if stored.Antecedents[0] != "fever" || stored.Antecedents[1] != "headache" {
		t.Errorf("antecedents after mutation = %v, want original", stored.Antecedents)
	}
	if stored.Consequents[0] != "possible_flu" {
		t.Errorf("consequents after mutation = %v, want original", stored.Consequents)
	}
}

func TestKnowledgeBaseClear(t *testing.T) {
	b := NewKnowledgeBase()
	b.Put(kb.MustRule("R1", []string{"a"}, []string{"b"}, ""))
	b.Clear()
	if b.Len() != 0 || len(b.All()) != 0 {
		t.Error("Clear should empty the store and its order")
	}

	// Re-adding after Clear starts a fresh order.
	b.Put(kb.MustRule("R9", []string{"a"}, []string{"b"}, ""))
	if all := b.All(); len(all) != 1 || all[0].Name != "R9" {
		t.Errorf("All() after Clear+Put = %v", ruleNames(all))
	}
}

func ruleNames(rules []kb.Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}
