package keyspace

import "testing"

func TestNodes_InsertGetRemove(t *testing.T) {
	n := NewNodes[string]()

	if _, err := n.Insert(StringNode("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := n.Insert(StringNode("b")); err != nil {
		t.Fatal(err)
	}
	if n.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", n.Len())
	}
	if !n.Contains("a") {
		t.Fatal("expected node a to be present")
	}

	n.Remove("a")
	if n.Contains("a") {
		t.Fatal("node a should be gone")
	}
	if n.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", n.Len())
	}
}

func TestNodes_InsertDuplicateErrors(t *testing.T) {
	n := NewNodes[string]()
	if _, err := n.Insert(StringNode("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := n.Insert(StringNode("a")); err == nil {
		t.Fatal("expected error inserting duplicate id")
	}
}

func TestNodes_IndexRecycling(t *testing.T) {
	n := NewNodes[string]()
	idxA, _ := n.Insert(StringNode("a"))
	n.Remove("a")
	idxB, err := n.Insert(StringNode("b"))
	if err != nil {
		t.Fatal(err)
	}
	if idxB != idxA {
		t.Fatalf("expected freed handle %d to be recycled, got %d", idxA, idxB)
	}
}

func TestNodes_Clone_Independent(t *testing.T) {
	n := NewNodes[string]()
	n.Insert(StringNode("a"))

	clone := n.Clone()
	clone.Insert(StringNode("b"))

	if n.Contains("b") {
		t.Fatal("mutating the clone must not affect the original")
	}
	if !clone.Contains("a") || !clone.Contains("b") {
		t.Fatal("clone should retain original nodes plus its own mutation")
	}
}

func TestNodes_CapacityDefaultsToOne(t *testing.T) {
	n := NewNodes[string]()
	n.Insert(StringNode("a"))
	cands := n.candidates()
	if len(cands) != 1 || cands[0].Capacity != 1 {
		t.Fatalf("expected default capacity 1, got %+v", cands)
	}
}

func TestNodes_CapacityHonored(t *testing.T) {
	n := NewNodes[string]()
	n.Insert(WeightedStringNode{Id: "a", Cap: 5})
	cands := n.candidates()
	if len(cands) != 1 || cands[0].Capacity != 5 {
		t.Fatalf("expected capacity 5, got %+v", cands)
	}
}
