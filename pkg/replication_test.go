package keyspace

import "testing"

type zonedNode struct {
	id   string
	zone string
}

func (z zonedNode) ID() string   { return z.id }
func (z zonedNode) Zone() string { return z.zone }

func TestDefaultReplicationStrategy_AcceptsEverything(t *testing.T) {
	nodes := NewNodes[string]()
	filter := DefaultReplicationStrategy[string]{}.NewFilter(nodes)
	for i := uint32(0); i < 5; i++ {
		if !filter.Accept(i) {
			t.Fatalf("default strategy rejected candidate %d", i)
		}
	}
}

func TestZoneAwareStrategy_OneReplicaPerZone(t *testing.T) {
	nodes := NewNodes[string]()
	ids := []zonedNode{
		{"a", "z1"}, {"b", "z1"}, {"c", "z2"}, {"d", "z3"},
	}
	for _, n := range ids {
		if _, err := nodes.Insert(n); err != nil {
			t.Fatal(err)
		}
	}

	strategy := NewZoneAwareStrategy[string]()
	filter := strategy.NewFilter(nodes)

	accepted := 0
	for _, n := range ids {
		idx, _ := nodes.byID[n.id]
		if filter.Accept(idx) {
			accepted++
		}
	}
	// a and b share z1: only the first one scanned is accepted.
	if accepted != 3 {
		t.Fatalf("expected 3 accepted (one per zone), got %d", accepted)
	}
}

func TestZoneAwareStrategy_FreshPerShard(t *testing.T) {
	nodes := NewNodes[string]()
	nodes.Insert(zonedNode{"a", "z1"})
	idx := nodes.byID["a"]

	strategy := NewZoneAwareStrategy[string]()

	f1 := strategy.NewFilter(nodes)
	if !f1.Accept(idx) {
		t.Fatal("first filter should accept the only node in its zone")
	}

	f2 := strategy.NewFilter(nodes)
	if !f2.Accept(idx) {
		t.Fatal("a fresh filter for a new shard must not remember state from a previous shard")
	}
}

func TestZoneOf_FallsBackToIDForUnzonedNodes(t *testing.T) {
	if got := zoneOf[string](StringNode("solo")); got != "solo" {
		t.Fatalf("zoneOf fallback = %q, want %q", got, "solo")
	}
}
