package sharding

import (
	"fmt"
	"testing"

	"github.com/farazdagi/keyspace/internal/hash"
)

func acceptAll() StrategyFactory {
	return func() Strategy { return acceptAllStrategy{} }
}

type acceptAllStrategy struct{}

func (acceptAllStrategy) Accept(uint32) bool { return true }

func idHashOf(id string) uint64 {
	h := hash.NewHasher()
	h.WriteString(id)
	return h.Sum64()
}

func candidatesFor(n int) []Candidate {
	out := make([]Candidate, n)
	for i := 0; i < n; i++ {
		out[i] = Candidate{Idx: uint32(i), IDHash: idHashOf(fmt.Sprintf("node%d", i)), Capacity: 1}
	}
	return out
}

func TestBuild_NotEnoughCandidates(t *testing.T) {
	_, err := Build(candidatesFor(2), 3, acceptAll())
	if err != ErrNotEnoughCandidates {
		t.Fatalf("got %v, want ErrNotEnoughCandidates", err)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	cands := candidatesFor(10)
	t1, err := Build(cands, 3, acceptAll())
	if err != nil {
		t.Fatal(err)
	}
	t2, err := Build(cands, 3, acceptAll())
	if err != nil {
		t.Fatal(err)
	}
	for i := range t1 {
		if len(t1[i]) != len(t2[i]) {
			t.Fatalf("shard %d: length mismatch", i)
		}
		for j := range t1[i] {
			if t1[i][j] != t2[i][j] {
				t.Fatalf("shard %d: replica set differs across runs", i)
			}
		}
	}
}

func TestBuild_ReplicaSetSize(t *testing.T) {
	const rf = 3
	table, err := Build(candidatesFor(10), rf, acceptAll())
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != NumShards {
		t.Fatalf("got %d shards, want %d", len(table), NumShards)
	}
	for i, set := range table {
		if len(set) != rf {
			t.Fatalf("shard %d: got %d replicas, want %d", i, len(set), rf)
		}
		seen := make(map[uint32]bool, rf)
		for _, idx := range set {
			if seen[idx] {
				t.Fatalf("shard %d: duplicate replica %d", i, idx)
			}
			seen[idx] = true
		}
	}
}

func TestBuild_BalanceWithinTolerance(t *testing.T) {
	const n = 10
	table, err := Build(candidatesFor(n), 1, acceptAll())
	if err != nil {
		t.Fatal(err)
	}
	counts := make(map[uint32]int, n)
	for _, set := range table {
		counts[set[0]]++
	}
	min, max := NumShards, 0
	for _, c := range counts {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	if float64(max-min) > 0.07*float64(max) {
		t.Fatalf("primary distribution too skewed: min=%d max=%d", min, max)
	}
}

// rejectingStrategy accepts nothing, forcing every shard to come up short.
type rejectingStrategy struct{}

func (rejectingStrategy) Accept(uint32) bool { return false }

func TestBuild_IncompleteReplicaSet(t *testing.T) {
	_, err := Build(candidatesFor(5), 2, func() Strategy { return rejectingStrategy{} })
	if err != ErrIncompleteReplicaSet {
		t.Fatalf("got %v, want ErrIncompleteReplicaSet", err)
	}
}

func TestBuild_MinimalPerturbation(t *testing.T) {
	before, err := Build(candidatesFor(64), 3, acceptAll())
	if err != nil {
		t.Fatal(err)
	}
	after, err := Build(candidatesFor(65), 3, acceptAll())
	if err != nil {
		t.Fatal(err)
	}

	changed := 0
	for i := range before {
		if !setsEqualIgnoringOrder(before[i], after[i]) {
			changed++
		}
	}
	// Adding one node out of 65 should change some, but not all, shards.
	if changed == 0 || changed == NumShards {
		t.Fatalf("expected a partial reshuffle, got %d/%d shards changed", changed, NumShards)
	}
}

func setsEqualIgnoringOrder(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	count := make(map[uint32]int, len(a))
	for _, v := range a {
		count[v]++
	}
	for _, v := range b {
		count[v]--
	}
	for _, c := range count {
		if c != 0 {
			return false
		}
	}
	return true
}
