// Package sharding builds the 65536-entry shard table that assigns every key
// range to an ordered set of nodes, using HRW (rendezvous) scoring filtered
// through a caller-supplied eligibility strategy.
//
// The package knows nothing about the domain types (Node, ReplicaSet,
// Keyspace) defined in pkg/ -- it works purely in terms of opaque uint32
// candidate handles, so pkg can import it without creating a cycle. pkg is
// responsible for resolving those handles back to real nodes.
//
// © 2025 keyspace authors. MIT License.
package sharding

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/farazdagi/keyspace/internal/hash"
)

// NumShards is the fixed number of shards the keyspace is partitioned into.
// ShardIdx, the index into the table Build returns, ranges over
// [0, NumShards).
const NumShards = 1 << 16

var (
	// ErrNotEnoughCandidates is returned when fewer candidates than the
	// replication factor are available at all.
	ErrNotEnoughCandidates = errors.New("sharding: fewer candidates than the replication factor")

	// ErrIncompleteReplicaSet is returned when a strategy rejects so many
	// candidates that some shard cannot fill its replica set.
	ErrIncompleteReplicaSet = errors.New("sharding: strategy left a replica set incomplete")
)

// Candidate is a node eligible for selection, described only by what the HRW
// scoring and strategy filtering need: an opaque handle, a precomputed
// stable hash of its identity, and its capacity (selection weight).
type Candidate struct {
	Idx      uint32
	IDHash   uint64
	Capacity int
}

// Strategy decides, once per shard, whether a candidate may join the replica
// set under construction. Implementations may keep state across calls
// within one shard (e.g. "zones already used") but a fresh instance is
// requested per shard via StrategyFactory.
type Strategy interface {
	Accept(idx uint32) bool
}

// StrategyFactory produces a Strategy instance scoped to a single shard.
type StrategyFactory func() Strategy

// Build constructs the full shard table: for every shard index, candidates
// are ordered by descending weighted-HRW score and the first rf accepted by
// a fresh Strategy become that shard's replica set, primary (highest score)
// first.
//
// The computation is independent per shard, so it is fanned out across
// GOMAXPROCS workers via errgroup; this keeps construction of a 65536-shard
// table fast enough to run synchronously on every keyspace mutation.
func Build(candidates []Candidate, rf int, newStrategy StrategyFactory) ([][]uint32, error) {
	if rf <= 0 {
		return nil, errors.New("sharding: replication factor must be positive")
	}
	if len(candidates) < rf {
		return nil, ErrNotEnoughCandidates
	}

	table := make([][]uint32, NumShards)

	workers := runtime.GOMAXPROCS(0)
	if workers > NumShards {
		workers = NumShards
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (NumShards + workers - 1) / workers

	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= NumShards {
			break
		}
		end := start + chunk
		if end > NumShards {
			end = NumShards
		}

		g.Go(func() error {
			h := hash.NewHasher()
			scored := make([]scoredCandidate, len(candidates))
			for shardIdx := start; shardIdx < end; shardIdx++ {
				scoreAll(h, candidates, uint16(shardIdx), scored)
				sortByScoreDesc(scored)

				strategy := newStrategy()
				set := make([]uint32, 0, rf)
				for _, c := range scored {
					if !strategy.Accept(c.idx) {
						continue
					}
					set = append(set, c.idx)
					if len(set) == rf {
						break
					}
				}
				if len(set) < rf {
					return ErrIncompleteReplicaSet
				}
				table[shardIdx] = set
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}

type scoredCandidate struct {
	idx    uint32
	idHash uint64
	score  float64
}

// scoreAll fills scored with the weighted HRW score of every candidate for
// shardIdx, reusing h's buffer across calls.
func scoreAll(h *hash.Hasher, candidates []Candidate, shardIdx uint16, scored []scoredCandidate) {
	for i, c := range candidates {
		scored[i] = scoredCandidate{
			idx:    c.Idx,
			idHash: c.IDHash,
			score:  hrwScore(h, shardIdx, c.IDHash, c.Capacity),
		}
	}
}

// hrwScore computes the weighted rendezvous-hashing score of a (shard,
// candidate) pair: rawHash(shard, id) is mapped to a uniform u in (0, 1),
// and the score is capacity / -ln(u), the standard weighted-HRW formula
// (Thaler). For equal capacities this is a strictly monotonic function of
// rawHash, so the unweighted ranking (and hence minimal-perturbation
// property) is preserved; capacity only skews the distribution of wins in
// proportion to weight.
func hrwScore(h *hash.Hasher, shardIdx uint16, idHash uint64, capacity int) float64 {
	h.Reset()
	h.WriteUint16(shardIdx)
	h.WriteUint64(idHash)
	raw := h.Sum64()

	u := unitInterval(raw)
	if capacity <= 0 {
		capacity = 1
	}
	return float64(capacity) / -math.Log(u)
}

// unitInterval maps a 64-bit hash to (0, 1), using the top 53 bits for full
// float64 mantissa precision and OR-ing in 1 to guarantee a strictly
// positive result (log(0) is undefined).
func unitInterval(raw uint64) float64 {
	v := (raw >> 11) | 1
	return float64(v) * (1.0 / (1 << 53))
}

// sortByScoreDesc orders candidates by descending score, breaking exact ties
// (vanishingly rare, but possible on hash collisions) deterministically by
// ascending identity hash so that the result never depends on sort
// stability or input order.
func sortByScoreDesc(scored []scoredCandidate) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].idHash < scored[j].idHash
	})
}
