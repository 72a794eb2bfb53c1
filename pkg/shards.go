package keyspace

// shards.go builds and holds the fixed NumShards-entry replica table: the
// resolved, per-shard ReplicaSet that internal/sharding.Build's opaque
// []uint32 handles turn into once matched back up against a Nodes table.
//
// © 2025 keyspace authors. MIT License.

import (
	"github.com/farazdagi/keyspace/internal/sharding"
)

// shardTable is the immutable result of one buildShards call: NumShards
// replica sets, indexed by ShardIdx.
type shardTable[ID comparable] struct {
	sets []ReplicaSet[ID]
}

func buildShards[ID comparable](nodes *Nodes[ID], rf int, strategy ReplicationStrategy[ID]) (*shardTable[ID], error) {
	raw, err := sharding.Build(nodes.candidates(), rf, strategyFactory(strategy, nodes))
	if err != nil {
		return nil, translateShardingErr(err, rf)
	}

	sets := make([]ReplicaSet[ID], len(raw))
	for i, handles := range raw {
		ids := make([]ID, len(handles))
		for j, idx := range handles {
			ids[j] = nodes.IDAt(idx)
		}
		sets[i] = ReplicaSet[ID]{ids: ids}
	}
	return &shardTable[ID]{sets: sets}, nil
}

func translateShardingErr(err error, rf int) error {
	switch err {
	case sharding.ErrNotEnoughCandidates:
		return errNotEnoughNodesFor(rf)
	case sharding.ErrIncompleteReplicaSet:
		return errIncompleteReplicaSetErr()
	default:
		return err
	}
}

// at returns the replica set governing shard idx.
func (t *shardTable[ID]) at(idx ShardIdx) ReplicaSet[ID] {
	return t.sets[idx]
}

// len returns the number of shards in the table. Always NumShards for a
// table produced by buildShards, but kept as a method so migration.go can
// assert the invariant without hardcoding the constant twice.
func (t *shardTable[ID]) len() int {
	return len(t.sets)
}
