package keyspace

// keyspace.go implements Keyspace[ID], the top-level, concurrency-safe
// handle this package exists to provide: a fixed NumShards-way partition of
// the key space, replicated rf ways across a changing set of nodes, with
// every mutation producing a MigrationPlan describing the data movement it
// requires.
//
// Concurrency follows the copy-on-write, single-writer model: all state
// reachable by readers lives in one immutable *snapshot, swapped in by
// atomic.Pointer.Store after a mutation has built its replacement in full.
// Readers calling Replicas/Position never block on a writer and never
// observe a partially-built shard table. This mirrors the atomic
// generation-counter swap in
// _examples/Voskan-arena-cache/internal/genring/genring.go, generalized
// from a single rotating counter to a whole replacement object graph.
//
// © 2025 keyspace authors. MIT License.

import (
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type snapshot[ID comparable] struct {
	nodes   *Nodes[ID]
	shards  *shardTable[ID]
	version uint64
}

// Keyspace maps keys to replica sets over a changing set of nodes. The zero
// value is not usable; construct one with New.
//
// All read operations (Replicas, ReplicasForKey, ReplicasForKeyBytes,
// Version, NodeCount, Node, Iter, IterNode) are lock-free and safe for concurrent use. Mutations (AddNode, RemoveNode,
// UpdateNodes) are serialized against each other by an internal mutex, but
// never block concurrent readers.
type Keyspace[ID comparable] struct {
	rf       int
	strategy ReplicationStrategy[ID]
	logger   *zap.Logger
	metrics  metricsSink

	mu   sync.Mutex // serializes mutations only; readers never take it
	snap atomic.Pointer[snapshot[ID]]
}

// New constructs a Keyspace from an initial set of nodes, at version 0. All
// opts are optional; WithReplicationFactor defaults to 3 if not given.
func New[ID comparable](nodes []Node[ID], opts ...Option[ID]) (*Keyspace[ID], error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	table := NewNodes[ID]()
	for _, n := range nodes {
		if _, err := table.Insert(n); err != nil {
			return nil, err
		}
	}

	shards, err := buildShards(table, cfg.rf, cfg.strategy)
	if err != nil {
		return nil, err
	}

	ks := &Keyspace[ID]{
		rf:       cfg.rf,
		strategy: cfg.strategy,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
	}
	// Version starts at 0: the initial build is not a mutation, and the
	// first successful AddNode/RemoveNode/UpdateNodes call is what reaches
	// version 1.
	ks.snap.Store(&snapshot[ID]{nodes: table, shards: shards, version: 0})
	ks.metrics.incBuild()
	ks.metrics.setNodeCount(table.Len())
	ks.metrics.setVersion(0)
	return ks, nil
}

func (k *Keyspace[ID]) current() *snapshot[ID] {
	return k.snap.Load()
}

// Version returns the current mutation counter, incremented by one on
// every successful AddNode/RemoveNode/UpdateNodes call. Two Keyspace reads
// observing the same Version are guaranteed to see identical shard
// assignments.
func (k *Keyspace[ID]) Version() uint64 {
	return k.current().version
}

// NodeCount returns the number of nodes currently in the keyspace.
func (k *Keyspace[ID]) NodeCount() int {
	return k.current().nodes.Len()
}

// Replicas returns the replica set serving shard idx.
func (k *Keyspace[ID]) Replicas(idx ShardIdx) ReplicaSet[ID] {
	return k.current().shards.at(idx)
}

// ReplicasForKey returns the replica set serving pos.
func (k *Keyspace[ID]) ReplicasForKey(pos KeyPosition) ReplicaSet[ID] {
	return k.Replicas(shardOf(pos))
}

// ReplicasForKeyBytes hashes key and returns the replica set serving it.
func (k *Keyspace[ID]) ReplicasForKeyBytes(key []byte) ReplicaSet[ID] {
	return k.ReplicasForKey(Position(key))
}

// Node returns the node registered under id in the current snapshot, if any.
func (k *Keyspace[ID]) Node(id ID) (Node[ID], bool) {
	return k.current().nodes.Get(id)
}

// Iter returns an iterator over the full current assignment: one (key
// range, replica id) pair per replica of every shard, in shard order,
// primary first within a shard. For rf replicas and NumShards shards this
// yields exactly NumShards*rf pairs.
func (k *Keyspace[ID]) Iter() iter.Seq2[KeyRange, ID] {
	snap := k.current()
	return func(yield func(KeyRange, ID) bool) {
		for i := 0; i < snap.shards.len(); i++ {
			idx := ShardIdx(i)
			kr := keyRangeOf(idx)
			for _, id := range snap.shards.at(idx).ids {
				if !yield(kr, id) {
					return
				}
			}
		}
	}
}

// IterNode returns an iterator over every key range on which id currently
// serves as any replica (primary or secondary), in shard order.
func (k *Keyspace[ID]) IterNode(id ID) iter.Seq[KeyRange] {
	snap := k.current()
	return func(yield func(KeyRange) bool) {
		for i := 0; i < snap.shards.len(); i++ {
			idx := ShardIdx(i)
			if snap.shards.at(idx).Contains(id) {
				if !yield(keyRangeOf(idx)) {
					return
				}
			}
		}
	}
}

// mutate runs fn against a clone of the current node table, rebuilds the
// shard table, diffs it against the previous one, and -- only if every step
// succeeds -- atomically publishes the result. On any error the keyspace is
// left completely unchanged.
func (k *Keyspace[ID]) mutate(kind string, fn func(*Nodes[ID]) error) (*MigrationPlan[ID], error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	start := time.Now()
	prev := k.current()

	next := prev.nodes.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}

	shards, err := buildShards(next, k.rf, k.strategy)
	if err != nil {
		return nil, err
	}

	plan, err := diffShardTables(prev.shards, shards)
	if err != nil {
		k.logger.Error("internal invariant violated diffing shard tables",
			zap.String("mutation", kind), zap.Error(err))
		return nil, err
	}

	version := prev.version + 1
	k.snap.Store(&snapshot[ID]{nodes: next, shards: shards, version: version})

	k.metrics.incMutation(kind)
	k.metrics.setNodeCount(next.Len())
	k.metrics.setVersion(version)
	k.metrics.observeMigration(planSize(plan))

	k.logger.Debug("keyspace mutated",
		zap.String("kind", kind),
		zap.Uint64("version", version),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("nodes", next.Len()))

	return plan, nil
}

func planSize[ID comparable](p *MigrationPlan[ID]) int {
	n := 0
	for _, id := range p.Targets() {
		n += len(p.Pulls(id))
	}
	return n
}

// AddNode adds node to the keyspace and rebalances. It returns the
// migration plan describing what each affected node must pull to reach the
// new shard assignment.
func (k *Keyspace[ID]) AddNode(node Node[ID]) (*MigrationPlan[ID], error) {
	return k.mutate("add_node", func(n *Nodes[ID]) error {
		_, err := n.Insert(node)
		return err
	})
}

// RemoveNode removes the node with the given id and rebalances.
func (k *Keyspace[ID]) RemoveNode(id ID) (*MigrationPlan[ID], error) {
	return k.mutate("remove_node", func(n *Nodes[ID]) error {
		n.Remove(id)
		return nil
	})
}

// UpdateNodes applies a batch of additions and removals atomically: the
// resulting shard table reflects every change at once, producing a single
// migration plan instead of one per individual change. If an id appears in
// both add and remove, the addition wins -- the node ends up present. This
// resolves an open question the specification leaves to implementers in
// favor of the least surprising behavior: a caller batching "replace node A
// with node A', same id" expects A' to end up in the keyspace.
func (k *Keyspace[ID]) UpdateNodes(add []Node[ID], remove []ID) (*MigrationPlan[ID], error) {
	return k.mutate("update_nodes", func(n *Nodes[ID]) error {
		for _, id := range remove {
			n.Remove(id)
		}
		for _, node := range add {
			if n.Contains(node.ID()) {
				n.Remove(node.ID())
			}
			if _, err := n.Insert(node); err != nil {
				return err
			}
		}
		return nil
	})
}
