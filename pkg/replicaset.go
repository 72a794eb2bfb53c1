package keyspace

// replicaset.go defines ReplicaSet, the ordered (primary-first) list of
// nodes that serve one shard. Go has no const generics, so unlike the
// original Rust crate's `ReplicaSet<N, const RF: usize>` -- a fixed-size
// array baked into the type -- a Go ReplicaSet is just a slice; the
// replication factor lives on the Keyspace that produced it, not on the
// type itself.
//
// Equality is set equality, not sequence equality: two replica sets holding
// the same nodes in different orders are equal. This mirrors
// original_source/src/replication.rs's ReplicaSet PartialEq, which compares
// via a BTreeSet rather than index-by-index, and is what lets the migration
// planner (migration.go) treat a pure reordering (e.g. after a primary
// failover) as "no data movement needed".
//
// © 2025 keyspace authors. MIT License.

// ReplicaSet is the list of nodes holding one shard, primary first.
type ReplicaSet[ID comparable] struct {
	ids []ID
}

// Primary returns the first (primary) replica. It panics if the set is
// empty, which never happens for a replica set produced by a Keyspace with
// at least one node.
func (r ReplicaSet[ID]) Primary() ID {
	return r.ids[0]
}

// IDs returns the replica set's member ids, primary first.
func (r ReplicaSet[ID]) IDs() []ID {
	out := make([]ID, len(r.ids))
	copy(out, r.ids)
	return out
}

// Len returns the number of replicas.
func (r ReplicaSet[ID]) Len() int {
	return len(r.ids)
}

// Contains reports whether id is a member of the set, regardless of
// position.
func (r ReplicaSet[ID]) Contains(id ID) bool {
	for _, v := range r.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Equal reports whether r and other hold the same set of ids, ignoring
// order.
func (r ReplicaSet[ID]) Equal(other ReplicaSet[ID]) bool {
	if len(r.ids) != len(other.ids) {
		return false
	}
	for _, id := range r.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// difference returns the ids present in r but absent from other -- the
// nodes a shard is leaving when its replica set changes from r to other.
func (r ReplicaSet[ID]) difference(other ReplicaSet[ID]) []ID {
	var out []ID
	for _, id := range r.ids {
		if !other.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}
