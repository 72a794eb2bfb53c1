package keyspace

// nodes.go implements Nodes[ID], the container that owns every node known to
// a keyspace and hands out stable, recyclable uint32 handles for them. The
// sharding engine (internal/sharding) works exclusively in terms of these
// handles so that it never needs to know anything about ID or about full
// Node values; Nodes is what translates between the two worlds.
//
// The free-list index recycling scheme is grounded directly in the original
// Rust crate's node table (original_source/src/node.rs), which keeps a
// `free_list: VecDeque<NodeIdx>` of indices freed by removal and reuses them
// before growing the backing vector. The benefit carries over unchanged to
// Go: the sharding engine's raw tables reference nodes by small, tightly
// packed handles (resolved back to ids by buildShards), and removing and re-adding nodes does not
// make the backing slice grow without bound.
//
// © 2025 keyspace authors. MIT License.

import (
	"fmt"

	"github.com/farazdagi/keyspace/internal/sharding"
)

type nodeEntry[ID comparable] struct {
	node   Node[ID]
	idHash uint64
	// alive distinguishes a live slot from one sitting on the free list; a
	// freed slot is reset to the zero entry (no node, alive false) until the
	// next Insert reuses it, and must never be visible to readers.
	alive bool
}

// Nodes is the set of nodes known to a keyspace, addressable both by ID and
// by a dense uint32 handle suitable for passing to internal/sharding.
//
// A Nodes value is not safe for concurrent use; Keyspace serializes all
// mutation through a single writer and only ever exposes immutable snapshots
// to readers (see keyspace.go).
type Nodes[ID comparable] struct {
	byID    map[ID]uint32
	entries []nodeEntry[ID]
	free    []uint32
}

// NewNodes constructs an empty node table.
func NewNodes[ID comparable]() *Nodes[ID] {
	return &Nodes[ID]{byID: make(map[ID]uint32)}
}

// Len returns the number of live nodes.
func (n *Nodes[ID]) Len() int {
	return len(n.byID)
}

// Contains reports whether id is currently present.
func (n *Nodes[ID]) Contains(id ID) bool {
	_, ok := n.byID[id]
	return ok
}

// Get returns the node registered under id, if any.
func (n *Nodes[ID]) Get(id ID) (Node[ID], bool) {
	idx, ok := n.byID[id]
	if !ok {
		return nil, false
	}
	return n.entries[idx].node, true
}

// Insert adds node to the table, returning its handle. It is an error to
// insert a node whose ID is already present; callers wanting upsert
// semantics should Remove first.
func (n *Nodes[ID]) Insert(node Node[ID]) (uint32, error) {
	id := node.ID()
	if _, exists := n.byID[id]; exists {
		return 0, fmt.Errorf("keyspace: node %v already present", id)
	}

	entry := nodeEntry[ID]{node: node, idHash: idHash(id), alive: true}

	if k := len(n.free); k > 0 {
		idx := n.free[k-1]
		n.free = n.free[:k-1]
		n.entries[idx] = entry
		n.byID[id] = idx
		return idx, nil
	}

	idx := uint32(len(n.entries))
	n.entries = append(n.entries, entry)
	n.byID[id] = idx
	return idx, nil
}

// Remove drops id from the table, recycling its handle for reuse by a future
// Insert. Removing an absent id is a no-op.
func (n *Nodes[ID]) Remove(id ID) {
	idx, ok := n.byID[id]
	if !ok {
		return
	}
	delete(n.byID, id)
	n.entries[idx] = nodeEntry[ID]{}
	n.free = append(n.free, idx)
}

// IDs returns the ids of every live node, in no particular order.
func (n *Nodes[ID]) IDs() []ID {
	out := make([]ID, 0, len(n.byID))
	for id := range n.byID {
		out = append(out, id)
	}
	return out
}

// NodeAt returns the node registered at handle idx. It panics if idx does
// not refer to a live slot; callers only ever obtain idx values from Insert
// or from a shard table built against this exact Nodes value, so an invalid
// idx indicates an internal invariant violation, not caller error.
func (n *Nodes[ID]) NodeAt(idx uint32) Node[ID] {
	e := n.entries[idx]
	if !e.alive {
		panic("keyspace: stale node handle")
	}
	return e.node
}

// IDAt returns the id of the node registered at handle idx.
func (n *Nodes[ID]) IDAt(idx uint32) ID {
	return n.NodeAt(idx).ID()
}

// candidates returns every live node as a sharding.Candidate, the opaque
// view internal/sharding builds replica sets from.
func (n *Nodes[ID]) candidates() []sharding.Candidate {
	out := make([]sharding.Candidate, 0, len(n.byID))
	for idx, e := range n.entries {
		if !e.alive {
			continue
		}
		out = append(out, sharding.Candidate{
			Idx:      uint32(idx),
			IDHash:   e.idHash,
			Capacity: capacityOf[ID](e.node),
		})
	}
	return out
}

// Clone returns a deep-enough copy of n: a mutation made to the clone (or to
// the nodes it was cloned from) never affects the other. Node values
// themselves are shared, matching the immutable-value convention the rest
// of the package expects of Node implementations.
func (n *Nodes[ID]) Clone() *Nodes[ID] {
	clone := &Nodes[ID]{
		byID:    make(map[ID]uint32, len(n.byID)),
		entries: make([]nodeEntry[ID], len(n.entries)),
		free:    append([]uint32(nil), n.free...),
	}
	for id, idx := range n.byID {
		clone.byID[id] = idx
	}
	copy(clone.entries, n.entries)
	return clone
}
