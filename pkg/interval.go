package keyspace

// interval.go defines Interval, the unit a MigrationPlan is made of: a
// contiguous key range paired with the set of nodes that must be pulled
// from to fill it. Grounded in original_source/src/interval.rs's
// Interval<NODES>, simplified from its generic NODES-container abstraction
// to a plain []ID slice, since a migration interval only ever needs to name
// source node ids, never full Node values.
//
// © 2025 keyspace authors. MIT License.

// Interval is one contiguous range of the key space that a node must pull
// from the given source nodes to complete a migration.
type Interval[ID comparable] struct {
	// Range is the contiguous key range being migrated.
	Range KeyRange
	// Sources lists the nodes that already hold this range's data, in the
	// old replica set's order (primary first) -- any one of them (or
	// several, for redundancy) may be used as the data source for the pull.
	Sources []ID
}
