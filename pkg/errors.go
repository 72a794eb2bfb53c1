package keyspace

// errors.go defines the error surface of the keyspace manager. Mutation
// entry points return one of these, except that inserting a node whose id is
// already present returns Nodes.Insert's plain error; no error is recovered
// internally, and on
// any error the keyspace is left exactly as it was before the call (version
// not incremented, shard table not replaced).
//
// © 2025 keyspace authors. MIT License.

import (
	"errors"
	"fmt"
)

// KeyspaceError is the error type returned by keyspace mutations (see the
// file comment for the one exception).
type KeyspaceError struct {
	kind errorKind
	rf   int
}

type errorKind uint8

const (
	errNotEnoughNodes errorKind = iota + 1
	errIncompleteReplicaSet
	errShardCountMismatch
	errInvalidReplicationFactor
)

func (e *KeyspaceError) Error() string {
	switch e.kind {
	case errNotEnoughNodes:
		return fmt.Sprintf("keyspace: not enough nodes for replication factor %d", e.rf)
	case errIncompleteReplicaSet:
		return "keyspace: incomplete replica set"
	case errShardCountMismatch:
		return "keyspace: shard count mismatch (internal invariant violated)"
	case errInvalidReplicationFactor:
		return fmt.Sprintf("keyspace: invalid replication factor %d, must be > 0", e.rf)
	default:
		return "keyspace: unknown error"
	}
}

// NotEnoughNodes reports whether err is a NotEnoughNodes error, and if so the
// replication factor that could not be satisfied.
func NotEnoughNodes(err error) (rf int, ok bool) {
	var ke *KeyspaceError
	if errors.As(err, &ke) && ke.kind == errNotEnoughNodes {
		return ke.rf, true
	}
	return 0, false
}

// IsIncompleteReplicaSet reports whether err was caused by a replication
// strategy rejecting so many candidates that a shard's replica set could not
// be filled.
func IsIncompleteReplicaSet(err error) bool {
	var ke *KeyspaceError
	return errors.As(err, &ke) && ke.kind == errIncompleteReplicaSet
}

// IsShardCountMismatch reports whether err reflects the internal invariant
// that old and new shard tables must have equal length. This should never be
// observable through the public API; if it is, treat it as a fatal bug.
func IsShardCountMismatch(err error) bool {
	var ke *KeyspaceError
	return errors.As(err, &ke) && ke.kind == errShardCountMismatch
}

func errNotEnoughNodesFor(rf int) error {
	return &KeyspaceError{kind: errNotEnoughNodes, rf: rf}
}

func errIncompleteReplicaSetErr() error {
	return &KeyspaceError{kind: errIncompleteReplicaSet}
}

func errShardCountMismatchErr() error {
	return &KeyspaceError{kind: errShardCountMismatch}
}

func errInvalidReplicationFactorFor(rf int) error {
	return &KeyspaceError{kind: errInvalidReplicationFactor, rf: rf}
}

// IsInvalidReplicationFactor reports whether err was caused by constructing
// a Keyspace with a replication factor that is not a positive integer.
func IsInvalidReplicationFactor(err error) bool {
	var ke *KeyspaceError
	return errors.As(err, &ke) && ke.kind == errInvalidReplicationFactor
}
