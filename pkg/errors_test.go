package keyspace

import "testing"

func TestNotEnoughNodes_Predicate(t *testing.T) {
	err := errNotEnoughNodesFor(3)
	rf, ok := NotEnoughNodes(err)
	if !ok || rf != 3 {
		t.Fatalf("NotEnoughNodes = (%d, %v), want (3, true)", rf, ok)
	}
	if _, ok := NotEnoughNodes(errIncompleteReplicaSetErr()); ok {
		t.Fatal("predicate should not match an unrelated error kind")
	}
}

func TestIsIncompleteReplicaSet_Predicate(t *testing.T) {
	if !IsIncompleteReplicaSet(errIncompleteReplicaSetErr()) {
		t.Fatal("expected predicate to match")
	}
	if IsIncompleteReplicaSet(errNotEnoughNodesFor(1)) {
		t.Fatal("predicate should not match an unrelated error kind")
	}
}

func TestIsInvalidReplicationFactor_Predicate(t *testing.T) {
	if !IsInvalidReplicationFactor(errInvalidReplicationFactorFor(0)) {
		t.Fatal("expected predicate to match")
	}
}

func TestKeyspaceError_MessagesAreDistinct(t *testing.T) {
	errs := []error{
		errNotEnoughNodesFor(3),
		errIncompleteReplicaSetErr(),
		errShardCountMismatchErr(),
		errInvalidReplicationFactorFor(-1),
	}
	seen := make(map[string]bool)
	for _, e := range errs {
		msg := e.Error()
		if seen[msg] {
			t.Fatalf("duplicate error message: %q", msg)
		}
		seen[msg] = true
	}
}
