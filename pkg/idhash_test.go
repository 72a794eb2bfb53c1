package keyspace

import "testing"

func TestIdHash_Deterministic(t *testing.T) {
	if idHash("node1") != idHash("node1") {
		t.Fatal("idHash must be deterministic for the same id")
	}
}

func TestIdHash_DifferentIdsDiffer(t *testing.T) {
	if idHash("node1") == idHash("node2") {
		t.Fatal("different ids should (almost certainly) hash differently")
	}
}

func TestIdHash_IntegerTypes(t *testing.T) {
	if idHash(int32(42)) != idHash(int32(42)) {
		t.Fatal("idHash must be deterministic for integer ids")
	}
}

func TestIdHash_IntegerWidthAffectsDigest(t *testing.T) {
	// int32(42) and int64(42) must not collide just because Go lets one
	// widen to the other -- each writes its own native byte width.
	if idHash(int32(42)) == idHash(int64(42)) {
		t.Fatal("ids of different integer width should not collide for the same numeric value")
	}
}

func TestPosition_Deterministic(t *testing.T) {
	if Position([]byte("key1")) != Position([]byte("key1")) {
		t.Fatal("Position must be deterministic")
	}
}

func TestPositionString_MatchesNodeStringConvention(t *testing.T) {
	// PositionString must use the exact same write convention as writeID for
	// strings, so that a StringNode id and an equal-valued key position
	// agree on which shard they land in.
	if PositionString("abc") != idHash(StringNode("abc").ID()) {
		t.Fatal("PositionString and idHash must agree for string ids")
	}
}
