package keyspace

// keyrange.go defines the value types describing positions and ranges within
// the 64-bit key space: KeyPosition (a hashed key), ShardIdx (the top 16 bits
// of a position) and KeyRange (the half-open interval a shard governs).
//
// © 2025 keyspace authors. MIT License.

import "fmt"

// KeyPosition is the 64-bit hash of a key. Its top 16 bits select the shard
// that owns it.
type KeyPosition uint64

// ShardIdx identifies one of the NumShards fixed shards the key space is
// partitioned into.
type ShardIdx uint16

// NumShards is the number of shards the key space is always divided into.
// This is a wire-visible contract, not a tuning knob.
const NumShards = 1 << 16

// shardOf returns the shard owning position.
func shardOf(pos KeyPosition) ShardIdx {
	return ShardIdx(uint64(pos) >> 48)
}

// KeyRange is a half-open interval of the key space, `[start, end)`, except
// for the last shard which is unbounded above.
type KeyRange struct {
	start KeyPosition
	end   KeyPosition
	// unbounded is true only for the last shard (65535), whose range has no
	// upper edge (its "end" would overflow a 64-bit KeyPosition).
	unbounded bool
}

// NewKeyRange constructs a key range. A nil end produces an unbounded range
// (end of the key space).
func NewKeyRange(start KeyPosition, end *KeyPosition) KeyRange {
	if end == nil {
		return KeyRange{start: start, unbounded: true}
	}
	return KeyRange{start: start, end: *end}
}

// keyRangeOf returns the canonical key range governed by shard idx, per the
// fixed layout: `start = idx << 48`, `end = (idx+1) << 48`, with shard 65535
// unbounded above.
func keyRangeOf(idx ShardIdx) KeyRange {
	start := KeyPosition(uint64(idx) << 48)
	if idx == ShardIdx(NumShards-1) {
		return KeyRange{start: start, unbounded: true}
	}
	end := KeyPosition(uint64(idx+1) << 48)
	return KeyRange{start: start, end: end}
}

// Start returns the inclusive lower bound of the range.
func (r KeyRange) Start() KeyPosition { return r.start }

// End returns the exclusive upper bound of the range and whether the range
// is bounded at all (ok is false for the final, unbounded shard).
func (r KeyRange) End() (end KeyPosition, ok bool) {
	if r.unbounded {
		return 0, false
	}
	return r.end, true
}

// Contains reports whether pos falls within the range.
func (r KeyRange) Contains(pos KeyPosition) bool {
	if pos < r.start {
		return false
	}
	if r.unbounded {
		return true
	}
	return pos < r.end
}

func (r KeyRange) String() string {
	if r.unbounded {
		return fmt.Sprintf("[%d, inf)", r.start)
	}
	return fmt.Sprintf("[%d, %d)", r.start, r.end)
}
