package keyspace

// idhash.go computes the stable hash of a node's id. It mirrors the type
// switch arena-cache's shard.hash uses to avoid reflection for the common
// scalar/string cases (see _examples/Voskan-arena-cache/pkg/cache.go), with
// a text fallback for arbitrary comparable types instead of arena-cache's
// unsafe-pointer trick -- keyspace has no reason to read raw struct memory
// when fmt.Sprint already gives a stable, allocation-cheap-enough encoding
// for the rare custom id type.

import (
	"fmt"

	"github.com/farazdagi/keyspace/internal/hash"
)

// idHash returns the stable rapidhash v3 digest of a node id. The id type is
// type-switched to avoid an allocation-heavy generic path for the common
// cases (strings and the built-in integer types); anything else falls back
// to its default %v text form.
func idHash[ID comparable](id ID) uint64 {
	h := hash.NewHasher()
	writeID(h, id)
	return h.Sum64()
}

// Each integer width writes exactly its own number of bytes, matching the
// convention a derive(Hash)-style encoding uses: an i32 contributes 4 bytes,
// not 8, so a node id typed as int32 and one typed as int64 holding the same
// numeric value do not collide merely because Go let us widen one to the
// other's width (see internal/hash/rapidhash_test.go's "42" vector).
func writeID[ID comparable](h *hash.Hasher, id ID) {
	switch v := any(id).(type) {
	case string:
		h.WriteString(v)
	case int:
		h.WriteUint64(uint64(v))
	case int8:
		h.WriteUint8(uint8(v))
	case int16:
		h.WriteUint16(uint16(v))
	case int32:
		h.WriteUint32(uint32(v))
	case int64:
		h.WriteUint64(uint64(v))
	case uint:
		h.WriteUint64(uint64(v))
	case uint8:
		h.WriteUint8(v)
	case uint16:
		h.WriteUint16(v)
	case uint32:
		h.WriteUint32(v)
	case uint64:
		h.WriteUint64(v)
	default:
		h.WriteString(fmt.Sprintf("%v", v))
	}
}

// Position computes the KeyPosition a raw key byte stream maps to. Keys sort
// into shards by the top 16 bits of this value (see ShardIdx).
func Position(key []byte) KeyPosition {
	return KeyPosition(hash.Sum64(key))
}

// PositionString is a convenience wrapper around Position for string keys,
// using the same string-hashing convention as node ids (see writeID).
func PositionString(key string) KeyPosition {
	h := hash.NewHasher()
	h.WriteString(key)
	return KeyPosition(h.Sum64())
}
