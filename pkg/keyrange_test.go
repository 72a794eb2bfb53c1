package keyspace

import "testing"

func TestShardOf(t *testing.T) {
	cases := []struct {
		pos  KeyPosition
		want ShardIdx
	}{
		{0, 0},
		{1, 0},
		{KeyPosition(1) << 48, 1},
		{KeyPosition(0xffff) << 48, 0xffff},
	}
	for _, c := range cases {
		if got := shardOf(c.pos); got != c.want {
			t.Errorf("shardOf(%d) = %d, want %d", c.pos, got, c.want)
		}
	}
}

func TestKeyRangeOf_LastShardUnbounded(t *testing.T) {
	r := keyRangeOf(NumShards - 1)
	if _, ok := r.End(); ok {
		t.Fatal("last shard should be unbounded")
	}
	if !r.Contains(^KeyPosition(0)) {
		t.Fatal("last shard should contain the maximum key position")
	}
}

func TestKeyRangeOf_Contiguous(t *testing.T) {
	for i := ShardIdx(0); i < 10; i++ {
		r := keyRangeOf(i)
		next := keyRangeOf(i + 1)
		end, ok := r.End()
		if !ok {
			t.Fatalf("shard %d unexpectedly unbounded", i)
		}
		if end != next.Start() {
			t.Fatalf("shard %d end %d does not match shard %d start %d", i, end, i+1, next.Start())
		}
	}
}

func TestKeyRange_Contains(t *testing.T) {
	end := KeyPosition(100)
	r := NewKeyRange(10, &end)
	if r.Contains(9) || r.Contains(100) {
		t.Fatal("bounds should be half-open")
	}
	if !r.Contains(10) || !r.Contains(99) {
		t.Fatal("range should contain its interior")
	}
}

func TestKeyRange_Unbounded(t *testing.T) {
	r := NewKeyRange(10, nil)
	if !r.Contains(^KeyPosition(0)) {
		t.Fatal("unbounded range should contain the maximum key position")
	}
	if r.Contains(9) {
		t.Fatal("unbounded range should still respect its lower bound")
	}
}
