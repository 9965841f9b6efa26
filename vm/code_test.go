package vm

import "testing"

func TestCodeInfoValidJumpdest(t *testing.T) {
	// PUSH1 0x05, JUMPDEST, STOP
	code := []byte{byte(PUSH1), 0x05, byte(JUMPDEST), byte(STOP)}
	ci := NewCodeInfo(code)
	if !ci.ValidJump(2) {
		t.Fatal("position 2 is a real JUMPDEST, should be valid")
	}
	if ci.ValidJump(1) {
		t.Fatal("position 1 is PUSH1's immediate data, should not be valid")
	}
}

func TestCodeInfoJumpdestInsidePushDataIsNotValid(t *testing.T) {
	// PUSH1 <JUMPDEST opcode as data>
	code := []byte{byte(PUSH1), byte(JUMPDEST)}
	ci := NewCodeInfo(code)
	if ci.ValidJump(1) {
		t.Fatal("JUMPDEST byte value inside PUSH1 data must not be a valid jump target")
	}
}

func TestCodeInfoOutOfBoundsJump(t *testing.T) {
	code := []byte{byte(STOP)}
	ci := NewCodeInfo(code)
	if ci.ValidJump(100) {
		t.Fatal("out-of-bounds destination must be invalid")
	}
}

func TestCodeInfoOpAtPastEndIsStop(t *testing.T) {
	code := []byte{byte(PUSH1), 0x01}
	ci := NewCodeInfo(code)
	if ci.OpAt(100) != STOP {
		t.Fatalf("OpAt past end = %v, want STOP", ci.OpAt(100))
	}
}

func TestCodeCacheHitReturnsSameInfo(t *testing.T) {
	cache := NewCodeCache(10)
	code := []byte{byte(PUSH1), 0x01, byte(STOP)}
	calls := 0
	build := func() []byte {
		calls++
		return code
	}
	hash := NewCodeInfo(code).Hash

	first := cache.GetOrBuild(hash, build)
	second := cache.GetOrBuild(hash, build)
	if first != second {
		t.Fatal("GetOrBuild should return the same *CodeInfo on a cache hit")
	}
	if calls != 1 {
		t.Fatalf("build() called %d times, want 1 (second lookup should hit cache)", calls)
	}
}

func TestCodeCacheEvictsLRU(t *testing.T) {
	cache := NewCodeCache(2)
	mk := func(b byte) []byte { return []byte{b, byte(STOP)} }

	h1 := NewCodeInfo(mk(1)).Hash
	h2 := NewCodeInfo(mk(2)).Hash
	h3 := NewCodeInfo(mk(3)).Hash

	cache.GetOrBuild(h1, func() []byte { return mk(1) })
	cache.GetOrBuild(h2, func() []byte { return mk(2) })
	cache.GetOrBuild(h3, func() []byte { return mk(3) }) // evicts h1 (LRU)

	if cache.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cache.Len())
	}

	calls := 0
	cache.GetOrBuild(h1, func() []byte { calls++; return mk(1) })
	if calls != 1 {
		t.Fatal("h1 should have been evicted and required a rebuild")
	}
}
