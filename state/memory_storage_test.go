package state

import (
	"testing"

	"github.com/concordant-chain/evmcore/types"
)

func TestMemoryStorageStoreGetMissingIsZero(t *testing.T) {
	s := NewMemoryStorageStore()
	addr := types.Address{1}
	key := types.Hash{1}
	if got := s.Get(addr, key); !got.IsZero() {
		t.Fatalf("Get on unset slot = %x, want zero", got)
	}
}

func TestMemoryStorageStoreSetGetRoundTrip(t *testing.T) {
	s := NewMemoryStorageStore()
	addr := types.Address{1}
	key := types.Hash{1}
	val := types.Hash{9}
	s.Set(addr, key, val)
	if got := s.Get(addr, key); got != val {
		t.Fatalf("Get after Set = %x, want %x", got, val)
	}
}

func TestMemoryStorageStoreZeroWriteDeletesEntry(t *testing.T) {
	s := NewMemoryStorageStore()
	addr := types.Address{1}
	key := types.Hash{1}
	s.Set(addr, key, types.Hash{9})
	s.Set(addr, key, types.Hash{})
	if got := s.Get(addr, key); !got.IsZero() {
		t.Fatalf("Get after zero write = %x, want zero", got)
	}
}

func TestMemoryStorageStoreSnapshotRestore(t *testing.T) {
	s := NewMemoryStorageStore()
	addr := types.Address{1}
	key := types.Hash{1}

	snap := s.TakeSnapshot()
	s.Set(addr, key, types.Hash{7})
	s.Restore(snap)
	if got := s.Get(addr, key); !got.IsZero() {
		t.Fatalf("Get after restore = %x, want zero", got)
	}
}

func TestMemoryStorageStoreRestoreToPriorNonZeroValue(t *testing.T) {
	s := NewMemoryStorageStore()
	addr := types.Address{1}
	key := types.Hash{1}

	s.Set(addr, key, types.Hash{1})
	snap := s.TakeSnapshot()
	s.Set(addr, key, types.Hash{2})
	s.Restore(snap)
	if got := s.Get(addr, key); got != (types.Hash{1}) {
		t.Fatalf("Get after restore = %x, want %x", got, types.Hash{1})
	}
}
