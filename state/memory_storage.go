package state

import "github.com/concordant-chain/evmcore/types"

type storageKey struct {
	addr types.Address
	key  types.Hash
}

type storageChange struct {
	key  storageKey
	prev types.Hash
	had  bool // whether key existed before this change
}

// MemoryStorageStore is an in-memory StorageStore, journaled the same way
// as MemoryStateStore (§6, §5 "snapshots must be LIFO"). Grounded on the
// teacher's JrnlStorageChange (core/state/state_journal.go), which treats
// a zero value as equivalent to an absent entry — this module keeps that
// convention explicit via the `had` flag so Get never has to distinguish
// "never written" from "written as zero".
type MemoryStorageStore struct {
	slots map[storageKey]types.Hash

	journal     []storageChange
	snapshotLen []int
}

// NewMemoryStorageStore returns an empty store.
func NewMemoryStorageStore() *MemoryStorageStore {
	return &MemoryStorageStore{slots: make(map[storageKey]types.Hash)}
}

func (s *MemoryStorageStore) Get(addr types.Address, key types.Hash) types.Hash {
	return s.slots[storageKey{addr, key}]
}

func (s *MemoryStorageStore) Set(addr types.Address, key types.Hash, value types.Hash) {
	k := storageKey{addr, key}
	prev, had := s.slots[k]
	s.journal = append(s.journal, storageChange{key: k, prev: prev, had: had})
	if value.IsZero() {
		delete(s.slots, k)
		return
	}
	s.slots[k] = value
}

func (s *MemoryStorageStore) TakeSnapshot() SnapshotID {
	id := SnapshotID(len(s.snapshotLen))
	s.snapshotLen = append(s.snapshotLen, len(s.journal))
	return id
}

func (s *MemoryStorageStore) Restore(id SnapshotID) {
	if int(id) < 0 || int(id) >= len(s.snapshotLen) {
		return
	}
	target := s.snapshotLen[id]
	for i := len(s.journal) - 1; i >= target; i-- {
		c := s.journal[i]
		if !c.had {
			delete(s.slots, c.key)
		} else {
			s.slots[c.key] = c.prev
		}
	}
	s.journal = s.journal[:target]
	s.snapshotLen = s.snapshotLen[:id]
}
