package state

import (
	"github.com/holiman/uint256"

	"github.com/concordant-chain/evmcore/crypto"
	"github.com/concordant-chain/evmcore/types"
)

// account mirrors the teacher's stateObject (core/state/memory_statedb.go),
// narrowed to the fields the interpreter actually touches; nothing here
// tracks trie nodes or storage (storage lives in MemoryStorageStore).
type account struct {
	balance  *uint256.Int
	nonce    uint64
	codeHash types.Hash
}

func newAccount() *account {
	return &account{balance: new(uint256.Int)}
}

// stateChange is a revertible mutation of a MemoryStateStore, adapted from
// the teacher's JournalEntry/JrnlBalanceChange/JrnlNonceChange/
// JrnlCodeChange/AccountCreated family in core/state/state_journal.go.
type stateChange interface {
	revert(s *MemoryStateStore)
}

type balanceChange struct {
	addr types.Address
	prev *uint256.Int
}

func (c balanceChange) revert(s *MemoryStateStore) {
	if a := s.accounts[c.addr]; a != nil {
		a.balance = c.prev
	}
}

type nonceChange struct {
	addr types.Address
	prev uint64
}

func (c nonceChange) revert(s *MemoryStateStore) {
	if a := s.accounts[c.addr]; a != nil {
		a.nonce = c.prev
	}
}

type codeHashChange struct {
	addr types.Address
	prev types.Hash
}

func (c codeHashChange) revert(s *MemoryStateStore) {
	if a := s.accounts[c.addr]; a != nil {
		a.codeHash = c.prev
	}
}

type accountCreated struct {
	addr types.Address
	prev *account // nil if the account did not previously exist
}

func (c accountCreated) revert(s *MemoryStateStore) {
	if c.prev == nil {
		delete(s.accounts, c.addr)
	} else {
		s.accounts[c.addr] = c.prev
	}
}

type accountDeleted struct {
	addr types.Address
	prev *account
}

func (c accountDeleted) revert(s *MemoryStateStore) {
	s.accounts[c.addr] = c.prev
}

// MemoryStateStore is an in-memory StateStore, grounded on the teacher's
// MemoryStateDB (core/state/memory_statedb.go) and its exported journal
// (core/state/state_journal.go), narrowed to the account surface §6 names
// and simplified from a per-entry-type slice journal to one ordered slice
// of stateChange values — the snapshot/restore contract is identical.
type MemoryStateStore struct {
	accounts map[types.Address]*account
	code     map[types.Hash][]byte

	journal     []stateChange
	snapshotLen []int
}

// NewMemoryStateStore returns an empty store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		accounts: make(map[types.Address]*account),
		code:     make(map[types.Hash][]byte),
	}
}

func (s *MemoryStateStore) append(c stateChange) { s.journal = append(s.journal, c) }

func (s *MemoryStateStore) getOrCreate(addr types.Address) *account {
	if a := s.accounts[addr]; a != nil {
		return a
	}
	prev := s.accounts[addr]
	a := newAccount()
	s.append(accountCreated{addr: addr, prev: prev})
	s.accounts[addr] = a
	return a
}

func (s *MemoryStateStore) AccountExists(addr types.Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

func (s *MemoryStateStore) CreateAccount(addr types.Address) {
	prev := s.accounts[addr]
	s.append(accountCreated{addr: addr, prev: prev})
	s.accounts[addr] = newAccount()
}

func (s *MemoryStateStore) UpdateBalance(addr types.Address, delta BalanceDelta, _ Spec) {
	a := s.getOrCreate(addr)
	s.append(balanceChange{addr: addr, prev: a.balance})
	next := new(uint256.Int)
	if delta.Negative {
		next.Sub(a.balance, delta.Amount)
	} else {
		next.Add(a.balance, delta.Amount)
	}
	a.balance = next
}

func (s *MemoryStateStore) GetBalance(addr types.Address) *uint256.Int {
	if a := s.accounts[addr]; a != nil {
		return new(uint256.Int).Set(a.balance)
	}
	return new(uint256.Int)
}

func (s *MemoryStateStore) GetNonce(addr types.Address) uint64 {
	if a := s.accounts[addr]; a != nil {
		return a.nonce
	}
	return 0
}

func (s *MemoryStateStore) IncrementNonce(addr types.Address) {
	a := s.getOrCreate(addr)
	s.append(nonceChange{addr: addr, prev: a.nonce})
	a.nonce++
}

func (s *MemoryStateStore) GetCodeHash(addr types.Address) types.Hash {
	if a := s.accounts[addr]; a != nil {
		if a.codeHash.IsZero() {
			return types.EmptyCodeHash
		}
		return a.codeHash
	}
	return types.Hash{}
}

func (s *MemoryStateStore) GetCode(hash types.Hash) []byte {
	return s.code[hash]
}

// UpdateCode stores code content-addressed by its hash, matching the
// teacher's SetCode (which recomputes CodeHash via crypto.Keccak256) but
// separated from account association per §6's two-step
// update_code/update_code_hash contract.
func (s *MemoryStateStore) UpdateCode(code []byte) types.Hash {
	hash := types.BytesToHash(crypto.Keccak256(code))
	s.code[hash] = code
	return hash
}

func (s *MemoryStateStore) UpdateCodeHash(addr types.Address, hash types.Hash, _ Spec) {
	a := s.getOrCreate(addr)
	s.append(codeHashChange{addr: addr, prev: a.codeHash})
	a.codeHash = hash
}

// IsDeadAccount implements EIP-158: nonce=0, balance=0, code empty.
func (s *MemoryStateStore) IsDeadAccount(addr types.Address) bool {
	a := s.accounts[addr]
	if a == nil {
		return true
	}
	codeEmpty := a.codeHash.IsZero() || a.codeHash == types.EmptyCodeHash
	return a.nonce == 0 && a.balance.IsZero() && codeEmpty
}

func (s *MemoryStateStore) DeleteAccount(addr types.Address) {
	prev := s.accounts[addr]
	if prev == nil {
		return
	}
	s.append(accountDeleted{addr: addr, prev: prev})
	delete(s.accounts, addr)
}

// TakeSnapshot records the current journal length as a restore point.
func (s *MemoryStateStore) TakeSnapshot() SnapshotID {
	id := SnapshotID(len(s.snapshotLen))
	s.snapshotLen = append(s.snapshotLen, len(s.journal))
	return id
}

// Restore undoes every change recorded since the matching TakeSnapshot, in
// reverse order — the same walk-backwards-and-undo shape as the teacher's
// Journal.RevertToSnapshot.
func (s *MemoryStateStore) Restore(id SnapshotID) {
	if int(id) < 0 || int(id) >= len(s.snapshotLen) {
		return
	}
	target := s.snapshotLen[id]
	for i := len(s.journal) - 1; i >= target; i-- {
		s.journal[i].revert(s)
	}
	s.journal = s.journal[:target]
	s.snapshotLen = s.snapshotLen[:id]
}
