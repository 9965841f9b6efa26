// Package state defines the external collaborators the interpreter reads
// and mutates world state through (§6: StateStore, StorageStore,
// BlockHashOracle) plus a reference in-memory implementation of each. The
// interpreter and orchestrator never depend on the concrete types here —
// only on these interfaces — so a host can swap in a trie-backed store
// without touching vm.
package state

import (
	"github.com/holiman/uint256"

	"github.com/concordant-chain/evmcore/types"
)

// SnapshotID is an opaque token returned by TakeSnapshot and consumed by
// Restore. Tokens are only ever compared to the store that produced them;
// callers must not assume anything about their internal representation.
type SnapshotID int

// Spec is the minimal view of fork-activation state the stores need —
// the same vocabulary vm.SpecGates exposes, kept as its own narrow
// interface here so this package does not import vm.
type Spec interface {
	Feature(name string) bool
}

// BalanceDelta is a signed balance adjustment, matching §6's
// "update_balance(addr, delta, spec)".
type BalanceDelta struct {
	Amount   *uint256.Int
	Negative bool
}

// Credit returns a positive balance delta.
func Credit(amount *uint256.Int) BalanceDelta { return BalanceDelta{Amount: amount} }

// Debit returns a negative balance delta.
func Debit(amount *uint256.Int) BalanceDelta { return BalanceDelta{Amount: amount, Negative: true} }

// StateStore is the account-level world-state collaborator (§6).
type StateStore interface {
	AccountExists(addr types.Address) bool
	CreateAccount(addr types.Address)
	UpdateBalance(addr types.Address, delta BalanceDelta, spec Spec)
	GetBalance(addr types.Address) *uint256.Int
	GetNonce(addr types.Address) uint64
	IncrementNonce(addr types.Address)
	GetCodeHash(addr types.Address) types.Hash
	GetCode(hash types.Hash) []byte
	UpdateCode(code []byte) types.Hash
	UpdateCodeHash(addr types.Address, hash types.Hash, spec Spec)
	// IsDeadAccount implements the EIP-158 test: nonce=0, balance=0, code empty.
	IsDeadAccount(addr types.Address) bool
	DeleteAccount(addr types.Address)
	TakeSnapshot() SnapshotID
	Restore(id SnapshotID)
}

// StorageStore is the per-account persistent storage collaborator (§6).
// Keys are (address, 256-bit index); values are 256-bit words represented
// as types.Hash. Zero-value writes are conventionally stored as an empty
// entry — callers must treat a missing key and an explicit zero the same.
type StorageStore interface {
	Get(addr types.Address, key types.Hash) types.Hash
	Set(addr types.Address, key types.Hash, value types.Hash)
	TakeSnapshot() SnapshotID
	Restore(id SnapshotID)
}

// BlockHashOracle resolves BLOCKHASH lookups (§6). A false second return
// means "no such block" — the interpreter pushes 32 zero bytes.
type BlockHashOracle interface {
	Get(currentNumber, blockNumber uint64) (types.Hash, bool)
}
