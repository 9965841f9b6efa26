package vm

import "github.com/concordant-chain/evmcore/types"

// BlockContext carries the header fields every frame in one transaction
// shares. Adapted from the teacher's core/vm BlockContext, with *big.Int
// fields replaced by Word256 per this module's numeric substrate.
// BLOCKHASH itself is resolved through Interpreter.BlockHashes (§6), not
// through this struct — BlockContext only carries fields opcodes read
// directly off the current frame's environment (COINBASE, TIMESTAMP,
// NUMBER, GASLIMIT, PREVRANDAO, BASEFEE).
type BlockContext struct {
	BlockNumber uint64
	Time        uint64
	Coinbase    types.Address
	GasLimit    uint64
	BaseFee     *Word256
	PrevRandao  types.Hash
}
