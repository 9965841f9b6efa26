package state

import "github.com/concordant-chain/evmcore/types"

// RingBlockHashOracle answers BLOCKHASH lookups from an explicit ring of
// recent headers, grounded on the windowing rule in the teacher's
// core/vm/instructions.go opBlockhash: only the 256 most recent complete
// blocks are answerable, anything else resolves to "none".
type RingBlockHashOracle struct {
	hashes map[uint64]types.Hash
}

// NewRingBlockHashOracle returns an oracle backed by the given
// number->hash map, which the host populates as blocks are processed.
func NewRingBlockHashOracle(hashes map[uint64]types.Hash) *RingBlockHashOracle {
	if hashes == nil {
		hashes = make(map[uint64]types.Hash)
	}
	return &RingBlockHashOracle{hashes: hashes}
}

// Get returns the hash of blockNumber if it falls in [currentNumber-256,
// currentNumber) and is known.
func (o *RingBlockHashOracle) Get(currentNumber, blockNumber uint64) (types.Hash, bool) {
	var lower uint64
	if currentNumber > 256 {
		lower = currentNumber - 256
	}
	if blockNumber < lower || blockNumber >= currentNumber {
		return types.Hash{}, false
	}
	h, ok := o.hashes[blockNumber]
	return h, ok
}
