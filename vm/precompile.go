package vm

import "github.com/concordant-chain/evmcore/types"

// Precompile is the dispatch contract of spec.md §4.H: a fixed base cost,
// an input-dependent data cost, and a run function that signals failure
// without reverting state (a failed precompile yields a zero result word
// to the caller, not an exception). Adapted from the teacher's
// PrecompiledContract (core/vm/precompiles.go), split into base/data cost
// to match §4.H exactly instead of the teacher's single RequiredGas.
type Precompile interface {
	BaseCost() uint64
	DataCost(input []byte) uint64
	Run(input []byte) (output []byte, ok bool)
}

// PrecompileSet maps an address to its handler. The cryptographic
// precompiles (ECDSA recover, hashing, pairing, modexp) are explicitly out
// of this module's scope (spec.md §1): hosts supply their own
// implementations and register them here. Identity is included as the one
// precompile with no cryptographic dependency, serving as the worked
// reference for wiring a handler in.
type PrecompileSet map[types.Address]Precompile

// identity implements address 0x04: copies input to output verbatim.
// Grounded on the teacher's dataCopy precompile (core/vm/precompiles.go).
type identity struct{}

func (identity) BaseCost() uint64 { return 15 }
func (identity) DataCost(input []byte) uint64 {
	return 3 * uint64((len(input)+31)/32)
}
func (identity) Run(input []byte) ([]byte, bool) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, true
}

// DefaultPrecompiles returns the reference set: only Identity at 0x04.
// Hosts extend this with their own ecrecover/sha256/ripemd160/modexp/
// bn256/blake2f/point-evaluation handlers as needed.
func DefaultPrecompiles() PrecompileSet {
	return PrecompileSet{
		types.BytesToAddress([]byte{4}): identity{},
	}
}

// Lookup returns the handler for addr, if any.
func (ps PrecompileSet) Lookup(addr types.Address) (Precompile, bool) {
	p, ok := ps[addr]
	return p, ok
}
