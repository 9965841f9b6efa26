// Package crypto provides the hash primitive the interpreter needs for
// KECCAK256 and CREATE/CREATE2 address derivation. Everything else the
// yellow paper calls a "precompile" (ECDSA recover, SHA-256, pairing,
// modexp, …) is out of scope per spec.md §1 and lives behind the
// vm.Precompile interface instead.
package crypto

import (
	"github.com/concordant-chain/evmcore/types"
	"golang.org/x/crypto/sha3"
)

// Keccak256 returns the Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash returns Keccak256 as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}
