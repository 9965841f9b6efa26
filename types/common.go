// Package types defines the core identifiers the interpreter operates on:
// addresses, hashes, and log records. It intentionally knows nothing about
// trie encoding or persistence — those belong to the external StateStore.
package types

import (
	"encoding/hex"
	"fmt"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash is a 32-byte Keccak256 hash.
type Hash [HashLength]byte

// Address is the 20-byte identifier of an Ethereum account.
type Address [AddressLength]byte

// BytesToHash converts b to a Hash, left-padding if shorter than 32 bytes and
// truncating from the left (keeping the low-order bytes) if longer.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash converts a hex string (with or without 0x prefix) to a Hash.
func HexToHash(s string) Hash { return BytesToHash(fromHex(s)) }

// Bytes returns the hash's byte representation.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the 0x-prefixed hex representation.
func (h Hash) Hex() string { return fmt.Sprintf("0x%x", h[:]) }

// SetBytes sets the hash from b, left-padding or truncating as needed.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	for i := range h {
		h[i] = 0
	}
	copy(h[HashLength-len(b):], b)
}

// IsZero reports whether the hash is all zeros.
func (h Hash) IsZero() bool { return h == Hash{} }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// BytesToAddress converts b to an Address, left-padding or truncating as
// needed so only the low 20 bytes survive — this is how a Word256 popped off
// the stack becomes an Address (§3 "Address").
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress converts a hex string to an Address.
func HexToAddress(s string) Address { return BytesToAddress(fromHex(s)) }

// Bytes returns the address's byte representation.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the 0x-prefixed hex representation.
func (a Address) Hex() string { return fmt.Sprintf("0x%x", a[:]) }

// SetBytes sets the address from b, keeping only the low 20 bytes.
func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	for i := range a {
		a[i] = 0
	}
	copy(a[AddressLength-len(b):], b)
}

// IsZero reports whether the address is all zeros.
func (a Address) IsZero() bool { return a == Address{} }

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// Log is one event emitted by the LOGn family of opcodes.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

var (
	// EmptyCodeHash is keccak256 of the empty byte string — the CodeHash of
	// an externally-owned account or a freshly created, as-yet-codeless one.
	EmptyCodeHash = HexToHash("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
)

func fromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
