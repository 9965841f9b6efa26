package vm

import (
	"github.com/holiman/uint256"

	"github.com/concordant-chain/evmcore/types"
)

// Word256 is a 256-bit unsigned integer mod 2²⁵⁶ with a two's-complement
// signed view, per spec.md §3 ("Word") and §9's numeric-substrate note.
// It wraps uint256.Int rather than math/big: math/big is arbitrary
// precision and has no notion of fixed-width wraparound, so every opcode
// would need manual masking to emulate mod-2²⁵⁶ semantics — exactly what
// the spec's design notes warn against.
type Word256 struct {
	u uint256.Int
}

// NewWord returns the zero word.
func NewWord() *Word256 { return &Word256{} }

// WordFromUint64 returns a word with the given unsigned value.
func WordFromUint64(v uint64) *Word256 {
	w := &Word256{}
	w.u.SetUint64(v)
	return w
}

// WordFromBytes converts a big-endian byte slice (as produced by a precompile
// or other external collaborator) into a Word256, reducing mod 2²⁵⁶.
func WordFromBytes(b []byte) *Word256 {
	w := &Word256{}
	w.u.SetBytes(b)
	return w
}

// WordFromAddress left-pads addr into the low 20 bytes of a word.
func WordFromAddress(addr types.Address) *Word256 {
	return WordFromBytes(addr[:])
}

// Clone returns an independent copy.
func (w *Word256) Clone() *Word256 {
	c := &Word256{}
	c.u.Set(&w.u)
	return c
}

// Bytes32 returns the big-endian 32-byte representation.
func (w *Word256) Bytes32() [32]byte {
	return w.u.Bytes32()
}

// Bytes returns the big-endian byte representation, with no leading zero
// bytes (the representation RLP and hashing want).
func (w *Word256) Bytes() []byte {
	return w.u.Bytes()
}

// Uint64 returns the low 64 bits, matching uint256's truncating semantics.
// Callers that need to reject oversized values should check IsUint64 first.
func (w *Word256) Uint64() uint64 { return w.u.Uint64() }

// IsUint64 reports whether the word fits in 64 bits.
func (w *Word256) IsUint64() bool { return w.u.IsUint64() }

// IsZero reports whether the word is zero.
func (w *Word256) IsZero() bool { return w.u.IsZero() }

// Sign returns -1, 0, or 1 for the unsigned value (0 or >0; Word256 is never
// negative in its unsigned view — use SSign for the two's-complement sign).
func (w *Word256) Sign() int { return w.u.Sign() }

// SSign returns -1, 0, or 1 interpreting w as two's-complement signed.
func (w *Word256) SSign() int {
	if w.u.IsZero() {
		return 0
	}
	if w.u.Gt(maxPositive) {
		return -1
	}
	return 1
}

var maxPositive = func() *uint256.Int {
	// 2^255 - 1: the largest value whose two's-complement sign bit is 0.
	// Derived rather than hex-literal so the bit count can't silently drift
	// a nibble short of 256 bits.
	one := uint256.NewInt(1)
	v := new(uint256.Int).Lsh(one, 255)
	return v.Sub(v, one)
}()

// Address returns the low 20 bytes of w as an Address (spec.md §3).
func (w *Word256) Address() types.Address {
	b := w.u.Bytes32()
	return types.BytesToAddress(b[12:])
}

// AsUint256 returns an independent *uint256.Int copy of w's value, for
// collaborators (the state package's balances) that speak uint256
// directly instead of Word256.
func (w *Word256) AsUint256() *uint256.Int {
	var u uint256.Int
	u.Set(&w.u)
	return &u
}

// --- arithmetic, §4.A ---

// Add256 returns (a+b) mod 2²⁵⁶.
func Add256(a, b *Word256) *Word256 {
	r := &Word256{}
	r.u.Add(&a.u, &b.u)
	return r
}

// Sub256 returns (a-b) mod 2²⁵⁶.
func Sub256(a, b *Word256) *Word256 {
	r := &Word256{}
	r.u.Sub(&a.u, &b.u)
	return r
}

// Mul256 returns (a*b) mod 2²⁵⁶.
func Mul256(a, b *Word256) *Word256 {
	r := &Word256{}
	r.u.Mul(&a.u, &b.u)
	return r
}

// Div256 returns floor(a/b), or 0 when b is zero.
func Div256(a, b *Word256) *Word256 {
	r := &Word256{}
	r.u.Div(&a.u, &b.u)
	return r
}

// Mod256 returns a mod b, or 0 when b is zero.
func Mod256(a, b *Word256) *Word256 {
	r := &Word256{}
	r.u.Mod(&a.u, &b.u)
	return r
}

// SDiv256 is signed division. sdiv(-2^255, -1) clamps to -2^255 (the one
// value whose negation overflows) rather than panicking or wrapping through
// a wider type, per spec.md §4.A.
func SDiv256(a, b *Word256) *Word256 {
	r := &Word256{}
	r.u.SDiv(&a.u, &b.u)
	return r
}

// SMod256 is signed modulo; the result's sign matches the dividend's sign,
// per spec.md §4.A.
func SMod256(a, b *Word256) *Word256 {
	r := &Word256{}
	r.u.SMod(&a.u, &b.u)
	return r
}

// AddMod256 returns (a+b) mod n computed without intermediate overflow, or 0
// when n is zero.
func AddMod256(a, b, n *Word256) *Word256 {
	r := &Word256{}
	r.u.AddMod(&a.u, &b.u, &n.u)
	return r
}

// MulMod256 returns (a*b) mod n computed without intermediate overflow, or 0
// when n is zero.
func MulMod256(a, b, n *Word256) *Word256 {
	r := &Word256{}
	r.u.MulMod(&a.u, &b.u, &n.u)
	return r
}

// Exp256 returns b^e mod 2²⁵⁶.
func Exp256(b, e *Word256) *Word256 {
	r := &Word256{}
	r.u.Exp(&b.u, &e.u)
	return r
}

// ExpByteLen returns the byte-length of e's minimal big-endian
// representation (0 for e=0), used to compute the EXP gas surcharge.
func ExpByteLen(e *Word256) int {
	return (e.u.BitLen() + 7) / 8
}

// Lt256, Gt256, Eq256, Slt256, Sgt256, and the bitwise ops all mirror the
// uint256 primitives directly; exposed as free functions to match the
// vocabulary spec.md §4.A uses for opcode bodies.
func Lt256(a, b *Word256) bool { return a.u.Lt(&b.u) }
func Gt256(a, b *Word256) bool { return a.u.Gt(&b.u) }
func Eq256(a, b *Word256) bool { return a.u.Eq(&b.u) }

func Slt256(a, b *Word256) bool { return a.u.Slt(&b.u) }
func Sgt256(a, b *Word256) bool { return a.u.Sgt(&b.u) }

func And256(a, b *Word256) *Word256 {
	r := &Word256{}
	r.u.And(&a.u, &b.u)
	return r
}

func Or256(a, b *Word256) *Word256 {
	r := &Word256{}
	r.u.Or(&a.u, &b.u)
	return r
}

func Xor256(a, b *Word256) *Word256 {
	r := &Word256{}
	r.u.Xor(&a.u, &b.u)
	return r
}

func Not256(a *Word256) *Word256 {
	r := &Word256{}
	r.u.Not(&a.u)
	return r
}

func Shl256(shift, a *Word256) *Word256 {
	r := &Word256{}
	if shift.u.LtUint64(256) {
		r.u.Lsh(&a.u, uint(shift.u.Uint64()))
	}
	return r
}

func Shr256(shift, a *Word256) *Word256 {
	r := &Word256{}
	if shift.u.LtUint64(256) {
		r.u.Rsh(&a.u, uint(shift.u.Uint64()))
	}
	return r
}

func Sar256(shift, a *Word256) *Word256 {
	r := &Word256{}
	if shift.u.GtUint64(255) {
		if a.SSign() < 0 {
			r.u.SetAllOne()
		}
		return r
	}
	r.u.SRsh(&a.u, uint(shift.u.Uint64()))
	return r
}

// Byte256 returns the byte at position i counted from the big-endian most
// significant byte (i=0), or zero when i >= 32, per spec.md §4.A.
func Byte256(i, x *Word256) *Word256 {
	if i.u.GtUint64(31) {
		return WordFromUint64(0)
	}
	b32 := x.u.Bytes32()
	return WordFromUint64(uint64(b32[i.u.Uint64()]))
}

// SignExtend256 sign-extends x, treating it as a (k+1)-byte signed integer
// (k counted from the least-significant byte, per spec.md §4.A). k >= 31
// returns x unchanged.
func SignExtend256(k, x *Word256) *Word256 {
	r := &Word256{}
	if k.u.GtUint64(31) {
		r.u.Set(&x.u)
		return r
	}
	r.u.ExtendSign(&x.u, &k.u)
	return r
}

// SliceWithZeroPadding returns len bytes starting at off from src, padding
// with zero where [off, off+len) runs past the end of src. §4.A.
func SliceWithZeroPadding(src []byte, off, length uint64) []byte {
	out := make([]byte, length)
	if off >= uint64(len(src)) {
		return out
	}
	end := off + length
	if end > uint64(len(src)) {
		end = uint64(len(src))
	}
	copy(out, src[off:end])
	return out
}
