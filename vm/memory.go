package vm

// Memory is the EVM's byte-addressable, zero-initialized, word-ceiling
// scratch space (spec.md §3, §4.B). Adapted from the teacher's
// core/vm/memory.go: same backing []byte and word-ceiling growth, but
// growth is now an explicit, idempotent Resize driven by the interpreter's
// gas accounting rather than an ad hoc Set/Set32/panic-on-OOB API, so the
// cost invariant in spec.md §8 property 7 ("total memory charge for a frame
// equals cost(final_word_size) − cost(0)") has a single call site to audit.
type Memory struct {
	store []byte
}

// NewMemory returns empty memory.
func NewMemory() *Memory { return &Memory{} }

// Len returns the current size in bytes.
func (m *Memory) Len() int { return len(m.store) }

// WordSize returns the current size in 32-byte words.
func (m *Memory) WordSize() uint64 {
	return uint64(len(m.store)) / 32
}

// Resize grows memory so it is at least size bytes, word-aligned up. It is
// a no-op if memory is already that large. Callers must charge
// GrowthCost(oldWords, newWords) themselves before calling Resize — Memory
// itself performs no gas accounting (spec.md §4.B).
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) >= size {
		return
	}
	needed := wordCeil(size)
	grown := make([]byte, needed)
	copy(grown, m.store)
	m.store = grown
}

// wordCeil rounds size up to the next multiple of 32.
func wordCeil(size uint64) uint64 {
	return (size + 31) / 32 * 32
}

// StoreWord writes val's 32-byte big-endian form at offset, expanding
// memory first if needed.
func (m *Memory) StoreWord(offset uint64, val *Word256) {
	m.Resize(offset + 32)
	b := val.Bytes32()
	copy(m.store[offset:offset+32], b[:])
}

// StoreByte writes a single byte at offset, expanding memory first if
// needed.
func (m *Memory) StoreByte(offset uint64, b byte) {
	m.Resize(offset + 1)
	m.store[offset] = b
}

// Store copies value into memory at offset, expanding memory first if
// needed. A zero-length value is a no-op that never expands memory
// (spec.md §4.B, "len=0 access never grows memory").
func (m *Memory) Store(offset uint64, value []byte) {
	if len(value) == 0 {
		return
	}
	m.Resize(offset + uint64(len(value)))
	copy(m.store[offset:offset+uint64(len(value))], value)
}

// Load returns a copy of length bytes starting at offset, expanding memory
// first if needed. length=0 returns an empty slice without expanding.
func (m *Memory) Load(offset, length uint64) []byte {
	if length == 0 {
		return nil
	}
	m.Resize(offset + length)
	out := make([]byte, length)
	copy(out, m.store[offset:offset+length])
	return out
}

// LoadWord returns the 32 bytes at offset, expanding memory first if
// needed.
func (m *Memory) LoadWord(offset uint64) []byte {
	return m.Load(offset, 32)
}

// Data returns the full backing slice. Callers must not retain it across a
// subsequent Resize.
func (m *Memory) Data() []byte { return m.store }
