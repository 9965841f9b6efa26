package vm

import (
	"bytes"
	"testing"
)

func TestMemoryResizeRoundsToWord(t *testing.T) {
	m := NewMemory()
	m.Resize(1)
	if m.Len() != 32 {
		t.Fatalf("Resize(1) -> Len() = %d, want 32", m.Len())
	}
}

func TestMemoryResizeNoShrink(t *testing.T) {
	m := NewMemory()
	m.Resize(64)
	m.Resize(1)
	if m.Len() != 64 {
		t.Fatalf("Resize should never shrink: Len() = %d, want 64", m.Len())
	}
}

func TestMemoryStoreLoadRoundTrip(t *testing.T) {
	m := NewMemory()
	val := WordFromUint64(0xdeadbeef)
	m.StoreWord(0, val)
	got := m.LoadWord(0)
	want := val.Bytes32()
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("StoreWord/LoadWord round trip: got %x, want %x", got, want)
	}
}

func TestMemoryZeroLengthNeverGrows(t *testing.T) {
	m := NewMemory()
	m.Load(1000, 0)
	if m.Len() != 0 {
		t.Fatalf("zero-length Load grew memory to %d bytes", m.Len())
	}
	m.Store(1000, nil)
	if m.Len() != 0 {
		t.Fatalf("zero-length Store grew memory to %d bytes", m.Len())
	}
}

func TestMemoryStoreByte(t *testing.T) {
	m := NewMemory()
	m.StoreByte(5, 0xab)
	data := m.Data()
	if data[5] != 0xab {
		t.Fatalf("StoreByte(5,0xab): data[5] = %x, want 0xab", data[5])
	}
}

func TestMemoryLoadExpandsAndZeroPads(t *testing.T) {
	m := NewMemory()
	got := m.Load(0, 10)
	if len(got) != 10 {
		t.Fatalf("Load length = %d, want 10", len(got))
	}
	for _, b := range got {
		if b != 0 {
			t.Fatalf("fresh memory load = %x, want all zero", got)
		}
	}
	if m.Len() != 32 {
		t.Fatalf("Load(0,10) -> Len() = %d, want 32 (word-ceiling)", m.Len())
	}
}
