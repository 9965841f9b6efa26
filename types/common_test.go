package types

import (
	"strings"
	"testing"
)

func TestBytesToAddressKeepsLow20Bytes(t *testing.T) {
	b := make([]byte, 32)
	for i := range b {
		b[i] = byte(i)
	}
	addr := BytesToAddress(b)
	want := b[12:]
	for i, v := range want {
		if addr[i] != v {
			t.Fatalf("BytesToAddress truncation: got %x, want low 20 bytes %x", addr, want)
		}
	}
}

func TestBytesToHashLeftPadsShortInput(t *testing.T) {
	h := BytesToHash([]byte{0xab})
	for i := 0; i < HashLength-1; i++ {
		if h[i] != 0 {
			t.Fatalf("BytesToHash should left-pad, got %x", h)
		}
	}
	if h[HashLength-1] != 0xab {
		t.Fatalf("BytesToHash last byte = %x, want 0xab", h[HashLength-1])
	}
}

func TestHexToHashRoundTrip(t *testing.T) {
	hexStr := "0x" + strings.Repeat("0", 63) + "1"
	h := HexToHash(hexStr)
	if h[HashLength-1] != 1 {
		t.Fatalf("HexToHash: got %x, want low byte 1", h)
	}
}

func TestIsZero(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Fatal("zero-value Hash should report IsZero")
	}
	h[0] = 1
	if h.IsZero() {
		t.Fatal("non-zero Hash should not report IsZero")
	}

	var a Address
	if !a.IsZero() {
		t.Fatal("zero-value Address should report IsZero")
	}
}

func TestEmptyCodeHashIs32Bytes(t *testing.T) {
	if len(EmptyCodeHash) != HashLength {
		t.Fatalf("EmptyCodeHash length = %d, want %d", len(EmptyCodeHash), HashLength)
	}
}
