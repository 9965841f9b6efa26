package rlp

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
)

func TestEncodeEmptyString(t *testing.T) {
	got, err := EncodeToBytes("")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x80}
	if !bytes.Equal(got, want) {
		t.Fatalf("empty string: got %x, want %x", got, want)
	}
}

func TestEncodeDog(t *testing.T) {
	got, err := EncodeToBytes("dog")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x83, 0x64, 0x6f, 0x67}
	if !bytes.Equal(got, want) {
		t.Fatalf("\"dog\": got %x, want %x", got, want)
	}
}

func TestEncodeUint(t *testing.T) {
	tests := []struct {
		name string
		val  interface{}
		want []byte
	}{
		{"uint(0)", uint64(0), []byte{0x80}},
		{"uint(15)", uint64(15), []byte{0x0f}},
		{"uint(127)", uint64(127), []byte{0x7f}},
		{"uint(128)", uint64(128), []byte{0x81, 0x80}},
		{"uint(1024)", uint64(1024), []byte{0x82, 0x04, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeToBytes(tt.val)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("%s: got %x, want %x", tt.name, got, tt.want)
			}
		})
	}
}

func TestEncodeUint256(t *testing.T) {
	tests := []struct {
		name string
		val  *uint256.Int
		want []byte
	}{
		{"uint256(0)", uint256.NewInt(0), []byte{0x80}},
		{"uint256(1)", uint256.NewInt(1), []byte{0x01}},
		{"uint256(128)", uint256.NewInt(128), []byte{0x81, 0x80}},
		{"uint256(256)", uint256.NewInt(256), []byte{0x82, 0x01, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeToBytes(tt.val)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("%s: got %x, want %x", tt.name, got, tt.want)
			}
		})
	}
}

func TestEncodeEmptyList(t *testing.T) {
	got, err := EncodeToBytes([]interface{}{})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xc0}
	if !bytes.Equal(got, want) {
		t.Fatalf("empty list: got %x, want %x", got, want)
	}
}

func TestEncodeCatDog(t *testing.T) {
	got, err := EncodeToBytes([]string{"cat", "dog"})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xc8, 0x83, 0x63, 0x61, 0x74, 0x83, 0x64, 0x6f, 0x67}
	if !bytes.Equal(got, want) {
		t.Fatalf("[\"cat\",\"dog\"]: got %x, want %x", got, want)
	}
}

func TestEncodeBytes(t *testing.T) {
	tests := []struct {
		name string
		val  []byte
		want []byte
	}{
		{"empty bytes", []byte{}, []byte{0x80}},
		{"single byte 0x00", []byte{0x00}, []byte{0x00}},
		{"single byte 0x7f", []byte{0x7f}, []byte{0x7f}},
		{"single byte 0x80", []byte{0x80}, []byte{0x81, 0x80}},
		{"three bytes", []byte{0x01, 0x02, 0x03}, []byte{0x83, 0x01, 0x02, 0x03}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeToBytes(tt.val)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("%s: got %x, want %x", tt.name, got, tt.want)
			}
		})
	}
}

func TestEncodeStruct(t *testing.T) {
	type addressNonce struct {
		Addr  [20]byte
		Nonce uint64
	}
	s := addressNonce{Nonce: 5}
	got, err := EncodeToBytes(s)
	if err != nil {
		t.Fatal(err)
	}
	// [empty-address(20 zero bytes), nonce=5] = 0x94 + 20 zero bytes + 0x05,
	// wrapped: payload len = 21+1 = 22 -> list prefix 0xc0+22 = 0xd6
	if got[0] != 0xd6 {
		t.Fatalf("struct: got prefix %x, want 0xd6", got[0])
	}
	if got[len(got)-1] != 0x05 {
		t.Fatalf("struct: last byte got %x, want 0x05", got[len(got)-1])
	}
}

func TestEncodeNestedList(t *testing.T) {
	val := [][]string{{"cat"}, {"dog"}}
	got, err := EncodeToBytes(val)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xca, 0xc4, 0x83, 0x63, 0x61, 0x74, 0xc4, 0x83, 0x64, 0x6f, 0x67}
	if !bytes.Equal(got, want) {
		t.Fatalf("nested list: got %x, want %x", got, want)
	}
}
