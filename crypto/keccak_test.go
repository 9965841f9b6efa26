package crypto

import "testing"

func TestKeccak256EmptyInput(t *testing.T) {
	got := Keccak256()
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	if hexString(got) != want {
		t.Fatalf("keccak256(\"\") = %s, want %s", hexString(got), want)
	}
}

func TestKeccak256Deterministic(t *testing.T) {
	a := Keccak256([]byte("hello"))
	b := Keccak256([]byte("hello"))
	if hexString(a) != hexString(b) {
		t.Fatal("Keccak256 must be deterministic for identical input")
	}
}

func TestKeccak256HashWrapsSameDigest(t *testing.T) {
	input := []byte("evm")
	raw := Keccak256(input)
	h := Keccak256Hash(input)
	if hexString(raw) != hexString(h.Bytes()) {
		t.Fatal("Keccak256Hash must wrap the same digest as Keccak256")
	}
}

func hexString(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexdigits[v>>4]
		out[i*2+1] = hexdigits[v&0xf]
	}
	return string(out)
}
