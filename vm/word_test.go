package vm

import "testing"

func TestAdd256Wraps(t *testing.T) {
	max := Sub256(NewWord(), WordFromUint64(1)) // 2^256 - 1
	got := Add256(max, WordFromUint64(1))
	if !got.IsZero() {
		t.Fatalf("max+1 = %x, want 0", got.Bytes32())
	}
}

func TestDivByZeroIsZero(t *testing.T) {
	got := Div256(WordFromUint64(10), WordFromUint64(0))
	if !got.IsZero() {
		t.Fatalf("10/0 = %x, want 0", got.Bytes32())
	}
}

func TestModByZeroIsZero(t *testing.T) {
	got := Mod256(WordFromUint64(10), WordFromUint64(0))
	if !got.IsZero() {
		t.Fatalf("10%%0 = %x, want 0", got.Bytes32())
	}
}

func TestSDivMinByMinusOneClamps(t *testing.T) {
	// -2^255 represented as its two's-complement bit pattern: 0x80000...0
	minWord := WordFromBytes(append([]byte{0x80}, make([]byte, 31)...))
	minusOne := Not256(WordFromUint64(0))
	got := SDiv256(minWord, minusOne)
	if !Eq256(got, minWord) {
		t.Fatalf("sdiv(-2^255,-1) = %x, want %x", got.Bytes32(), minWord.Bytes32())
	}
}

func TestSignExtendBeyond31IsNoop(t *testing.T) {
	x := WordFromUint64(0xff)
	got := SignExtend256(WordFromUint64(31), x)
	if !Eq256(got, x) {
		t.Fatalf("signextend(31,x) = %x, want %x", got.Bytes32(), x.Bytes32())
	}
	got2 := SignExtend256(WordFromUint64(32), x)
	if !Eq256(got2, x) {
		t.Fatalf("signextend(32,x) = %x, want %x", got2.Bytes32(), x.Bytes32())
	}
}

func TestSignExtendNegativeByte(t *testing.T) {
	// byte 0 = 0xff, sign-extend as a single signed byte -> all-ones word.
	x := WordFromUint64(0xff)
	got := SignExtend256(WordFromUint64(0), x)
	want := Not256(WordFromUint64(0))
	if !Eq256(got, want) {
		t.Fatalf("signextend(0,0xff) = %x, want %x", got.Bytes32(), want.Bytes32())
	}
}

func TestByte256OutOfRangeIsZero(t *testing.T) {
	x := WordFromUint64(0xdeadbeef)
	got := Byte256(WordFromUint64(32), x)
	if !got.IsZero() {
		t.Fatalf("byte(32,x) = %x, want 0", got.Bytes32())
	}
}

func TestShlShrBeyond255IsZero(t *testing.T) {
	x := WordFromUint64(1)
	if got := Shl256(WordFromUint64(256), x); !got.IsZero() {
		t.Fatalf("shl(256,1) = %x, want 0", got.Bytes32())
	}
	if got := Shr256(WordFromUint64(500), x); !got.IsZero() {
		t.Fatalf("shr(500,1) = %x, want 0", got.Bytes32())
	}
}

func TestSarBeyond255SignFills(t *testing.T) {
	neg := Not256(WordFromUint64(0)) // -1
	got := Sar256(WordFromUint64(256), neg)
	if !Eq256(got, neg) {
		t.Fatalf("sar(256,-1) = %x, want all-ones", got.Bytes32())
	}
	pos := WordFromUint64(5)
	got2 := Sar256(WordFromUint64(256), pos)
	if !got2.IsZero() {
		t.Fatalf("sar(256,5) = %x, want 0", got2.Bytes32())
	}
}

func TestSSignHighBitPositive(t *testing.T) {
	// 2^254: bit 255 (the sign bit) is 0, so this is a large *positive*
	// two's-complement value, but bit 254 is set — it falls in the range a
	// too-narrow maxPositive bound (e.g. 2^247-1 from a truncated hex
	// literal) would misclassify as negative.
	highPositive := Shl256(WordFromUint64(254), WordFromUint64(1))
	if highPositive.SSign() != 1 {
		t.Fatalf("SSign(2^254) = %d, want 1 (positive)", highPositive.SSign())
	}
	got := Sar256(WordFromUint64(256), highPositive)
	if !got.IsZero() {
		t.Fatalf("sar(256, 2^254) = %x, want 0 (positive operand sign-fills with zero)", got.Bytes32())
	}
}

func TestSSignBoundary(t *testing.T) {
	zero := NewWord()
	if zero.SSign() != 0 {
		t.Fatalf("SSign(0) = %d, want 0", zero.SSign())
	}
	if WordFromUint64(1).SSign() != 1 {
		t.Fatal("SSign(1) should be positive")
	}
	negOne := Not256(WordFromUint64(0))
	if negOne.SSign() != -1 {
		t.Fatal("SSign(-1) should be negative")
	}
}

func TestAddressRoundTrip(t *testing.T) {
	var addr [20]byte
	for i := range addr {
		addr[i] = byte(i + 1)
	}
	w := WordFromAddress(addr)
	got := w.Address()
	if got != addr {
		t.Fatalf("address round trip: got %x, want %x", got, addr)
	}
}

func TestSliceWithZeroPadding(t *testing.T) {
	src := []byte{1, 2, 3}
	got := SliceWithZeroPadding(src, 1, 4)
	want := []byte{2, 3, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SliceWithZeroPadding = %x, want %x", got, want)
		}
	}

	beyond := SliceWithZeroPadding(src, 10, 3)
	for _, b := range beyond {
		if b != 0 {
			t.Fatalf("SliceWithZeroPadding past end = %x, want all zero", beyond)
		}
	}
}
