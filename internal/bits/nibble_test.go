package bits

import "testing"

// TestRoundTripAllBytes covers testable property 4: packing known signed
// 4-bit values into the nibble format and decoding reproduces the
// originals exactly for all 256 byte values.
func TestRoundTripAllBytes(t *testing.T) {
	for b := 0; b < 256; b++ {
		re, im := Unpack(byte(b))
		got := Pack(re, im)
		if got != byte(b) {
			t.Fatalf("byte %#02x: unpack->pack round trip gave %#02x (re=%d im=%d)", b, got, re, im)
		}
	}
}

func TestUnpackNibbleRange(t *testing.T) {
	cases := []struct {
		nibble byte
		want   int8
	}{
		{0x0, 0}, {0x1, 1}, {0x7, 7},
		{0x8, -8}, {0x9, -7}, {0xf, -1},
	}
	for _, c := range cases {
		if got := UnpackNibble(c.nibble); got != c.want {
			t.Errorf("UnpackNibble(%#x) = %d, want %d", c.nibble, got, c.want)
		}
	}
}

func TestUnpackExampleBytes(t *testing.T) {
	// 0x01: low nibble 1 (real), high nibble 0 (imag) -> 1+0i
	re, im := Unpack(0x01)
	if re != 1 || im != 0 {
		t.Errorf("Unpack(0x01) = (%d,%d), want (1,0)", re, im)
	}
	// 0x10: low nibble 0 (real), high nibble 1 (imag) -> 0+1i
	re, im = Unpack(0x10)
	if re != 0 || im != 1 {
		t.Errorf("Unpack(0x10) = (%d,%d), want (0,1)", re, im)
	}
}
