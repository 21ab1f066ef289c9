package level

import "testing"

func TestQuantizeBlockDequantizeBlockRoundTrip(t *testing.T) {
	series := []float64{0.4, -0.3, 0.1, -0.05, 0.02, 0.5}
	scale, offset := 0.01, 0.0

	packed := make([]byte, len(series))
	QuantizeBlock(packed, series, scale, offset)

	dequantised := make([]float64, len(series))
	DequantizeBlock(dequantised, packed, scale, offset)

	for i := range series {
		want := Dequantize8(Quantize8(series[i], scale, offset), scale, offset)
		if dequantised[i] != want {
			t.Errorf("index %d: DequantizeBlock = %v, want %v (matching per-sample Dequantize8)", i, dequantised[i], want)
		}
	}
}

func TestDequantizeBlockLengthMismatchIsNoOp(t *testing.T) {
	dst := []float64{1, 2, 3}
	DequantizeBlock(dst, []byte{0x80, 0x80}, 1, 0)
	if dst[0] != 1 || dst[1] != 2 || dst[2] != 3 {
		t.Errorf("dst mutated on length mismatch: %v", dst)
	}
}
