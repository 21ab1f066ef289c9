package level

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Quantize8 converts a scaled real sample to an offset-binary byte per
// spec.md §4.8 step 3:
//
//	out = round(clip((x-offset)/scale, -126, +127)) XOR 0x80
//
// The ProcessSample/ProcessInPlace naming and clip-then-round shape follow
// dsp/dither.Quantizer, with offset-binary XOR in place of that package's
// dither/noise-shaping stages, which the spec does not call for here.
func Quantize8(x, scale, offset float64) byte {
	if scale == 0 {
		return 0x80
	}
	v := (x - offset) / scale
	v = clip(v, -126, 127)
	signed := int8(math.Round(v))
	return byte(signed) ^ 0x80
}

// Dequantize8 inverts Quantize8 exactly: recovers the clipped/rounded
// scaled value (not the original pre-quantisation sample, which is lossy).
func Dequantize8(b byte, scale, offset float64) float64 {
	signed := int8(b ^ 0x80)
	return float64(signed)*scale + offset
}

// QuantizeBlock quantises every sample in buf in place semantics-free: it
// writes results into dst, leaving buf untouched, following
// dsp/dither.Quantizer.ProcessInPlace's per-sample loop shape but without
// its in-place aliasing since the output type (byte) differs from the
// input type (float64).
func QuantizeBlock(dst []byte, buf []float64, scale, offset float64) {
	for i, x := range buf {
		dst[i] = Quantize8(x, scale, offset)
	}
}

// DequantizeBlock inverts QuantizeBlock for a whole second's worth of
// samples at once: it unpacks every byte's signed value into dst, then
// applies the shared scale as a single vectorised block multiply (the
// `x*scale` half of Dequantize8's affine map) before adding offset,
// following dsp/window.Apply's vecmath.MulBlockInPlace call pattern.
func DequantizeBlock(dst []float64, buf []byte, scale, offset float64) {
	if len(dst) != len(buf) {
		return
	}
	scales := make([]float64, len(buf))
	for i, b := range buf {
		dst[i] = float64(int8(b ^ 0x80))
		scales[i] = scale
	}
	vecmath.MulBlockInPlace(dst, scales)
	for i := range dst {
		dst[i] += offset
	}
}
