package beamform

import "github.com/mwatelescope/beamform/internal/bits"

// DecodeOptions controls the axis/conjugation switches applied by Decode
// (spec §4.1): swap_complex, swap_pol, conjugate_sky.
type DecodeOptions struct {
	SwapComplex  bool
	SwapPol      bool
	ConjugateSky bool
}

// Decode expands one antenna pair's packed 4+4-bit complex sample bytes
// (bx for X polarisation, by for Y polarisation, adjacent in the raw
// buffer's pair stride) into working-precision complex values, applying
// the configured switches. Composition order when multiple switches are
// set: decode -> conjugate -> pol-swap.
func Decode(bx, by byte, opts DecodeOptions) (eX, eY complex128) {
	rx, ix := bits.Unpack(bx)
	ry, iy := bits.Unpack(by)

	fx, fix := float64(rx), float64(ix)
	fy, fiy := float64(ry), float64(iy)

	if opts.SwapComplex {
		fx, fix = fix, fx
		fy, fiy = fiy, fy
	}

	eX = complex(fx, fix)
	eY = complex(fy, fiy)

	if opts.ConjugateSky {
		eX = complex(real(eX), -imag(eX))
		eY = complex(real(eY), -imag(eY))
	}

	if opts.SwapPol {
		eX, eY = eY, eX
	}

	return eX, eY
}
