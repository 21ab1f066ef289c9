package beamform

import "testing"

// TestDecodeScenarioS1 matches spec scenario S1: raw = [0x01, 0x10] for one
// antenna pair decodes to eX=1+0i, eY=0+1i.
func TestDecodeScenarioS1(t *testing.T) {
	eX, eY := Decode(0x01, 0x10, DecodeOptions{})
	if eX != complex(1, 0) {
		t.Errorf("eX = %v, want 1+0i", eX)
	}
	if eY != complex(0, 1) {
		t.Errorf("eY = %v, want 0+1i", eY)
	}
}

// TestDecodeScenarioS2 matches spec scenario S2: same input with
// conjugate_sky=true negates Im of both polarisations, so eY flips sign.
func TestDecodeScenarioS2(t *testing.T) {
	eX, eY := Decode(0x01, 0x10, DecodeOptions{ConjugateSky: true})
	if eX != complex(1, 0) {
		t.Errorf("eX = %v, want 1+0i", eX)
	}
	if eY != complex(0, -1) {
		t.Errorf("eY = %v, want 0-1i", eY)
	}
}

func TestDecodeSwapPol(t *testing.T) {
	eX, eY := Decode(0x01, 0x10, DecodeOptions{SwapPol: true})
	if eX != complex(0, 1) || eY != complex(1, 0) {
		t.Errorf("swap_pol: got eX=%v eY=%v, want eX=0+1i eY=1+0i", eX, eY)
	}
}

func TestDecodeSwapComplex(t *testing.T) {
	eX, _ := Decode(0x01, 0x00, DecodeOptions{SwapComplex: true})
	// 0x01 has re=1, im=0; swap_complex treats the MSB nibble as real,
	// so the roles exchange: re becomes the old im (0), im becomes old re (1).
	if eX != complex(0, 1) {
		t.Errorf("swap_complex eX = %v, want 0+1i", eX)
	}
}

func TestDecodeAllZero(t *testing.T) {
	eX, eY := Decode(0x00, 0x00, DecodeOptions{SwapComplex: true, SwapPol: true, ConjugateSky: true})
	if eX != 0 || eY != 0 {
		t.Errorf("all-zero byte must decode to zero regardless of switches, got eX=%v eY=%v", eX, eY)
	}
}
