package complexmat

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestInv2x2Identity(t *testing.T) {
	id := Mat2{1, 0, 0, 1}
	inv, err := Inv2x2(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv != id {
		t.Errorf("Inv2x2(I) = %v, want I", inv)
	}
}

func TestInv2x2RoundTrip(t *testing.T) {
	m := Mat2{complex(1, 0.5), complex(0.2, -0.1), complex(-0.3, 0.4), complex(0.9, 0)}
	inv, err := Inv2x2(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prod := MatMul2x2(m, inv)
	id := Mat2{1, 0, 0, 1}
	for i := range prod {
		if cmplx.Abs(prod[i]-id[i]) > 1e-9 {
			t.Errorf("m*inv(m)[%d] = %v, want %v", i, prod[i], id[i])
		}
	}
}

func TestInv2x2Singular(t *testing.T) {
	m := Mat2{1, 1, 1, 1}
	if _, err := Inv2x2(m); err != ErrSingularMatrix {
		t.Fatalf("Inv2x2(singular) error = %v, want ErrSingularMatrix", err)
	}
}

func TestNormalize2x2(t *testing.T) {
	m := Mat2{2, 0, 0, 2}
	n := Normalize2x2(m)
	if math.Abs(Norm2x2(n)-1) > 1e-9 {
		t.Errorf("Norm2x2(Normalize2x2(m)) = %v, want 1", Norm2x2(n))
	}
}

func TestNormalize2x2Zero(t *testing.T) {
	var zero Mat2
	if got := Normalize2x2(zero); got != zero {
		t.Errorf("Normalize2x2(zero) = %v, want zero", got)
	}
	if !zero.IsZero() {
		t.Error("IsZero() on zero matrix returned false")
	}
}

func TestMatVec2(t *testing.T) {
	m := Mat2{1, 0, 0, 1}
	v := Vec2{complex(1, 2), complex(3, 4)}
	got := MatVec2(m, v)
	if got != v {
		t.Errorf("identity MatVec2 = %v, want %v", got, v)
	}
}
