package voltage

import "testing"

func TestRingAdvanceCarriesTail(t *testing.T) {
	r, err := NewRing(2, 4, 3)
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}

	for c := 0; c < 2; c++ {
		body := r.Body(c)
		for i := range body {
			body[i] = complex(float64(c*10+i), 0)
		}
	}

	r.Advance()

	for c := 0; c < 2; c++ {
		row := r.WithTapOverlap()[c]
		wantTail := []complex128{
			complex(float64(c*10+1), 0),
			complex(float64(c*10+2), 0),
			complex(float64(c*10+3), 0),
		}
		for i, want := range wantTail {
			if row[i] != want {
				t.Errorf("channel %d carried[%d] = %v, want %v", c, i, row[i], want)
			}
		}
	}
}

func TestRingBodyShape(t *testing.T) {
	r, err := NewRing(3, 5, 2)
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	if len(r.Body(0)) != 5 {
		t.Errorf("Body length = %d, want 5", len(r.Body(0)))
	}
	if len(r.WithTapOverlap()[0]) != 7 {
		t.Errorf("row length = %d, want 7", len(r.WithTapOverlap()[0]))
	}
}

func TestNewRingRejectsInvalidShape(t *testing.T) {
	if _, err := NewRing(0, 4, 1); err == nil {
		t.Error("NewRing(0, ...) should error")
	}
	if _, err := NewRing(2, 0, 1); err == nil {
		t.Error("NewRing(_, 0, ...) should error")
	}
	if _, err := NewRing(2, 4, -1); err == nil {
		t.Error("NewRing(_, _, -1) should error")
	}
}
