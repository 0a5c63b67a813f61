package entropy

import "testing"

func TestSeededIsDeterministic(t *testing.T) {
	a := NewSeeded(7)
	b := NewSeeded(7)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed should yield the same sequence")
		}
	}
}

func TestFixedReplaysAndCycles(t *testing.T) {
	f := NewFixed(0.1, 0.9)
	got := []float64{f.Float64(), f.Float64(), f.Float64()}
	want := []float64{0.1, 0.9, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("draw %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFixedIntnStaysInRange(t *testing.T) {
	f := NewFixed(0.999999)
	if got := f.Intn(4); got != 3 {
		t.Errorf("Intn(4) with high draw = %d, want 3", got)
	}
	f = NewFixed(0.0)
	if got := f.Intn(4); got != 0 {
		t.Errorf("Intn(4) with zero draw = %d, want 0", got)
	}
}

func TestBetween(t *testing.T) {
	f := NewFixed(0.5)
	if got := Between(f, 50, 66); got != 58 {
		t.Errorf("Between(0.5 draw, 50, 66) = %v, want 58", got)
	}
}

func TestNilClientFallsBack(t *testing.T) {
	var c *Client
	v := c.Float64()
	if v < 0 || v >= 1 {
		t.Errorf("fallback draw out of range: %v", v)
	}
	if c.Enabled() {
		t.Error("nil client must not report enabled")
	}
}
