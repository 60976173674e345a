package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	vec := []float32{3, 4}
	NormalizeL2(vec)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("expected unit norm, got %f", math.Sqrt(norm))
	}
	if math.Abs(float64(vec[0])-0.6) > 1e-6 || math.Abs(float64(vec[1])-0.8) > 1e-6 {
		t.Errorf("unexpected normalized vector: %v", vec)
	}
}

func TestNormalizeL2ZeroVector(t *testing.T) {
	vec := []float32{0, 0, 0}
	NormalizeL2(vec)

	for i, v := range vec {
		if v != 0 {
			t.Errorf("zero vector changed at index %d: %f", i, v)
		}
	}
}

func TestDot(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}

	if got := Dot(a, b); math.Abs(got-32.0) > 1e-6 {
		t.Errorf("Dot = %f, want 32", got)
	}
}

func TestDotUnitVectorsIsCosine(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}

	if got := Dot(a, b); math.Abs(got) > 1e-6 {
		t.Errorf("orthogonal unit vectors should have zero dot product, got %f", got)
	}
	if got := Dot(a, a); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("identical unit vectors should have dot product 1, got %f", got)
	}
}
