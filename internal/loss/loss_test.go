package loss

import (
	"errors"
	"math"
	"testing"
)

// TestError pins the halved squared-error convention.
func TestError(t *testing.T) {
	var l SquaredError

	got, err := l.Error([]float64{1, 2}, []float64{0, 0})
	if err != nil {
		t.Fatalf("Error returned error: %v", err)
	}
	if want := 2.5; math.Abs(got-want) > 1e-12 {
		t.Fatalf("Error = %v, want %v", got, want)
	}

	got, err = l.Error([]float64{0.5}, []float64{0.5})
	if err != nil {
		t.Fatalf("Error returned error: %v", err)
	}
	if got != 0 {
		t.Fatalf("Error on equal vectors = %v, want 0", got)
	}
}

// TestErrorLengthMismatch checks that mismatched vectors are rejected.
func TestErrorLengthMismatch(t *testing.T) {
	var l SquaredError
	if _, err := l.Error([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("Error = %v, want ErrLengthMismatch", err)
	}
}

// TestDerivative pins the unscaled (out - expected) derivative.
func TestDerivative(t *testing.T) {
	var l SquaredError
	if got := l.Derivative(0.75, 0.25); got != 0.5 {
		t.Fatalf("Derivative = %v, want 0.5", got)
	}
	if got := l.Derivative(0, 1); got != -1 {
		t.Fatalf("Derivative = %v, want -1", got)
	}
}
