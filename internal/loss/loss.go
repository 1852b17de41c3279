// Package loss provides the squared-error metric that drives training.
package loss

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrLengthMismatch reports output and expected vectors of different sizes.
var ErrLengthMismatch = errors.New("output and expected vector lengths differ")

// SquaredError is the engine's loss function: Σ(out-expected)²/2 with the
// per-output derivative (out-expected). Older revisions of the format used
// Σ(out-expected)² with derivative 2(out-expected); the halved convention is
// the canonical one here.
type SquaredError struct{}

// Error computes the total loss across all output neurons.
func (SquaredError) Error(outputs, expected []float64) (float64, error) {
	if len(outputs) != len(expected) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(outputs), len(expected))
	}
	diff := make([]float64, len(outputs))
	floats.SubTo(diff, outputs, expected)
	return floats.Dot(diff, diff) / 2, nil
}

// Derivative computes the error signal seeding backpropagation for a single
// output neuron.
func (SquaredError) Derivative(output, expected float64) float64 {
	return output - expected
}
