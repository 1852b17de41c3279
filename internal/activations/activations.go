// Package activations provides the activation functions known to the engine.
//
// Every activation exposes the nonlinearity itself and its derivative. The
// graph always calls Derivative with the value the neuron most recently
// produced, so derivatives expressible in the activation's output (TanH,
// SoftStep, SoftSign) are exact, while the remaining formulas substitute the
// received value for the pre-activation input, matching the calling
// convention the engine has always used.
package activations

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownActivation reports a name with no registered activation.
var ErrUnknownActivation = errors.New("unknown activation function")

// Activation is a nonlinearity with its derivative.
type Activation interface {
	// Name returns the canonical name used in topology documents.
	Name() string

	// Activate computes f(x).
	Activate(x float64) float64

	// Derivative computes f'(v), where v is the value Activate last produced.
	Derivative(v float64) float64
}

// New returns the activation registered under name. Lookup is
// case-insensitive; "identity" is an alias for Linear and "sigmoid" for
// SoftStep.
func New(name string) (Activation, error) {
	switch strings.ToLower(name) {
	case "linear", "identity":
		return Linear{}, nil
	case "relu":
		return ReLU{}, nil
	case "leakyrelu":
		return LeakyReLU{}, nil
	case "binary":
		return Binary{}, nil
	case "tanh":
		return TanH{}, nil
	case "softstep", "sigmoid":
		return SoftStep{}, nil
	case "softsign":
		return SoftSign{}, nil
	case "arctan":
		return ArcTan{}, nil
	case "isru":
		return ISRU{}, nil
	case "elu":
		return NewELU(0.1), nil
	case "gelu":
		return GELU{}, nil
	case "gaussian":
		return Gaussian{}, nil
	case "swish":
		return Swish{}, nil
	case "sinusoid":
		return Sinusoid{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
	}
}

// sigmoid computes the logistic function.
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Linear is the identity activation. Input neurons always use it.
type Linear struct{}

// Name returns "Linear".
func (Linear) Name() string { return "Linear" }

// Activate returns x unchanged.
func (Linear) Activate(x float64) float64 { return x }

// Derivative returns 1.
func (Linear) Derivative(float64) float64 { return 1 }

// ReLU is the rectified linear unit.
type ReLU struct{}

// Name returns "ReLU".
func (ReLU) Name() string { return "ReLU" }

// Activate computes max(x, 0).
func (ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Derivative returns 1 if v > 0, else 0.
func (ReLU) Derivative(v float64) float64 {
	if v > 0 {
		return 1
	}
	return 0
}

// LeakyReLU is ReLU with a 0.01 slope on the negative side.
type LeakyReLU struct{}

// Name returns "LeakyReLU".
func (LeakyReLU) Name() string { return "LeakyReLU" }

// Activate computes x if x > 0, else 0.01x.
func (LeakyReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0.01 * x
}

// Derivative returns 1 if v >= 0, else 0.01.
func (LeakyReLU) Derivative(v float64) float64 {
	if v >= 0 {
		return 1
	}
	return 0.01
}

// Binary is the step activation.
type Binary struct{}

// Name returns "Binary".
func (Binary) Name() string { return "Binary" }

// Activate returns 1 if x > 0, else 0.
func (Binary) Activate(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Derivative returns 0 everywhere the step is defined.
func (Binary) Derivative(float64) float64 { return 0 }

// TanH is the hyperbolic tangent activation.
type TanH struct{}

// Name returns "TanH".
func (TanH) Name() string { return "TanH" }

// Activate computes tanh(x).
func (TanH) Activate(x float64) float64 { return math.Tanh(x) }

// Derivative computes 1 - v², exact in the activation's output.
func (TanH) Derivative(v float64) float64 { return 1 - v*v }

// SoftStep is the logistic sigmoid activation.
type SoftStep struct{}

// Name returns "SoftStep".
func (SoftStep) Name() string { return "SoftStep" }

// Activate computes 1/(1+e^-x).
func (SoftStep) Activate(x float64) float64 { return sigmoid(x) }

// Derivative computes v(1 - v), exact in the activation's output.
func (SoftStep) Derivative(v float64) float64 { return v * (1 - v) }

// SoftSign is the x/(1+|x|) activation.
type SoftSign struct{}

// Name returns "SoftSign".
func (SoftSign) Name() string { return "SoftSign" }

// Activate computes x/(1+|x|).
func (SoftSign) Activate(x float64) float64 { return x / (1 + math.Abs(x)) }

// Derivative computes 1/(1+|v|)².
func (SoftSign) Derivative(v float64) float64 {
	d := 1 + math.Abs(v)
	return 1 / (d * d)
}

// ArcTan is the inverse-tangent activation.
type ArcTan struct{}

// Name returns "ArcTan".
func (ArcTan) Name() string { return "ArcTan" }

// Activate computes atan(x).
func (ArcTan) Activate(x float64) float64 { return math.Atan(x) }

// Derivative computes 1/(1+v²).
func (ArcTan) Derivative(v float64) float64 { return 1 / (1 + v*v) }

// ISRU is the inverse square root unit.
type ISRU struct{}

// Name returns "ISRU".
func (ISRU) Name() string { return "ISRU" }

// Activate computes x/√(1+x²).
func (ISRU) Activate(x float64) float64 { return x / math.Sqrt(1+x*x) }

// Derivative computes 1/(1+v²)^1.5.
func (ISRU) Derivative(v float64) float64 { return math.Pow(1+v*v, -1.5) }

// ELU is the exponential linear unit.
type ELU struct {
	// Alpha scales the negative saturation e^x - 1.
	Alpha float64
}

// NewELU creates an ELU with the given alpha.
func NewELU(alpha float64) ELU {
	return ELU{Alpha: alpha}
}

// Name returns "ELU".
func (ELU) Name() string { return "ELU" }

// Activate computes x if x >= 0, else alpha(e^x - 1).
func (e ELU) Activate(x float64) float64 {
	if x >= 0 {
		return x
	}
	return e.Alpha * (math.Exp(x) - 1)
}

// Derivative returns 1 if v >= 0, else alpha·e^v.
func (e ELU) Derivative(v float64) float64 {
	if v >= 0 {
		return 1
	}
	return e.Alpha * math.Exp(v)
}

// geluScale is √(2/π), the coefficient inside the GELU tanh approximation.
var geluScale = math.Sqrt(2 / math.Pi)

// GELU is the Gaussian error linear unit, tanh approximation.
type GELU struct{}

// Name returns "GELU".
func (GELU) Name() string { return "GELU" }

// Activate computes 0.5x(1 + tanh(√(2/π)(x + 0.044715x³))).
func (GELU) Activate(x float64) float64 {
	return 0.5 * x * (1 + math.Tanh(geluScale*(x+0.044715*x*x*x)))
}

// Derivative computes the analytic derivative of the tanh approximation.
func (GELU) Derivative(v float64) float64 {
	t := math.Tanh(geluScale * (v + 0.044715*v*v*v))
	inner := geluScale * (1 + 3*0.044715*v*v)
	return 0.5*(1+t) + 0.5*v*(1-t*t)*inner
}

// Gaussian is the e^(-x²) activation.
type Gaussian struct{}

// Name returns "Gaussian".
func (Gaussian) Name() string { return "Gaussian" }

// Activate computes e^(-x²).
func (Gaussian) Activate(x float64) float64 { return math.Exp(-x * x) }

// Derivative computes -2v·e^(-v²).
func (Gaussian) Derivative(v float64) float64 { return -2 * v * math.Exp(-v*v) }

// Swish is the x(1-e^-x) activation.
type Swish struct{}

// Name returns "Swish".
func (Swish) Name() string { return "Swish" }

// Activate computes x(1 - e^-x).
func (Swish) Activate(x float64) float64 { return x * (1 - math.Exp(-x)) }

// Derivative computes sigmoid(v)(1 + v(1 - sigmoid(v))).
func (Swish) Derivative(v float64) float64 {
	s := sigmoid(v)
	return s * (1 + v*(1-s))
}

// Sinusoid is the sin(x) activation.
type Sinusoid struct{}

// Name returns "Sinusoid".
func (Sinusoid) Name() string { return "Sinusoid" }

// Activate computes sin(x).
func (Sinusoid) Activate(x float64) float64 { return math.Sin(x) }

// Derivative computes cos(v).
func (Sinusoid) Derivative(v float64) float64 { return math.Cos(v) }
