package activations

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-12

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// TestLookup checks catalog names, case-insensitivity, and aliases.
func TestLookup(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"Linear", "Linear"},
		{"linear", "Linear"},
		{"IDENTITY", "Linear"},
		{"relu", "ReLU"},
		{"LeakyReLU", "LeakyReLU"},
		{"binary", "Binary"},
		{"TANH", "TanH"},
		{"softstep", "SoftStep"},
		{"Sigmoid", "SoftStep"},
		{"softsign", "SoftSign"},
		{"arctan", "ArcTan"},
		{"isru", "ISRU"},
		{"elu", "ELU"},
		{"gelu", "GELU"},
		{"gaussian", "Gaussian"},
		{"swish", "Swish"},
		{"sinusoid", "Sinusoid"},
	}
	for _, c := range cases {
		act, err := New(c.query)
		if err != nil {
			t.Errorf("New(%q) returned error: %v", c.query, err)
			continue
		}
		if act.Name() != c.want {
			t.Errorf("New(%q).Name() = %q, want %q", c.query, act.Name(), c.want)
		}
	}
}

// TestLookupUnknown checks that unregistered names fail.
func TestLookupUnknown(t *testing.T) {
	_, err := New("perceptron")
	if !errors.Is(err, ErrUnknownActivation) {
		t.Fatalf("New(perceptron) error = %v, want ErrUnknownActivation", err)
	}
}

// TestActivate spot-checks the nonlinearities.
func TestActivate(t *testing.T) {
	cases := []struct {
		act  Activation
		x    float64
		want float64
	}{
		{Linear{}, -2.5, -2.5},
		{ReLU{}, -3, 0},
		{ReLU{}, 5, 5},
		{LeakyReLU{}, -2, -0.02},
		{LeakyReLU{}, 2, 2},
		{Binary{}, 0.1, 1},
		{Binary{}, 0, 0},
		{Binary{}, -0.1, 0},
		{TanH{}, 0.5, math.Tanh(0.5)},
		{SoftStep{}, 0, 0.5},
		{SoftSign{}, -1, -0.5},
		{SoftSign{}, 3, 0.75},
		{ArcTan{}, 1, math.Pi / 4},
		{ISRU{}, 0, 0},
		{ISRU{}, 1, 1 / math.Sqrt2},
		{NewELU(0.1), 2, 2},
		{NewELU(0.1), -1, 0.1 * (math.Exp(-1) - 1)},
		{Gaussian{}, 0, 1},
		{Gaussian{}, 1, math.Exp(-1)},
		{Swish{}, 0, 0},
		{Swish{}, 1, 1 - math.Exp(-1)},
		{Sinusoid{}, math.Pi / 2, 1},
	}
	for _, c := range cases {
		if got := c.act.Activate(c.x); !almostEqual(got, c.want) {
			t.Errorf("%s.Activate(%v) = %v, want %v", c.act.Name(), c.x, got, c.want)
		}
	}
}

// TestDerivative spot-checks the derivatives at post-activation values.
func TestDerivative(t *testing.T) {
	cases := []struct {
		act  Activation
		v    float64
		want float64
	}{
		{Linear{}, 42, 1},
		{ReLU{}, 5, 1},
		{ReLU{}, 0, 0},
		{LeakyReLU{}, 2, 1},
		{LeakyReLU{}, -0.02, 0.01},
		{Binary{}, 1, 0},
		{TanH{}, 0.5, 0.75},
		{SoftStep{}, 0.5, 0.25},
		{SoftStep{}, 0.25, 0.1875},
		{SoftSign{}, 0.5, 1.0 / 2.25},
		{ArcTan{}, 1, 0.5},
		{ISRU{}, 0, 1},
		{NewELU(0.1), 3, 1},
		{NewELU(0.1), -0.05, 0.1 * math.Exp(-0.05)},
		{Gaussian{}, 0, 0},
		{Sinusoid{}, 0, 1},
		{Sinusoid{}, math.Pi, -1},
	}
	for _, c := range cases {
		if got := c.act.Derivative(c.v); !almostEqual(got, c.want) {
			t.Errorf("%s.Derivative(%v) = %v, want %v", c.act.Name(), c.v, got, c.want)
		}
	}
}

// TestSwishDerivative pins the sigmoid-based Swish derivative formula.
func TestSwishDerivative(t *testing.T) {
	v := 0.7
	s := 1 / (1 + math.Exp(-v))
	want := s * (1 + v*(1-s))
	if got := (Swish{}).Derivative(v); !almostEqual(got, want) {
		t.Fatalf("Swish.Derivative(%v) = %v, want %v", v, got, want)
	}
}

// TestGELUDerivativeMatchesSlope verifies the analytic GELU derivative
// against a central finite difference of the activation.
func TestGELUDerivativeMatchesSlope(t *testing.T) {
	g := GELU{}
	for _, x := range []float64{-2, -0.5, 0, 0.3, 1.7} {
		const h = 1e-6
		slope := (g.Activate(x+h) - g.Activate(x-h)) / (2 * h)
		if got := g.Derivative(x); math.Abs(got-slope) > 1e-5 {
			t.Errorf("GELU.Derivative(%v) = %v, want ~%v", x, got, slope)
		}
	}
}
