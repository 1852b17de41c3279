package mmnn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildAndPropagate exercises the embedded-use surface.
func TestBuildAndPropagate(t *testing.T) {
	net, err := Build(&Document{
		Inputs:  []string{"i"},
		Outputs: []string{"o"},
		Neurons: map[string]NeuronDef{
			"o": {Synapses: map[string]float64{"i": 2}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, net.Propagate([]float64{3}))
	assert.Equal(t, []float64{6.0}, net.Outputs())

	err = net.Propagate([]float64{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

// TestLoadNetwork builds straight from a topology file.
func TestLoadNetwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	payload := "inputs: [i]\noutputs: [o]\nneurons:\n  o:\n    synapses:\n      i: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	net, err := LoadNetwork(path)
	require.NoError(t, err)

	require.NoError(t, net.Propagate([]float64{4}))
	assert.Equal(t, []float64{4.0}, net.Outputs())
}

// TestNewActivation resolves catalog names through the facade.
func TestNewActivation(t *testing.T) {
	act, err := NewActivation("sigmoid")
	require.NoError(t, err)
	assert.Equal(t, "SoftStep", act.Name())

	_, err = NewActivation("nope")
	assert.ErrorIs(t, err, ErrUnknownActivation)
}
