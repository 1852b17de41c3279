package session

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/micromanaged/mmnn/internal/network"
	"github.com/micromanaged/mmnn/internal/topology"
)

func identityNet(t *testing.T) *network.Network {
	t.Helper()
	net, err := network.Build(&topology.Document{
		Inputs:  []string{"i"},
		Outputs: []string{"o"},
		Neurons: map[string]topology.NeuronDef{
			"o": {Synapses: map[string]float64{"i": 1}},
		},
	})
	require.NoError(t, err)
	return net
}

// TestPropagateLines: one output line per valid input line; bad lines are
// skipped without ending the session.
func TestPropagateLines(t *testing.T) {
	in := strings.NewReader("1\n-2.5\nbogus\n1 2\n3\n")
	var out bytes.Buffer

	s := New(identityNet(t), in, &out, zap.NewNop())
	require.NoError(t, s.Propagate(context.Background(), false))

	assert.Equal(t, "1\n-2.5\n3\n", out.String())
}

// TestPropagateWithNames prefixes values with output neuron ids.
func TestPropagateWithNames(t *testing.T) {
	in := strings.NewReader("7\n")
	var out bytes.Buffer

	s := New(identityNet(t), in, &out, zap.NewNop())
	require.NoError(t, s.Propagate(context.Background(), true))

	assert.Equal(t, "o:7\n", out.String())
}

// TestPropagateCanceled: a canceled context stops the loop before any line is
// processed.
func TestPropagateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := strings.NewReader("1\n2\n")
	var out bytes.Buffer

	s := New(identityNet(t), in, &out, zap.NewNop())
	require.NoError(t, s.Propagate(ctx, false))
	assert.Empty(t, out.String())
}

// TestLearnAlternation: inputs echo named outputs, expected lines complete
// them with the loss diagnostic.
func TestLearnAlternation(t *testing.T) {
	in := strings.NewReader("1\n1\n2\n1\n")
	var out bytes.Buffer

	s := New(identityNet(t), in, &out, zap.NewNop())
	require.NoError(t, s.Learn(context.Background(), 0))

	assert.Equal(t, "o:1 [Error: 0]\no:2 [Error: 0.5]\n", out.String())
}

// TestLearnRecoversFromBadExpectedLine: a wrong-arity expected vector keeps
// the session waiting for another expected vector.
func TestLearnRecoversFromBadExpectedLine(t *testing.T) {
	in := strings.NewReader("1\n2 3\n4\n")
	var out bytes.Buffer

	s := New(identityNet(t), in, &out, zap.NewNop())
	require.NoError(t, s.Learn(context.Background(), 0))

	assert.Equal(t, "o:1 [Error: 4.5]\n", out.String())
}

// TestLearnUpdatesWeights: training through the session changes the network.
func TestLearnUpdatesWeights(t *testing.T) {
	net := identityNet(t)
	in := strings.NewReader("1\n2\n")
	var out bytes.Buffer

	require.NoError(t, New(net, in, &out, zap.NewNop()).Learn(context.Background(), 0.1))

	weights := net.Snapshot().Neurons["o"].Synapses
	assert.InDelta(t, 1.1, weights["i"], 1e-12) // w -= (1-2)*0.1*1
}

// TestParseVector covers whitespace handling and failures.
func TestParseVector(t *testing.T) {
	got, err := parseVector("  1.5\t-2  3e2 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2, 300}, got)

	got, err = parseVector("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = parseVector("1 two 3")
	require.Error(t, err)
}
