// Package network implements the neuron graph: construction from a topology
// document, forward propagation, supervised backpropagation, and
// snapshotting back into a document.
package network

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/micromanaged/mmnn/internal/activations"
	"github.com/micromanaged/mmnn/internal/loss"
	"github.com/micromanaged/mmnn/internal/neuron"
	"github.com/micromanaged/mmnn/internal/topology"
)

var (
	// ErrShapeMismatch reports an input or expected-output vector whose
	// length disagrees with the network's arity. The network state is left
	// untouched; the caller can skip the offending vector and continue.
	ErrShapeMismatch = errors.New("vector length does not match network arity")

	// ErrUnknownNeuron reports a reference to a neuron id that was never
	// defined.
	ErrUnknownNeuron = errors.New("unknown neuron reference")

	// ErrDuplicateNeuron reports an id defined more than once.
	ErrDuplicateNeuron = errors.New("duplicate neuron id")
)

// Network is a graph of neurons evaluated in ascending depth order.
//
// The graph is structurally immutable once built: propagation and
// backpropagation mutate activation values, weights, and biases, never the
// wiring.
type Network struct {
	arena   []*neuron.Neuron
	index   map[string]int
	inputs  []int
	outputs []int
	order   []int // handles sorted by depth, registration order on ties
	loss    loss.SquaredError
}

// Build constructs a network from a topology document.
//
// Input neurons register first, in declared order, with a Linear activation
// and no incoming synapses. Declared neurons register next in sorted-id
// order, then synapses wire in sorted-source-id order; the sorting makes
// evaluation order, and therefore every numeric result, reproducible across
// runs even though the document's neuron section is an unordered map.
// Outputs bind to already-defined neurons. Every neuron's depth must resolve
// or the document is rejected.
func Build(doc *topology.Document) (*Network, error) {
	net := &Network{index: make(map[string]int)}

	for _, id := range doc.Inputs {
		h, err := net.add(id, neuron.Input, activations.Linear{}, 0)
		if err != nil {
			return nil, err
		}
		net.inputs = append(net.inputs, h)
	}

	ids := doc.NeuronIDs()
	for _, id := range ids {
		def := doc.Neurons[id]
		act, err := activations.New(def.ActivationName())
		if err != nil {
			return nil, fmt.Errorf("neuron %q: %w", id, err)
		}
		if _, err := net.add(id, neuron.Normal, act, def.Bias); err != nil {
			return nil, err
		}
	}

	for _, id := range ids {
		def := doc.Neurons[id]
		target := net.arena[net.index[id]]
		for _, srcID := range def.Sources() {
			src, ok := net.index[srcID]
			if !ok {
				return nil, fmt.Errorf("%w: synapse source %q of neuron %q", ErrUnknownNeuron, srcID, id)
			}
			if err := target.Connect(src, def.Synapses[srcID]); err != nil {
				return nil, err
			}
		}
	}

	for _, id := range doc.Outputs {
		h, ok := net.index[id]
		if !ok {
			return nil, fmt.Errorf("%w: output %q", ErrUnknownNeuron, id)
		}
		net.outputs = append(net.outputs, h)
	}

	if err := neuron.ResolveDepths(net.arena); err != nil {
		return nil, err
	}

	net.order = make([]int, len(net.arena))
	for i := range net.order {
		net.order[i] = i
	}
	sort.SliceStable(net.order, func(a, b int) bool {
		return net.arena[net.order[a]].Depth() < net.arena[net.order[b]].Depth()
	})
	return net, nil
}

// add registers a neuron under a fresh handle.
func (net *Network) add(id string, kind neuron.Kind, act activations.Activation, bias float64) (int, error) {
	if _, exists := net.index[id]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateNeuron, id)
	}
	h := len(net.arena)
	net.arena = append(net.arena, neuron.New(id, kind, act, bias))
	net.index[id] = h
	return h, nil
}

// InputCount returns the number of input neurons.
func (net *Network) InputCount() int { return len(net.inputs) }

// OutputCount returns the number of output neurons.
func (net *Network) OutputCount() int { return len(net.outputs) }

// OutputIDs returns the output neuron ids in declared order.
func (net *Network) OutputIDs() []string {
	ids := make([]string, len(net.outputs))
	for i, h := range net.outputs {
		ids[i] = net.arena[h].ID()
	}
	return ids
}

// Outputs returns the output neurons' activation values in declared order.
func (net *Network) Outputs() []float64 {
	values := make([]float64, len(net.outputs))
	for i, h := range net.outputs {
		values[i] = net.arena[h].Value()
	}
	return values
}

// Propagate runs one forward pass.
//
// Each input value is assigned to the corresponding input neuron in declared
// order, then every non-input neuron recomputes its activation in ascending
// depth order. Results are read separately through Outputs.
func (net *Network) Propagate(inputs []float64) error {
	if len(inputs) != len(net.inputs) {
		return fmt.Errorf("%w: got %d inputs, want %d", ErrShapeMismatch, len(inputs), len(net.inputs))
	}
	for i, h := range net.inputs {
		net.arena[h].SetValue(inputs[i])
	}
	for _, h := range net.order {
		if n := net.arena[h]; !n.IsInput() {
			n.Forward(net.arena)
		}
	}
	return nil
}

// Backpropagate performs one gradient-descent training step against the
// expected output values and returns the total loss over the current output
// activations.
//
// The loss derivative of each output neuron seeds an error accumulator keyed
// by handle, then every neuron runs its backward step in descending depth
// order, so credit assigned to a source is in place before the source itself
// is processed.
func (net *Network) Backpropagate(expected []float64, learningRate float64) (float64, error) {
	if len(expected) != len(net.outputs) {
		return 0, fmt.Errorf("%w: got %d expected outputs, want %d", ErrShapeMismatch, len(expected), len(net.outputs))
	}
	total, err := net.loss.Error(net.Outputs(), expected)
	if err != nil {
		return 0, err
	}

	errs := make(map[int]float64, len(net.arena))
	for i, h := range net.outputs {
		errs[h] = net.loss.Derivative(net.arena[h].Value(), expected[i])
	}
	for i := len(net.order) - 1; i >= 0; i-- {
		h := net.order[i]
		net.arena[h].Backward(net.arena, h, errs, learningRate)
	}
	return total, nil
}

// Snapshot captures the network as a topology document, the inverse of
// Build. Input neurons appear only in the inputs list; every other neuron is
// declared with its activation, current bias, and current synapse weights.
func (net *Network) Snapshot() *topology.Document {
	doc := &topology.Document{
		Inputs:  make([]string, 0, len(net.inputs)),
		Outputs: net.OutputIDs(),
		Neurons: make(map[string]topology.NeuronDef, len(net.arena)-len(net.inputs)),
	}
	for _, h := range net.inputs {
		doc.Inputs = append(doc.Inputs, net.arena[h].ID())
	}
	for _, n := range net.arena {
		if n.IsInput() {
			continue
		}
		synapses := make(map[string]float64, len(n.Synapses()))
		for _, s := range n.Synapses() {
			synapses[net.arena[s.Source].ID()] = s.Weight
		}
		doc.Neurons[n.ID()] = topology.NeuronDef{
			Activation: n.ActivationName(),
			Bias:       n.Bias(),
			Synapses:   synapses,
		}
	}
	return doc
}

// Describe renders the evaluation order grouped by depth, one rank per line.
func (net *Network) Describe() string {
	var b strings.Builder
	var rank uint32
	for i, h := range net.order {
		n := net.arena[h]
		if i == 0 || n.Depth() != rank {
			if i > 0 {
				b.WriteByte('\n')
			}
			rank = n.Depth()
			fmt.Fprintf(&b, "%d:", rank)
		}
		b.WriteByte(' ')
		b.WriteString(n.ID())
	}
	if len(net.order) > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}
