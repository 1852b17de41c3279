// Package neuron implements the nodes of a neuron graph.
//
// Neurons live in an arena owned by their graph and refer to each other by
// integer handle, so recurrent edges and self-loops are representable without
// shared ownership. Per-node propagation and backpropagation read source
// values through the arena; orchestration across nodes belongs to the
// network package.
package neuron

import (
	"errors"
	"fmt"
	"math"

	"github.com/micromanaged/mmnn/internal/activations"
)

// DepthUnknown marks a neuron whose depth has not been resolved yet.
const DepthUnknown uint32 = math.MaxUint32

var (
	// ErrInputConnection reports an attempt to wire a synapse into an input
	// neuron. Inputs take their value from the caller and never from the
	// graph.
	ErrInputConnection = errors.New("input neurons cannot receive synapses")

	// ErrDepthUnresolved reports a neuron whose depth cannot be determined
	// because every incoming path is cyclic. Such a neuron has no
	// schedulable rank and the topology is rejected.
	ErrDepthUnresolved = errors.New("neuron depth cannot be resolved")
)

// Kind distinguishes input neurons from computational ones.
type Kind int

const (
	// Input neurons hold caller-supplied values and have no synapses.
	Input Kind = iota

	// Normal neurons compute their value from incoming synapses. Output
	// neurons are Normal neurons the graph additionally tracks for readout.
	Normal
)

// Synapse is a weighted incoming edge from another neuron in the same arena.
type Synapse struct {
	Source int
	Weight float64
}

// Neuron is a single graph node.
type Neuron struct {
	id       string
	kind     Kind
	act      activations.Activation
	bias     float64
	depth    uint32
	synapses []Synapse

	value  float64 // activation from the most recent forward pass
	backup float64 // activation as it stood before that pass
}

// New creates a neuron with no synapses and an unresolved depth.
func New(id string, kind Kind, act activations.Activation, bias float64) *Neuron {
	return &Neuron{id: id, kind: kind, act: act, bias: bias, depth: DepthUnknown}
}

// ID returns the neuron's unique identifier.
func (n *Neuron) ID() string { return n.id }

// IsInput reports whether the neuron is an input.
func (n *Neuron) IsInput() bool { return n.kind == Input }

// Depth returns the neuron's topological rank, or DepthUnknown before
// resolution.
func (n *Neuron) Depth() uint32 { return n.depth }

// Bias returns the learned bias.
func (n *Neuron) Bias() float64 { return n.bias }

// ActivationName returns the canonical name of the neuron's activation.
func (n *Neuron) ActivationName() string { return n.act.Name() }

// Value returns the activation from the most recent forward pass.
func (n *Neuron) Value() float64 { return n.value }

// SetValue assigns the activation value directly. The graph uses it to load
// caller-supplied values into input neurons.
func (n *Neuron) SetValue(v float64) { n.value = v }

// Synapses returns the neuron's incoming edges in wiring order.
func (n *Neuron) Synapses() []Synapse { return n.synapses }

// Connect appends an incoming synapse from the neuron at handle source.
func (n *Neuron) Connect(source int, weight float64) error {
	if n.kind == Input {
		return fmt.Errorf("%w: %q", ErrInputConnection, n.id)
	}
	n.synapses = append(n.synapses, Synapse{Source: source, Weight: weight})
	return nil
}

// Forward recomputes the neuron's activation from its sources.
//
// The graph calls Forward on non-input neurons in ascending depth order, so a
// source at lower depth has already been recomputed this pass while a deeper
// (recurrent) source still carries the previous pass's value. A self-loop
// reads the receiver's own previous value, because the sum is taken before
// the activation is overwritten. The outgoing value is saved as the backup
// so backpropagation can reconstruct what recurrent consumers actually read.
func (n *Neuron) Forward(arena []*Neuron) {
	var sum float64
	for _, s := range n.synapses {
		sum += s.Weight * arena[s.Source].value
	}
	n.backup = n.value
	n.value = n.act.Activate(sum + n.bias)
}

// Backward applies one gradient-descent step to the neuron's parameters and
// credits its accumulated error to its sources.
//
// errs accumulates error signals by handle; a missing entry reads as zero.
// The graph calls Backward in descending depth order so that credit assigned
// here is visible when the source neuron is processed. The value used for a
// weight delta mirrors what Forward consumed: the current value for a source
// at the same or lower depth, the pre-pass backup for a deeper (recurrent)
// source or a self-loop. All deltas are computed from a consistent snapshot
// of the accumulated error before any weight changes, keeping self-loops and
// shared sources order-independent.
func (n *Neuron) Backward(arena []*Neuron, self int, errs map[int]float64, learningRate float64) {
	acc := errs[self]
	local := acc * n.act.Derivative(n.value)

	deltas := make([]float64, len(n.synapses))
	for i, s := range n.synapses {
		src := arena[s.Source]
		used := src.value
		if s.Source == self || src.depth > n.depth {
			used = src.backup
		}
		errs[s.Source] += acc * s.Weight
		deltas[i] = acc * learningRate * used
	}
	for i := range n.synapses {
		n.synapses[i].Weight -= deltas[i]
	}
	n.bias -= local * learningRate
}
