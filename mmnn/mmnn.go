// Package mmnn re-exports the engine's public surface for embedding the
// neuron-graph engine in other programs without reaching into internal
// packages.
package mmnn

import (
	"github.com/micromanaged/mmnn/internal/activations"
	"github.com/micromanaged/mmnn/internal/network"
	"github.com/micromanaged/mmnn/internal/neuron"
	"github.com/micromanaged/mmnn/internal/topology"
)

// Re-export the core types.
type (
	Network    = network.Network
	Document   = topology.Document
	NeuronDef  = topology.NeuronDef
	Activation = activations.Activation
)

// Error taxonomy.
var (
	ErrShapeMismatch     = network.ErrShapeMismatch
	ErrUnknownNeuron     = network.ErrUnknownNeuron
	ErrDuplicateNeuron   = network.ErrDuplicateNeuron
	ErrInputConnection   = neuron.ErrInputConnection
	ErrDepthUnresolved   = neuron.ErrDepthUnresolved
	ErrUnknownActivation = activations.ErrUnknownActivation
)

// Build constructs a network from a topology document.
func Build(doc *Document) (*Network, error) {
	return network.Build(doc)
}

// Load reads a topology document from a JSON or YAML file.
func Load(path string) (*Document, error) {
	return topology.Load(path)
}

// LoadNetwork reads a topology file and builds the network it describes.
func LoadNetwork(path string) (*Network, error) {
	doc, err := topology.Load(path)
	if err != nil {
		return nil, err
	}
	return network.Build(doc)
}

// NewActivation returns the activation registered under name.
func NewActivation(name string) (Activation, error) {
	return activations.New(name)
}
