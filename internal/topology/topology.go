// Package topology defines the declarative network description and its JSON
// and YAML encodings.
//
// A document names the input neurons, the output neurons, and every
// computational neuron with its activation, bias, and weighted incoming
// synapses. It is the only exchange format between a persisted network and a
// built one: networks are constructed from documents and snapshot back into
// them.
package topology

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultActivation is assumed for neurons that do not declare one.
const DefaultActivation = "Linear"

// Supported document encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var validate = validator.New()

// NeuronDef declares a single computational neuron. Missing fields default to
// a Linear activation, a zero bias, and no synapses.
type NeuronDef struct {
	Activation string             `json:"activation,omitempty" yaml:"activation,omitempty"`
	Bias       float64            `json:"bias" yaml:"bias"`
	Synapses   map[string]float64 `json:"synapses,omitempty" yaml:"synapses,omitempty" validate:"omitempty,dive,keys,required,endkeys"`
}

// ActivationName returns the declared activation, or DefaultActivation when
// none was given.
func (d NeuronDef) ActivationName() string {
	if d.Activation == "" {
		return DefaultActivation
	}
	return d.Activation
}

// Sources returns the synapse source ids in sorted order, giving the
// map-backed declaration a deterministic wiring order.
func (d NeuronDef) Sources() []string {
	ids := make([]string, 0, len(d.Synapses))
	for id := range d.Synapses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Document is the declarative form of a network.
type Document struct {
	Inputs  []string             `json:"inputs" yaml:"inputs" validate:"required,min=1,unique,dive,required"`
	Outputs []string             `json:"outputs" yaml:"outputs" validate:"required,min=1,dive,required"`
	Neurons map[string]NeuronDef `json:"neurons" yaml:"neurons" validate:"omitempty,dive,keys,required,endkeys"`
}

// NeuronIDs returns the declared neuron ids in sorted order, giving the
// map-backed declaration a deterministic registration order.
func (d *Document) NeuronIDs() []string {
	ids := make([]string, 0, len(d.Neurons))
	for id := range d.Neurons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks the document's structural schema: inputs present and
// unique, outputs present, no empty ids. Graph-level rules (references,
// duplicates across sections, depth) are the network's concern at build time.
func (d *Document) Validate() error {
	return errors.Wrap(validate.Struct(d), "invalid topology document")
}

// Format reports the encoding implied by a file path: .yaml and .yml mean
// YAML, anything else JSON.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a document in the given format and validates it.
func Decode(raw []byte, format string) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, errors.Wrap(err, "decode topology yaml")
		}
	default:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, errors.Wrap(err, "decode topology json")
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode renders the document in the given format. JSON is pretty-printed,
// the way saved networks have always been written.
func (d *Document) Encode(format string) ([]byte, error) {
	switch format {
	case FormatYAML:
		raw, err := yaml.Marshal(d)
		return raw, errors.Wrap(err, "encode topology yaml")
	default:
		raw, err := json.MarshalIndent(d, "", "  ")
		return raw, errors.Wrap(err, "encode topology json")
	}
}

// Load reads and validates a topology document from path, choosing the
// encoding by file extension.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read topology")
	}
	doc, err := Decode(raw, Format(path))
	return doc, errors.Wrapf(err, "topology %s", path)
}

// Save writes the document to path, choosing the encoding by file extension.
func (d *Document) Save(path string) error {
	raw, err := d.Encode(Format(path))
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, raw, 0o644), "write topology")
}
