package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/vcval/internal/model"
)

// document is the serialised shape shared by the JSON and YAML renderers.
type document struct {
	Report    `yaml:",inline"`
	Narrative []string `json:"narrative" yaml:"narrative"`
}

func newDocument(rep Report) document {
	if rep.Comparables == nil {
		rep.Comparables = []model.Comparable{}
	}
	if rep.Result.Multiples == nil {
		rep.Result.Multiples = []float64{}
	}
	return document{Report: rep, Narrative: Narrative(rep.Parameters, rep.Result)}
}

// JSONRenderer writes the report and narrative as indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer returns a JSONRenderer.
func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

// Render encodes the report document. Options are ignored.
func (r *JSONRenderer) Render(w io.Writer, rep Report, _ Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(rep))
}

// YAMLRenderer writes the same document as JSONRenderer in YAML.
type YAMLRenderer struct{}

// NewYAMLRenderer returns a YAMLRenderer.
func NewYAMLRenderer() *YAMLRenderer { return &YAMLRenderer{} }

// Render encodes the report document with two-space indentation.
func (r *YAMLRenderer) Render(w io.Writer, rep Report, _ Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(rep)); err != nil {
		return err
	}
	return enc.Close()
}
