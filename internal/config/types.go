package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultWorkers is the output fan-out used when settings omit it.
const DefaultWorkers = 4

// Node kinds accepted in scene documents.
const (
	NodeContainer = "container"
	NodeImage     = "image"
	NodeSpacer    = "spacer"
)

// Document is a full scene document: global settings, where assets come
// from, and the outputs to render.
type Document struct {
	Version     string   `yaml:"version" validate:"required,semver"`
	Name        string   `yaml:"name" validate:"required,min=1,max=100"`
	Description string   `yaml:"description,omitempty"`
	Settings    Settings `yaml:"settings,omitempty"`
	Assets      Assets   `yaml:"assets,omitempty"`
	Outputs     []Output `yaml:"outputs" validate:"required,min=1,dive"`

	// BaseDir is the directory of the file the document was read from.
	BaseDir string `yaml:"-"`
}

// Settings holds render-wide parameters.
type Settings struct {
	Workers         int  `yaml:"workers,omitempty" validate:"omitempty,min=1,max=32"`
	ContinueOnError bool `yaml:"continue_on_error,omitempty"`
	Verbose         bool `yaml:"verbose,omitempty"`
	NoCache         bool `yaml:"no_cache,omitempty"`
}

// Assets locates image sources. Relative Dir is taken from the document's
// directory; relative image sources are taken from Dir.
type Assets struct {
	Dir  string      `yaml:"dir,omitempty"`
	Repo *RepoSource `yaml:"repo,omitempty"`
}

// RepoSource is a git repository synced before rendering; Destination
// becomes the asset directory.
type RepoSource struct {
	URL         string `yaml:"url" validate:"required"`
	Branch      string `yaml:"branch,omitempty"`
	Depth       int    `yaml:"depth,omitempty" validate:"omitempty,min=1"`
	Destination string `yaml:"destination" validate:"required"`
}

// Output is one rendered file.
type Output struct {
	ID         string `yaml:"id" validate:"required,node_id"`
	Path       string `yaml:"path" validate:"required"`
	Width      int    `yaml:"width" validate:"required,min=1,max=16384"`
	Height     int    `yaml:"height" validate:"required,min=1,max=16384"`
	Background string `yaml:"background,omitempty" validate:"omitempty,hex_color"`
	Root       Node   `yaml:"root"`
}

// Node is one element of a scene tree.
type Node struct {
	Type       string   `yaml:"type" validate:"required,oneof=container image spacer"`
	ID         string   `yaml:"id,omitempty" validate:"omitempty,node_id"`
	Align      string   `yaml:"align,omitempty" validate:"omitempty,oneof=row column"`
	Padding    Padding  `yaml:"padding,omitempty"`
	MinWidth   float64  `yaml:"min_width,omitempty" validate:"min=0"`
	MinHeight  float64  `yaml:"min_height,omitempty" validate:"min=0"`
	Width      *float64 `yaml:"width,omitempty" validate:"omitempty,min=0"`
	Height     *float64 `yaml:"height,omitempty" validate:"omitempty,min=0"`
	Stretch    bool     `yaml:"stretch,omitempty"`
	Background string   `yaml:"background,omitempty" validate:"omitempty,hex_color"`
	Radius     float64  `yaml:"radius,omitempty" validate:"min=0"`
	Source     string   `yaml:"source,omitempty"`
	Children   []Node   `yaml:"children,omitempty" validate:"omitempty,dive"`
}

// Padding is the shorthand form: one value for every side, two for
// vertical and horizontal, or four for top, right, bottom and left.
type Padding []float64

// UnmarshalYAML accepts a bare number as well as a list.
func (p *Padding) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		*p = Padding{v}
	case yaml.SequenceNode:
		var vs []float64
		if err := value.Decode(&vs); err != nil {
			return err
		}
		*p = Padding(vs)
	default:
		return fmt.Errorf("line %d: padding must be a number or a list of numbers", value.Line)
	}
	return nil
}

// Edges expands the shorthand into top, right, bottom and left.
func (p Padding) Edges() (top, right, bottom, left float64, err error) {
	switch len(p) {
	case 0:
		return 0, 0, 0, 0, nil
	case 1:
		return p[0], p[0], p[0], p[0], nil
	case 2:
		return p[0], p[1], p[0], p[1], nil
	case 4:
		return p[0], p[1], p[2], p[3], nil
	default:
		return 0, 0, 0, 0, fmt.Errorf("padding takes 1, 2 or 4 values, got %d", len(p))
	}
}

// OutputByID returns the output with the given id.
func (d *Document) OutputByID(id string) (Output, bool) {
	for _, out := range d.Outputs {
		if out.ID == id {
			return out, true
		}
	}
	return Output{}, false
}

// ApplyDefaults fills settings left unset.
func (d *Document) ApplyDefaults() {
	if d.Settings.Workers == 0 {
		d.Settings.Workers = DefaultWorkers
	}
}

// Walk visits n and its descendants in document order. path names each node
// the way validation errors do.
func (n Node) Walk(path string, visit func(path string, node Node) error) error {
	if err := visit(path, n); err != nil {
		return err
	}
	for i, child := range n.Children {
		if err := child.Walk(fmt.Sprintf("%s.children[%d]", path, i), visit); err != nil {
			return err
		}
	}
	return nil
}
