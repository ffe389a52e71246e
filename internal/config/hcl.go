package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

// hclDocument mirrors Document for gohcl. Outputs are labelled blocks and
// each output holds exactly one root node block:
//
//	output "cover" {
//	  path   = "cover.png"
//	  width  = 800
//	  height = 600
//	  node "container" {
//	    padding = [10, 20]
//	    node "image" {
//	      source = "logo.png"
//	      width  = 120
//	    }
//	  }
//	}
type hclDocument struct {
	Version     string       `hcl:"version"`
	Name        string       `hcl:"name"`
	Description string       `hcl:"description,optional"`
	Settings    *hclSettings `hcl:"settings,block"`
	Assets      *hclAssets   `hcl:"assets,block"`
	Outputs     []*hclOutput `hcl:"output,block"`
}

type hclSettings struct {
	Workers         int  `hcl:"workers,optional"`
	ContinueOnError bool `hcl:"continue_on_error,optional"`
	Verbose         bool `hcl:"verbose,optional"`
	NoCache         bool `hcl:"no_cache,optional"`
}

type hclAssets struct {
	Dir  string   `hcl:"dir,optional"`
	Repo *hclRepo `hcl:"repo,block"`
}

type hclRepo struct {
	URL         string `hcl:"url"`
	Branch      string `hcl:"branch,optional"`
	Depth       int    `hcl:"depth,optional"`
	Destination string `hcl:"destination"`
}

type hclOutput struct {
	ID         string     `hcl:"id,label"`
	Path       string     `hcl:"path"`
	Width      int        `hcl:"width"`
	Height     int        `hcl:"height"`
	Background string     `hcl:"background,optional"`
	Nodes      []*hclNode `hcl:"node,block"`
	DefRange   hcl.Range  `hcl:",def_range"`
}

type hclNode struct {
	Type       string         `hcl:"type,label"`
	ID         string         `hcl:"id,optional"`
	Align      string         `hcl:"align,optional"`
	Padding    hcl.Expression `hcl:"padding,optional"`
	MinWidth   float64        `hcl:"min_width,optional"`
	MinHeight  float64        `hcl:"min_height,optional"`
	Width      *float64       `hcl:"width,optional"`
	Height     *float64       `hcl:"height,optional"`
	Stretch    bool           `hcl:"stretch,optional"`
	Background string         `hcl:"background,optional"`
	Radius     float64        `hcl:"radius,optional"`
	Source     string         `hcl:"source,optional"`
	Children   []*hclNode     `hcl:"node,block"`
}

func decodeHCL(name string, data []byte) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, hclParseError(name, diags)
	}

	var raw hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, hclParseError(name, diags)
	}

	doc := &Document{
		Version:     raw.Version,
		Name:        raw.Name,
		Description: raw.Description,
	}
	if raw.Settings != nil {
		doc.Settings = Settings(*raw.Settings)
	}
	if raw.Assets != nil {
		doc.Assets.Dir = raw.Assets.Dir
		if raw.Assets.Repo != nil {
			repo := RepoSource(*raw.Assets.Repo)
			doc.Assets.Repo = &repo
		}
	}

	for _, out := range raw.Outputs {
		if len(out.Nodes) != 1 {
			err := fmt.Errorf("output %q must contain exactly one node block, found %d", out.ID, len(out.Nodes))
			return nil, rkerrors.NewParseError(name, out.DefRange.Start.Line, err)
		}
		root, err := out.Nodes[0].node(name)
		if err != nil {
			return nil, err
		}
		doc.Outputs = append(doc.Outputs, Output{
			ID:         out.ID,
			Path:       out.Path,
			Width:      out.Width,
			Height:     out.Height,
			Background: out.Background,
			Root:       root,
		})
	}
	return doc, nil
}

func (n *hclNode) node(name string) (Node, error) {
	padding, err := evalPadding(n.Padding)
	if err != nil {
		return Node{}, rkerrors.NewParseError(name, n.Padding.Range().Start.Line, err)
	}

	out := Node{
		Type:       n.Type,
		ID:         n.ID,
		Align:      n.Align,
		Padding:    padding,
		MinWidth:   n.MinWidth,
		MinHeight:  n.MinHeight,
		Width:      n.Width,
		Height:     n.Height,
		Stretch:    n.Stretch,
		Background: n.Background,
		Radius:     n.Radius,
		Source:     n.Source,
	}
	for _, child := range n.Children {
		c, err := child.node(name)
		if err != nil {
			return Node{}, err
		}
		out.Children = append(out.Children, c)
	}
	return out, nil
}

// evalPadding accepts a number or a tuple/list of numbers.
func evalPadding(expr hcl.Expression) (Padding, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("padding must be a constant")
	}

	if val.Type() == cty.Number {
		var v float64
		if err := gocty.FromCtyValue(val, &v); err != nil {
			return nil, fmt.Errorf("padding: %w", err)
		}
		return Padding{v}, nil
	}

	list, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("padding must be a number or a list of numbers: %w", err)
	}
	var vs []float64
	if err := gocty.FromCtyValue(list, &vs); err != nil {
		return nil, fmt.Errorf("padding: %w", err)
	}
	return Padding(vs), nil
}

func hclParseError(name string, diags hcl.Diagnostics) error {
	line := 0
	for _, d := range diags {
		if d.Subject != nil {
			line = d.Subject.Start.Line
			break
		}
	}
	return rkerrors.NewParseError(name, line, diags)
}
