package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/rasterkit/internal/app/pipeline"
	"github.com/alexisbeaulieu97/rasterkit/internal/components"
	"github.com/alexisbeaulieu97/rasterkit/internal/render"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
)

var (
	inspectPathStyle   = lipgloss.NewStyle().Bold(true)
	inspectDetailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newInspectCmd(root *rootFlags) *cobra.Command {
	var configPath, outputID string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the resolved layout of one output",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(root.verbose, false, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			placements, err := pipeline.NewService(log).Inspect(cmd.Context(), pipeline.InspectRequest{
				Document: doc,
				OutputID: outputID,
			})
			if err != nil {
				return err
			}
			printPlacements(cmd.OutOrStdout(), placements)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to scene document (.yaml or .hcl)")
	cmd.Flags().StringVar(&outputID, "output", "", "Output id to inspect (defaults to the first)")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func printPlacements(w io.Writer, placements []render.Placement) {
	for _, p := range placements {
		indent := strings.Repeat("  ", p.Depth)
		geometry := fmt.Sprintf("at (%g,%g) size %gx%g", p.Origin.X, p.Origin.Y, p.Style.Width, p.Style.Height)
		if pad := p.Style.Padding; pad != (style.Padding{}) {
			geometry += fmt.Sprintf(" padding %g %g %g %g", pad.Top, pad.Right, pad.Bottom, pad.Left)
		}
		fmt.Fprintf(w, "%s%s %s %s\n",
			indent,
			inspectPathStyle.Render(p.Path),
			describeNode(p.Node),
			inspectDetailStyle.Render(geometry),
		)
	}
}

func describeNode(node render.Component) string {
	switch n := node.(type) {
	case *components.Container:
		return "container " + n.Axis.String()
	case *components.Image:
		return "image " + n.Path
	case *components.Spacer:
		return "spacer"
	default:
		return fmt.Sprintf("%T", node)
	}
}
