package components

import (
	"github.com/alexisbeaulieu97/rasterkit/internal/render"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
)

// Spacer occupies a fixed box and paints nothing.
type Spacer struct {
	ID     string
	Width  float64
	Height float64
}

var _ render.Component = (*Spacer)(nil)

// NewSpacer creates a spacer with the given dimensions.
func NewSpacer(width, height float64) *Spacer {
	return &Spacer{Width: width, Height: height}
}

// Style pins the spacer to its explicit width and height.
func (s *Spacer) Style() style.RawStyle {
	w, h := s.Width, s.Height
	return style.RawStyle{Width: &w, Height: &h}
}

// Children returns nil; spacers are leaves.
func (s *Spacer) Children() []render.Component {
	return nil
}

// Name returns the spacer's ID.
func (s *Spacer) Name() string {
	return s.ID
}

// Paint draws nothing.
func (s *Spacer) Paint(*render.PaintContext) error {
	return nil
}
