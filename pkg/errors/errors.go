package errors

import (
	stdErrors "errors"
	"fmt"
)

// ParseError represents a scene document parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures scene document validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Kind classifies a render failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindAssetUnavailable means the locator did not resolve to readable bytes.
	KindAssetUnavailable
	// KindDecodeFailure means the bytes are not a valid image or decode to a degenerate size.
	KindDecodeFailure
	// KindInvalidGeometry means a resolved dimension or scale is zero, negative or non-finite.
	KindInvalidGeometry
	// KindCompositionFailure means the raster primitive rejected the pixels or transform.
	KindCompositionFailure
)

func (k Kind) String() string {
	switch k {
	case KindAssetUnavailable:
		return "asset unavailable"
	case KindDecodeFailure:
		return "decode failure"
	case KindInvalidGeometry:
		return "invalid geometry"
	case KindCompositionFailure:
		return "composition failure"
	default:
		return "unknown"
	}
}

// RenderError identifies the node whose layout or paint aborted a render pass.
type RenderError struct {
	Node string
	Kind Kind
	Err  error
}

// NewRenderError constructs a RenderError for the node at the given path.
func NewRenderError(node string, kind Kind, err error) error {
	return &RenderError{Node: node, Kind: kind, Err: err}
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	if e.Node != "" {
		return fmt.Sprintf("render error [%s] at %s: %v", e.Kind, e.Node, e.Err)
	}
	return fmt.Sprintf("render error [%s]: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying error.
func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AssetError is returned by decoders when a resolved path cannot be turned into pixels.
type AssetError struct {
	Path string
	Kind Kind
	Err  error
}

// NewAssetError constructs an AssetError.
func NewAssetError(path string, kind Kind, err error) error {
	return &AssetError{Path: path, Kind: kind, Err: err}
}

func (e *AssetError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("asset error [%s] %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *AssetError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// OutputError wraps the failure of a single output in a scene document.
type OutputError struct {
	Output string
	Err    error
}

// NewOutputError constructs an OutputError.
func NewOutputError(output string, err error) error {
	return &OutputError{Output: output, Err: err}
}

func (e *OutputError) Error() string {
	if e == nil {
		return ""
	}
	if e.Output != "" {
		return fmt.Sprintf("output %s: %v", e.Output, e.Err)
	}
	return fmt.Sprintf("output error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *OutputError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf reports the render failure kind carried by err, preferring the
// outermost RenderError over an AssetError it wraps.
func KindOf(err error) Kind {
	var renderErr *RenderError
	if stdErrors.As(err, &renderErr) && renderErr.Kind != KindUnknown {
		return renderErr.Kind
	}
	var assetErr *AssetError
	if stdErrors.As(err, &assetErr) {
		return assetErr.Kind
	}
	return KindUnknown
}
