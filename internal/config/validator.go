package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern   = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	nodeIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
)

// validatorInstance configures and returns the shared validator. Field names
// in errors follow the yaml tags.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(f.Name)
			}
			return name
		})

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("node_id", func(fl validator.FieldLevel) bool {
			return nodeIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("hex_color", func(fl validator.FieldLevel) bool {
			return hexColorPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateDocument performs schema and cross-field validation.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return rkerrors.NewValidationError("document", "document is nil", nil)
	}

	if err := validatorInstance().Struct(doc); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(doc.Outputs))
	// outputs share one base directory, so equal cleaned paths are the same file
	written := make(map[string]int, len(doc.Outputs))
	for i, out := range doc.Outputs {
		if prev, dup := seen[out.ID]; dup {
			return rkerrors.NewValidationError(fieldForOutput(i, "id"), fmt.Sprintf("duplicate output id %q (also outputs[%d])", out.ID, prev), nil)
		}
		seen[out.ID] = i

		target := filepath.Clean(out.Path)
		if prev, dup := written[target]; dup {
			return rkerrors.NewValidationError(fieldForOutput(i, "path"), fmt.Sprintf("output path %q is also written by outputs[%d]", out.Path, prev), nil)
		}
		written[target] = i

		if err := out.Root.Walk(fieldForOutput(i, "root"), validateNode); err != nil {
			return err
		}
	}

	return nil
}

func validateNode(path string, n Node) error {
	top, right, bottom, left, err := n.Padding.Edges()
	if err != nil {
		return rkerrors.NewValidationError(path+".padding", err.Error(), err)
	}
	for _, v := range [...]float64{top, right, bottom, left} {
		if v < 0 {
			return rkerrors.NewValidationError(path+".padding", "padding must not be negative", nil)
		}
	}

	switch n.Type {
	case NodeImage:
		if strings.TrimSpace(n.Source) == "" {
			return rkerrors.NewValidationError(path+".source", "image nodes require a source", nil)
		}
		if n.Width == nil || *n.Width <= 0 {
			return rkerrors.NewValidationError(path+".width", "image nodes require a positive width", nil)
		}
	case NodeSpacer:
		if n.Width == nil && n.Height == nil {
			return rkerrors.NewValidationError(path, "spacer nodes require a width or a height", nil)
		}
	}

	if n.Type != NodeContainer && len(n.Children) > 0 {
		return rkerrors.NewValidationError(path+".children", fmt.Sprintf("%s nodes cannot have children", n.Type), nil)
	}
	if n.Type != NodeContainer && n.Align != "" {
		return rkerrors.NewValidationError(path+".align", fmt.Sprintf("%s nodes have no alignment", n.Type), nil)
	}
	return nil
}

// convertValidationError normalizes validator errors into ValidationError.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return rkerrors.NewValidationError(field, msg, err)
	}

	return rkerrors.NewValidationError("document", err.Error(), err)
}

// yamlishFieldName drops the root type from the namespace, leaving a path
// such as outputs[0].root.children[1].source.
func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldForOutput(index int, field string) string {
	return fmt.Sprintf("outputs[%d].%s", index, field)
}
