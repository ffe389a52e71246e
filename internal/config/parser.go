package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Parse loads a scene document from disk, choosing the format by extension
// (.hcl for HCL, anything else YAML), validates it and applies defaults.
func Parse(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rkerrors.NewParseError(path, 0, err)
	}

	var doc *Document
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		doc, err = decodeHCL(path, data)
	} else {
		doc, err = decodeYAML(path, data)
	}
	if err != nil {
		return nil, err
	}

	return finish(doc, path)
}

// ParseYAML decodes and validates a YAML document. name is used in errors and
// to derive BaseDir.
func ParseYAML(name string, data []byte) (*Document, error) {
	doc, err := decodeYAML(name, data)
	if err != nil {
		return nil, err
	}
	return finish(doc, name)
}

// ParseHCL decodes and validates an HCL document.
func ParseHCL(name string, data []byte) (*Document, error) {
	doc, err := decodeHCL(name, data)
	if err != nil {
		return nil, err
	}
	return finish(doc, name)
}

func decodeYAML(name string, data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, rkerrors.NewParseError(name, extractLine(err), err)
	}
	return &doc, nil
}

func finish(doc *Document, path string) (*Document, error) {
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}
	doc.ApplyDefaults()
	if doc.BaseDir == "" {
		doc.BaseDir = filepath.Dir(path)
	}
	return doc, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
