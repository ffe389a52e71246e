package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/rasterkit/internal/config"
	"github.com/alexisbeaulieu97/rasterkit/internal/logger"
)

func validateConfigPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config file is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("config file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", abs)
	}

	return nil
}

func loadDocument(path string) (*config.Document, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, err
	}
	return config.Parse(path)
}

// newLogger builds the command logger. Interactive runs keep stderr quiet
// unless verbose output was asked for, so the progress view stays intact.
func newLogger(verbose, interactive bool, w io.Writer) (*logger.Logger, error) {
	if interactive && !verbose {
		return logger.Nop(), nil
	}
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, HumanReadable: true, Writer: w})
}
