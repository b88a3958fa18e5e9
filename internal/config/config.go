// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the rcsema.yaml configuration file.
package config // import "go.rcsema.net/internal/config"

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"go.rcsema.net/check"
	"go.rcsema.net/diag"
)

// DefaultFile is the name of the configuration file looked up in the
// working directory.
const DefaultFile = "rcsema.yaml"

// Output formats.
const (
	Text = "text"
	JSON = "json"
)

// Config holds the settings of a checker run. The zero value is not
// meaningful; use Default.
type Config struct {
	EntryPoint   string `yaml:"entry_point"`
	Werror       bool   `yaml:"werror"`
	NonNull      bool   `yaml:"non_null"`
	MaxErrors    int    `yaml:"max_errors"`    // 0 means no limit
	Color        string `yaml:"color"`         // auto, always, or never
	Format       string `yaml:"format"`        // text or json
	ContextLines int    `yaml:"context_lines"` // 0 disables source excerpts
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		EntryPoint:   "main",
		Color:        "auto",
		Format:       Text,
		ContextLines: 1,
	}
}

// Parse decodes a configuration from data on top of the defaults.
// Unknown keys are errors.
func Parse(filename string, data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}
	return cfg, nil
}

// Load reads the named configuration file. A missing file yields the
// defaults when optional is set.
func Load(filename string, optional bool) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return Parse(filename, data)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color: got %q, want auto, always, or never", c.Color)
	}
	switch c.Format {
	case Text, JSON:
	default:
		return fmt.Errorf("format: got %q, want text or json", c.Format)
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("max_errors: negative value %d", c.MaxErrors)
	}
	if c.ContextLines < 0 {
		return fmt.Errorf("context_lines: negative value %d", c.ContextLines)
	}
	if c.EntryPoint == "" {
		return fmt.Errorf("entry_point: empty name")
	}
	return nil
}

// Options returns the checker options.
func (c *Config) Options() *check.Options {
	return &check.Options{EntryPoint: c.EntryPoint, NonNull: c.NonNull}
}

// Printer returns a diagnostic printer for output to f.
func (c *Config) Printer(f *os.File) *diag.Printer {
	color := c.Color == "always" || c.Color == "auto" && diag.IsTerminal(f)
	return &diag.Printer{Color: color, Excerpt: c.ContextLines > 0}
}

// Limit truncates diags to at most MaxErrors errors, keeping the
// warnings that precede the last kept error.
func (c *Config) Limit(diags []diag.Diagnostic) []diag.Diagnostic {
	if c.MaxErrors == 0 {
		return diags
	}
	n := 0
	for i, d := range diags {
		if d.Severity != diag.Error {
			continue
		}
		if n == c.MaxErrors {
			return diags[:i]
		}
		n++
	}
	return diags
}
