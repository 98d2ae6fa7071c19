// Package config reads the optional .rbx.yaml file and applies it to the run
// settings. Command-line flags are applied afterwards and win.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/rbx/pkg/settings"
)

// FileName is looked up in the bundle directory when --config is not given.
const FileName = ".rbx.yaml"

// Outputs lists the accepted display.output values.
var Outputs = []string{"tree", "list", "yaml", "json", "toml"}

// Config mirrors the YAML file. Pointer fields distinguish "unset" from
// the zero value.
type Config struct {
	Tree    TreeConfig    `yaml:"tree"`
	Display DisplayConfig `yaml:"display"`
	Bundle  BundleConfig  `yaml:"bundle"`
}

type TreeConfig struct {
	Separator  *string `yaml:"separator"`
	Mode       string  `yaml:"mode"`
	Incomplete *bool   `yaml:"incomplete"`
}

type DisplayConfig struct {
	NoColor     *bool  `yaml:"no_color"`
	Output      string `yaml:"output"`
	KeyColWidth int    `yaml:"key_col_width"`
}

type BundleConfig struct {
	DefaultLocale string `yaml:"default_locale"`
	BaseName      string `yaml:"base_name"`
}

// Find returns the path of the config file in dir, or "" if there is none.
func Find(dir string) string {
	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values. Errors name the offending field.
func (c Config) Validate() error {
	var errs []error
	switch c.Tree.Mode {
	case "", "flat", "grouped":
	default:
		errs = append(errs, fmt.Errorf("tree.mode: must be flat or grouped, got %q", c.Tree.Mode))
	}
	if c.Display.Output != "" && !slices.Contains(Outputs, c.Display.Output) {
		errs = append(errs, fmt.Errorf("display.output: must be one of %v, got %q", Outputs, c.Display.Output))
	}
	if c.Display.KeyColWidth < 0 {
		errs = append(errs, fmt.Errorf("display.key_col_width: must not be negative, got %d", c.Display.KeyColWidth))
	}
	if c.Bundle.DefaultLocale != "" {
		if _, err := language.Parse(c.Bundle.DefaultLocale); err != nil {
			errs = append(errs, fmt.Errorf("bundle.default_locale: %w", err))
		}
	}
	return errors.Join(errs...)
}

// DefaultLocale returns the parsed bundle.default_locale, or language.Und.
func (c Config) DefaultLocale() language.Tag {
	if c.Bundle.DefaultLocale == "" {
		return language.Und
	}
	tag, err := language.Parse(c.Bundle.DefaultLocale)
	if err != nil {
		return language.Und
	}
	return tag
}

// ApplyTo copies the values set in the file onto run.
func (c Config) ApplyTo(run *settings.Run) {
	if c.Tree.Separator != nil {
		run.Tree.Separator = *c.Tree.Separator
	}
	switch c.Tree.Mode {
	case "flat":
		run.Tree.Flat = true
	case "grouped":
		run.Tree.Flat = false
	}
	if c.Tree.Incomplete != nil {
		run.Tree.Incomplete = *c.Tree.Incomplete
	}
	if c.Display.NoColor != nil {
		run.NoColor = *c.Display.NoColor
	}
	if c.Display.Output != "" {
		run.Output = c.Display.Output
	}
}
