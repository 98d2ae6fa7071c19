package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/rbx/internal/analysis"
)

// Document is the structured output of a bundle group.
type Document struct {
	Bundle  string               `json:"bundle" yaml:"bundle" toml:"bundle"`
	Locales []string             `json:"locales" yaml:"locales" toml:"locales"`
	Keys    []analysis.KeyRecord `json:"keys" yaml:"keys" toml:"keys"`
}

// FormatDocument renders doc as yaml, json or toml.
func FormatDocument(doc Document, format string) (string, error) {
	switch format {
	case "yaml":
		return formatYAML(doc)
	case "json":
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode JSON: %w", err)
		}
		return string(b) + "\n", nil
	case "toml":
		b, err := toml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("failed to encode TOML: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported document format %q", format)
	}
}

// formatYAML emits multi-line values as literal blocks.
func formatYAML(v any) (string, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	applyLiteralStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func applyLiteralStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		applyLiteralStyle(c)
	}
}
