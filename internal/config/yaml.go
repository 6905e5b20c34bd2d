package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a YAML mapping with the same keys as the text format
// (t_min, "t min" and t-min are all accepted).
func ParseYAML(data []byte) (Overrides, []Warning, error) {
	var ov Overrides
	if len(bytes.TrimSpace(data)) == 0 {
		return ov, nil, nil
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Overrides{}, nil, err
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var warnings []Warning
	for _, name := range names {
		node := raw[name]
		if node.Kind != yaml.ScalarNode {
			warnings = append(warnings, Warning{Line: node.Line, Key: name, Msg: "expected a scalar value"})
			continue
		}
		known, err := ov.set(normalizeKey(name), node.Value)
		if err != nil {
			return Overrides{}, warnings, fmt.Errorf("line %d: %w", node.Line, err)
		}
		if !known {
			warnings = append(warnings, Warning{Line: node.Line, Key: name, Msg: "unknown key"})
		}
	}
	sortWarnings(warnings)

	return ov, warnings, nil
}

// LoadFile reads overrides from path. Files ending in .yaml or .yml are
// parsed as YAML, everything else as the plain text format.
func LoadFile(path string) (Overrides, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseText(bytes.NewReader(data))
	}
}

// Load builds a domain from DefaultSpec with the file at path applied.
func Load(path string) (*Domain, []Warning, error) {
	ov, warnings, err := LoadFile(path)
	if err != nil {
		return nil, warnings, err
	}
	d, err := New(ov.Apply(DefaultSpec()))
	return d, warnings, err
}

// Save writes d to path, as YAML or plain text depending on the extension.
func Save(path string, d *Domain) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(d.Spec())
		if err != nil {
			return err
		}
		buf.Write(data)
	default:
		if err := FormatText(&buf, d.Spec()); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
