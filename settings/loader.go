package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML settings file from the given path.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses a flat YAML mapping of dotted key names to values. Keys are
// applied in document order so min/max adjustments behave as if set by hand.
func Parse(data []byte) (*Settings, error) {
	var doc yaml.Node

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	s := New()

	if len(doc.Content) == 0 {
		return s, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("settings YAML line %d: expected a mapping", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]

		def, ok := definitions[keyNode.Value]
		if !ok {
			return nil, fmt.Errorf("settings YAML line %d: %w", keyNode.Line, unknownKey(keyNode.Value))
		}

		value, err := def.decode(valueNode)
		if err != nil {
			return nil, fmt.Errorf("settings YAML line %d: %s: %w", valueNode.Line, def.name, err)
		}

		if err := s.SetValue(def.name, value); err != nil {
			return nil, fmt.Errorf("settings YAML line %d: %w", keyNode.Line, err)
		}
	}

	return s, nil
}

// Marshal serializes the effective value of every key to YAML.
func Marshal(s *Settings) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	for _, e := range s.Entries() {
		var value yaml.Node
		if err := value.Encode(e.value); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", e.name, err)
		}

		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.name},
			&value,
		)
	}

	return yaml.Marshal(root)
}

// WriteFile writes the effective settings to the given path.
func WriteFile(s *Settings, path string) error {
	data, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}

	return nil
}
