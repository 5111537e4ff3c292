package resource

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLParser reads and writes flat YAML mappings of string values.
type YAMLParser struct{}

func NewYAMLParser() *YAMLParser { return &YAMLParser{} }

func (p *YAMLParser) CanParse(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

func (p *YAMLParser) Format() string { return "yaml" }

func (p *YAMLParser) Parse(data []byte) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return map[string]string{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode yaml: top-level value is not a mapping")
	}

	table := make(map[string]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("decode yaml: value of %q (line %d) is not a string", k.Value, v.Line)
		}
		table[k.Value] = v.Value
	}
	return table, nil
}

// Encode writes table as a block mapping with 2-space indentation and sorted keys.
func (p *YAMLParser) Encode(table map[string]string) ([]byte, error) {
	if table == nil {
		table = map[string]string{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(table); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
