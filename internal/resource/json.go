package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// JSONParser reads and writes flat JSON objects of string values.
type JSONParser struct{}

func NewJSONParser() *JSONParser { return &JSONParser{} }

func (p *JSONParser) CanParse(ext string) bool {
	return ext == ".json"
}

func (p *JSONParser) Format() string { return "json" }

// Parse rejects anything but an object of string values. Invalid UTF-8 is an
// error rather than being replaced, so a pruned rewrite never alters text.
func (p *JSONParser) Parse(data []byte) (map[string]string, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("decode json: invalid UTF-8")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode json: top-level value is not an object")
	}

	table := make(map[string]string, len(raw))
	for key, value := range raw {
		if len(value) == 0 || value[0] != '"' {
			return nil, fmt.Errorf("decode json: value of %q is not a string", key)
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, fmt.Errorf("decode json: value of %q: %w", key, err)
		}
		table[key] = s
	}
	return table, nil
}

// Encode writes table with 2-space indentation, sorted keys and a trailing
// newline. Markup is written verbatim rather than as \u003c escapes.
func (p *JSONParser) Encode(table map[string]string) ([]byte, error) {
	if table == nil {
		table = map[string]string{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(table); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}
