package resource

import (
	"fmt"
	"os"
)

// ReadTable loads the resource file at path, described by name, using p.
func ReadTable(path string, name Filename, p Parser) (*StringTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	strings, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &StringTable{
		Group:   name.Group,
		Locale:  name.Locale,
		Path:    path,
		Format:  p.Format(),
		Strings: strings,
	}, nil
}
