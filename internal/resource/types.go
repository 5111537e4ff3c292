package resource

import "sort"

// StringTable holds the key → text mapping of one (group, locale) resource file.
type StringTable struct {
	// Group is the filename prefix shared by all locales of a bundle.
	Group string
	// Locale is the locale code carved from the filename suffix.
	Locale string
	// Path is the file the table was read from.
	Path string
	// Format is the serialization of the source file (json, yaml).
	Format string
	// Strings maps keys to translated text.
	Strings map[string]string
}

// Name returns the base filename of the table's source, as shown in reports.
func (t *StringTable) Name() string {
	return baseName(t.Path)
}

// Has reports whether key exists in the table.
func (t *StringTable) Has(key string) bool {
	_, ok := t.Strings[key]
	return ok
}

// SortedKeys returns the table keys in lexicographic order.
func (t *StringTable) SortedKeys() []string {
	keys := make([]string, 0, len(t.Strings))
	for k := range t.Strings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parser is the interface for resource file formats.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Format names the serialization handled by the parser.
	Format() string
	// Parse reads the key → text mapping stored in data.
	Parse(data []byte) (map[string]string, error)
	// Encode serializes a mapping in the parser's canonical layout.
	Encode(table map[string]string) ([]byte, error)
}

// DefaultParsers returns the parsers for every supported format.
func DefaultParsers() []Parser {
	return []Parser{
		NewJSONParser(),
		NewYAMLParser(),
	}
}

// ParserFor returns the parser that handles ext, or nil.
func ParserFor(parsers []Parser, ext string) Parser {
	for _, p := range parsers {
		if p.CanParse(ext) {
			return p
		}
	}
	return nil
}

// ParserForFormat returns the parser whose Format is format, or nil.
func ParserForFormat(parsers []Parser, format string) Parser {
	for _, p := range parsers {
		if p.Format() == format {
			return p
		}
	}
	return nil
}
