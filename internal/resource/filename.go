package resource

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Separator joins the group prefix and the locale suffix in a resource filename.
const Separator = "_"

// Filename is the structured form of a <group>_<locale>.<ext> resource name.
type Filename struct {
	Group  string
	Locale string
	Ext    string
}

// ParseError reports a filename that does not follow the <group>_<locale>.<ext> shape.
type ParseError struct {
	Name   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse resource filename %q: %s", e.Name, e.Reason)
}

// ParseFilename splits name into its group, locale and extension.
//
// width is the number of characters of the locale suffix. When width is zero
// or negative, the locale is everything after the last separator.
func ParseFilename(name string, width int) (Filename, error) {
	base := baseName(name)
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var sep int
	if width > 0 {
		sep = len(stem) - width - len(Separator)
		if sep < 0 {
			return Filename{}, &ParseError{Name: base, Reason: fmt.Sprintf("shorter than a %d-character locale suffix", width)}
		}
		if stem[sep:sep+len(Separator)] != Separator {
			return Filename{}, &ParseError{Name: base, Reason: fmt.Sprintf("no %q before the %d-character locale suffix", Separator, width)}
		}
	} else {
		sep = strings.LastIndex(stem, Separator)
		if sep < 0 {
			return Filename{}, &ParseError{Name: base, Reason: fmt.Sprintf("no %q separator", Separator)}
		}
	}

	group := stem[:sep]
	locale := stem[sep+len(Separator):]
	if group == "" {
		return Filename{}, &ParseError{Name: base, Reason: "empty group"}
	}
	if locale == "" {
		return Filename{}, &ParseError{Name: base, Reason: "empty locale"}
	}

	return Filename{Group: group, Locale: locale, Ext: ext}, nil
}

func baseName(path string) string {
	return filepath.Base(path)
}
