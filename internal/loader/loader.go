package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"checklocales/internal/resource"

	"github.com/rs/zerolog/log"
)

// Group bundles the tables sharing a filename prefix.
type Group struct {
	Name string
	// Reference is the default-locale table, nil when the directory has none.
	Reference *resource.StringTable
	// Candidates are the other locales, ordered by locale code.
	Candidates []*resource.StringTable
}

// Skipped records a file that looked like a resource but could not be named.
type Skipped struct {
	Path string
	Err  error
}

// Directory is the content of one resource directory.
type Directory struct {
	Path    string
	Groups  []*Group
	Skipped []Skipped
}

// Tables returns the number of tables loaded.
func (d *Directory) Tables() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Candidates)
		if g.Reference != nil {
			n++
		}
	}
	return n
}

// Options control how filenames are interpreted.
type Options struct {
	DefaultLocale string
	// PseudoLocale files are generated for testing and never compared.
	PseudoLocale string
	// LocaleWidth is the length of the locale suffix; see resource.ParseFilename.
	LocaleWidth int
}

// Loader reads resource directories into groups.
type Loader struct {
	opts    Options
	parsers []resource.Parser
}

// New creates a Loader with the default parsers.
func New(opts Options) *Loader {
	return &Loader{
		opts:    opts,
		parsers: resource.DefaultParsers(),
	}
}

// Parsers returns the formats the loader understands.
func (l *Loader) Parsers() []resource.Parser {
	return l.parsers
}

// Load reads every resource file directly inside dir. Any read or parse
// failure aborts the load.
func (l *Loader) Load(dir string) (*Directory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read resource directory: %w", err)
	}

	result := &Directory{Path: dir}
	groups := make(map[string]*Group)
	seen := make(map[string]string)

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(e.Name()))
		p := resource.ParserFor(l.parsers, ext)
		if p == nil {
			continue
		}

		path := filepath.Join(dir, e.Name())
		name, err := resource.ParseFilename(e.Name(), l.opts.LocaleWidth)
		if err != nil {
			var perr *resource.ParseError
			if errors.As(err, &perr) {
				log.Warn().Err(err).Str("file", path).Msg("Skipping resource file")
				result.Skipped = append(result.Skipped, Skipped{Path: path, Err: err})
				continue
			}
			return nil, err
		}

		if strings.EqualFold(name.Locale, l.opts.PseudoLocale) {
			log.Debug().Str("file", path).Msg("Skipping pseudo-locale file")
			continue
		}

		id := name.Group + "/" + strings.ToLower(name.Locale)
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate resource for group %q locale %q: %s and %s", name.Group, name.Locale, prev, path)
		}
		seen[id] = path

		table, err := resource.ReadTable(path, name, p)
		if err != nil {
			return nil, err
		}

		g, ok := groups[name.Group]
		if !ok {
			g = &Group{Name: name.Group}
			groups[name.Group] = g
		}
		if strings.EqualFold(name.Locale, l.opts.DefaultLocale) {
			g.Reference = table
		} else {
			g.Candidates = append(g.Candidates, table)
		}
	}

	for _, g := range groups {
		sort.Slice(g.Candidates, func(i, j int) bool {
			return g.Candidates[i].Locale < g.Candidates[j].Locale
		})
		result.Groups = append(result.Groups, g)
	}
	sort.Slice(result.Groups, func(i, j int) bool {
		return result.Groups[i].Name < result.Groups[j].Name
	})

	log.Debug().Str("dir", dir).Int("groups", len(result.Groups)).Int("tables", result.Tables()).Msg("Loaded resource directory")
	return result, nil
}
