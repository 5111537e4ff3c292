package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
)

// Discovery produces the ordered list of resource directories to check under a root.
type Discovery interface {
	Directories(root string) ([]string, error)
}

// Markers names the directories that hold resource files.
type Markers struct {
	Locales  string
	Partials string
}

// DefaultMarkers returns the conventional locales/partials directory names.
func DefaultMarkers() Markers {
	return Markers{Locales: "locales", Partials: "partials"}
}

func (m Markers) match(name string) bool {
	return name == m.Locales || name == m.Partials
}

// Single resolves one directory: root itself when it is a marker directory,
// otherwise its locales child.
type Single struct {
	markers Markers
}

// NewSingle creates a non-recursive Discovery.
func NewSingle(markers Markers) *Single {
	return &Single{markers: markers}
}

func (s *Single) Directories(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	if s.markers.match(filepath.Base(root)) {
		return []string{root}, nil
	}
	return []string{filepath.Join(root, s.markers.Locales)}, nil
}

// Recursive walks a tree collecting every locales directory and the partials
// directory nested directly inside it.
type Recursive struct {
	markers Markers
	skip    []glob.Glob
}

// NewRecursive creates a recursive Discovery. Directory names matching any of
// the skip patterns are not descended.
func NewRecursive(markers Markers, skipPatterns []string) (*Recursive, error) {
	r := &Recursive{markers: markers}
	for _, p := range skipPatterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile skip pattern %q: %w", p, err)
		}
		r.skip = append(r.skip, g)
	}
	return r, nil
}

func (r *Recursive) Directories(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	dirs, err := r.walk(root, map[string]bool{})
	if err != nil {
		return nil, err
	}
	if r.markers.match(filepath.Base(root)) {
		dirs = append([]string{root}, dirs...)
	}

	log.Info().Int("count", len(dirs)).Str("root", root).Msg("Discovered resource directories")
	return dirs, nil
}

func (r *Recursive) walk(dir string, visited map[string]bool) ([]string, error) {
	// Symlinked directories are followed; a link back into the tree is walked once.
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory %s: %w", dir, err)
	}
	if visited[resolved] {
		return nil, nil
	}
	visited[resolved] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var dirs []string
	for _, e := range entries {
		if r.skipped(e.Name()) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		if !isDir(path, e) {
			continue
		}

		switch e.Name() {
		case r.markers.Locales:
			dirs = append(dirs, path)
			partials := filepath.Join(path, r.markers.Partials)
			if info, err := os.Stat(partials); err == nil && info.IsDir() {
				dirs = append(dirs, partials)
			}
		case r.markers.Partials:
			if filepath.Base(dir) == r.markers.Locales {
				dirs = append(dirs, path)
			}
		default:
			sub, err := r.walk(path, visited)
			if err != nil {
				return nil, err
			}
			dirs = append(dirs, sub...)
		}
	}
	return dirs, nil
}

// isDir reports whether e is a directory, following symlinks. Dangling links are not.
func isDir(path string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (r *Recursive) skipped(name string) bool {
	for _, g := range r.skip {
		if g.Match(name) {
			return true
		}
	}
	return false
}
