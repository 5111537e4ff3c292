package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
	}
}

func TestSingle(t *testing.T) {
	root := t.TempDir()
	s := NewSingle(DefaultMarkers())

	dirs, err := s.Directories(root)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "locales")}, dirs)

	locales := filepath.Join(root, "locales")
	dirs, err = s.Directories(locales)
	require.NoError(t, err)
	require.Equal(t, []string{locales}, dirs)

	partials := filepath.Join(root, "app", "partials")
	dirs, err = s.Directories(partials)
	require.NoError(t, err)
	require.Equal(t, []string{partials}, dirs)
}

func TestRecursive(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root,
		"app/locales/partials",
		"app/locales/nested/locales",
		"lib/widgets/locales",
		"node_modules/pkg/locales",
		"build.tmp/locales",
		"other/partials",
	)
	require.NoError(t, os.WriteFile(filepath.Join(root, "locales"), []byte("not a directory"), 0644))

	r, err := NewRecursive(DefaultMarkers(), []string{"node_modules", "*.tmp"})
	require.NoError(t, err)

	dirs, err := r.Directories(root)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "app", "locales"),
		filepath.Join(root, "app", "locales", "partials"),
		filepath.Join(root, "lib", "widgets", "locales"),
	}, dirs)
}

func TestRecursiveFromMarkerRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "locales")
	mkdirs(t, root, "partials", "docs/locales")

	r, err := NewRecursive(DefaultMarkers(), []string{"docs"})
	require.NoError(t, err)

	dirs, err := r.Directories(root)
	require.NoError(t, err)
	require.Equal(t, []string{root, filepath.Join(root, "partials")}, dirs)
}

func TestRecursiveErrors(t *testing.T) {
	_, err := NewRecursive(DefaultMarkers(), []string{"[unterminated"})
	require.Error(t, err)

	r, err := NewRecursive(DefaultMarkers(), nil)
	require.NoError(t, err)

	_, err = r.Directories(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
	_, err = r.Directories(file)
	require.Error(t, err)
}

func TestCustomMarkers(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "web/i18n/fragments", "web/locales")

	markers := Markers{Locales: "i18n", Partials: "fragments"}
	r, err := NewRecursive(markers, nil)
	require.NoError(t, err)

	dirs, err := r.Directories(root)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "web", "i18n"),
		filepath.Join(root, "web", "i18n", "fragments"),
	}, dirs)
}

func TestRecursiveFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	shared := t.TempDir()
	mkdirs(t, shared, "locales/partials")
	mkdirs(t, root, "app")
	require.NoError(t, os.Symlink(filepath.Join(shared, "locales"), filepath.Join(root, "app", "locales")))
	require.NoError(t, os.Symlink(shared, filepath.Join(root, "vendored")))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "app", "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling")))

	r, err := NewRecursive(DefaultMarkers(), nil)
	require.NoError(t, err)

	dirs, err := r.Directories(root)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "app", "locales"),
		filepath.Join(root, "app", "locales", "partials"),
		filepath.Join(root, "vendored", "locales"),
		filepath.Join(root, "vendored", "locales", "partials"),
	}, dirs)
}
