package checker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"checklocales/internal/discovery"
	"checklocales/internal/validator"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func defaultOptions() Options {
	return Options{DefaultLocale: "en", PseudoLocale: "eo", LocaleWidth: 2}
}

type recorder struct {
	dirs  []string
	diags []validator.Diagnostic
}

func (r *recorder) Directory(dir string)              { r.dirs = append(r.dirs, dir) }
func (r *recorder) Diagnostic(d validator.Diagnostic) { r.diags = append(r.diags, d) }

func TestRunSingleDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"locales/app_en.json": `{"greet": "Hello {name}", "bye": "Bye"}`,
		"locales/app_fr.json": `{"greet": "Bonjour"}`,
	})

	rec := &recorder{}
	c := New(defaultOptions(), discovery.NewSingle(discovery.DefaultMarkers()), rec)
	res, err := c.Run(context.Background(), root)
	require.NoError(t, err)

	require.True(t, res.Failed)
	require.Equal(t, []string{filepath.Join(root, "locales")}, res.Directories)
	require.Equal(t, 2, res.Tables)
	require.Equal(t, 1, res.Count(validator.TokenFidelity))
	require.Equal(t, 1, res.Count(validator.MissingKey))
	require.Equal(t, res.Directories, rec.dirs)
	require.Equal(t, res.Diagnostics, rec.diags)
	for _, d := range res.Diagnostics {
		require.Equal(t, filepath.Join(root, "locales"), d.Dir)
	}
}

func TestRunMissingKeysOnlySucceeds(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"locales/app_en.json": `{"a": "x", "b": "y"}`,
		"locales/app_fr.json": `{"a": "x"}`,
	})

	res, err := New(defaultOptions(), discovery.NewSingle(discovery.DefaultMarkers()), nil).Run(context.Background(), root)
	require.NoError(t, err)
	require.False(t, res.Failed)
	require.Equal(t, 1, res.Count(validator.MissingKey))

	opts := defaultOptions()
	opts.MissingKeyFatal = true
	res, err = New(opts, discovery.NewSingle(discovery.DefaultMarkers()), nil).Run(context.Background(), root)
	require.NoError(t, err)
	require.True(t, res.Failed)
}

func TestRunRecursiveContinuesAfterBadDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/locales/app_en.json":           `{"a": "x"}`,
		"a/locales/app_fr.json":           `{"a": "x", "old": "y"}`,
		"a/locales/partials/part_en.json": `{"p": "<b>bold</b>"}`,
		"a/locales/partials/part_fr.json": `{"p": "<b>gras</b>"}`,
		"b/locales/broken_en.json":        `{"a": `,
		"c/locales/orphan_fr.json":        `{"a": "x"}`,
		"node_modules/locales/x_fr.json":  `{"a": "<i>x</i>"}`,
	})

	opts := defaultOptions()
	opts.Recursive = true
	opts.Prune = true
	disc, err := discovery.NewRecursive(discovery.DefaultMarkers(), []string{"node_modules"})
	require.NoError(t, err)

	res, err := New(opts, disc, nil).Run(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Directories, 4)
	require.True(t, res.Failed)
	require.Equal(t, 1, res.Count(validator.IOError))
	require.Equal(t, 1, res.Count(validator.Structural))
	require.Equal(t, 1, res.Count(validator.Pruned))
	require.Zero(t, res.Count(validator.TokenFidelity))

	got, err := os.ReadFile(filepath.Join(root, "a/locales/app_fr.json"))
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": \"x\"\n}\n", string(got))
}

func TestRunStructuralErrorDoesNotFail(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"locales/app_fr.json": `{"a": "x"}`,
	})

	res, err := New(defaultOptions(), discovery.NewSingle(discovery.DefaultMarkers()), nil).Run(context.Background(), root)
	require.NoError(t, err)
	require.False(t, res.Failed)
	require.Equal(t, 1, res.Count(validator.Structural))
}

func TestRunDiscoveryError(t *testing.T) {
	disc, err := discovery.NewRecursive(discovery.DefaultMarkers(), nil)
	require.NoError(t, err)

	_, err = New(defaultOptions(), disc, nil).Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestRunMissingLocalesDirectory(t *testing.T) {
	res, err := New(defaultOptions(), discovery.NewSingle(discovery.DefaultMarkers()), nil).Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.True(t, res.Failed)
	require.Equal(t, 1, res.Count(validator.IOError))
}

func TestRunCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"locales/app_en.json": `{}`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(defaultOptions(), discovery.NewSingle(discovery.DefaultMarkers()), nil).Run(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, res.Directories)
}
