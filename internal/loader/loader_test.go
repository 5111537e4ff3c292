package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func defaultOptions() Options {
	return Options{DefaultLocale: "en", PseudoLocale: "eo", LocaleWidth: 2}
}

func TestLoadGroups(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"app_en.json":    `{"greet": "Hello {name}"}`,
		"app_fr.json":    `{"greet": "Bonjour {name}"}`,
		"app_de.json":    `{"greet": "Hallo {name}"}`,
		"app_eo.json":    `{"greet": "[Ĥéļļö {name}]"}`,
		"menu_en.yaml":   "open: Open\n",
		"menu_es.yml":    "open: Abrir\n",
		"orphan_fr.json": `{"a": "b"}`,
		"README.md":      "# docs",
		"notes.json":     `{}`,
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "partials_en.json"), 0755))

	d, err := New(defaultOptions()).Load(dir)
	require.NoError(t, err)
	require.Len(t, d.Groups, 3)

	app := d.Groups[0]
	require.Equal(t, "app", app.Name)
	require.NotNil(t, app.Reference)
	require.Equal(t, "en", app.Reference.Locale)
	require.Len(t, app.Candidates, 2)
	require.Equal(t, "de", app.Candidates[0].Locale)
	require.Equal(t, "fr", app.Candidates[1].Locale)

	menu := d.Groups[1]
	require.Equal(t, "menu", menu.Name)
	require.Equal(t, "yaml", menu.Reference.Format)
	require.Equal(t, "Abrir", menu.Candidates[0].Strings["open"])

	orphan := d.Groups[2]
	require.Equal(t, "orphan", orphan.Name)
	require.Nil(t, orphan.Reference)
	require.Len(t, orphan.Candidates, 1)

	require.Len(t, d.Skipped, 1)
	require.Equal(t, filepath.Join(dir, "notes.json"), d.Skipped[0].Path)
	require.Equal(t, 6, d.Tables())
}

func TestLoadDefaultLocaleOption(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"app_en.json": `{"a": "x"}`,
		"app_fr.json": `{"a": "y"}`,
	})

	opts := defaultOptions()
	opts.DefaultLocale = "fr"
	d, err := New(opts).Load(dir)
	require.NoError(t, err)
	require.Equal(t, "fr", d.Groups[0].Reference.Locale)
	require.Equal(t, "en", d.Groups[0].Candidates[0].Locale)
}

func TestLoadLocaleCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"app_en.json": `{"a": "x"}`,
		"app_fr.json": `{"a": "y"}`,
		"app_EO.json": `{"a": "[x]"}`,
	})

	opts := defaultOptions()
	opts.DefaultLocale = "EN"
	d, err := New(opts).Load(dir)
	require.NoError(t, err)
	require.Len(t, d.Groups, 1)
	require.NotNil(t, d.Groups[0].Reference)
	require.Equal(t, "en", d.Groups[0].Reference.Locale)
	require.Len(t, d.Groups[0].Candidates, 1)
	require.Equal(t, "fr", d.Groups[0].Candidates[0].Locale)
}

func TestLoadOpenWidth(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"app_en-US.json": `{"a": "x"}`,
		"app_pt-BR.json": `{"a": "y"}`,
	})

	d, err := New(Options{DefaultLocale: "en-US", LocaleWidth: 0}).Load(dir)
	require.NoError(t, err)
	require.Len(t, d.Groups, 1)
	require.Equal(t, "en-US", d.Groups[0].Reference.Locale)
	require.Equal(t, "pt-BR", d.Groups[0].Candidates[0].Locale)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := New(defaultOptions()).Load(filepath.Join(t.TempDir(), "locales"))
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"app_en.json": `{"a": `})
		_, err := New(defaultOptions()).Load(dir)
		require.Error(t, err)
	})

	t.Run("duplicate locale", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"app_en.json": `{"a": "x"}`,
			"app_en.yaml": "a: x\n",
		})
		_, err := New(defaultOptions()).Load(dir)
		require.ErrorContains(t, err, "duplicate resource")
	})

	t.Run("duplicate locale differing in case", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"app_fr.json": `{"a": "x"}`,
			"app_FR.json": `{"a": "x"}`,
		})
		_, err := New(defaultOptions()).Load(dir)
		require.ErrorContains(t, err, "duplicate resource")
	})
}
