package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultSkipDirs are directory names never descended during a recursive scan.
var DefaultSkipDirs = []string{
	".DS_Store",
	".nyc_output",
	"bower_components",
	"components",
	".git",
	"dist",
	"docs",
	"reports",
	"coverage",
	"bin",
	"node_modules",
	"test",
	"vendors",
}

type Config struct {
	DefaultLocale   string   `yaml:"default_locale"`
	PseudoLocale    string   `yaml:"pseudo_locale"`
	LocaleWidth     int      `yaml:"locale_width"`
	Backup          bool     `yaml:"backup"`
	Prune           bool     `yaml:"prune"`
	Recursive       bool     `yaml:"recursive"`
	MissingKeyFatal bool     `yaml:"missing_key_fatal"`
	LocalesDirName  string   `yaml:"locales_dir"`
	PartialsDirName string   `yaml:"partials_dir"`
	SkipDirs        []string `yaml:"skip_dirs"`
	DatabaseURL     string   `yaml:"database_url"`
	LogLevel        string   `yaml:"log_level"`
	// NoColor has no variable of its own; fatih/color already honours NO_COLOR.
	NoColor bool `yaml:"no_color"`
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		DefaultLocale:   getEnv("CHECKLOCALES_DEFAULT_LOCALE", "en"),
		PseudoLocale:    getEnv("CHECKLOCALES_PSEUDO_LOCALE", "eo"),
		LocaleWidth:     getEnvInt("CHECKLOCALES_LOCALE_WIDTH", 2),
		Backup:          getEnvBool("CHECKLOCALES_BACKUP", false),
		Prune:           getEnvBool("CHECKLOCALES_PRUNE", false),
		Recursive:       getEnvBool("CHECKLOCALES_RECURSIVE", false),
		MissingKeyFatal: getEnvBool("CHECKLOCALES_MISSING_KEY_FATAL", false),
		LocalesDirName:  getEnv("CHECKLOCALES_LOCALES_DIR", "locales"),
		PartialsDirName: getEnv("CHECKLOCALES_PARTIALS_DIR", "partials"),
		SkipDirs:        getEnvList("CHECKLOCALES_SKIP_DIRS", DefaultSkipDirs),
		DatabaseURL:     getEnv("CHECKLOCALES_DATABASE_URL", ""),
		LogLevel:        getEnv("CHECKLOCALES_LOG_LEVEL", "info"),
	}
}

// LoadFile overlays the YAML file at path onto c. Fields absent from the file keep their values.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the loaded values for consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DefaultLocale) == "" {
		return fmt.Errorf("config: default locale is required")
	}
	if err := checkLocale(c.DefaultLocale); err != nil {
		return fmt.Errorf("config: default locale %q is not a valid language tag: %w", c.DefaultLocale, err)
	}
	if c.PseudoLocale != "" {
		if err := checkLocale(c.PseudoLocale); err != nil {
			return fmt.Errorf("config: pseudo locale %q is not a valid language tag: %w", c.PseudoLocale, err)
		}
		if strings.EqualFold(c.PseudoLocale, c.DefaultLocale) {
			return fmt.Errorf("config: pseudo locale and default locale are both %q", c.DefaultLocale)
		}
	}
	if c.LocaleWidth > 0 && len(c.DefaultLocale) != c.LocaleWidth {
		return fmt.Errorf("config: default locale %q does not fit the %d-character locale suffix", c.DefaultLocale, c.LocaleWidth)
	}
	if c.LocalesDirName == "" || c.PartialsDirName == "" {
		return fmt.Errorf("config: locales and partials directory names are required")
	}
	return nil
}

// checkLocale accepts any well-formed tag. Subtags missing from the registry
// (ua, xx) are still valid filename suffixes.
func checkLocale(locale string) error {
	_, err := language.Parse(locale)
	var unknown language.ValueError
	if errors.As(err, &unknown) {
		return nil
	}
	return err
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
