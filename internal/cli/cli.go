package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"checklocales/internal/checker"
	"checklocales/internal/config"
	"checklocales/internal/discovery"
	"checklocales/internal/report"
	"checklocales/internal/store"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is the released version of the tool.
const Version = "1.0.0"

// ErrCheckFailed is returned when a run found translation errors.
var ErrCheckFailed = errors.New("translation errors found")

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := NewRootCommand(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrCheckFailed) {
			log.Error().Err(err).Msg("checklocales failed")
		}
		os.Exit(1)
	}
}

// NewRootCommand builds the checklocales command writing reports to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklocales [directory]",
		Short: "Check translations of strings in the non-default locale files",
		Long: `Check translations of strings in the non-default locale files.
Reports any strings missing from each locale file, placeholders and markup
that did not survive translation, and the number of obsolete strings deleted,
if any. The default locale is English ('en') unless changed by --locale.

Without --recursive the directory is used when it is named 'locales' or
'partials', otherwise its 'locales' subdirectory is checked.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runCheck(cmd, root, out, errOut)
		},
	}

	f := cmd.Flags()
	f.BoolP("backup", "b", false, "Make backup files. This does nothing if --delete is not also set")
	f.BoolP("delete", "d", false, "Delete strings that are no longer found in the default file")
	f.BoolP("recursive", "r", false, "Recursively scan sub-folders")
	f.StringP("locale", "l", "en", "Set the default locale, e.g. -l fr")
	f.BoolP("help", "h", false, "Help. Output this content")
	f.String("pseudo-locale", "eo", "Locale of generated test files, never checked")
	f.Int("locale-width", 2, "Characters in the filename locale suffix (0: everything after the last '_')")
	f.Bool("strict-missing", false, "Treat missing keys as errors")
	f.String("config", "", "YAML configuration file")
	f.String("database-url", "", "PostgreSQL URL to record run history")
	f.String("log-level", "info", "Log level: debug, info, warn, error")
	f.Bool("no-color", false, "Disable colored output")

	return cmd
}

func runCheck(cmd *cobra.Command, root string, out, errOut io.Writer) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, keeping info")
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	opts := checker.Options{
		Backup:          cfg.Backup,
		Prune:           cfg.Prune,
		Recursive:       cfg.Recursive,
		DefaultLocale:   cfg.DefaultLocale,
		PseudoLocale:    cfg.PseudoLocale,
		LocaleWidth:     cfg.LocaleWidth,
		MissingKeyFatal: cfg.MissingKeyFatal,
	}
	// cobra prints help and stops before RunE when --help is set.
	opts.ShowHelp, _ = cmd.Flags().GetBool("help")

	ctx, cancel := setupContext()
	defer cancel()

	disc, err := newDiscovery(cfg)
	if err != nil {
		return err
	}

	printer := report.NewPrinter(out, errOut)
	printer.Banner(Version)

	res, err := checker.New(opts, disc, printer).Run(ctx, root)
	if err != nil {
		return err
	}

	printer.Summary(res)

	if cfg.DatabaseURL != "" {
		recordRun(ctx, cfg, root, res)
	}

	if res.Failed {
		return ErrCheckFailed
	}
	return nil
}

// loadConfig layers environment, config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()
	f := cmd.Flags()

	if path, _ := f.GetString("config"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if f.Changed("backup") {
		cfg.Backup, _ = f.GetBool("backup")
	}
	if f.Changed("delete") {
		cfg.Prune, _ = f.GetBool("delete")
	}
	if f.Changed("recursive") {
		cfg.Recursive, _ = f.GetBool("recursive")
	}
	if f.Changed("locale") {
		cfg.DefaultLocale, _ = f.GetString("locale")
	}
	if f.Changed("pseudo-locale") {
		cfg.PseudoLocale, _ = f.GetString("pseudo-locale")
	}
	if f.Changed("locale-width") {
		cfg.LocaleWidth, _ = f.GetInt("locale-width")
	}
	if f.Changed("strict-missing") {
		cfg.MissingKeyFatal, _ = f.GetBool("strict-missing")
	}
	if f.Changed("database-url") {
		cfg.DatabaseURL, _ = f.GetString("database-url")
	}
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
	if f.Changed("no-color") {
		cfg.NoColor, _ = f.GetBool("no-color")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newDiscovery(cfg *config.Config) (discovery.Discovery, error) {
	markers := discovery.Markers{Locales: cfg.LocalesDirName, Partials: cfg.PartialsDirName}
	if !cfg.Recursive {
		return discovery.NewSingle(markers), nil
	}
	return discovery.NewRecursive(markers, cfg.SkipDirs)
}

// recordRun stores the run history. Failures never change the exit status.
func recordRun(ctx context.Context, cfg *config.Config, root string, res *checker.Result) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect run history database")
		return
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to ping run history database")
		return
	}

	runs := store.NewRunStore(pool)
	if err := runs.EnsureSchema(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to prepare run history")
		return
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	id, err := runs.Record(ctx, absRoot, cfg.DefaultLocale, res)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to record run")
		return
	}
	log.Info().Int64("run", id).Int("diagnostics", len(res.Diagnostics)).Msg("Recorded run history")
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
