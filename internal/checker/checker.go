package checker

import (
	"context"
	"fmt"
	"time"

	"checklocales/internal/discovery"
	"checklocales/internal/loader"
	"checklocales/internal/validator"

	"github.com/rs/zerolog/log"
)

// Options is the structured form of the command line.
type Options struct {
	Backup        bool
	Prune         bool
	Recursive     bool
	DefaultLocale string
	ShowHelp      bool

	PseudoLocale    string
	LocaleWidth     int
	MissingKeyFatal bool
}

// Result accumulates the findings of a run.
type Result struct {
	Failed      bool
	Diagnostics []validator.Diagnostic
	// Directories lists the resource directories in processing order.
	Directories []string
	Tables      int
	Started     time.Time
	Duration    time.Duration

	missingKeyFatal bool
}

func (r *Result) add(diags ...validator.Diagnostic) {
	for _, d := range diags {
		if d.Fails(r.missingKeyFatal) {
			r.Failed = true
		}
		r.Diagnostics = append(r.Diagnostics, d)
	}
}

// Count returns the number of diagnostics of kind k.
func (r *Result) Count(k validator.Kind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// Observer is notified as directories are processed, so findings can be
// reported while the run progresses.
type Observer interface {
	Directory(dir string)
	Diagnostic(d validator.Diagnostic)
}

// Checker validates every resource directory discovered under a root.
type Checker struct {
	opts      Options
	discovery discovery.Discovery
	loader    *loader.Loader
	validator *validator.Validator
	observer  Observer
}

// New creates a Checker. observer may be nil.
func New(opts Options, disc discovery.Discovery, observer Observer) *Checker {
	l := loader.New(loader.Options{
		DefaultLocale: opts.DefaultLocale,
		PseudoLocale:  opts.PseudoLocale,
		LocaleWidth:   opts.LocaleWidth,
	})
	v := validator.New(validator.Options{
		Prune:         opts.Prune,
		Backup:        opts.Backup,
		DefaultLocale: opts.DefaultLocale,
	}, l.Parsers())

	return &Checker{
		opts:      opts,
		discovery: disc,
		loader:    l,
		validator: v,
		observer:  observer,
	}
}

// Run processes each discovered directory in order. Failures inside a
// directory are recorded in the Result; only discovery errors and
// cancellation are returned.
func (c *Checker) Run(ctx context.Context, root string) (*Result, error) {
	res := &Result{Started: time.Now(), missingKeyFatal: c.opts.MissingKeyFatal}
	defer func() { res.Duration = time.Since(res.Started) }()

	dirs, err := c.discovery.Directories(root)
	if err != nil {
		return res, fmt.Errorf("discover resource directories: %w", err)
	}

	for _, dir := range dirs {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		res.Directories = append(res.Directories, dir)
		if c.observer != nil {
			c.observer.Directory(dir)
		}

		diags, tables := c.checkDirectory(dir)
		res.Tables += tables
		res.add(diags...)
		if c.observer != nil {
			for _, d := range diags {
				c.observer.Diagnostic(d)
			}
		}
	}

	log.Info().
		Int("directories", len(res.Directories)).
		Int("tables", res.Tables).
		Int("errors", res.Count(validator.TokenFidelity)).
		Int("warnings", res.Count(validator.MissingKey)).
		Bool("failed", res.Failed).
		Msg("Check complete")

	return res, nil
}

func (c *Checker) checkDirectory(dir string) ([]validator.Diagnostic, int) {
	d, err := c.loader.Load(dir)
	if err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("Load failed")
		return []validator.Diagnostic{{Kind: validator.IOError, Dir: dir, Err: err}}, 0
	}

	var diags []validator.Diagnostic
	for _, s := range d.Skipped {
		diags = append(diags, validator.Diagnostic{Kind: validator.SkippedFile, Dir: dir, File: s.Path, Err: s.Err})
	}

	for _, g := range d.Groups {
		gd, err := c.validator.ValidateGroup(g)
		diags = append(diags, withDir(gd, dir)...)
		if err != nil {
			log.Error().Err(err).Str("dir", dir).Str("group", g.Name).Msg("Rewrite failed")
			diags = append(diags, validator.Diagnostic{Kind: validator.IOError, Dir: dir, Group: g.Name, Err: err})
			break
		}
	}

	return diags, d.Tables()
}

func withDir(diags []validator.Diagnostic, dir string) []validator.Diagnostic {
	for i := range diags {
		diags[i].Dir = dir
	}
	return diags
}
