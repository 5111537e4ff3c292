package validator

import (
	"fmt"

	"checklocales/internal/loader"
	"checklocales/internal/resource"
	"checklocales/internal/tokens"

	"github.com/rs/zerolog/log"
)

// Options control the reconciliation of candidate tables.
type Options struct {
	// Prune rewrites candidates without the keys unknown to the reference.
	Prune bool
	// Backup keeps the pre-rewrite file at <path>.bak. Only used with Prune.
	Backup bool
	// DefaultLocale names the reference locale in Structural findings.
	DefaultLocale string
}

// Validator checks candidate tables against their reference.
type Validator struct {
	opts    Options
	parsers []resource.Parser
	writer  *Writer
}

// New creates a Validator. parsers encode pruned tables back to their format.
func New(opts Options, parsers []resource.Parser) *Validator {
	return &Validator{
		opts:    opts,
		parsers: parsers,
		writer:  NewWriter(opts.Backup),
	}
}

// ValidateGroup checks every candidate of g. The returned error is a failed
// rewrite; findings are returned as diagnostics.
func (v *Validator) ValidateGroup(g *loader.Group) ([]Diagnostic, error) {
	if g.Reference == nil {
		return []Diagnostic{{
			Kind:   Structural,
			Group:  g.Name,
			Locale: v.opts.DefaultLocale,
		}}, nil
	}

	var diags []Diagnostic
	for _, cand := range g.Candidates {
		d, err := v.ValidateTable(g.Reference, cand)
		diags = append(diags, d...)
		if err != nil {
			return diags, err
		}
	}
	return diags, nil
}

// ValidateTable compares cand against ref and, when pruning, rewrites cand.
//
// Diagnostics are ordered: pruned count, token findings by key, missing keys by key.
func (v *Validator) ValidateTable(ref, cand *resource.StringTable) ([]Diagnostic, error) {
	kept := make(map[string]string, len(cand.Strings))
	var fidelity []Diagnostic

	for _, key := range cand.SortedKeys() {
		if !ref.Has(key) {
			continue
		}
		kept[key] = cand.Strings[key]

		for _, m := range tokens.Compare(ref.Strings[key], cand.Strings[key]) {
			fidelity = append(fidelity, Diagnostic{
				Kind:      TokenFidelity,
				File:      cand.Name(),
				Group:     cand.Group,
				Locale:    cand.Locale,
				Key:       key,
				TokenKind: m.Kind,
				Token:     m.Token,
				Reference: ref.Strings[key],
				Candidate: cand.Strings[key],
			})
		}
	}

	var diags []Diagnostic
	removed := len(cand.Strings) - len(kept)
	if v.opts.Prune && removed > 0 {
		diags = append(diags, Diagnostic{
			Kind:   Pruned,
			File:   cand.Name(),
			Group:  cand.Group,
			Locale: cand.Locale,
			Count:  removed,
		})
	}
	diags = append(diags, fidelity...)

	for _, key := range ref.SortedKeys() {
		if _, ok := kept[key]; !ok {
			diags = append(diags, Diagnostic{
				Kind:   MissingKey,
				File:   cand.Name(),
				Group:  cand.Group,
				Locale: cand.Locale,
				Key:    key,
			})
		}
	}

	if v.opts.Prune {
		if err := v.prune(cand, kept); err != nil {
			return diags, err
		}
	}

	return diags, nil
}

func (v *Validator) prune(cand *resource.StringTable, kept map[string]string) error {
	p := resource.ParserForFormat(v.parsers, cand.Format)
	if p == nil {
		return fmt.Errorf("prune %s: no encoder for format %q", cand.Path, cand.Format)
	}

	data, err := p.Encode(kept)
	if err != nil {
		return fmt.Errorf("prune %s: %w", cand.Path, err)
	}

	if err := v.writer.Write(cand.Path, data); err != nil {
		return err
	}

	log.Debug().
		Str("file", cand.Path).
		Int("kept", len(kept)).
		Int("removed", len(cand.Strings)-len(kept)).
		Msg("Rewrote resource file")
	return nil
}
