package validator

import "checklocales/internal/tokens"

// Kind classifies a finding.
type Kind int

const (
	// Structural marks a group without a default-locale table.
	Structural Kind = iota
	// MissingKey marks a reference key absent from a candidate.
	MissingKey
	// TokenFidelity marks a placeholder or tag that did not survive translation.
	TokenFidelity
	// Pruned reports how many unknown keys a rewrite dropped.
	Pruned
	// IOError marks a directory that could not be read or parsed.
	IOError
	// SkippedFile marks a resource file whose name could not be parsed.
	SkippedFile
)

func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case MissingKey:
		return "missing_key"
	case TokenFidelity:
		return "token_fidelity"
	case Pruned:
		return "pruned"
	case IOError:
		return "io_error"
	case SkippedFile:
		return "skipped_file"
	default:
		return "unknown"
	}
}

// Diagnostic is one finding of a run. Fields not relevant to Kind are zero.
type Diagnostic struct {
	Kind  Kind
	Dir   string
	File  string
	Group string
	// Locale is the default locale for Structural findings and the
	// candidate locale otherwise.
	Locale    string
	Key       string
	TokenKind tokens.Kind
	Token     string
	Reference string
	Candidate string
	Count     int
	Err       error
}

// Fails reports whether d marks the run as failed.
func (d Diagnostic) Fails(missingKeyFatal bool) bool {
	switch d.Kind {
	case TokenFidelity, IOError:
		return true
	case MissingKey:
		return missingKeyFatal
	default:
		return false
	}
}
