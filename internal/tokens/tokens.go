package tokens

import "regexp"

// Kind identifies a family of tokens that must survive translation.
type Kind int

const (
	// Placeholder tokens are value substitutions such as {name}.
	Placeholder Kind = iota
	// Markup tokens are inline tags such as <b> or </b>.
	Markup
)

func (k Kind) String() string {
	switch k {
	case Placeholder:
		return "placeholder"
	case Markup:
		return "markup"
	default:
		return "unknown"
	}
}

// patterns to detect tokens in resource strings, indexed by Kind.
var patterns = map[Kind]*regexp.Regexp{
	Placeholder: regexp.MustCompile(`\{[^}]+?\}`), // {name}, {0}
	Markup:      regexp.MustCompile(`<[^>]+>`),    // <b>, </b>, <a href="...">
}

// Extract returns every token of the given kind in text, in order of appearance.
// Duplicates are kept.
func Extract(kind Kind, text string) []string {
	p, ok := patterns[kind]
	if !ok {
		return nil
	}
	return p.FindAllString(text, -1)
}

// Placeholders returns the {...} tokens in text.
func Placeholders(text string) []string { return Extract(Placeholder, text) }

// MarkupTags returns the <...> tokens in text.
func MarkupTags(text string) []string { return Extract(Markup, text) }

// FirstMissing returns the first token of want that does not appear in have.
// Comparison is by exact text.
func FirstMissing(want, have []string) (string, bool) {
	if len(want) == 0 {
		return "", false
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return w, true
		}
	}
	return "", false
}

// Mismatch describes a token that did not survive translation.
type Mismatch struct {
	Kind  Kind
	Token string
}

// Compare checks a translated string against its source.
//
// Every placeholder in source must appear in translated. When source carries
// markup, every tag in translated must also appear in source; tags introduced
// by the translation are flagged, tags dropped by it are not. At most one
// mismatch per kind is reported.
func Compare(source, translated string) []Mismatch {
	var out []Mismatch

	if tok, missing := FirstMissing(Placeholders(source), Placeholders(translated)); missing {
		out = append(out, Mismatch{Kind: Placeholder, Token: tok})
	}

	if srcTags := MarkupTags(source); len(srcTags) > 0 {
		if tok, extra := FirstMissing(MarkupTags(translated), srcTags); extra {
			out = append(out, Mismatch{Kind: Markup, Token: tok})
		}
	}

	return out
}
