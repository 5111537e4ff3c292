package report

import (
	"fmt"
	"io"
	"time"

	"checklocales/internal/checker"
	"checklocales/internal/tokens"
	"checklocales/internal/validator"

	"github.com/fatih/color"
)

var (
	blue   = color.New(color.FgHiBlue).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	alert  = color.New(color.FgBlack, color.BgRed).SprintFunc()
)

// Printer writes human-readable findings. Errors and warnings go to errOut,
// everything else to out.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

// NewPrinter creates a Printer.
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

// Banner prints the tool name and version.
func (p *Printer) Banner(version string) {
	fmt.Fprintf(p.out, "\n%s\n\n", blue("checklocales version "+version))
}

// Directory announces a resource directory before its findings.
func (p *Printer) Directory(dir string) {
	fmt.Fprintf(p.out, "Processing for folder: %s\n", green(dir))
}

// Diagnostic prints a single finding.
func (p *Printer) Diagnostic(d validator.Diagnostic) {
	switch d.Kind {
	case validator.Pruned:
		fmt.Fprintln(p.out, yellow(fmt.Sprintf("INFO: Removed %d unused strings.", d.Count)))
	case validator.TokenFidelity:
		fmt.Fprintf(p.errOut, "%s:\n%s The string for key %s was incorrectly translated. %s %s\nThe string \"%s\" became \"%s\"\n\n",
			green(d.File), red("ERROR:"), green(d.Key), red(d.Token), fidelityReason(d.TokenKind),
			yellow(d.Reference), yellow(d.Candidate))
	case validator.MissingKey:
		fmt.Fprintf(p.errOut, "%s%s%s%s\"\n", yellow("WARNING: "), green(d.File), yellow(" is missing the key \""), red(d.Key))
	case validator.Structural:
		fmt.Fprintln(p.errOut, alert(fmt.Sprintf("ERROR: Default strings (%s) could not be found for %s!", d.Locale, d.Group)))
	case validator.IOError:
		fmt.Fprintf(p.errOut, "%s %v\n", red("ERROR:"), d.Err)
	case validator.SkippedFile:
		fmt.Fprintf(p.errOut, "%s skipped %s: %v\n", yellow("WARNING:"), green(d.File), d.Err)
	}
}

func fidelityReason(k tokens.Kind) string {
	if k == tokens.Markup {
		return "is an incorrect translation."
	}
	return "was translated or is missing."
}

// Summary prints the closing lines of a run.
func (p *Printer) Summary(res *checker.Result) {
	fmt.Fprintf(p.out, "%s (%s)\n", blue("checklocales finished processing."), FormatDuration(res.Duration))
	if !res.Failed {
		fmt.Fprintln(p.out, "No errors were found.")
	}
}

// FormatDuration renders d as milliseconds below 1.5s and as seconds with
// two decimals above.
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1500 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fsec", d.Seconds())
}
