package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/tml-lang/tmlc/internal/source"
)

// Severity orders diagnostics for sorting and for deciding whether a
// Report represents a failed compilation.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// FixIt is a suggested source edit attached to a Diagnostic, rendered
// as a "help:" line in the human-readable format and as a "fix" object
// in the JSON format.
type FixIt struct {
	Span        source.Span
	Replacement string
	Message     string
}

// Diagnostic is a single compiler-surfaced problem: a taxonomy code,
// severity, primary span, message, and optional notes/fixes. It
// implements error so phases can return it (or a Report of many)
// through ordinary Go error-handling paths, keyed to internal/source
// spans instead of raw line/column pairs.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Primary  source.Span
	Message  string
	Notes    []string
	Fixes    []FixIt
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s[%s]: %s", d.Primary, d.Severity, d.Code, d.Message)
}

// Render writes the human-readable form of d to sb: a colorized
// severity/message/code line (color.New per severity), a source
// pointer line, then notes and fixes indented beneath.
func (d *Diagnostic) Render(sb *strings.Builder, noColor bool) {
	sev := color.New(color.FgRed, color.Bold)
	if d.Severity == SeverityWarning {
		sev = color.New(color.FgYellow, color.Bold)
	}
	if noColor {
		sev.DisableColor()
	}
	fmt.Fprintf(sb, "%s: %s [%s]\n", sev.Sprint(d.Severity), d.Message, d.Code)
	fmt.Fprintf(sb, "  --> %s\n", d.Primary)
	for _, n := range d.Notes {
		fmt.Fprintf(sb, "  = note: %s\n", n)
	}
	for _, f := range d.Fixes {
		fmt.Fprintf(sb, "  = help: %s\n", f.Message)
	}
}

// Report aggregates the diagnostics produced while processing one
// compilation unit (a source file, or an entire build), carrying both
// errors and warnings and exposing HasErrors for driver exit-code
// decisions (spec.md §6: exit 2 on any compilation error).
type Report struct {
	Diagnostics []*Diagnostic
}

// Add appends a diagnostic to the report.
func (r *Report) Add(d *Diagnostic) { r.Diagnostics = append(r.Diagnostics, d) }

// Errorf builds and appends an error-severity diagnostic.
func (r *Report) Errorf(code Code, span source.Span, format string, args ...any) {
	r.Add(&Diagnostic{Code: code, Severity: SeverityError, Primary: span, Message: fmt.Sprintf(format, args...)})
}

// Warnf builds and appends a warning-severity diagnostic.
func (r *Report) Warnf(code Code, span source.Span, format string, args ...any) {
	r.Add(&Diagnostic{Code: code, Severity: SeverityWarning, Primary: span, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic in the report is an error.
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by file, then byte offset, then severity
// (errors first), for stable and readable output.
func (r *Report) Sort() {
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		a, b := r.Diagnostics[i], r.Diagnostics[j]
		if a.Primary.FileID != b.Primary.FileID {
			return a.Primary.FileID < b.Primary.FileID
		}
		if a.Primary.ByteOffset != b.Primary.ByteOffset {
			return a.Primary.ByteOffset < b.Primary.ByteOffset
		}
		return a.Severity > b.Severity
	})
}

// Render writes every diagnostic in human-readable form, separated by
// blank lines.
func (r *Report) Render(noColor bool) string {
	var sb strings.Builder
	for i, d := range r.Diagnostics {
		if i > 0 {
			sb.WriteString("\n")
		}
		d.Render(&sb, noColor)
	}
	return sb.String()
}

// Merge appends another report's diagnostics into r, e.g. when a build
// combines per-module reports into one driver-level report.
func (r *Report) Merge(other *Report) {
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}
