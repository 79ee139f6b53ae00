package errors

import (
	"encoding/json"

	"github.com/tml-lang/tmlc/internal/source"
)

// jsonSpan is the stable, field-ordered wire shape for a source.Span in
// --error-format=json output (spec.md §6).
type jsonSpan struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Length int     `json:"length"`
}

func toJSONSpan(s source.Span) jsonSpan {
	return jsonSpan{
		File:   source.Files().Path(s.FileID),
		Line:   s.Line,
		Column: s.Column,
		Length: s.Length,
	}
}

// jsonFixIt mirrors FixIt for the JSON wire format.
type jsonFixIt struct {
	Span        jsonSpan `json:"span"`
	Replacement string   `json:"replacement"`
	Message     string   `json:"message"`
}

// jsonDiagnostic mirrors Diagnostic for the JSON wire format with
// stable, deterministically-ordered field names.
type jsonDiagnostic struct {
	Code     string      `json:"code"`
	Severity string      `json:"severity"`
	Message  string      `json:"message"`
	Span     jsonSpan    `json:"span"`
	Notes    []string    `json:"notes,omitempty"`
	Fixes    []jsonFixIt `json:"fixes,omitempty"`
}

func toJSONDiagnostic(d *Diagnostic) jsonDiagnostic {
	fixes := make([]jsonFixIt, 0, len(d.Fixes))
	for _, f := range d.Fixes {
		fixes = append(fixes, jsonFixIt{Span: toJSONSpan(f.Span), Replacement: f.Replacement, Message: f.Message})
	}
	return jsonDiagnostic{
		Code:     string(d.Code),
		Severity: d.Severity.String(),
		Message:  d.Message,
		Span:     toJSONSpan(d.Primary),
		Notes:    d.Notes,
		Fixes:    fixes,
	}
}

// jsonReport is the top-level object emitted for --error-format=json:
// a single array of diagnostics plus a summary error/warning count so
// tooling doesn't need to re-scan the array.
type jsonReport struct {
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	ErrorCount  int              `json:"error_count"`
	WarnCount   int              `json:"warning_count"`
}

// ToJSON renders the report as deterministic, indented JSON. Diagnostics
// should already be sorted (call Sort first) so repeated runs over the
// same input produce byte-identical output.
func (r *Report) ToJSON() ([]byte, error) {
	out := jsonReport{Diagnostics: make([]jsonDiagnostic, 0, len(r.Diagnostics))}
	for _, d := range r.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, toJSONDiagnostic(d))
		if d.Severity == SeverityError {
			out.ErrorCount++
		} else {
			out.WarnCount++
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
