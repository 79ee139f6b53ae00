package errors_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tmlerrors "github.com/tml-lang/tmlc/internal/errors"
	"github.com/tml-lang/tmlc/internal/source"
)

func TestCodePrefix(t *testing.T) {
	assert.Equal(t, "T", tmlerrors.T001.Prefix())
	assert.Equal(t, "PP", tmlerrors.PP001.Prefix())
	assert.Equal(t, "R", tmlerrors.R003.Prefix())
}

func TestLookupKnownAndUnknown(t *testing.T) {
	info, ok := tmlerrors.Lookup(tmlerrors.T001)
	require.True(t, ok)
	assert.Equal(t, tmlerrors.PhaseTypeCheck, info.Phase)

	_, ok = tmlerrors.Lookup(tmlerrors.Code("Z999"))
	assert.False(t, ok)
}

func span(t *testing.T) source.Span {
	id := source.Files().Add(t.Name(), []byte("x"))
	return source.Span{FileID: id, Line: 1, Column: 1, Length: 1}
}

func TestReportHasErrors(t *testing.T) {
	r := &tmlerrors.Report{}
	assert.False(t, r.HasErrors())
	r.Warnf(tmlerrors.PP002, span(t), "heads up")
	assert.False(t, r.HasErrors())
	r.Errorf(tmlerrors.T001, span(t), "type mismatch: %s vs %s", "I32", "Str")
	assert.True(t, r.HasErrors())
}

func TestReportSortOrdersErrorsBeforeWarningsAtSameOffset(t *testing.T) {
	r := &tmlerrors.Report{}
	s := span(t)
	r.Warnf(tmlerrors.PP002, s, "warn")
	r.Errorf(tmlerrors.T001, s, "err")
	r.Sort()
	require.Len(t, r.Diagnostics, 2)
	assert.Equal(t, tmlerrors.SeverityError, r.Diagnostics[0].Severity)
}

func TestReportToJSONIsDeterministic(t *testing.T) {
	r := &tmlerrors.Report{}
	r.Errorf(tmlerrors.T002, span(t), "unbound symbol `foo`")
	r.Sort()
	out1, err := r.ToJSON()
	require.NoError(t, err)
	out2, err := r.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, out1, out2)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(out1, &parsed))
	assert.EqualValues(t, 1, parsed["error_count"])
	assert.EqualValues(t, 0, parsed["warning_count"])
}

func TestDiagnosticErrorImplementsErrorInterface(t *testing.T) {
	var err error = &tmlerrors.Diagnostic{Code: tmlerrors.L001, Severity: tmlerrors.SeverityError, Primary: span(t), Message: "illegal character"}
	assert.Contains(t, err.Error(), "L001")
	assert.Contains(t, err.Error(), "illegal character")
}

func TestReportMerge(t *testing.T) {
	a := &tmlerrors.Report{}
	a.Errorf(tmlerrors.T001, span(t), "a")
	b := &tmlerrors.Report{}
	b.Warnf(tmlerrors.PP002, span(t), "b")
	a.Merge(b)
	assert.Len(t, a.Diagnostics, 2)
}
