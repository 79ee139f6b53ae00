package preprocessor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tml-lang/tmlc/internal/preprocessor"
)

func opts() preprocessor.Options {
	return preprocessor.Options{OS: "linux", Arch: "x86_64", PtrBits: 64, BuildMode: "debug"}
}

func TestIfdefKeepsBranch(t *testing.T) {
	p := preprocessor.New(opts())
	src := "a\n#ifdef LINUX\nb\n#else\nc\n#endif\nd"
	out, diags := p.Process([]byte(src))
	require.Empty(t, diags)
	lines := strings.Split(string(out), "\n")
	assert.Equal(t, []string{"a", "", "b", "", "", "", "d"}, lines)
}

func TestIfWithBoolExpr(t *testing.T) {
	p := preprocessor.New(opts())
	out, diags := p.Process([]byte("#if WINDOWS && X86_64\nwin\n#elif LINUX && X86_64\nlin\n#endif"))
	require.Empty(t, diags)
	assert.Contains(t, string(out), "lin")
	assert.NotContains(t, string(out), "win")
}

func TestNotAndParens(t *testing.T) {
	p := preprocessor.New(opts())
	out, diags := p.Process([]byte("#if !DEBUG && (WINDOWS || LINUX)\nkeep\n#endif"))
	require.Empty(t, diags)
	assert.NotContains(t, string(out), "keep")
}

func TestDefineUndef(t *testing.T) {
	p := preprocessor.New(opts())
	out, diags := p.Process([]byte("#define FOO\n#ifdef FOO\na\n#endif\n#undef FOO\n#ifdef FOO\nb\n#endif"))
	require.Empty(t, diags)
	assert.Contains(t, string(out), "a")
	assert.NotContains(t, string(out), "b")
}

func TestErrorDirectiveIsFatal(t *testing.T) {
	p := preprocessor.New(opts())
	_, diags := p.Process([]byte("#error \"boom\""))
	require.Len(t, diags, 1)
	assert.True(t, diags[0].IsError)
	assert.Equal(t, "boom", diags[0].Message)
}

func TestWarningDirectiveIsNonFatal(t *testing.T) {
	p := preprocessor.New(opts())
	out, diags := p.Process([]byte("#warning \"heads up\"\nkeep"))
	require.Len(t, diags, 1)
	assert.False(t, diags[0].IsError)
	assert.Contains(t, string(out), "keep")
}

func TestUnterminatedConditional(t *testing.T) {
	p := preprocessor.New(opts())
	_, diags := p.Process([]byte("#if LINUX\na"))
	require.Len(t, diags, 1)
	assert.True(t, diags[0].IsError)
}

func TestNestedConditionals(t *testing.T) {
	p := preprocessor.New(opts())
	out, diags := p.Process([]byte("#if LINUX\n#if X86_64\nboth\n#endif\n#endif"))
	require.Empty(t, diags)
	assert.Contains(t, string(out), "both")
}

func TestPreservesLineCount(t *testing.T) {
	p := preprocessor.New(opts())
	src := "a\nb\n#if WINDOWS\nc\n#endif\nd"
	out, _ := p.Process([]byte(src))
	assert.Equal(t, strings.Count(src, "\n"), strings.Count(string(out), "\n"))
}
