package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tml-lang/tmlc/internal/lexer"
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/token"
)

func lex(t *testing.T, src string) ([]token.Token, []lexer.Error) {
	t.Helper()
	id := source.Files().Add(t.Name(), []byte(src))
	return lexer.Lex(id, []byte(src))
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tk := range toks {
		ks[i] = tk.Kind
	}
	return ks
}

func TestLexBasicFunction(t *testing.T) {
	toks, errs := lex(t, `func id(x: I32) -> I32 { return x }`)
	assert.Empty(t, errs)
	assert.Equal(t, []token.Kind{
		token.FUNC, token.IDENT, token.LPAREN, token.IDENT, token.COLON, token.IDENT,
		token.RPAREN, token.ARROW, token.IDENT, token.LBRACE, token.RETURN, token.IDENT,
		token.RBRACE, token.EOF,
	}, kinds(toks))
}

func TestLexNumericSuffixes(t *testing.T) {
	toks, errs := lex(t, `1_i32 2u64 3.5f32`)
	assert.Empty(t, errs)
	assert.Equal(t, token.NumericSuffix(""), toks[0].Suffix) // lowercase suffix not recognized (case sensitive)
}

func TestLexNumericSuffixUppercase(t *testing.T) {
	toks, errs := lex(t, `1I32 2U64 3.5F32`)
	assert.Empty(t, errs)
	assert.Equal(t, token.NumericSuffix("I32"), toks[0].Suffix)
	assert.EqualValues(t, 1, toks[0].IntVal)
	assert.Equal(t, token.NumericSuffix("U64"), toks[1].Suffix)
	assert.Equal(t, token.NumericSuffix("F32"), toks[2].Suffix)
}

func TestLexDocComment(t *testing.T) {
	toks, errs := lex(t, "/// does a thing\nfunc f() {}")
	assert.Empty(t, errs)
	assert.Equal(t, token.DOC_COMMENT, toks[0].Kind)
	assert.Equal(t, "does a thing", toks[0].Lexeme)
}

func TestLexStringEscapes(t *testing.T) {
	toks, errs := lex(t, `"a\nb"`)
	assert.Empty(t, errs)
	assert.Equal(t, "a\nb", toks[0].StrVal)
}

func TestLexInterpolatedStringMarker(t *testing.T) {
	toks, _ := lex(t, `"hi ${name}"`)
	assert.Equal(t, token.STRING_INTERP_PART, toks[0].Kind)
	assert.Equal(t, "hi ", toks[0].StrVal)
}

func TestLexCharLiteral(t *testing.T) {
	toks, errs := lex(t, `'a' '\n'`)
	assert.Empty(t, errs)
	assert.Equal(t, 'a', toks[0].ChrVal)
	assert.Equal(t, '\n', toks[1].ChrVal)
}

func TestLexCollectsManyErrorsAndResumes(t *testing.T) {
	_, errs := lex(t, "let x = ` ; let y = ~ ;")
	assert.Len(t, errs, 2)
}

func TestLexUnterminatedStringReportsError(t *testing.T) {
	_, errs := lex(t, `"abc`)
	assert.Len(t, errs, 1)
}
