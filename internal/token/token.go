// Package token defines the lexical token kinds produced by the lexer,
// covering the target systems language's full keyword and operator
// surface (structs, enums, behaviors, classes, generics, closures,
// async/await).
package token

import (
	"fmt"

	"github.com/tml-lang/tmlc/internal/source"
)

// Kind identifies the lexical category of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	COMMENT
	DOC_COMMENT

	IDENT
	INT
	FLOAT
	STRING
	STRING_INTERP_PART // a chunk of an interpolated string, before/between/after `${ }`
	CHAR
	TRUE
	FALSE

	// Keywords
	FUNC
	LET
	MUT
	CONST
	STRUCT
	ENUM
	BEHAVIOR
	IMPL
	CLASS
	INTERFACE
	EXTENDS
	IMPLEMENTS
	ABSTRACT
	VIRTUAL
	OVERRIDE
	FINAL
	SEALED
	TYPE
	USE
	PUB
	MOD
	EXTERN
	ASYNC
	AWAIT
	RETURN
	BREAK
	CONTINUE
	IF
	ELSE
	WHEN
	LOOP
	WHILE
	FOR
	IN
	SELF
	SELF_TYPE
	DYN
	AS
	TRY
	WHERE

	// Operators & punctuation
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	ANDAND
	OROR
	BANG
	AMP
	AMPMUT
	ARROW
	FARROW
	DOTDOT
	DOTDOTEQ
	COLON
	COLONCOLON
	COMMA
	DOT
	QUESTION
	AT

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	SEMI
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT", DOC_COMMENT: "DOC_COMMENT",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	STRING_INTERP_PART: "STRING_INTERP_PART", CHAR: "CHAR", TRUE: "true", FALSE: "false",
	FUNC: "func", LET: "let", MUT: "mut", CONST: "const", STRUCT: "struct",
	ENUM: "enum", BEHAVIOR: "behavior", IMPL: "impl", CLASS: "class",
	INTERFACE: "interface", EXTENDS: "extends", IMPLEMENTS: "implements",
	ABSTRACT: "abstract", VIRTUAL: "virtual", OVERRIDE: "override", FINAL: "final",
	SEALED: "sealed", TYPE: "type", USE: "use", PUB: "pub", MOD: "mod",
	EXTERN: "extern", ASYNC: "async", AWAIT: "await", RETURN: "return",
	BREAK: "break", CONTINUE: "continue", IF: "if", ELSE: "else", WHEN: "when",
	LOOP: "loop", WHILE: "while", FOR: "for", IN: "in", SELF: "self",
	SELF_TYPE: "Self", DYN: "dyn", AS: "as", TRY: "try", WHERE: "where",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", ASSIGN: "=",
	EQ: "==", NEQ: "!=", LT: "<", GT: ">", LTE: "<=", GTE: ">=", ANDAND: "&&",
	OROR: "||", BANG: "!", AMP: "&", AMPMUT: "&mut", ARROW: "->", FARROW: "=>",
	DOTDOT: "..", DOTDOTEQ: "..=", COLON: ":", COLONCOLON: "::", COMMA: ",",
	DOT: ".", QUESTION: "?", AT: "@",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]", SEMI: ";",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", k)
}

var keywords = map[string]Kind{
	"func": FUNC, "let": LET, "mut": MUT, "const": CONST, "struct": STRUCT,
	"enum": ENUM, "behavior": BEHAVIOR, "impl": IMPL, "class": CLASS,
	"interface": INTERFACE, "extends": EXTENDS, "implements": IMPLEMENTS,
	"abstract": ABSTRACT, "virtual": VIRTUAL, "override": OVERRIDE, "final": FINAL,
	"sealed": SEALED, "type": TYPE, "use": USE, "pub": PUB, "mod": MOD,
	"extern": EXTERN, "async": ASYNC, "await": AWAIT, "return": RETURN,
	"break": BREAK, "continue": CONTINUE, "if": IF, "else": ELSE, "when": WHEN,
	"loop": LOOP, "while": WHILE, "for": FOR, "in": IN, "self": SELF,
	"Self": SELF_TYPE, "dyn": DYN, "as": AS, "try": TRY, "where": WHERE,
	"true": TRUE, "false": FALSE,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not
// a reserved word.
func LookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// NumericSuffix names a suffix on an integer or float literal
// (I8...I128, U8...U128, Usize, Isize, F32, F64).
type NumericSuffix string

// Token is a single lexical token with its source span, literal text,
// and any decoded scalar value.
type Token struct {
	Kind    Kind
	Span    source.Span
	Lexeme  string
	Suffix  NumericSuffix // numeric literal suffix, if any
	IntVal  int64
	FltVal  float64
	StrVal  string
	ChrVal  rune
	BoolVal bool
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Span)
}

// IsKeyword reports whether the token's kind is a reserved keyword.
func (t Token) IsKeyword() bool {
	_, isKind := names[t.Kind]
	if !isKind {
		return false
	}
	for _, k := range keywords {
		if k == t.Kind {
			return true
		}
	}
	return false
}
