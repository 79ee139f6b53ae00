// Package errors centralizes the TML compiler's diagnostic taxonomy and
// the structured Diagnostic/Report types every phase uses to surface
// problems without panicking. A Registry keyed by code carries
// phase/category metadata across the lexical/parse/preprocessor/type/
// borrow/resolver/codegen/style taxonomy.
package errors

// Code is a diagnostic code such as "T001" or "R002".
type Code string

// Prefix returns the leading letter run of a code, e.g. "T001" -> "T".
func (c Code) Prefix() string {
	i := 0
	for i < len(c) && (c[i] < '0' || c[i] > '9') {
		i++
	}
	return string(c[:i])
}

// Phase names the pipeline stage a code belongs to.
type Phase string

const (
	PhaseLexer        Phase = "lexer"
	PhasePreprocessor Phase = "preprocessor"
	PhaseParser       Phase = "parser"
	PhaseResolver     Phase = "resolver"
	PhaseTypeCheck    Phase = "typecheck"
	PhaseBorrow       Phase = "borrow"
	PhaseCodegen      Phase = "codegen"
	PhaseStyle        Phase = "style"
)

// Info describes a single registered diagnostic code.
type Info struct {
	Code        Code
	Phase       Phase
	Category    string
	Description string
}

// Registered error codes, organized by taxonomy prefix (spec.md §7).
const (
	// Lexical errors (L*)
	L001 Code = "L001" // illegal character
	L002 Code = "L002" // unterminated string literal
	L003 Code = "L003" // unterminated char literal
	L004 Code = "L004" // invalid numeric literal suffix

	// Parse errors (P*)
	P001 Code = "P001" // unexpected token
	P002 Code = "P002" // missing closing delimiter
	P003 Code = "P003" // invalid declaration syntax
	P004 Code = "P004" // invalid pattern syntax
	P005 Code = "P005" // invalid type syntax

	// Preprocessor errors/warnings (PP*)
	PP001 Code = "PP001" // #error directive fired
	PP002 Code = "PP002" // #warning directive fired
	PP003 Code = "PP003" // unterminated conditional (#if without #endif)
	PP004 Code = "PP004" // stray #else/#elif/#endif
	PP005 Code = "PP005" // unknown directive

	// Type errors (T*)
	T001 Code = "T001" // type mismatch
	T002 Code = "T002" // unbound symbol
	T003 Code = "T003" // missing behavior/constraint instance
	T004 Code = "T004" // non-exhaustive pattern match
	T005 Code = "T005" // reserved name redefinition
	T006 Code = "T006" // sealed class extended
	T007 Code = "T007" // abstract method outside abstract class/interface
	T008 Code = "T008" // override signature mismatch
	T009 Code = "T009" // final method overridden
	T010 Code = "T010" // visibility violation
	T011 Code = "T011" // ambiguous generic inference

	// Borrow/ownership errors (B*)
	B001 Code = "B001" // use after move
	B002 Code = "B002" // conflicting mutable alias

	// Resolver / module-loading errors (R*)
	R001 Code = "R001" // module not found
	R002 Code = "R002" // duplicate module
	R003 Code = "R003" // import conflict
	R004 Code = "R004" // symbol not exported
	R005 Code = "R005" // invalid module path

	// Codegen errors (C*)
	C001 Code = "C001" // unsupported construct
	C002 Code = "C002" // unresolved monomorphization
	C003 Code = "C003" // external backend failure

	// Style (S*) — out of core scope, registry entry only
	S001 Code = "S001" // lint warning (unimplemented in core)
)

// Registry maps every code to its descriptive metadata.
var Registry = map[Code]Info{
	L001: {L001, PhaseLexer, "syntax", "illegal character"},
	L002: {L002, PhaseLexer, "syntax", "unterminated string literal"},
	L003: {L003, PhaseLexer, "syntax", "unterminated char literal"},
	L004: {L004, PhaseLexer, "syntax", "invalid numeric literal suffix"},

	P001: {P001, PhaseParser, "syntax", "unexpected token"},
	P002: {P002, PhaseParser, "syntax", "missing closing delimiter"},
	P003: {P003, PhaseParser, "syntax", "invalid declaration syntax"},
	P004: {P004, PhaseParser, "syntax", "invalid pattern syntax"},
	P005: {P005, PhaseParser, "syntax", "invalid type syntax"},

	PP001: {PP001, PhasePreprocessor, "directive", "#error directive fired"},
	PP002: {PP002, PhasePreprocessor, "directive", "#warning directive fired"},
	PP003: {PP003, PhasePreprocessor, "structure", "unterminated conditional"},
	PP004: {PP004, PhasePreprocessor, "structure", "stray conditional directive"},
	PP005: {PP005, PhasePreprocessor, "directive", "unknown directive"},

	T001: {T001, PhaseTypeCheck, "type", "type mismatch"},
	T002: {T002, PhaseTypeCheck, "scope", "unbound symbol"},
	T003: {T003, PhaseTypeCheck, "constraint", "missing behavior instance"},
	T004: {T004, PhaseTypeCheck, "pattern", "non-exhaustive match"},
	T005: {T005, PhaseTypeCheck, "namespace", "reserved name redefinition"},
	T006: {T006, PhaseTypeCheck, "oop", "sealed class extended"},
	T007: {T007, PhaseTypeCheck, "oop", "abstract method outside abstract context"},
	T008: {T008, PhaseTypeCheck, "oop", "override signature mismatch"},
	T009: {T009, PhaseTypeCheck, "oop", "final method overridden"},
	T010: {T010, PhaseTypeCheck, "oop", "visibility violation"},
	T011: {T011, PhaseTypeCheck, "inference", "ambiguous generic inference"},

	B001: {B001, PhaseBorrow, "ownership", "use after move"},
	B002: {B002, PhaseBorrow, "ownership", "conflicting mutable alias"},

	R001: {R001, PhaseResolver, "resolution", "module not found"},
	R002: {R002, PhaseResolver, "namespace", "duplicate module"},
	R003: {R003, PhaseResolver, "resolution", "import conflict"},
	R004: {R004, PhaseResolver, "resolution", "symbol not exported"},
	R005: {R005, PhaseResolver, "syntax", "invalid module path"},

	C001: {C001, PhaseCodegen, "unsupported", "unsupported construct"},
	C002: {C002, PhaseCodegen, "monomorphization", "unresolved monomorphization"},
	C003: {C003, PhaseCodegen, "toolchain", "external backend failure"},

	S001: {S001, PhaseStyle, "lint", "lint warning"},
}

// Lookup returns the Info for a code, if registered.
func Lookup(c Code) (Info, bool) {
	info, ok := Registry[c]
	return info, ok
}

// ExitCode maps a phase to the driver's process exit code (spec.md §6):
// 0 success, 1 runtime failure, 2 compilation error. Every taxonomy
// phase here represents a compilation-time failure.
func (p Phase) ExitCode() int { return 2 }
