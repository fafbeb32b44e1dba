// Package syntax parses ECMAScript-style regular expressions into an
// annotated syntax tree.
//
// Parsing happens in two passes. Parse builds the tree and records, on each
// inline modifier group such as (?i-m:...), the flags it adds and removes.
// Resolve then walks the tree once and stores on every node the effective
// Modifiers in force there, so matchers never compute modifier scope
// themselves.
package syntax

import "strconv"

// ErrorCode describes a failure to parse a regular expression.
//
// ErrorCode implements error so it can be used as an errors.Is target:
//
//	if errors.Is(err, syntax.ErrConflictingModifiers) { ... }
type ErrorCode string

const (
	ErrMissingParen          ErrorCode = "missing closing )"
	ErrUnexpectedParen       ErrorCode = "unexpected )"
	ErrMissingBracket        ErrorCode = "missing closing ]"
	ErrInvalidEscape         ErrorCode = "invalid escape sequence"
	ErrInvalidBackref        ErrorCode = "invalid backreference"
	ErrInvalidRange          ErrorCode = "invalid character class range"
	ErrMissingRepeatArgument ErrorCode = "missing argument to repetition operator"
	ErrInvalidRepeatSize     ErrorCode = "invalid repeat count"
	ErrInvalidGroup          ErrorCode = "invalid group"
	ErrInvalidGroupName      ErrorCode = "invalid capture group name"
	ErrDuplicateGroupName    ErrorCode = "duplicate capture group name"
	ErrConflictingModifiers  ErrorCode = "conflicting modifiers"
	ErrUnsupportedModifier   ErrorCode = "unsupported modifier"
	ErrRepeatedModifier      ErrorCode = "repeated modifier"
	ErrUnsupportedFlag       ErrorCode = "unsupported flag"
	ErrRepeatedFlag          ErrorCode = "repeated flag"
	ErrNestingDepth          ErrorCode = "expression nests too deeply"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error implements the error interface.
func (e ErrorCode) Error() string {
	return string(e)
}

// Error is a parse error carrying the offending expression and the byte
// offset in the source where the problem was detected.
type Error struct {
	Code   ErrorCode
	Expr   string
	Offset int
}

func (e *Error) Error() string {
	return "error parsing regexp: " + e.Code.String() + " at offset " + strconv.Itoa(e.Offset) + ": `" + e.Expr + "`"
}

// Unwrap returns the error code.
func (e *Error) Unwrap() error {
	return e.Code
}
