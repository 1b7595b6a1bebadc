package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga/wgsl"
)

// ParseError reports that the WGSL source could not be parsed or lowered.
// The parser's own message is carried verbatim; callers display it and keep
// the previous pipeline.
type ParseError struct {
	// Line and Column locate the first offending token (0 when the parser
	// did not report a position).
	Line, Column int
	// Message is the parser's diagnostic text.
	Message string

	err error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.err }

// newParseError wraps a naga front-end error, extracting the token position
// when the underlying wgsl.ParseError is available.
func newParseError(err error) *ParseError {
	pe := &ParseError{Message: err.Error(), err: err}
	var wgslErr wgsl.ParseError
	if errors.As(err, &wgslErr) {
		pe.Line = wgslErr.Token.Line
		pe.Column = wgslErr.Token.Column
		pe.Message = wgslErr.Message
	}
	return pe
}

// MissingEntryPointError reports that the source declares no entry point
// for a stage that a render pipeline requires. Recoverable: the candidate
// shader is rejected and the previous pipeline retained.
type MissingEntryPointError struct {
	// Stage is the stage with no entry point.
	Stage ShaderType
}

func (e *MissingEntryPointError) Error() string {
	return fmt.Sprintf("shader has no %s entry point", e.Stage)
}

// UnsupportedBindingError reports a module-global resource declaration
// whose type falls outside the categories the binding model covers
// (storage buffers, storage textures, atomics, ...). This is a
// development-time condition: the inference step's type coverage is
// incomplete for the shader being compiled, so the compile fails fast
// rather than guessing a binding category.
type UnsupportedBindingError struct {
	// Var is the offending global variable's name.
	Var string
	// Type is the WGSL type that could not be classified.
	Type string
}

func (e *UnsupportedBindingError) Error() string {
	return fmt.Sprintf("unimplemented binding category: global %q has type %s", e.Var, e.Type)
}
