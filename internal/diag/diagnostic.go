// Package diag collects compiler diagnostics from every stage of the
// Kestrel front end.
package diag

import (
	"fmt"

	"github.com/you-not-fish/kestrel/internal/syntax"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageParser  Stage = "parser"
	StageResolve Stage = "resolve"
	StageFlow    Stage = "flow"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	CodeSyntax Code = "SYNTAX"

	CodeUndefined        Code = "RESOLVE_UNDEFINED"
	CodeRedeclared       Code = "RESOLVE_REDECLARED"
	CodeNotAssignable    Code = "RESOLVE_NOT_ASSIGNABLE"
	CodeNotAnErrorType   Code = "RESOLVE_NOT_AN_ERROR_TYPE"
	CodeInvalidStatement Code = "RESOLVE_INVALID_STATEMENT"

	CodeUnreachableCode  Code = "FLOW_UNREACHABLE_CODE"
	CodeUnassignedLocal  Code = "FLOW_UNASSIGNED_LOCAL"
	CodeUnassignedParam  Code = "FLOW_UNASSIGNED_PARAM"
	CodeMissingReturn    Code = "FLOW_MISSING_RETURN"
	CodeNoEnclosingLoop  Code = "FLOW_NO_ENCLOSING_LOOP"
	CodeDoubleCatch      Code = "FLOW_DOUBLE_CATCH"
	CodeJumpOutOfFinally Code = "FLOW_JUMP_OUT_OF_FINALLY"
	CodeMissingBreak     Code = "FLOW_MISSING_BREAK"
	CodeUnreachableCatch Code = "FLOW_UNREACHABLE_CATCH"
)

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage      `yaml:"stage"`
	Severity Severity   `yaml:"severity"`
	Code     Code       `yaml:"code"`
	Pos      syntax.Pos `yaml:"-"`
	Message  string     `yaml:"message"`
}

// String formats d the way the command line prints it:
//
//	file.kes:3:5: error: use of possibly unassigned local variable `x`
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// IsError reports whether d blocks compilation.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// Errorf builds an error diagnostic.
func Errorf(stage Stage, code Code, pos syntax.Pos, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warningf builds a warning diagnostic.
func Warningf(stage Stage, code Code, pos syntax.Pos, format string, args ...interface{}) Diagnostic {
	d := Errorf(stage, code, pos, format, args...)
	d.Severity = SeverityWarning
	return d
}
