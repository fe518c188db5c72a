package main

import "fmt"

// ErrorCode is the compiler exit status for a failed compilation.
type ErrorCode int

const (
	CodeOK           ErrorCode = 0
	CodeLexical      ErrorCode = 1  // malformed token
	CodeSyntax       ErrorCode = 2  // parse error
	CodeDefinition   ErrorCode = 3  // missing main, undefined identifier/function
	CodeRedefinition ErrorCode = 4  // duplicate signature/accessor, local redeclared
	CodeArgCount     ErrorCode = 5  // call arity or builtin literal-kind mismatch
	CodeExprType     ErrorCode = 6  // illegal operand types in an expression
	CodeFlowControl  ErrorCode = 10 // break/continue outside a loop
	CodeInternal     ErrorCode = 99 // allocation/underflow, always fatal
)

// CompileError is the single error type produced by the whole pipeline.
// The first error aborts the current traversal and propagates unchanged to
// the entry point; there is no diagnostic accumulation.
type CompileError struct {
	Code    ErrorCode
	Message string
}

func (e *CompileError) Error() string {
	return "error: " + e.Message
}

func compileErrorf(code ErrorCode, format string, args ...interface{}) *CompileError {
	return &CompileError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func lexError(format string, args ...interface{}) *CompileError {
	return compileErrorf(CodeLexical, format, args...)
}

func syntaxError(format string, args ...interface{}) *CompileError {
	return compileErrorf(CodeSyntax, format, args...)
}

func defError(format string, args ...interface{}) *CompileError {
	return compileErrorf(CodeDefinition, format, args...)
}

func redefError(format string, args ...interface{}) *CompileError {
	return compileErrorf(CodeRedefinition, format, args...)
}

func argCountError(format string, args ...interface{}) *CompileError {
	return compileErrorf(CodeArgCount, format, args...)
}

func exprTypeError(format string, args ...interface{}) *CompileError {
	return compileErrorf(CodeExprType, format, args...)
}

func flowError(format string, args ...interface{}) *CompileError {
	return compileErrorf(CodeFlowControl, format, args...)
}

func internalError(format string, args ...interface{}) *CompileError {
	return compileErrorf(CodeInternal, format, args...)
}

// ExitCode extracts the process exit status from a compilation error.
func ExitCode(err error) int {
	if err == nil {
		return int(CodeOK)
	}
	if ce, ok := err.(*CompileError); ok {
		return int(ce.Code)
	}
	return int(CodeInternal)
}
