package domain

import "fmt"

// Error codes for the five fatal error kinds of spec.md §7, plus an
// internal-invariant kind for transformer bugs.
const (
	ErrCodeUsage             = "USAGE"
	ErrCodeEntryMissing      = "ENTRY_MISSING"
	ErrCodeUnresolvedModule  = "UNRESOLVED_MODULE"
	ErrCodeBareSpecifier     = "BARE_SPECIFIER"
	ErrCodeParseError        = "PARSE_ERROR"
	ErrCodeInternalInvariant = "INTERNAL_INVARIANT"
)

// DomainError is a structured, fatal build error. It always carries a code
// so callers (the CLI) can map it to the right exit behavior without string
// matching the message.
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError builds a DomainError with an explicit code.
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewUsageError reports a missing or malformed CLI invocation.
func NewUsageError(message string) error {
	return DomainError{Code: ErrCodeUsage, Message: message}
}

// NewEntryMissingError reports that the entry path does not exist.
func NewEntryMissingError(path string, cause error) error {
	return DomainError{Code: ErrCodeEntryMissing, Message: fmt.Sprintf("entry file not found: %s", path), Cause: cause}
}

// NewUnresolvedModuleError reports that the resolver exhausted its candidate
// list for a specifier imported from referrer.
func NewUnresolvedModuleError(referrer, specifier string, candidates []string) error {
	return DomainError{
		Code: ErrCodeUnresolvedModule,
		Message: fmt.Sprintf(
			"cannot resolve %q from %s; tried: %v", specifier, referrer, candidates,
		),
	}
}

// NewBareSpecifierError reports a non-relative specifier, which this
// bundler does not support (spec.md §1 Non-goals).
func NewBareSpecifierError(referrer, specifier string) error {
	return DomainError{
		Code:    ErrCodeBareSpecifier,
		Message: fmt.Sprintf("bare specifier %q in %s is not supported (only relative specifiers are)", specifier, referrer),
	}
}

// NewParseError reports a parser failure for one file.
func NewParseError(path string, cause error) error {
	return DomainError{Code: ErrCodeParseError, Message: fmt.Sprintf("failed to parse %s", path), Cause: cause}
}

// NewInternalInvariantError reports a transformer bug: an input shape the
// core should never produce (e.g. overlapping edits).
func NewInternalInvariantError(module, detail string) error {
	return DomainError{
		Code:    ErrCodeInternalInvariant,
		Message: fmt.Sprintf("internal invariant violated in %s: %s", module, detail),
	}
}
