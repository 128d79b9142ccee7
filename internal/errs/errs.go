// Package errs defines the internal (non-wire) error categories of the
// server core, plus the ResultCodeError bridge used to translate an
// internal failure into an LDAPResult.
package errs

import "fmt"

// Kind identifies one of the internal error categories of spec §7.
type Kind string

const (
	KindSchemaValidation  Kind = "SchemaValidationError"
	KindInvalidSchema     Kind = "InvalidSchema"
	KindSchemaLoad        Kind = "SchemaLoadError"
	KindUndefinedElement  Kind = "UndefinedSchemaElement"
	KindSyntaxParse       Kind = "SyntaxParseError"
	KindNeededRule        Kind = "NeededRuleError"
	KindConfig            Kind = "ConfigError"
	KindInternal          Kind = "InternalError"
	KindObjectNotFound    Kind = "ObjectNotFound"
	KindAuthFailure       Kind = "AuthFailure"
	KindAuthNameNotExist  Kind = "AuthNameDoesNotExist"
	KindAuthInvalidCreds  Kind = "AuthInvalidCredentials"
)

// Error is the internal error type carrying one of the Kind categories
// plus free-form context. It is never sent on the wire directly; callers
// translate it (or wrap it in a ResultCodeError) before responding.
type Error struct {
	Kind    Kind
	Message string
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

// Fields for Wrap-style formatting, analogous to LDAPError.WithInfo in the
// protocol engine.
func (e *Error) WithInfo(key string, value any) *Error {
	return &Error{Kind: e.Kind, Message: fmt.Sprintf("%s: %s = %v", e.Message, key, value)}
}
