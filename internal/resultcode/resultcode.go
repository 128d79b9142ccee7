// Package resultcode defines the LDAP result code enumeration shared
// between the wire protocol engine (root package) and the internal
// components (schema, dn, filter, dit, auth) that need to fail with a
// specific, user-visible result code rather than a generic internal error.
//
// Keeping this as its own package avoids an import cycle: internal/dit and
// friends can report "noSuchObject" or "entryAlreadyExists" without
// importing the root protocol package. The root package's LDAPResultCode
// shares Code's underlying representation and numbering, so the dispatch
// boundary (result.go's asResult) converts between them with a plain
// type conversion.
package resultcode

// Code is an LDAP result code per RFC 4511 §4.1.9.
type Code uint32

const (
	Success                     Code = 0
	OperationsError             Code = 1
	ProtocolError               Code = 2
	TimeLimitExceeded           Code = 3
	SizeLimitExceeded           Code = 4
	CompareFalse                Code = 5
	CompareTrue                 Code = 6
	AuthMethodNotSupported      Code = 7
	StrongerAuthRequired        Code = 8
	Referral                    Code = 10
	AdminLimitExceeded          Code = 11
	UnavailableCriticalExt      Code = 12
	ConfidentialityRequired     Code = 13
	SaslBindInProgress          Code = 14
	NoSuchAttribute             Code = 16
	UndefinedAttributeType      Code = 17
	InappropriateMatching       Code = 18
	ConstraintViolation         Code = 19
	AttributeOrValueExists      Code = 20
	InvalidAttributeSyntax     Code = 21
	NoSuchObject                Code = 32
	AliasProblem                Code = 33
	InvalidDNSyntax              Code = 34
	AliasDereferencingProblem   Code = 36
	InappropriateAuthentication Code = 48
	InvalidCredentials          Code = 49
	InsufficientAccessRights    Code = 50
	Busy                        Code = 51
	Unavailable                 Code = 52
	UnwillingToPerform          Code = 53
	LoopDetect                  Code = 54
	NamingViolation             Code = 64
	ObjectClassViolation        Code = 65
	NotAllowedOnNonLeaf         Code = 66
	NotAllowedOnRDN             Code = 67
	EntryAlreadyExists          Code = 68
	ObjectClassModsProhibited   Code = 69
	Other                       Code = 80
)

// Error is a result-coded failure: the taxonomy of spec §7 that the
// protocol dispatch layer maps directly onto an LDAPResult. Internal
// components (schema validation, the DIT backend, the DIT router, the auth
// stack) return *Error when the operation must fail with a specific,
// user-visible result rather than being folded into "other".
type Error struct {
	Code       Code
	MatchedDN  string
	Diagnostic string
}

func New(code Code, diagnostic string) *Error {
	return &Error{Code: code, Diagnostic: diagnostic}
}

func NewWithMatch(code Code, matchedDN, diagnostic string) *Error {
	return &Error{Code: code, MatchedDN: matchedDN, Diagnostic: diagnostic}
}

func (e *Error) Error() string {
	return e.Diagnostic
}

func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Code == e.Code
}
