// Package auth implements Component G: the ordered auth-stack, its
// per-error-kind stack counters and break/continue actions, and the
// simple-password backend (ldap/flat storage with name mapping).
//
// Grounded on spec.md §4.G directly: no repo in the pack models a
// pluggable auth-backend stack (go-stackage was considered for the
// ordered-entries structure but dropped — see DESIGN.md/SPEC_FULL.md, no
// pack file imports it so its API cannot be grounded). Modeled as a plain
// ordered slice in the teacher's style of small explicit structs.
package auth

import "laureld/internal/resultcode"

// FailureKind classifies why a backend's Authenticate call failed.
type FailureKind int

const (
	FailureUserUnknown FailureKind = iota
	FailureBadCreds
	FailureOther
)

// Action is applied to the stack after a backend's failure.
type Action int

const (
	ActionContinue Action = iota
	ActionBreak
)

// Backend authenticates one (name, credentials) pair against some store.
type Backend interface {
	Authenticate(name string, choice Choice) (authenticatedName string, kind FailureKind, err error)
}

// Choice is the decoded bind credential: Simple carries a cleartext
// password, SASL carries a mechanism-specific credentials blob (§4.G
// "Auth choice decoding").
type Choice struct {
	SASL        bool
	Mechanism   string
	Credentials string
}

// StackEntry is one (backend, per-kind action overrides) pair (§3 Data
// Model "AuthStackEntry").
type StackEntry struct {
	Name    string
	Backend Backend
	// Actions overrides the default action for the named failure kind; a
	// kind absent from this map uses the package default below.
	Actions map[FailureKind]Action
}

var defaultActions = map[FailureKind]Action{
	FailureUserUnknown: ActionContinue,
	FailureBadCreds:    ActionBreak,
	FailureOther:       ActionBreak,
}

func (e *StackEntry) actionFor(kind FailureKind) Action {
	if a, ok := e.Actions[kind]; ok {
		return a
	}
	return defaultActions[kind]
}

// Stack is the ordered list of auth-stack entries (§4.G).
type Stack struct {
	Entries []*StackEntry
}

// Authenticate runs name/choice through each entry in order per §4.G
// "authenticate". Returns the authenticated name on success, or a
// result-coded invalidCredentials error built from the accumulated
// per-kind counters.
func (s *Stack) Authenticate(name string, choice Choice) (string, error) {
	counters := map[FailureKind]int{}
	for _, entry := range s.Entries {
		authed, kind, err := entry.Backend.Authenticate(name, choice)
		if err == nil {
			return authed, nil
		}
		counters[kind]++
		if entry.actionFor(kind) == ActionBreak {
			break
		}
	}
	return "", compositeError(counters)
}

func compositeError(counters map[FailureKind]int) error {
	switch {
	case counters[FailureBadCreds] > 0:
		return resultcode.New(resultcode.InvalidCredentials, "invalid credentials")
	case counters[FailureUserUnknown] > 0:
		return resultcode.New(resultcode.InvalidCredentials, "user unknown")
	default:
		return resultcode.New(resultcode.InvalidCredentials, "authentication failed")
	}
}
