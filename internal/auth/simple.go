package auth

import (
	"fmt"

	"laureld/internal/password"
)

// LookupResult is what a Storage returns for a mapped bind name: whether an
// entry/record was found at all, and the stored password value(s) attached
// to it.
type LookupResult struct {
	Found  bool
	Values []string
}

// Storage is the simple-password backend's pluggable credential source
// (§4.G "Simple-password backend": storage ∈ {ldap, flat}).
type Storage interface {
	Lookup(mappedName string) (LookupResult, error)
}

// SimpleBackend implements the "simple" auth_backends type: map the
// client-supplied name, look up stored credentials via Storage, and verify
// the bind credential against them (§4.G).
type SimpleBackend struct {
	Mapper   *NameMapper
	Storage  Storage
	Multiple bool // permit more than one stored password value
}

// Authenticate implements the Backend interface.
func (b *SimpleBackend) Authenticate(name string, choice Choice) (string, FailureKind, error) {
	if choice.SASL && choice.Mechanism == "" {
		return "", FailureOther, fmt.Errorf("auth: sasl choice missing mechanism")
	}

	mapped := name
	if b.Mapper != nil {
		mapped = b.Mapper.Map(name)
	}

	res, err := b.Storage.Lookup(mapped)
	if err != nil {
		return "", FailureOther, err
	}
	if !res.Found {
		return "", FailureUserUnknown, fmt.Errorf("auth: name does not exist")
	}
	if len(res.Values) == 0 {
		return "", FailureOther, fmt.Errorf("auth: no stored password for %q", mapped)
	}
	if len(res.Values) > 1 && !b.Multiple {
		return "", FailureOther, fmt.Errorf("auth: multiple stored passwords for %q not permitted", mapped)
	}

	for _, stored := range res.Values {
		if password.Verify(stored, choice.Credentials) {
			return mapped, 0, nil
		}
	}
	return "", FailureBadCreds, fmt.Errorf("auth: invalid credentials")
}
