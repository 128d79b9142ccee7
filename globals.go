package laureld

import (
	"laureld/internal/auth"
	"laureld/internal/config"
	"laureld/internal/dit"
	"laureld/internal/dn"
	"laureld/internal/schema"
)

// Globals is the shared, read-only-after-construction state every
// connection's Handler dispatches against (§5 "Shared resources"): the
// schema registry, the DIT router/client, and the auth stack produced by
// internal/config.Build. Converting a wire DN string to internal/dn.DN
// happens at this boundary, in parseDN below (called by LDAPHandler's
// methods in dispatch.go), so that
// internal/dit and internal/auth never need to know about the wire types
// declared in the rest of this package.
type Globals struct {
	Registry   *schema.Registry
	Router     *dit.Router
	Client     *dit.Client
	Auth       *auth.Stack
	VendorName string
}

// NewGlobals wraps the output of internal/config.Build with the ambient
// values (vendor name) needed by Root DSE synthesis.
func NewGlobals(built *config.Built, vendorName string) *Globals {
	if vendorName == "" {
		vendorName = "laureld"
	}
	return &Globals{
		Registry:   built.Registry,
		Router:     built.Router,
		Client:     dit.NewClient(built.Router),
		Auth:       built.Auth,
		VendorName: vendorName,
	}
}

// parseDN converts a wire DN string to its internal representation against
// g's schema registry, translating parse failures into the
// invalidDNSyntax result code.
func (g *Globals) parseDN(s string) (dn.DN, *Result) {
	d, err := dn.Parse(s, g.Registry)
	if err != nil {
		return nil, LDAPResultInvalidDNSyntax.AsResult(err.Error())
	}
	return d, nil
}

