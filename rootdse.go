package laureld

// rootDSE synthesizes the Root DSE entry advertising server capabilities
// (§6 "Root DSE", tested by S1): namingContexts lists every configured
// suffix, defaultNamingContext names the router's configured default (or
// its sole suffix), supportedLDAPVersion is fixed at "3", and vendorName
// carries the configured value.
func (g *Globals) rootDSE() *SearchResultEntry {
	attrs := []Attribute{
		{Description: "namingContexts", Values: g.Router.Suffixes()},
		{Description: "supportedLDAPVersion", Values: []string{"3"}},
		{Description: "vendorName", Values: []string{g.VendorName}},
	}
	if dnc := g.Router.DefaultNamingContext(); dnc != "" {
		attrs = append(attrs, Attribute{Description: "defaultNamingContext", Values: []string{dnc}})
	}
	return &SearchResultEntry{ObjectName: "", Attributes: attrs}
}

// isRootDSEQuery reports whether req targets the Root DSE per §6: base-DN
// "" with scope base.
func isRootDSEQuery(req *SearchRequest) bool {
	return req.BaseObject == "" && req.Scope == SearchScopeBaseObject
}
