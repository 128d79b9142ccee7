// Package config implements the server's external configuration surface
// (§6): YAML documents with "${ENV_VAR}" substitution, the §8 S5 overlay
// merge, the embedded core schema bundle plus an operator schema
// directory, and construction of the runtime schema registry / DIT router
// / auth stack from the decoded document.
//
// Grounded on original_source/laurelin/server/config.py's recursive
// dict-merge Config(dict) subclass, translated to a decode-to-map,
// merge-as-maps, remarshal-to-typed-struct pipeline built on
// gopkg.in/yaml.v3 (present in the pack via other_examples' retrieved
// cuemby-warren go.mod).
package config

// Document is the decoded top-level server configuration.
type Document struct {
	SchemaDir    string                     `yaml:"schema_dir"`
	VendorName   string                     `yaml:"vendor_name"`
	Listeners    map[string]ListenerSpec    `yaml:"listeners"`
	DIT          map[string]SuffixSpec      `yaml:"dit"`
	AuthBackends map[string]AuthBackendSpec `yaml:"auth_backends"`
	AuthStack    []AuthStackSpec            `yaml:"auth_stack"`
}

// ListenerSpec configures one listener URI's TLS context (§4.J).
type ListenerSpec struct {
	Certificate  string           `yaml:"certificate"`
	PrivateKey   string           `yaml:"private_key"`
	ClientVerify ClientVerifySpec `yaml:"client_verify"`
}

// ClientVerifySpec is the client-certificate-verification block consumed
// only for ldaps:// listeners (§4.J).
type ClientVerifySpec struct {
	Required    bool   `yaml:"required"`
	UseSystemCA bool   `yaml:"use_system_ca_store"`
	CAFile      string `yaml:"ca_file"`
	CAPath      string `yaml:"ca_path"`
	CheckCRL    bool   `yaml:"check_crl"`
}

// SuffixSpec configures one DIT naming context (§4.F, §6 "DIT
// configuration").
type SuffixSpec struct {
	DataBackend string `yaml:"data_backend"`
	Default     bool   `yaml:"default"`
}

// NameMapRule is one entry of a simple-backend's name-mapping pipeline
// (§4.G "Name mapping").
type NameMapRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// AuthBackendSpec configures one named entry of auth_backends (§6 "Auth
// configuration"). Only type "simple" is recognized.
type AuthBackendSpec struct {
	Type     string        `yaml:"type"`
	Storage  string        `yaml:"storage"`
	Path     string        `yaml:"path"`
	Refresh  string        `yaml:"refresh"`
	Multiple bool          `yaml:"multiple"`
	NameMap  []NameMapRule `yaml:"name_map"`
	Deref    string        `yaml:"deref_aliases"`
}

// AuthStackSpec is one entry of the ordered auth_stack (§4.G). Each of
// UserUnknown/BadCreds/Error may be "break", "continue", or empty (package
// default).
type AuthStackSpec struct {
	Backend     string `yaml:"backend"`
	UserUnknown string `yaml:"user_unknown"`
	BadCreds    string `yaml:"bad_creds"`
	Error       string `yaml:"error"`
}
