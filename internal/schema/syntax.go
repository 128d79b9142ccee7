package schema

import "regexp"

// OID syntax (1.3.6.1.4.1.1466.115.121.1.38): an anchored OID, either a
// numeric OID or a descriptor name (RFC 4512 oid = descr / numericoid).
var oidPattern = regexp.MustCompile(`^([0-9]+(\.[0-9]+)*|[A-Za-z][A-Za-z0-9-]*)$`)

// DirectoryString syntax (1.3.6.1.4.1.1466.115.121.1.15): any non-empty
// UTF-8 string.
var directoryStringPattern = regexp.MustCompile(`^.+$`)

// IA5String syntax (1.3.6.1.4.1.1466.115.121.1.26): 7-bit ASCII.
var ia5Pattern = regexp.MustCompile(`^[\x00-\x7f]*$`)

// NumericString syntax (1.3.6.1.4.1.1466.115.121.1.36).
var numericPattern = regexp.MustCompile(`^[0-9 ]+$`)

// Boolean syntax (1.3.6.1.4.1.1466.115.121.1.7).
var booleanPattern = regexp.MustCompile(`^(TRUE|FALSE)$`)

// Integer syntax (1.3.6.1.4.1.1466.115.121.1.27).
var integerPattern = regexp.MustCompile(`^-?[0-9]+$`)

// telephoneNumberValidate implements the named custom formatter mentioned
// in spec §3: strips common punctuation, then requires a non-empty
// residue of digits/plus.
func telephoneNumberValidate(v string) error {
	cleaned := make([]byte, 0, len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch c {
		case ' ', '-', '(', ')', '.':
			continue
		default:
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return errInvalidSyntax("telephoneNumber", v)
	}
	for _, c := range cleaned {
		if !(c == '+' || (c >= '0' && c <= '9')) {
			return errInvalidSyntax("telephoneNumber", v)
		}
	}
	return nil
}

func errInvalidSyntax(name, v string) error {
	return &syntaxError{name: name, value: v}
}

type syntaxError struct {
	name  string
	value string
}

func (e *syntaxError) Error() string {
	return "invalid " + e.name + " value: " + e.value
}

func regexSyntax(name string, re *regexp.Regexp) *SyntaxRule {
	return &SyntaxRule{
		Name: name,
		Validate: func(v string) error {
			if !re.MatchString(v) {
				return errInvalidSyntax(name, v)
			}
			return nil
		},
	}
}

// octetStringSyntax accepts any byte sequence: the "sink" syntax used both
// as the built-in octetString syntax and as the undefined-attribute
// default (§4.A).
func octetStringSyntax() *SyntaxRule {
	return &SyntaxRule{
		Name:     "octetString",
		Validate: func(v string) error { return nil },
	}
}

// registerBuiltinSyntaxes populates the registry's syntax catalog with the
// bootstrap + common syntaxes used by the bootstrap attribute types and
// object classes of §4.A.
func (r *Registry) registerBuiltinSyntaxes() {
	add := func(oid string, s *SyntaxRule) {
		s.OID = oid
		r.syntaxesByName[foldCase(s.Name)] = s
		r.syntaxesByOID[oid] = s
	}
	add("1.3.6.1.4.1.1466.115.121.1.38", regexSyntax("oid", oidPattern))
	add("1.3.6.1.4.1.1466.115.121.1.15", regexSyntax("directoryString", directoryStringPattern))
	add("1.3.6.1.4.1.1466.115.121.1.26", regexSyntax("ia5String", ia5Pattern))
	add("1.3.6.1.4.1.1466.115.121.1.36", regexSyntax("numericString", numericPattern))
	add("1.3.6.1.4.1.1466.115.121.1.7", regexSyntax("boolean", booleanPattern))
	add("1.3.6.1.4.1.1466.115.121.1.27", regexSyntax("integer", integerPattern))
	add("1.3.6.1.4.1.1466.115.121.1.40", octetStringSyntax())
	add("1.3.6.1.4.1.1466.115.121.1.50", &SyntaxRule{Name: "telephoneNumber", Validate: telephoneNumberValidate})
}
