package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"laureld/internal/schema"
)

// rawSchemaFile is one YAML schema file: a mapping from kind to name to
// params (§6 "Schema configuration"), grounded on
// original_source/laurelin/server/schema.py's load_dict/kind_factories.
type rawSchemaFile struct {
	SyntaxRules    map[string]map[string]any `yaml:"syntax_rules"`
	MatchingRules  map[string]map[string]any `yaml:"matching_rules"`
	AttributeTypes map[string]map[string]any `yaml:"attribute_types"`
	ObjectClasses  map[string]map[string]any `yaml:"object_classes"`
}

// LoadSchemaDir loads every *.yaml/*.yml file in dir into reg, in lexical
// filename order, matching the original's schema_import.py layering of
// operator-supplied schema on top of the bundle.
func LoadSchemaDir(reg *schema.Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, n := range names {
		data, err := os.ReadFile(filepath.Join(dir, n))
		if err != nil {
			return err
		}
		if err := LoadSchemaBytes(reg, data); err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
	}
	return nil
}

// LoadSchemaBytes decodes one schema YAML document and registers every
// element it describes into reg.
func LoadSchemaBytes(reg *schema.Registry, data []byte) error {
	var raw rawSchemaFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	for name, params := range raw.SyntaxRules {
		s, err := buildSyntaxRule(name, params)
		if err != nil {
			return err
		}
		reg.AddSyntax(s)
	}
	for name, params := range raw.MatchingRules {
		m := buildMatchingRule(name, params)
		reg.AddMatchingRule(m)
	}
	for name, params := range raw.AttributeTypes {
		a := buildAttributeType(reg, name, params)
		reg.AddAttributeType(a)
	}
	for name, params := range raw.ObjectClasses {
		o := buildObjectClass(name, params)
		reg.AddObjectClass(o)
	}
	return nil
}

func buildSyntaxRule(name string, params map[string]any) (*schema.SyntaxRule, error) {
	oid, _ := params["oid"].(string)
	pattern, _ := params["regex"].(string)
	if pattern == "" {
		return &schema.SyntaxRule{Name: name, OID: oid, Validate: func(string) error { return nil }}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("syntax %q: %w", name, err)
	}
	return &schema.SyntaxRule{
		Name: name,
		OID:  oid,
		Validate: func(v string) error {
			if !re.MatchString(v) {
				return fmt.Errorf("%q is not a valid %s", v, name)
			}
			return nil
		},
	}, nil
}

var prepSteps = map[string]schema.PrepStep{
	"transcode":      schema.PrepTranscode,
	"map":            schema.PrepMap,
	"normalize":      schema.PrepNormalize,
	"prohibit":       schema.PrepProhibit,
	"collapse_space": schema.PrepCollapseSpace,
	"parse_dn":       schema.PrepParseDN,
}

func buildMatchingRule(name string, params map[string]any) *schema.MatchingRule {
	oid, _ := params["oid"].(string)
	kind := schema.KindEquality
	switch params["kind"] {
	case "ordering":
		kind = schema.KindOrdering
	case "substring":
		kind = schema.KindSubstring
	}
	var prepare []schema.PrepStep
	if list, ok := params["prepare"].([]any); ok {
		for _, p := range list {
			if s, ok := p.(string); ok {
				if step, known := prepSteps[s]; known {
					prepare = append(prepare, step)
				}
			}
		}
	}
	return schema.NewMatchingRule(name, oid, kind, prepare)
}

func buildAttributeType(reg *schema.Registry, name string, params map[string]any) *schema.AttributeType {
	oid, _ := params["oid"].(string)
	superior, _ := params["superior"].(string)
	at := &schema.AttributeType{Name: name, OID: oid, SuperclassName: superior}
	if syn, ok := params["syntax"].(string); ok && syn != "" {
		at.Syntax, _ = reg.Syntax(syn)
	}
	if eq, ok := params["equality"].(string); ok && eq != "" {
		at.Equality, _ = reg.MatchingRule(eq)
	}
	if ord, ok := params["ordering"].(string); ok && ord != "" {
		at.Ordering, _ = reg.MatchingRule(ord)
	}
	if sub, ok := params["substring"].(string); ok && sub != "" {
		at.Substring, _ = reg.MatchingRule(sub)
	}
	if sv, ok := params["single_value"].(bool); ok {
		at.SingleValue = sv
	}
	if col, ok := params["collective"].(bool); ok {
		at.Collective = col
	}
	if num, ok := params["no_user_modification"].(bool); ok {
		at.NoUserModification = num
	}
	switch params["usage"] {
	case "directoryOperation":
		at.Usage = schema.UsageDirectoryOperation
	case "distributedOperation":
		at.Usage = schema.UsageDistributedOperation
	case "dSAOperation":
		at.Usage = schema.UsageDSAOperation
	default:
		at.Usage = schema.UsageUserApplications
	}
	return at
}

func buildObjectClass(name string, params map[string]any) *schema.ObjectClass {
	oid, _ := params["oid"].(string)
	superior, _ := params["superior"].(string)
	kind := schema.ObjectClassStructural
	switch params["type"] {
	case "abstract":
		kind = schema.ObjectClassAbstract
	case "auxiliary":
		kind = schema.ObjectClassAuxiliary
	}
	return &schema.ObjectClass{
		Name:           name,
		OID:            oid,
		Kind:           kind,
		SuperclassName: superior,
		Required:       stringList(params["required_attributes"]),
		Allowed:        stringList(params["allowed_attributes"]),
	}
}

func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
