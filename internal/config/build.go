package config

import (
	"fmt"

	"laureld/internal/auth"
	"laureld/internal/dit"
	"laureld/internal/dn"
	"laureld/internal/schema"
)

// Built is the fully constructed runtime state produced from a Document:
// the resolved schema registry, the DIT router with its backends
// attached, and the auth stack (Component K's inputs).
type Built struct {
	Registry *schema.Registry
	Router   *dit.Router
	Auth     *auth.Stack
}

// Build constructs runtime state from doc. extraSchemaDirs are scanned
// after doc.SchemaDir, in order; the embedded core bundle always loads
// first.
func Build(doc *Document, extraSchemaDirs ...string) (*Built, error) {
	reg := schema.NewRegistry()
	if err := LoadCoreBundle(reg); err != nil {
		return nil, fmt.Errorf("core schema bundle: %w", err)
	}

	dirs := extraSchemaDirs
	if doc.SchemaDir != "" {
		dirs = append([]string{doc.SchemaDir}, dirs...)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := LoadSchemaDir(reg, dir); err != nil {
			return nil, fmt.Errorf("schema dir %q: %w", dir, err)
		}
	}
	reg.Resolve()

	router, err := buildRouter(reg, doc.DIT)
	if err != nil {
		return nil, err
	}

	client := dit.NewClient(router)
	stack, err := buildAuthStack(client, doc)
	if err != nil {
		return nil, err
	}

	return &Built{Registry: reg, Router: router, Auth: stack}, nil
}

func buildRouter(reg *schema.Registry, suffixes map[string]SuffixSpec) (*dit.Router, error) {
	router := dit.NewRouter(reg)
	objectClassAttr, _ := reg.AttributeType("objectClass")
	for suffixStr, spec := range suffixes {
		suffix, err := dn.Parse(suffixStr, reg)
		if err != nil {
			return nil, fmt.Errorf("dit suffix %q: %w", suffixStr, err)
		}
		root := schema.NewAttrsDict()
		root.Set("objectClass", objectClassAttr, []string{"top"})
		backend, err := dit.NewBackend(spec.DataBackend, suffix, reg, root)
		if err != nil {
			return nil, fmt.Errorf("dit suffix %q: %w", suffixStr, err)
		}
		router.Add(backend, spec.Default)
	}
	return router, nil
}

func buildAuthStack(client *dit.Client, doc *Document) (*auth.Stack, error) {
	stack := &auth.Stack{}
	for _, entry := range doc.AuthStack {
		spec, ok := doc.AuthBackends[entry.Backend]
		if !ok {
			return nil, fmt.Errorf("auth_stack references undefined backend %q", entry.Backend)
		}
		backend, err := buildAuthBackend(client, spec)
		if err != nil {
			return nil, fmt.Errorf("auth backend %q: %w", entry.Backend, err)
		}
		stack.Entries = append(stack.Entries, &auth.StackEntry{
			Name:    entry.Backend,
			Backend: backend,
			Actions: actionOverrides(entry),
		})
	}
	return stack, nil
}

func actionOverrides(entry AuthStackSpec) map[auth.FailureKind]auth.Action {
	overrides := map[auth.FailureKind]auth.Action{}
	apply := func(kind auth.FailureKind, v string) {
		switch v {
		case "break":
			overrides[kind] = auth.ActionBreak
		case "continue":
			overrides[kind] = auth.ActionContinue
		}
	}
	apply(auth.FailureUserUnknown, entry.UserUnknown)
	apply(auth.FailureBadCreds, entry.BadCreds)
	apply(auth.FailureOther, entry.Error)
	return overrides
}

func buildAuthBackend(client *dit.Client, spec AuthBackendSpec) (auth.Backend, error) {
	if spec.Type != "simple" {
		return nil, fmt.Errorf("unsupported auth backend type %q", spec.Type)
	}

	pairs := make([][2]string, 0, len(spec.NameMap))
	for _, r := range spec.NameMap {
		pairs = append(pairs, [2]string{r.Pattern, r.Replacement})
	}
	mapper, err := auth.NewNameMapper(pairs)
	if err != nil {
		return nil, err
	}

	var storage auth.Storage
	switch spec.Storage {
	case "ldap":
		storage = &auth.LDAPStorage{Client: client, Deref: derefMode(spec.Deref)}
	case "flat":
		storage = auth.NewFlatStorage(spec.Path, refreshMode(spec.Refresh))
	default:
		return nil, fmt.Errorf("unsupported simple-backend storage %q", spec.Storage)
	}

	return &auth.SimpleBackend{Mapper: mapper, Storage: storage, Multiple: spec.Multiple}, nil
}

func derefMode(s string) dit.DerefMode {
	switch s {
	case "searching":
		return dit.DerefSearching
	case "finding":
		return dit.DerefFinding
	case "always":
		return dit.DerefAlways
	default:
		return dit.DerefNever
	}
}

func refreshMode(s string) auth.RefreshMode {
	if s == "each" {
		return auth.RefreshEach
	}
	return auth.RefreshOnce
}
