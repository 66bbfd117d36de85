package cascade

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cascadeconf/cascade/pkg/cascade/secretbackend"
)

// Options configures a Load call.
type Options struct {
	// Strict promotes any collected StructuralWarning into a hard failure
	// instead of degrading gracefully - the "future revision" hook spec §9
	// flags for callers that can't tolerate the default soft-error policy.
	Strict bool
	// Backends registers remote secret backends consulted for scheme-
	// prefixed !secret names (vault:, aws-sm:, aws-ssm:, k8s-secret:,
	// k8s-cm:). Nil means only the sibling secrets.yaml cache is used.
	Backends *secretbackend.Registry
}

// Result is everything a Load call produces: the resolved document plus
// every soft warning collected while building it.
type Result struct {
	Document Value
	Warnings []StructuralWarning
}

// Load is the public entry point (spec §4.7, §6). It builds a fresh
// VarEnv, SecretCache and IncludeStack and delegates to the Include
// Engine; the returned Document has no IncludeRef, SecretRef, `variables`
// or `packages` surviving in it.
func Load(ctx context.Context, path string, opts Options) (*Result, error) {
	res := &Result{}
	warn := func(w StructuralWarning) { res.Warnings = append(res.Warnings, w) }

	secrets := NewSecretCache(opts.Backends)
	doc, err := loadFile(ctx, path, NewVarEnv(), secrets, NewIncludeStack(), warn)
	if err != nil {
		return res, err
	}
	res.Document = doc

	if opts.Strict && len(res.Warnings) > 0 {
		return res, errors.Errorf("strict mode: %d structural warning(s), first: %s", len(res.Warnings), res.Warnings[0].Error())
	}
	return res, nil
}

// GetNested safely descends through a chain of string keys, returning
// (nil, false) as soon as a step is missing or traverses a non-mapping
// (spec §4.7).
func GetNested(v Value, keys ...string) (Value, bool) {
	cur := v
	for _, k := range keys {
		m, ok := cur.(*Mapping)
		if !ok {
			return nil, false
		}
		cur, ok = m.Get(k)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Yaml is the low-level seam described in spec §6: a YAML loader
// preconfigured with a fixed VarEnv, bypassing the include graph, secret
// store and package merge so a single document body can be constructed in
// isolation - used by the Node Constructor and interpolation tests.
type Yaml struct {
	env VarEnv
}

// NewYAML returns a Yaml bound to vars.
func NewYAML(vars VarEnv) *Yaml {
	return &Yaml{env: vars}
}

// Unmarshal parses data as a single YAML document and constructs it
// against y's bound environment. No include/secret/package processing
// runs: IncludeRef and SecretRef markers, if produced, are returned as-is.
func (y *Yaml) Unmarshal(file string, data []byte) (Value, []StructuralWarning, error) {
	var warnings []StructuralWarning
	warn := func(w StructuralWarning) { warnings = append(warnings, w) }

	doc, err := parseYAML(file, data)
	if err != nil {
		return nil, warnings, err
	}
	root := documentRoot(doc)
	if root == nil {
		return nil, warnings, nil
	}
	nc := NewNodeConstructor(file, y.env, warn)
	val, err := nc.Construct("", root)
	return val, warnings, err
}
