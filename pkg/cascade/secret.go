package cascade

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cascadeconf/cascade/pkg/cascade/secretbackend"
)

// SecretCache is the path-keyed, load-scoped cache described in spec §4.4.
// One instance is created per root Load call and threaded through every
// recursive include; per the concurrency model (§5, §9) a load is
// single-threaded, so no internal locking guards byPath.
type SecretCache struct {
	byPath   map[string]map[string]string
	backends *secretbackend.Registry
}

// NewSecretCache returns an empty cache. backends may be nil, in which case
// no name is recognized as a scheme-prefixed ref and every name is looked
// up in the sibling secrets.yaml.
func NewSecretCache(backends *secretbackend.Registry) *SecretCache {
	if backends == nil {
		backends = secretbackend.NewRegistry()
	}
	return &SecretCache{byPath: make(map[string]map[string]string), backends: backends}
}

// Resolve looks up name, either against a registered remote backend (when
// name carries a recognized scheme prefix) or against the sibling
// secrets.yaml cache for dir. A miss or error never fails the load: it
// warns and substitutes the empty string (spec §4.4, §7).
func (c *SecretCache) Resolve(ctx context.Context, dir, name string, warn func(StructuralWarning)) string {
	if ref, ok := c.backends.ParseRef(name); ok {
		val, err := c.backends.Resolve(ctx, ref)
		if err != nil {
			warn(newWarning(dir, "secret:"+name, err.Error()))
			return ""
		}
		return val
	}

	secrets, err := c.load(ctx, dir, warn)
	if err != nil {
		warn(newWarning(dir, "secret:"+name, err.Error()))
		return ""
	}
	val, ok := secrets[name]
	if !ok {
		warn(newWarning(dir, "secret:"+name, fmt.Sprintf("Secret '%s' not found", name)))
		return ""
	}
	return val
}

// load returns the flat string map for dir's sibling secrets.yaml, reading
// and fully preprocessing it at most once per canonical path.
func (c *SecretCache) load(ctx context.Context, dir string, warn func(StructuralWarning)) (map[string]string, error) {
	path, err := canonicalize(filepath.Join(dir, "secrets.yaml"))
	if err != nil {
		return nil, err
	}
	if m, ok := c.byPath[path]; ok {
		return m, nil
	}
	// Seed an empty entry before recursing, so a secrets.yaml that itself
	// (indirectly) resolves a !secret against its own path degrades to a
	// miss instead of looping.
	c.byPath[path] = map[string]string{}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return c.byPath[path], nil
		}
		return nil, err
	}

	val, err := loadFile(ctx, path, NewVarEnv(), c, NewIncludeStack(), warn)
	if err != nil {
		return nil, err
	}

	out := map[string]string{}
	if m, ok := val.(*Mapping); ok {
		m.Range(func(key string, v Value) bool {
			s, ok := v.(string)
			if !ok {
				warn(newWarning(path, key, "non-string secret value skipped"))
				return true
			}
			out[key] = s
			return true
		})
	}
	c.byPath[path] = out
	return out, nil
}
