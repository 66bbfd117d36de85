// Package secretbackend resolves !secret references that carry a scheme
// prefix (vault:, aws-sm:, aws-ssm:, k8s-secret:, k8s-cm:) against a remote
// secret store, as an alternative to the sibling secrets.yaml cache. It
// generalizes the teacher's pkg/credentials adapters: same clients, same
// error-wrapping style, but returning a single string for interpolation
// rather than exporting it to the process environment.
package secretbackend

import (
	"context"
	"fmt"
	"strings"
)

// Ref is a parsed scheme-prefixed secret name, e.g. "vault:secret/myapp#password".
type Ref struct {
	Scheme string
	Path   string
	Key    string
}

// Backend resolves a single Ref to its string value.
type Backend interface {
	Scheme() string
	Resolve(ctx context.Context, ref Ref) (string, error)
}

// Registry dispatches a Ref to the Backend registered for its scheme.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry builds a registry from the given backends, keyed by their
// Scheme(). An empty Registry recognizes no refs: ParseRef reports false for
// every name. Resolve on an unregistered scheme returns an error.
func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{backends: make(map[string]Backend, len(backends))}
	for _, b := range backends {
		r.backends[b.Scheme()] = b
	}
	return r
}

// ParseRef recognizes "<scheme>:<path>[#<key>]" where scheme is one of the
// registered prefixes. Names with no colon, or with a colon but an
// unrecognized scheme (e.g. a Windows-style path, or a plain secret name
// that happens to contain ':'), are not refs and fall through to the
// sibling secrets.yaml lookup instead.
func (r *Registry) ParseRef(name string) (Ref, bool) {
	scheme, rest, found := strings.Cut(name, ":")
	if !found || scheme == "" {
		return Ref{}, false
	}
	if _, ok := r.backends[scheme]; !ok {
		return Ref{}, false
	}
	path, key, _ := strings.Cut(rest, "#")
	return Ref{Scheme: scheme, Path: path, Key: key}, true
}

// Resolve looks up ref.Scheme's backend and resolves it.
func (r *Registry) Resolve(ctx context.Context, ref Ref) (string, error) {
	b, ok := r.backends[ref.Scheme]
	if !ok {
		return "", fmt.Errorf("no secret backend registered for scheme %q", ref.Scheme)
	}
	return b.Resolve(ctx, ref)
}
