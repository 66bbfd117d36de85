package cascade

import (
	"path/filepath"
	"strings"
)

// VarEnv is a case-sensitive name -> string environment threaded down the
// include graph. It is immutable by convention: callers always derive a new
// env via Clone/WithOverrides rather than mutating a shared instance, since
// siblings in the include graph must not see each other's definitions.
type VarEnv map[string]string

// NewVarEnv returns an empty environment, as used for the root load call.
func NewVarEnv() VarEnv {
	return make(VarEnv)
}

// Clone returns a shallow copy safe to mutate independently of the original.
func (e VarEnv) Clone() VarEnv {
	clone := make(VarEnv, len(e))
	for k, v := range e {
		clone[k] = v
	}
	return clone
}

// PutIfAbsent inserts name=value only when name is not already defined,
// implementing the "first definition wins across the include chain" rule
// (spec: inherited vars win over a file's own `variables:` block).
func (e VarEnv) PutIfAbsent(name, value string) {
	if _, ok := e[name]; !ok {
		e[name] = value
	}
}

// WithOverrides returns a clone of e with overrides layered on top,
// overrides always winning. Used for an include's own `vars:` map, which
// wins over the parent's combined environment for the duration of the
// child load.
func (e VarEnv) WithOverrides(overrides map[string]string) VarEnv {
	clone := e.Clone()
	for k, v := range overrides {
		clone[k] = v
	}
	return clone
}

// predefinedVars returns the reserved __FILE__/__FILE_NAME__/__FILE_EXT__/
// __PATH__ variables for the file being loaded. These always reflect the
// current file and cannot be shadowed by a file's own `variables:` block.
func predefinedVars(absPath string) map[string]string {
	dir := filepath.Dir(absPath)
	base := filepath.Base(absPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return map[string]string{
		"__FILE__":      absPath,
		"__FILE_NAME__": name,
		"__FILE_EXT__":  strings.TrimPrefix(ext, "."),
		"__PATH__":      dir,
	}
}

// withPredefined returns env with the predefined variables for absPath
// forced in, overwriting any same-named entry already present - the
// predefined names are reserved and never shadowed by user definitions.
func withPredefined(env VarEnv, absPath string) VarEnv {
	out := env.Clone()
	for k, v := range predefinedVars(absPath) {
		out[k] = v
	}
	return out
}
