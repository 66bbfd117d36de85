package cascade

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cascadeconf/cascade/pkg/cascadectx"
)

// MaxIncludeDepth is the hard limit on the active include stack (spec §6).
const MaxIncludeDepth = 100

// IncludeStack is the branch-local set of canonical paths currently being
// loaded (spec: Data Model, Invariant 3). It is never mutated in place:
// WithPath returns a new stack, so sibling includes never observe each
// other's branch of the recursion.
type IncludeStack []string

// NewIncludeStack returns the empty stack used for a root load call.
func NewIncludeStack() IncludeStack { return nil }

// Contains reports whether path is already on the stack.
func (s IncludeStack) Contains(path string) bool {
	for _, p := range s {
		if p == path {
			return true
		}
	}
	return false
}

// WithPath returns a new stack with path appended.
func (s IncludeStack) WithPath(path string) IncludeStack {
	out := make(IncludeStack, len(s)+1)
	copy(out, s)
	out[len(s)] = path
	return out
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Cause: err}
	}
	return data, nil
}

func parseYAML(path string, data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &doc, nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return doc.Content[0]
	}
	return doc
}

func topLevelMapping(root *yaml.Node) *yaml.Node {
	if root != nil && root.Kind == yaml.MappingNode {
		return root
	}
	return nil
}

func findKey(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// loadFile implements the Include Engine's per-file pipeline (spec §4.5).
func loadFile(ctx context.Context, path string, inherited VarEnv, secrets *SecretCache, stack IncludeStack, warn func(StructuralWarning)) (Value, error) {
	canon, err := canonicalize(path)
	if err != nil {
		return nil, &IOError{Path: path, Cause: err}
	}
	if stack.Contains(canon) {
		return nil, &CircularInclusionError{Stack: append([]string(nil), stack...), Path: canon}
	}
	if len(stack)+1 > MaxIncludeDepth {
		return nil, &MaxDepthExceededError{Depth: len(stack) + 1, Limit: MaxIncludeDepth}
	}

	cascadectx.Logger(ctx, slog.String("file", canon), slog.Int("depth", len(stack))).Debug("loading file")

	data, err := readFile(canon)
	if err != nil {
		return nil, err
	}
	doc, err := parseYAML(canon, data)
	if err != nil {
		return nil, err
	}
	root := documentRoot(doc)
	if root == nil {
		return "", nil
	}

	mapping := topLevelMapping(root)
	if mapping == nil {
		// Non-mapping top level: graft verbatim, skipping variables/
		// packages/include/secret processing entirely (spec §4.5, §9).
		nc := NewNodeConstructor(canon, withPredefined(inherited, canon), warn)
		return nc.Construct("", root)
	}

	localEnv, err := extractVariables(canon, mapping, inherited, warn)
	if err != nil {
		return nil, err
	}
	localEnv = withPredefined(localEnv, canon)

	nc := NewNodeConstructor(canon, localEnv, warn)
	built, err := nc.Construct("", mapping)
	if err != nil {
		return nil, err
	}
	result, ok := built.(*Mapping)
	if !ok {
		return built, nil
	}
	result.Delete("variables")

	dir := filepath.Dir(canon)
	childStack := stack.WithPath(canon)
	resolved, err := resolveTree(ctx, result, localEnv, dir, secrets, childStack, warn)
	if err != nil {
		return nil, err
	}
	resolvedMapping, ok := resolved.(*Mapping)
	if !ok {
		return resolved, nil
	}

	if pkgsVal, has := resolvedMapping.Get("packages"); has {
		resolvedMapping.Delete("packages")
		if pkgsMap, ok := pkgsVal.(*Mapping); ok {
			MergePackages(resolvedMapping, pkgsMap, warn, canon)
		} else {
			warn(newWarning(canon, "packages", "packages must be a mapping; ignored"))
		}
	}

	return resolvedMapping, nil
}

// extractVariables runs pass 1 of §4.5: parse the file's own `variables`
// block against the inherited environment only, then merge it in with
// put-if-absent semantics, so a parent's definition always wins over the
// file's own default.
func extractVariables(canon string, mapping *yaml.Node, inherited VarEnv, warn func(StructuralWarning)) (VarEnv, error) {
	local := inherited.Clone()
	varsNode := findKey(mapping, "variables")
	if varsNode == nil {
		return local, nil
	}
	if varsNode.Kind != yaml.MappingNode {
		warn(newWarning(canon, "variables", "variables must be a mapping; ignored"))
		return local, nil
	}

	nc := NewNodeConstructor(canon, inherited, warn)
	for i := 0; i+1 < len(varsNode.Content); i += 2 {
		keyNode, valNode := varsNode.Content[i], varsNode.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			warn(newWarning(canon, "variables", "non-scalar variable name ignored"))
			continue
		}
		if valNode.Kind == yaml.MappingNode || valNode.Kind == yaml.SequenceNode {
			warn(newWarning(canon, "variables."+keyNode.Value, "mapping/sequence value rejected"))
			continue
		}
		val, err := nc.Construct("variables."+keyNode.Value, valNode)
		if err != nil {
			return nil, err
		}
		local.PutIfAbsent(keyNode.Value, fmt.Sprintf("%v", val))
	}
	return local, nil
}

// resolveTree walks a constructed value tree resolving IncludeRef and
// SecretRef markers (spec §4.5 steps 6-7), preserving mapping and sequence
// order throughout.
func resolveTree(ctx context.Context, v Value, env VarEnv, dir string, secrets *SecretCache, stack IncludeStack, warn func(StructuralWarning)) (Value, error) {
	switch t := v.(type) {
	case *IncludeRef:
		childPath := t.File
		if !filepath.IsAbs(childPath) {
			childPath = filepath.Join(dir, childPath)
		}
		childEnv := env.WithOverrides(t.Vars)
		child, err := loadFile(ctx, childPath, childEnv, secrets, stack, warn)
		if err != nil {
			var ioErr *IOError
			if stderrors.As(err, &ioErr) {
				warn(wrapWarning(dir, "include", err))
				return NewMapping(), nil
			}
			return nil, err
		}
		return child, nil
	case *SecretRef:
		return secrets.Resolve(ctx, dir, t.Name, warn), nil
	case *Mapping:
		out := NewMapping()
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			rv, err := resolveTree(ctx, child, env, dir, secrets, stack, warn)
			if err != nil {
				return nil, err
			}
			out.Set(k, rv)
		}
		return out, nil
	case []Value:
		out := make([]Value, len(t))
		for i, item := range t {
			rv, err := resolveTree(ctx, item, env, dir, secrets, stack, warn)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	default:
		return v, nil
	}
}
