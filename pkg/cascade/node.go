package cascade

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// constructor builds a Value from a tagged yaml.Node. path is the dotted
// location of node within the document, used for warning/error context.
type constructor func(c *NodeConstructor, path string, node *yaml.Node) (Value, error)

func defaultConstructors() map[string]constructor {
	return map[string]constructor{
		"!include": constructInclude,
		"!secret":  constructSecret,
	}
}

// NodeConstructor turns a parsed yaml.Node tree into Values, dispatching on
// tag first and falling back to implicit scalar/mapping/sequence
// construction (spec §3, Node Constructor). One instance is scoped to a
// single file's construction pass and carries that file's interpolation
// environment and warning sink.
type NodeConstructor struct {
	File  string
	Env   VarEnv
	ctors map[string]constructor
	warn  func(StructuralWarning)
}

// NewNodeConstructor returns a constructor scoped to file, interpolating
// against env and routing soft failures to warn.
func NewNodeConstructor(file string, env VarEnv, warn func(StructuralWarning)) *NodeConstructor {
	return &NodeConstructor{File: file, Env: env, ctors: defaultConstructors(), warn: warn}
}

func (c *NodeConstructor) warnf(path, format string, args ...any) {
	c.warn(newWarning(c.File, path, fmt.Sprintf(format, args...)))
}

func (c *NodeConstructor) interpolate(path, raw string) (string, error) {
	return Interpolate(raw, c.Env, func(msg string) {
		c.warnf(path, "%s", msg)
	})
}

// Construct walks node, building the Value it represents at path.
func (c *NodeConstructor) Construct(path string, node *yaml.Node) (Value, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return c.Construct(path, node.Content[0])
	case yaml.AliasNode:
		return c.Construct(path, node.Alias)
	case yaml.ScalarNode:
		return c.constructScalar(path, node)
	case yaml.MappingNode:
		return c.constructMapping(path, node)
	case yaml.SequenceNode:
		return c.constructSequence(path, node)
	default:
		return nil, fmt.Errorf("unsupported node kind at %s", path)
	}
}

func (c *NodeConstructor) constructScalar(path string, node *yaml.Node) (Value, error) {
	if ctor, ok := c.ctors[node.Tag]; ok {
		return ctor(c, path, node)
	}
	// Any other tag, custom or core, delegates to default construction
	// (spec §4.2's "any other tag: delegate to the default YAML
	// constructor"), the same as constructMapping/constructSequence already
	// do for an unrecognized map/sequence tag.

	// Single-quoted scalars suppress interpolation outright: the value is
	// taken verbatim, never scanned for ${...} and never reclassified.
	if node.Style&yaml.SingleQuotedStyle != 0 {
		return node.Value, nil
	}

	interpolated, err := c.interpolate(path, node.Value)
	if err != nil {
		return nil, err
	}

	// Untagged double-quoted scalars keep string type after interpolation;
	// plain scalars, and double-quoted ones carrying an explicit tag, are
	// reclassified against the post-interpolation text, so a
	// substitution can turn "${n}" into an int, bool, etc (spec §4.4).
	if node.Style == yaml.DoubleQuotedStyle {
		return interpolated, nil
	}

	kind, value := ResolveScalar(interpolated)
	if kind == KindNull {
		return "", nil
	}
	return value, nil
}

func (c *NodeConstructor) constructMapping(path string, node *yaml.Node) (Value, error) {
	if ctor, ok := c.ctors[node.Tag]; ok {
		return ctor(c, path, node)
	}
	m := NewMapping()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		key, err := c.Construct(path, keyNode)
		if err != nil {
			return nil, err
		}
		keyStr, ok := key.(string)
		if !ok {
			keyStr = fmt.Sprintf("%v", key)
		}
		val, err := c.Construct(joinPath(path, keyStr), valNode)
		if err != nil {
			return nil, err
		}
		m.Set(keyStr, val)
	}
	return m, nil
}

func (c *NodeConstructor) constructSequence(path string, node *yaml.Node) (Value, error) {
	if ctor, ok := c.ctors[node.Tag]; ok {
		return ctor(c, path, node)
	}
	seq := make([]Value, 0, len(node.Content))
	for i, item := range node.Content {
		val, err := c.Construct(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		seq = append(seq, val)
	}
	return seq, nil
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// constructInclude builds an IncludeRef from either the scalar form
// (!include path/to/file.yaml) or the mapping form
// (!include {file: ..., vars: {...}}).
func constructInclude(c *NodeConstructor, path string, node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		file, err := c.interpolate(path, node.Value)
		if err != nil {
			return nil, err
		}
		return &IncludeRef{File: file}, nil
	case yaml.MappingNode:
		ref := &IncludeRef{Vars: map[string]string{}}
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			switch keyNode.Value {
			case "file":
				file, err := c.interpolate(path, valNode.Value)
				if err != nil {
					return nil, err
				}
				ref.File = file
			case "vars":
				if valNode.Kind != yaml.MappingNode {
					c.warnf(path, "!include vars must be a mapping, got a non-mapping; ignoring")
					continue
				}
				for j := 0; j+1 < len(valNode.Content); j += 2 {
					vkNode, vvNode := valNode.Content[j], valNode.Content[j+1]
					if vkNode.Kind != yaml.ScalarNode {
						c.warnf(path, "!include vars key is not a scalar; ignoring entry")
						continue
					}
					if vvNode.Kind == yaml.ScalarNode {
						vv, err := c.interpolate(path, vvNode.Value)
						if err != nil {
							return nil, err
						}
						ref.Vars[vkNode.Value] = vv
						continue
					}
					// Non-scalar vars value: coerce via its natural string form.
					built, err := c.Construct(path, vvNode)
					if err != nil {
						return nil, err
					}
					ref.Vars[vkNode.Value] = fmt.Sprintf("%v", built)
				}
			default:
				c.warnf(path, "unrecognized !include key %q ignored", keyNode.Value)
			}
		}
		if ref.File == "" {
			c.warnf(path, "!include missing required 'file' key; skipped")
			return NewMapping(), nil
		}
		return ref, nil
	default:
		return nil, fmt.Errorf("!include at %s must be a scalar or mapping", path)
	}
}

// constructSecret builds a SecretRef. !secret only ever takes scalar form;
// a mapping or sequence under !secret is a structural misuse of the tag.
func constructSecret(c *NodeConstructor, path string, node *yaml.Node) (Value, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("!secret at %s must be a scalar", path)
	}
	name, err := c.interpolate(path, node.Value)
	if err != nil {
		return nil, err
	}
	return &SecretRef{Name: strings.TrimSpace(name)}, nil
}
