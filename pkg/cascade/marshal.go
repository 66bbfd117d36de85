package cascade

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders m as an ordered yaml.Node mapping, so a Document's
// key order survives round-tripping through cascadectl's output.
func (m *Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode, err := toYAMLNode(m.values[k])
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func toYAMLNode(v Value) (*yaml.Node, error) {
	if m, ok := v.(*Mapping); ok {
		rendered, err := m.MarshalYAML()
		if err != nil {
			return nil, err
		}
		return rendered.(*yaml.Node), nil
	}
	if seq, ok := v.([]Value); ok {
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range seq {
			child, err := toYAMLNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	}
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return &node, nil
}

// MarshalJSON renders m as a JSON object preserving key order, since
// encoding/json's map handling would otherwise sort keys alphabetically.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
