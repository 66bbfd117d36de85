package cascade

import "fmt"

// Value is the runtime result of constructing any parsed node. It is one of:
// nil (Null), bool, int64, float64, string, time.Time (Timestamp), *Mapping,
// []any (Sequence), *IncludeRef or *SecretRef. The last two are transient
// markers that must never survive a successful Load.
type Value = any

// Mapping is an ordered string-keyed map: it preserves the insertion order
// of its keys through construction, include expansion and package merging,
// as required by the Data Model's ordering invariants.
type Mapping struct {
	keys   []string
	values map[string]Value
}

// NewMapping returns an empty ordered mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

// Set inserts or updates a key. Existing keys keep their original position.
func (m *Mapping) Set(key string, value Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key, if present, preserving the order of the rest.
func (m *Mapping) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Clone returns a shallow copy that shares no backing slice/map with m.
func (m *Mapping) Clone() *Mapping {
	clone := &Mapping{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]Value, len(m.values)),
	}
	for k, v := range m.values {
		clone.values[k] = v
	}
	return clone
}

// Range calls fn for every key in insertion order, stopping early if fn
// returns false.
func (m *Mapping) Range(fn func(key string, value Value) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

func (m *Mapping) String() string {
	return fmt.Sprintf("Mapping(%d keys)", m.Len())
}

// IncludeRef is the transient value produced by constructing an !include
// node. Vars holds only the include's own `vars:` entries; resolveTree
// layers them over the including file's VarEnv when the child is loaded.
type IncludeRef struct {
	File string
	Vars map[string]string
}

// SecretRef is the transient value produced by constructing a !secret node.
type SecretRef struct {
	Name string
}
