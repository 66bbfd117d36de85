package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeSingleQuoteSuppressesInterpolation(t *testing.T) {
	y := NewYAML(VarEnv{"foo": "bar"})
	val, warnings, err := y.Unmarshal("t", []byte(`a: '${foo}'`))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	m := val.(*Mapping)
	got, _ := m.Get("a")
	assert.Equal(t, "${foo}", got)
}

func TestNodeTypeReclassificationAfterInterpolation(t *testing.T) {
	y := NewYAML(VarEnv{"x": "42"})
	val, _, err := y.Unmarshal("t", []byte(`n: ${x}`))
	require.NoError(t, err)

	m := val.(*Mapping)
	got, _ := m.Get("n")
	assert.Equal(t, int64(42), got)
}

func TestNodeDoubleQuotedStaysString(t *testing.T) {
	y := NewYAML(VarEnv{"x": "42"})
	val, _, err := y.Unmarshal("t", []byte(`n: "${x}"`))
	require.NoError(t, err)

	m := val.(*Mapping)
	got, _ := m.Get("n")
	assert.Equal(t, "42", got)
}

func TestNodeNullScalarBecomesEmptyString(t *testing.T) {
	y := NewYAML(NewVarEnv())
	val, _, err := y.Unmarshal("t", []byte("a: ~\nb: null\nc:\n"))
	require.NoError(t, err)

	m := val.(*Mapping)
	for _, key := range []string{"a", "b", "c"} {
		got, ok := m.Get(key)
		require.True(t, ok)
		assert.Equal(t, "", got)
	}
}

func TestNodeSecretScalarBuildsRef(t *testing.T) {
	y := NewYAML(NewVarEnv())
	val, _, err := y.Unmarshal("t", []byte(`k: !secret my-secret`))
	require.NoError(t, err)

	m := val.(*Mapping)
	got, _ := m.Get("k")
	ref, ok := got.(*SecretRef)
	require.True(t, ok)
	assert.Equal(t, "my-secret", ref.Name)
}

func TestNodeSecretOnMappingIsStructuralError(t *testing.T) {
	y := NewYAML(NewVarEnv())
	_, _, err := y.Unmarshal("t", []byte("k: !secret\n  a: b\n"))
	assert.Error(t, err)
}

func TestNodeIncludeScalarForm(t *testing.T) {
	y := NewYAML(NewVarEnv())
	val, _, err := y.Unmarshal("t", []byte(`k: !include other.yaml`))
	require.NoError(t, err)

	m := val.(*Mapping)
	got, _ := m.Get("k")
	ref, ok := got.(*IncludeRef)
	require.True(t, ok)
	assert.Equal(t, "other.yaml", ref.File)
	assert.Empty(t, ref.Vars)
}

func TestNodeIncludeMappingFormWithVars(t *testing.T) {
	y := NewYAML(NewVarEnv())
	val, _, err := y.Unmarshal("t", []byte("k: !include\n  file: other.yaml\n  vars:\n    a: one\n"))
	require.NoError(t, err)

	m := val.(*Mapping)
	got, _ := m.Get("k")
	ref, ok := got.(*IncludeRef)
	require.True(t, ok)
	assert.Equal(t, "other.yaml", ref.File)
	assert.Equal(t, "one", ref.Vars["a"])
}

func TestNodeIncludeMappingMissingFileDegradesToEmptyMapping(t *testing.T) {
	y := NewYAML(NewVarEnv())
	val, warnings, err := y.Unmarshal("t", []byte("k: !include\n  vars:\n    a: one\n"))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "file")

	m := val.(*Mapping)
	got, _ := m.Get("k")
	childMap, ok := got.(*Mapping)
	require.True(t, ok)
	assert.Equal(t, 0, childMap.Len())
}

func TestNodeUnknownScalarTagDelegatesToDefaultConstruction(t *testing.T) {
	y := NewYAML(VarEnv{"x": "42"})
	val, warnings, err := y.Unmarshal("t", []byte(`k: !mytag ${x}`))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	m := val.(*Mapping)
	got, _ := m.Get("k")
	assert.Equal(t, int64(42), got)
}

func TestNodeSecretNameIsTrimmed(t *testing.T) {
	y := NewYAML(NewVarEnv())
	val, _, err := y.Unmarshal("t", []byte(`k: !secret " my-secret "`))
	require.NoError(t, err)

	m := val.(*Mapping)
	got, _ := m.Get("k")
	ref := got.(*SecretRef)
	assert.Equal(t, "my-secret", ref.Name)
}

func TestNodePreservesMappingOrder(t *testing.T) {
	y := NewYAML(NewVarEnv())
	val, _, err := y.Unmarshal("t", []byte("z: 1\na: 2\nm: 3\n"))
	require.NoError(t, err)

	m := val.(*Mapping)
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())
}
