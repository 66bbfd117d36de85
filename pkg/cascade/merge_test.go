package cascade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFilePackageMergeScenario(t *testing.T) {
	var warnings []StructuralWarning
	warn := func(w StructuralWarning) { warnings = append(warnings, w) }

	val, err := loadFile(context.Background(), testdataPath("packages_main.yaml"), NewVarEnv(), NewSecretCache(nil), NewIncludeStack(), warn)
	require.NoError(t, err)

	m := val.(*Mapping)
	_, hasPackages := m.Get("packages")
	assert.False(t, hasPackages, "packages key must not survive the merge")

	things, _ := m.Get("things")
	thingsMap := things.(*Mapping)

	t1, _ := thingsMap.Get("t1")
	assert.Equal(t, "main-value", t1, "main's scalar wins over the package's")

	t2, _ := thingsMap.Get("t2")
	assert.Equal(t, "package-value", t2, "a key only the package defines is merged in")

	t4, _ := thingsMap.Get("t4")
	assert.Equal(t, "main-only", t4)

	list, _ := m.Get("list")
	listMap := list.(*Mapping)
	test1, _ := listMap.Get("test1")
	assert.Equal(t, []Value{"a", "b", "c", "d"}, test1, "sequences concatenate main-before-package")

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "not a mapping")
}

func TestMergePackagesTypeMismatchKeepsMainValue(t *testing.T) {
	main := NewMapping()
	main.Set("key", "scalar")

	pkg := NewMapping()
	nested := NewMapping()
	nested.Set("inner", "x")
	pkg.Set("key", nested)

	packages := NewMapping()
	packages.Set("p", pkg)

	MergePackages(main, packages, func(StructuralWarning) {}, "t")

	got, _ := main.Get("key")
	assert.Equal(t, "scalar", got)
}
