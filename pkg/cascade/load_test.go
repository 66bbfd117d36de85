package cascade

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNoTransientMarkersSurvive(t *testing.T) {
	res, err := Load(context.Background(), testdataPath("include_parent.yaml"), Options{})
	require.NoError(t, err)
	assertNoTransientMarkers(t, res.Document)
}

func assertNoTransientMarkers(t *testing.T, v Value) {
	t.Helper()
	switch t2 := v.(type) {
	case *IncludeRef:
		t.Fatalf("IncludeRef survived into the resolved document: %+v", t2)
	case *SecretRef:
		t.Fatalf("SecretRef survived into the resolved document: %+v", t2)
	case *Mapping:
		_, hasVars := t2.Get("variables")
		assert.False(t, hasVars)
		_, hasPkgs := t2.Get("packages")
		assert.False(t, hasPkgs)
		t2.Range(func(_ string, child Value) bool {
			assertNoTransientMarkers(t, child)
			return true
		})
	case []Value:
		for _, item := range t2 {
			assertNoTransientMarkers(t, item)
		}
	}
}

func TestLoadIsIdempotentAcrossRuns(t *testing.T) {
	res1, err := Load(context.Background(), testdataPath("packages_main.yaml"), Options{})
	require.NoError(t, err)
	res2, err := Load(context.Background(), testdataPath("packages_main.yaml"), Options{})
	require.NoError(t, err)

	assert.Equal(t, documentString(res1.Document), documentString(res2.Document))
}

// documentString renders a Value deterministically for equality comparison
// in tests, since *Mapping is a pointer type assert.Equal can't compare by
// value directly.
func documentString(v Value) string {
	switch t := v.(type) {
	case *Mapping:
		out := "{"
		t.Range(func(k string, child Value) bool {
			out += k + ":" + documentString(child) + ","
			return true
		})
		return out + "}"
	case []Value:
		out := "["
		for _, item := range t {
			out += documentString(item) + ","
		}
		return out + "]"
	default:
		return formatScalar(t)
	}
}

func formatScalar(v Value) string {
	return fmt.Sprintf("%v", v)
}

func TestLoadStrictModePromotesWarningsToError(t *testing.T) {
	_, err := Load(context.Background(), testdataPath("secret_user.yaml"), Options{Strict: true})
	assert.Error(t, err)
}

func TestLoadNonStrictModeCollectsWarnings(t *testing.T) {
	res, err := Load(context.Background(), testdataPath("secret_user.yaml"), Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warnings)
}

func TestGetNestedDescendsThroughMappings(t *testing.T) {
	res, err := Load(context.Background(), testdataPath("packages_main.yaml"), Options{})
	require.NoError(t, err)

	val, ok := GetNested(res.Document, "things", "t2")
	require.True(t, ok)
	assert.Equal(t, "package-value", val)

	_, ok = GetNested(res.Document, "things", "does-not-exist")
	assert.False(t, ok)

	_, ok = GetNested(res.Document, "things", "t1", "too-deep")
	assert.False(t, ok)
}

func TestLoadRootIOErrorSurfacesDirectly(t *testing.T) {
	_, err := Load(context.Background(), testdataPath("no_such_file.yaml"), Options{})
	require.Error(t, err)
	var ioErr *IOError
	assert.ErrorAs(t, err, &ioErr)
}
