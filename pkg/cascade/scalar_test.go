package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveScalarBooleanNarrowing(t *testing.T) {
	for _, raw := range []string{"true", "True", "TRUE", "false", "False", "FALSE"} {
		kind, val := ResolveScalar(raw)
		assert.Equalf(t, KindBool, kind, "raw=%q", raw)
		assert.Equal(t, raw == "true" || raw == "True" || raw == "TRUE", val)
	}

	for _, raw := range []string{"yes", "no", "on", "off", "Yes", "ON"} {
		kind, val := ResolveScalar(raw)
		assert.Equalf(t, KindString, kind, "raw=%q should stay a string", raw)
		assert.Equal(t, raw, val)
	}
}

func TestResolveScalarInt(t *testing.T) {
	kind, val := ResolveScalar("42")
	assert.Equal(t, KindInt, kind)
	assert.Equal(t, int64(42), val)

	kind, val = ResolveScalar("-7")
	assert.Equal(t, KindInt, kind)
	assert.Equal(t, int64(-7), val)
}

func TestResolveScalarFloat(t *testing.T) {
	kind, val := ResolveScalar("3.14")
	assert.Equal(t, KindFloat, kind)
	assert.InDelta(t, 3.14, val, 0.0001)
}

func TestResolveScalarNull(t *testing.T) {
	for _, raw := range []string{"", "~", "null", "Null", "NULL"} {
		kind, val := ResolveScalar(raw)
		assert.Equal(t, KindNull, kind)
		assert.Nil(t, val)
	}
}

func TestResolveScalarFallsBackToString(t *testing.T) {
	kind, val := ResolveScalar("not-a-number")
	assert.Equal(t, KindString, kind)
	assert.Equal(t, "not-a-number", val)
}
