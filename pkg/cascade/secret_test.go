package cascade

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadeconf/cascade/pkg/cascade/secretbackend"
)

func TestLoadFileResolvesSiblingSecrets(t *testing.T) {
	var warnings []StructuralWarning
	warn := func(w StructuralWarning) { warnings = append(warnings, w) }

	val, err := loadFile(context.Background(), testdataPath("secret_user.yaml"), NewVarEnv(), NewSecretCache(nil), NewIncludeStack(), warn)
	require.NoError(t, err)

	m := val.(*Mapping)
	pw, _ := m.Get("db_password")
	assert.Equal(t, "hunter2", pw)

	missing, _ := m.Get("missing")
	assert.Equal(t, "", missing)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "not found")
}

func TestSecretCacheLoadsSecretsFileOncePerCanonicalPath(t *testing.T) {
	cache := NewSecretCache(nil)
	dir := filepath.Dir(testdataPath("secrets.yaml"))
	warn := func(StructuralWarning) {}

	got := cache.Resolve(context.Background(), dir, "password", warn)
	assert.Equal(t, "hunter2", got)

	// A second resolve against the same directory must hit the cache rather
	// than re-reading the file; the cached map is keyed by canonical path.
	canon, err := canonicalize(filepath.Join(dir, "secrets.yaml"))
	require.NoError(t, err)
	cached, ok := cache.byPath[canon]
	require.True(t, ok)
	assert.Equal(t, "hunter2", cached["password"])

	got2 := cache.Resolve(context.Background(), dir, "api_key", warn)
	assert.Equal(t, "abc123", got2)
}

func TestSecretCacheMissingDirectoryYieldsEmptyWithoutError(t *testing.T) {
	cache := NewSecretCache(nil)
	var warnings []StructuralWarning
	warn := func(w StructuralWarning) { warnings = append(warnings, w) }

	got := cache.Resolve(context.Background(), testdataPath("no_such_dir_here"), "anything", warn)
	assert.Equal(t, "", got)
	require.Len(t, warnings, 1)
}

type stubBackend struct {
	scheme string
	value  string
	err    error
}

func (s *stubBackend) Scheme() string { return s.scheme }
func (s *stubBackend) Resolve(_ context.Context, _ secretbackend.Ref) (string, error) {
	return s.value, s.err
}

func TestSecretCacheSchemePrefixedRefDispatchesToBackend(t *testing.T) {
	reg := secretbackend.NewRegistry(&stubBackend{scheme: "vault", value: "s3cr3t"})
	cache := NewSecretCache(reg)
	warn := func(StructuralWarning) { t.Helper(); t.Fatal("unexpected warning") }

	got := cache.Resolve(context.Background(), "/irrelevant", "vault:secret/myapp#password", warn)
	assert.Equal(t, "s3cr3t", got)
}

func TestRegistryParseRefSplitsSchemePathAndKey(t *testing.T) {
	reg := secretbackend.NewRegistry(&stubBackend{scheme: "aws-sm"})

	ref, ok := reg.ParseRef("aws-sm:my-secret#field")
	require.True(t, ok)
	assert.Equal(t, "aws-sm", ref.Scheme)
	assert.Equal(t, "my-secret", ref.Path)
	assert.Equal(t, "field", ref.Key)

	_, ok = reg.ParseRef("plain-secret-name")
	assert.False(t, ok)

	_, ok = reg.ParseRef("unregistered-scheme:path")
	assert.False(t, ok)
}
