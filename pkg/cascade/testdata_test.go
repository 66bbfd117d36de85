package cascade

import (
	"path/filepath"
	"runtime"
)

// testdataPath resolves name relative to this package's testdata directory,
// independent of the working directory the test binary is run from.
func testdataPath(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "testdata", name)
}
