package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// LoadFixture reads a fixture file relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON reads a JSON fixture into dest.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	if err := json.Unmarshal(LoadFixture(t, path), dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadItems reads a JSON array of catalog items. Every item is validated and
// nil collections are replaced with empty ones.
func LoadItems(t *testing.T, path string) []catalog.Item {
	t.Helper()

	var items []catalog.Item
	LoadFixtureJSON(t, path, &items)

	for i := range items {
		items[i] = items[i].Clone()
		if err := items[i].Validate(); err != nil {
			t.Fatalf("fixture %s item %d is invalid: %v", path, i, err)
		}
	}
	return items
}

// CompareWithGolden compares actual with a golden file, ignoring trailing
// newlines. A missing golden file is created from actual.
func CompareWithGolden(t *testing.T, path string, actual []byte) {
	t.Helper()

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Logf("golden file %s does not exist, creating it", path)
		WriteGolden(t, path, actual)
		return
	}
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	want := strings.TrimRight(string(expected), "\n")
	got := strings.TrimRight(string(actual), "\n")
	if want != got {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, want, got)
	}
}

// WriteGolden writes data to path, creating parent directories.
func WriteGolden(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write golden file %s: %v", path, err)
	}
}

// SQLiteDSN returns a DSN for a fresh SQLite database file inside a
// directory removed when the test ends.
func SQLiteDSN(t testing.TB) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "catalog.db") + "?_busy_timeout=5000"
}

// FixturePath joins filename onto the package testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath joins filename onto the package testdata/golden directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}
