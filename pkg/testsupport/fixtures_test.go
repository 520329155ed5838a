package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-catalog-cache/catalog"
)

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.txt")
	if err := os.WriteFile(path, []byte("fixture content"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if got := string(LoadFixture(t, path)); got != "fixture content" {
		t.Errorf("expected %q, got %q", "fixture content", got)
	}
}

func TestLoadItems(t *testing.T) {
	items := LoadItems(t, FixturePath("items.json"))

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Pallet Jack" {
		t.Errorf("unexpected first title %q", items[0].Title)
	}
	if items[0].Price.String() != "349.9" {
		t.Errorf("unexpected price %s", items[0].Price)
	}
	if items[1].Tags == nil {
		t.Error("expected missing tags to decode as an empty slice")
	}
	if items[1].ComplianceStatus != catalog.NonCompliant {
		t.Errorf("unexpected compliance status %q", items[1].ComplianceStatus)
	}
	if items[0].ID != 0 {
		t.Error("internal key must not be read from fixtures")
	}
}

func TestCompareWithGoldenCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "out.txt")

	CompareWithGolden(t, path, []byte("first\n"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("golden file not written: %v", err)
	}
	if string(data) != "first\n" {
		t.Errorf("unexpected golden content %q", data)
	}

	// trailing newlines are ignored
	CompareWithGolden(t, path, []byte("first"))
}

func TestSQLiteDSN(t *testing.T) {
	dsn := SQLiteDSN(t)
	if !strings.HasPrefix(dsn, "file:") || !strings.Contains(dsn, "catalog.db") {
		t.Errorf("unexpected dsn %q", dsn)
	}
}

func TestPaths(t *testing.T) {
	if got := FixturePath("a.json"); got != filepath.Join("testdata", "a.json") {
		t.Errorf("unexpected fixture path %q", got)
	}
	if got := GoldenPath("a.txt"); got != filepath.Join("testdata", "golden", "a.txt") {
		t.Errorf("unexpected golden path %q", got)
	}
}
