package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInspectManifest(t *testing.T) {
	root := t.TempDir()
	path := func(name string) string { return filepath.Join(root, name) }

	if err := os.WriteFile(path("ok.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path("empty.json"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path("dir.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want ManifestState
	}{
		{"ok.json", ManifestOK},
		{"empty.json", ManifestEmpty},
		{"dir.json", ManifestDirectory},
		{"missing.json", ManifestMissing},
	}
	for _, tt := range tests {
		got, err := inspectManifest(path(tt.name))
		if err != nil {
			t.Errorf("inspectManifest(%s) error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("inspectManifest(%s) = %s, want %s", tt.name, got, tt.want)
		}
		if got.NeedsInit() != (tt.want != ManifestOK) {
			t.Errorf("%s.NeedsInit() = %v", got, got.NeedsInit())
		}
	}
}

func TestReadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.json")
	content := `{
  "name": "pyright-node",
  "version": "1.0.0",
  "dependencies": {
    "pyright": "1.1.390"
  },
  "devDependencies": {
    "left-pad": "^1.3.0"
  }
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := readManifest(path)
	if err != nil {
		t.Fatalf("readManifest() error: %v", err)
	}
	if m.Name != "pyright-node" || m.Version != "1.0.0" {
		t.Errorf("manifest = %+v", m)
	}

	got := map[string]string{}
	for _, name := range []string{"pyright", "left-pad", "missing"} {
		if v, ok := m.Dependency(name); ok {
			got[name] = v
		}
	}
	want := map[string]string{"pyright": "1.1.390", "left-pad": "^1.3.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Dependency() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadManifestInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.json")
	if err := os.WriteFile(path, []byte(`{"name":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readManifest(path); err == nil {
		t.Error("readManifest() should fail on truncated JSON")
	}
}
