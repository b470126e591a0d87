package pkgmgr

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pyright-node/pkg/errors"
)

// fakeFinder resolves names present in installed to /bin/<name>, recording
// the directories it was asked to search.
type fakeFinder struct {
	installed map[string]bool
	dirs      []string
}

func (f *fakeFinder) find(name, dir string) (string, error) {
	f.dirs = append(f.dirs, dir)
	if !f.installed[name] {
		return "", fmt.Errorf("%s not found", name)
	}
	base := dir
	if base == "" {
		base = "/usr/bin"
	}
	return filepath.Join(base, name), nil
}

func finder(names ...string) *fakeFinder {
	f := &fakeFinder{installed: map[string]bool{}}
	for _, n := range names {
		f.installed[n] = true
	}
	return f
}

func TestProbeOrder(t *testing.T) {
	f := finder("npm", "pnpm", "yarn")
	reg := Probe("/opt/node/bin", f.find)

	var got []Kind
	for _, m := range reg.Managers() {
		got = append(got, m.Kind)
	}
	if diff := cmp.Diff([]Kind{Yarn, PNPM, NPM}, got); diff != "" {
		t.Errorf("probe order mismatch (-want +got):\n%s", diff)
	}
	for _, d := range f.dirs {
		if d != "/opt/node/bin" {
			t.Errorf("searched %q, want only /opt/node/bin", d)
		}
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		installed []string
		preferred string
		want      Kind
		wantCode  errors.Code
	}{
		{"first probed wins", []string{"npm", "yarn"}, "", Yarn, ""},
		{"yarnpkg before pnpm", []string{"pnpm", "yarnpkg"}, "", YarnPkg, ""},
		{"npm only", []string{"npm"}, "", NPM, ""},
		{"override honoured", []string{"npm", "yarn"}, "npm", NPM, ""},
		{"override case insensitive", []string{"pnpm"}, "PNPM", PNPM, ""},
		{"override not installed", []string{"npm"}, "yarn", "", errors.ErrCodeUnsupportedPackageManager},
		{"override unknown", []string{"npm"}, "bun", "", errors.ErrCodeUnsupportedPackageManager},
		{"nothing installed", nil, "", "", errors.ErrCodeNoPackageManager},
		{"override with nothing installed", nil, "npm", "", errors.ErrCodeUnsupportedPackageManager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := Probe("", finder(tt.installed...).find)
			m, err := reg.Select(tt.preferred)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Select(%q) error = %v, want %s", tt.preferred, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select(%q) error: %v", tt.preferred, err)
			}
			if m.Kind != tt.want {
				t.Errorf("Select(%q) = %s, want %s", tt.preferred, m.Kind, tt.want)
			}
		})
	}
}

func TestSelectUnsupportedMessage(t *testing.T) {
	reg := Probe("", finder("npm", "pnpm").find)
	_, err := reg.Select("bun")
	msg := errors.UserMessage(err)
	for _, want := range []string{`"bun"`, "available: pnpm, npm", "supported: yarn, yarnpkg, pnpm, npm"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestSelectDeterministic(t *testing.T) {
	installed := []string{"npm", "pnpm", "yarnpkg"}
	first, err := Probe("", finder(installed...).find).Select("")
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		reg := Probe("", finder(installed...).find)
		for range 3 {
			m, err := reg.Select("")
			if err != nil {
				t.Fatal(err)
			}
			if m != first {
				t.Fatalf("Select() = %v, want %v", m, first)
			}
		}
	}
}

func TestLookPathDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits")
	}
	dir := t.TempDir()
	write := func(name string, mode os.FileMode) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), mode); err != nil {
			t.Fatal(err)
		}
	}
	write("npm", 0o755)
	write("pnpm", 0o644)
	if err := os.Mkdir(filepath.Join(dir, "yarn"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got, err := LookPath("npm", dir); err != nil || got != filepath.Join(dir, "npm") {
		t.Errorf("LookPath(npm) = %q, %v", got, err)
	}
	if _, err := LookPath("pnpm", dir); err == nil {
		t.Error("non-executable file should not be found")
	}
	if _, err := LookPath("yarn", dir); err == nil {
		t.Error("directory should not be found")
	}

	reg := Probe(dir, nil)
	if reg.Len() != 1 {
		t.Fatalf("Probe() found %d managers, want 1", reg.Len())
	}
	if m, _ := reg.Select(""); m.Kind != NPM {
		t.Errorf("Select() = %s, want npm", m.Kind)
	}
}
