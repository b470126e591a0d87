package pkgmgr

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestManagerVerbs(t *testing.T) {
	tests := []struct {
		kind   Kind
		verb   string
		init   []string
		unplug bool
		isYarn bool
		isNPM  bool
	}{
		{Yarn, "add", []string{"init", "-y", "-2"}, true, true, false},
		{YarnPkg, "add", []string{"init", "-y", "-2"}, true, true, false},
		{PNPM, "install", []string{"init"}, false, false, false},
		{NPM, "install", []string{"init", "-y"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			m := Manager{Kind: tt.kind, Path: "/opt/node/bin/" + string(tt.kind)}
			if got := m.InstallVerb(); got != tt.verb {
				t.Errorf("InstallVerb() = %q, want %q", got, tt.verb)
			}
			if diff := cmp.Diff(tt.init, m.InitArgs()); diff != "" {
				t.Errorf("InitArgs() mismatch (-want +got):\n%s", diff)
			}
			if m.SupportsUnplug() != tt.unplug || m.IsYarn() != tt.isYarn || m.IsNPM() != tt.isNPM {
				t.Errorf("flags mismatch for %s", tt.kind)
			}
		})
	}
}

func TestManagerRunner(t *testing.T) {
	npm := Manager{Kind: NPM, Path: filepath.Join("/opt", "node", "bin", "npm")}
	if got, want := npm.Runner(), filepath.Join("/opt", "node", "bin", "npx"); got != want {
		t.Errorf("npm Runner() = %q, want %q", got, want)
	}

	yarn := Manager{Kind: Yarn, Path: "/usr/bin/yarn"}
	if got := yarn.Runner(); got != "/usr/bin/yarn" {
		t.Errorf("yarn Runner() = %q, want the manager itself", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"yarn", "YarnPkg", " pnpm ", "NPM"} {
		if _, ok := ParseKind(name); !ok {
			t.Errorf("ParseKind(%q) should succeed", name)
		}
	}
	for _, name := range []string{"", "bun", "deno"} {
		if _, ok := ParseKind(name); ok {
			t.Errorf("ParseKind(%q) should fail", name)
		}
	}
}
