package pkgmgr

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Kind names a supported package manager.
type Kind string

const (
	Yarn    Kind = "yarn"
	YarnPkg Kind = "yarnpkg"
	PNPM    Kind = "pnpm"
	NPM     Kind = "npm"
)

// Kinds returns every supported kind in probe order.
func Kinds() []Kind {
	return []Kind{Yarn, YarnPkg, PNPM, NPM}
}

func ParseKind(name string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds() {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Manager is a package manager bound to an executable.
type Manager struct {
	Kind Kind
	Path string
}

func (m Manager) String() string { return string(m.Kind) }

// IsYarn reports whether m is yarn under either of its executable names.
func (m Manager) IsYarn() bool { return m.Kind == Yarn || m.Kind == YarnPkg }

func (m Manager) IsNPM() bool { return m.Kind == NPM }

// Dir is the directory holding the executable.
func (m Manager) Dir() string { return filepath.Dir(m.Path) }

// Runner returns the executable that runs installed binaries: npx next to
// npm, the manager itself otherwise.
func (m Manager) Runner() string {
	if !m.IsNPM() {
		return m.Path
	}
	name := "npx"
	if ext := filepath.Ext(m.Path); runtime.GOOS == "windows" && ext != "" {
		name += ext
	}
	return filepath.Join(m.Dir(), name)
}

// InstallVerb is the subcommand that adds a dependency to the manifest.
func (m Manager) InstallVerb() string {
	if m.IsYarn() {
		return "add"
	}
	return "install"
}

// InitArgs creates a manifest without prompting.
func (m Manager) InitArgs() []string {
	switch {
	case m.IsYarn():
		return []string{"init", "-y", "-2"}
	case m.IsNPM():
		return []string{"init", "-y"}
	default:
		return []string{"init"}
	}
}

// SupportsUnplug reports whether the manager can extract a dependency out
// of its archive store.
func (m Manager) SupportsUnplug() bool { return m.IsYarn() }
