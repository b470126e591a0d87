package pkgmgr

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/matzehuels/pyright-node/pkg/errors"
)

// Finder resolves an executable name. With dir empty it searches PATH;
// otherwise only dir.
type Finder func(name, dir string) (string, error)

// LookPath is the default Finder.
func LookPath(name, dir string) (string, error) {
	if dir == "" {
		return exec.LookPath(name)
	}
	for _, candidate := range candidates(name) {
		path := filepath.Join(dir, candidate)
		if isExecutable(path) {
			return path, nil
		}
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func candidates(name string) []string {
	if runtime.GOOS != "windows" {
		return []string{name}
	}
	exts := strings.Split(os.Getenv("PATHEXT"), string(os.PathListSeparator))
	if len(exts) == 0 || exts[0] == "" {
		exts = []string{".com", ".exe", ".bat", ".cmd"}
	}
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, name+strings.ToLower(ext))
	}
	return out
}

func isExecutable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return false
	}
	return runtime.GOOS == "windows" || fi.Mode().Perm()&0o111 != 0
}

// Registry holds the managers found by Probe in probe order.
type Registry struct {
	managers []Manager
}

// Probe looks up every Kind with find, restricted to dir when it is set.
func Probe(dir string, find Finder) *Registry {
	if find == nil {
		find = LookPath
	}
	r := &Registry{}
	for _, k := range Kinds() {
		path, err := find(string(k), dir)
		if err != nil || path == "" {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		r.managers = append(r.managers, Manager{Kind: k, Path: path})
	}
	return r
}

// NewRegistry builds a registry from already-resolved managers.
func NewRegistry(managers ...Manager) *Registry {
	return &Registry{managers: append([]Manager(nil), managers...)}
}

func (r *Registry) Managers() []Manager {
	return append([]Manager(nil), r.managers...)
}

func (r *Registry) Len() int { return len(r.managers) }

func (r *Registry) Get(k Kind) (Manager, bool) {
	for _, m := range r.managers {
		if m.Kind == k {
			return m, true
		}
	}
	return Manager{}, false
}

// Select picks the active manager. A non-empty preferred name must be among
// the probed managers.
func (r *Registry) Select(preferred string) (Manager, error) {
	if preferred = strings.TrimSpace(preferred); preferred != "" {
		if k, ok := ParseKind(preferred); ok {
			if m, ok := r.Get(k); ok {
				return m, nil
			}
		}
		return Manager{}, errors.New(errors.ErrCodeUnsupportedPackageManager,
			"unsupported package manager %q; available: %s (supported: %s)",
			preferred, joinKinds(r.kinds()), joinKinds(Kinds()))
	}

	if len(r.managers) == 0 {
		return Manager{}, errors.New(errors.ErrCodeNoPackageManager,
			"no usable package managers found (looked for %s)", joinKinds(Kinds()))
	}
	return r.managers[0], nil
}

func (r *Registry) kinds() []Kind {
	out := make([]Kind, len(r.managers))
	for i, m := range r.managers {
		out[i] = m.Kind
	}
	return out
}

func joinKinds(kinds []Kind) string {
	if len(kinds) == 0 {
		return "none"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
