package project

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pyright-node/pkg/errors"
	"github.com/matzehuels/pyright-node/pkg/nodejs"
	"github.com/matzehuels/pyright-node/pkg/pkgmgr"
	"github.com/matzehuels/pyright-node/pkg/proc"
)

type Options struct {
	// Root is an existing directory. The workspace never creates or removes
	// it.
	Root string
	// Runtime is used as-is when set; otherwise Provisioner binds one.
	Runtime     *nodejs.Runtime
	Provisioner *nodejs.Provisioner
	// PreferredManager must name a probed manager when non-empty.
	PreferredManager string
	// Finder defaults to pkgmgr.LookPath.
	Finder pkgmgr.Finder
	// Runner defaults to proc.ExecRunner{}.
	Runner proc.Runner
	Logger *log.Logger
}

type Workspace struct {
	root     string
	manifest string
	runtime  *nodejs.Runtime
	managers *pkgmgr.Registry
	manager  pkgmgr.Manager
	state    ManifestState
	env      []string
	runner   proc.Runner
	logger   *log.Logger
}

// New binds a runtime, selects a package manager and ensures the manifest.
func New(ctx context.Context, opts Options) (*Workspace, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "workspace root %q", opts.Root)
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "workspace root %s is not a directory", root)
	}

	w := &Workspace{
		root:     root,
		manifest: filepath.Join(root, manifestName),
		runner:   opts.Runner,
		logger:   opts.Logger,
	}
	if w.runner == nil {
		w.runner = proc.ExecRunner{}
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}

	if err := w.bindRuntime(ctx, opts); err != nil {
		return nil, err
	}
	if err := w.selectManager(opts); err != nil {
		return nil, err
	}
	if err := w.ensureManifest(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Workspace) bindRuntime(ctx context.Context, opts Options) error {
	rt := opts.Runtime
	if rt == nil {
		if opts.Provisioner == nil {
			return errors.New(errors.ErrCodeInvalidInput, "workspace needs a runtime or a provisioner")
		}
		var err error
		if rt, err = opts.Provisioner.Provision(ctx); err != nil {
			return err
		}
	}
	w.runtime = rt
	w.env = pathEnv(os.Environ(), rt.BinDir())
	w.logger.Debug("runtime bound", "node", rt.BinaryPath, "source", rt.Source)
	return nil
}

func (w *Workspace) selectManager(opts Options) error {
	w.managers = pkgmgr.Probe(w.runtime.BinDir(), opts.Finder)
	m, err := w.managers.Select(opts.PreferredManager)
	if err != nil {
		return err
	}
	w.manager = m
	w.logger.Debug("package manager selected", "manager", m.Kind, "path", m.Path, "probed", w.managers.Len())
	return nil
}

// ensureManifest repairs a missing, empty or directory-shaped package.json by
// running the manager's init. Repairs are silent apart from debug logs.
func (w *Workspace) ensureManifest(ctx context.Context) error {
	state, err := inspectManifest(w.manifest)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "inspect %s", w.manifest)
	}
	w.state = state
	if !state.NeedsInit() {
		return nil
	}

	w.logger.Debug("initialising manifest", "state", state, "path", w.manifest)
	if err := clearManifest(w.manifest, state); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "remove unusable %s", w.manifest)
	}
	w.bestEffort(ctx, w.manager.InitArgs()...)
	return nil
}

// AddDependency installs spec ("name" or "name@range"). With unplug, yarn
// additionally extracts the package from its archive store.
func (w *Workspace) AddDependency(ctx context.Context, spec string, unplug bool) ([]proc.BestEffort, error) {
	if err := errors.ValidateNpmSpec(spec); err != nil {
		return nil, err
	}

	steps := []proc.BestEffort{w.bestEffort(ctx, w.manager.InstallVerb(), spec)}
	if unplug && w.manager.SupportsUnplug() {
		name, _ := errors.SplitNpmSpec(spec)
		steps = append(steps, w.bestEffort(ctx, "unplug", name))
	}
	return steps, nil
}

// Bootstrap installs everything the manifest lists.
func (w *Workspace) Bootstrap(ctx context.Context) proc.BestEffort {
	return w.bestEffort(ctx, "install")
}

// Run executes an installed binary with inherited stdio. A non-zero exit is
// reported through the Result, not as an error.
func (w *Workspace) Run(ctx context.Context, binary string, args ...string) (proc.Result, error) {
	cmd := w.command(w.manager.Runner(), append([]string{binary}, args...), proc.Inherit)
	w.logger.Debug("running", "cmd", cmd)

	code, err := w.runner.Run(ctx, cmd)
	return proc.Result{Command: cmd, ExitCode: code}, err
}

func (w *Workspace) bestEffort(ctx context.Context, args ...string) proc.BestEffort {
	cmd := w.command(w.manager.Path, args, proc.Discard)
	res := proc.RunBestEffort(ctx, w.runner, cmd)
	switch {
	case res.Err != nil:
		w.logger.Warn("setup step failed to run", "cmd", cmd, "err", res.Err)
	case res.ExitCode != 0:
		w.logger.Warn("setup step exited non-zero", "cmd", cmd, "code", res.ExitCode)
	default:
		w.logger.Debug("setup step done", "cmd", cmd)
	}
	return res
}

// Manifest reads package.json as it currently is on disk.
func (w *Workspace) Manifest() (*Manifest, error) {
	return readManifest(w.manifest)
}

func (w *Workspace) command(path string, args []string, stdio proc.Stdio) proc.Command {
	return proc.Command{Path: path, Args: args, Dir: w.root, Env: w.env, Stdio: stdio}
}

func (w *Workspace) Root() string                 { return w.root }
func (w *Workspace) ManifestPath() string         { return w.manifest }
func (w *Workspace) ManifestState() ManifestState { return w.state }
func (w *Workspace) Manager() pkgmgr.Manager      { return w.manager }
func (w *Workspace) Managers() *pkgmgr.Registry   { return w.managers }
func (w *Workspace) Runtime() *nodejs.Runtime     { return w.runtime }

// pathEnv returns env with dir prepended to PATH so that scripts starting
// with "#!/usr/bin/env node" find the bound runtime.
func pathEnv(env []string, dir string) []string {
	out := make([]string, 0, len(env)+1)
	found := false
	for _, kv := range env {
		key, val, _ := strings.Cut(kv, "=")
		if strings.EqualFold(key, "PATH") && !found {
			found = true
			if val == "" {
				kv = key + "=" + dir
			} else {
				kv = key + "=" + dir + string(os.PathListSeparator) + val
			}
		}
		out = append(out, kv)
	}
	if !found {
		out = append(out, "PATH="+dir)
	}
	return out
}
