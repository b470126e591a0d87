// Package cli implements the pyright-node command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pyright-node/internal/config"
	"github.com/matzehuels/pyright-node/pkg/buildinfo"
	"github.com/matzehuels/pyright-node/pkg/httputil"
	"github.com/matzehuels/pyright-node/pkg/integrations"
	"github.com/matzehuels/pyright-node/pkg/nodejs"
	"github.com/matzehuels/pyright-node/pkg/pkgmgr"
	"github.com/matzehuels/pyright-node/pkg/proc"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ExitError carries a child process's exit code up to main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	stdout  io.Writer
	stderr  io.Writer
	level   log.Level
	session string

	cfg        *config.Config
	configFile string
	logFile    io.Closer

	// flags
	configPath string
	verbose    bool

	// hooks replace process and filesystem access in tests.
	runner      proc.Runner
	finder      pkgmgr.Finder
	lookPath    func(string) (string, error)
	client      *integrations.Client
	npmRegistry string
}

// New creates a CLI that logs to stderr at level until configuration has
// been loaded.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	session := uuid.NewString()[:8]
	return &CLI{
		Logger:  newLogger(stderr, level).With("session", session),
		stdout:  stdout,
		stderr:  stderr,
		level:   level,
		session: session,
		runner:  proc.ExecRunner{Stdout: stdout, Stderr: stderr},
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pyright-node",
		Short: "Run pyright without installing Node.js yourself",
		Long: `pyright-node provisions a Node.js runtime and a package manager, installs
pyright into a throwaway project and runs it. A node already on PATH is
reused; otherwise a release is downloaded once and kept for later runs.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pyright-node/config.toml)")
	pf.String("package-manager", "", "package manager to use: yarn, yarnpkg, pnpm or npm")
	pf.Bool("force-download", false, "download node even if one is on PATH")
	pf.String("node-version", "", `node release to download ("latest", "lts" or a version)`)
	pf.String("node-mirror", "", "base URL of the node release directory")
	pf.String("pyright-version", "", `pyright version to install ("latest" asks the npm registry)`)

	root.AddCommand(c.langserverCommand())
	root.AddCommand(c.pyrightCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.managersCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and rebuilds the logger once flags are parsed.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, file, err := config.Load(config.LoadOptions{File: c.configPath, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	c.cfg, c.configFile = cfg, file

	level := c.level
	if c.verbose {
		level = LogDebug
	}

	w := c.stderr
	if cfg.LogFile != "" {
		lf := newLogFile(cfg.LogFile)
		c.logFile = lf
		w = io.MultiWriter(c.stderr, lf)
	}
	c.Logger = newLogger(w, level).With("session", c.session)
	c.Logger.Debug("configuration loaded", "file", file, "version", buildinfo.Version)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// Close releases the log file, if one was opened.
func (c *CLI) Close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		def := config.Default()
		c.cfg = &def
	}
	return c.cfg
}

func (c *CLI) httpCache() *httputil.Cache {
	cache, err := httputil.NewCache("", c.settings().CacheTTL)
	if err != nil {
		c.Logger.Debug("http cache disabled", "err", err)
		return nil
	}
	return cache
}

func (c *CLI) httpClient() *integrations.Client {
	if c.client != nil {
		return c.client
	}
	return integrations.NewClient(nil, nil)
}

func (c *CLI) catalog(logger *log.Logger) *nodejs.Catalog {
	cfg := c.settings()
	return nodejs.NewCatalog(nodejs.CatalogOptions{
		Client:  c.httpClient(),
		BaseURL: cfg.NodeMirror,
		Cache:   c.httpCache(),
		Refresh: cfg.ForceDownload,
		Logger:  logger,
	})
}

func (c *CLI) provisioner(logger *log.Logger) *nodejs.Provisioner {
	cfg := c.settings()
	return nodejs.NewProvisioner(nodejs.Options{
		Dir:           cfg.RuntimeDir,
		Version:       cfg.NodeVersion,
		ForceDownload: cfg.ForceDownload,
		Catalog:       c.catalog(logger),
		Client:        c.httpClient(),
		LookPath:      c.lookPath,
		Logger:        logger,
	})
}

func tempDir() (string, error) {
	return os.MkdirTemp("", "pyright-node-")
}
