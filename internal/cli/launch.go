package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pyright-node/internal/config"
	"github.com/matzehuels/pyright-node/pkg/integrations/npm"
	"github.com/matzehuels/pyright-node/pkg/project"
)

const pyrightPackage = "pyright"

func (c *CLI) langserverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "langserver [args...]",
		Short: "Run the pyright language server",
		Long: `Run pyright-langserver. Every argument is forwarded unchanged, so flags
for pyright-node itself must be given through the environment or the config
file.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.launch(cmd.Context(), "pyright-langserver", args)
		},
	}
}

func (c *CLI) pyrightCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "pyright [args...]",
		Short:              "Run the pyright type checker",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.launch(cmd.Context(), "pyright", args)
		},
	}
}

// launch installs pyright into a fresh temporary project and runs binary.
// A non-zero exit is returned as *ExitError.
func (c *CLI) launch(ctx context.Context, binary string, args []string) error {
	logger := loggerFromContext(ctx)
	cfg := c.settings()

	root, err := tempDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(root)

	prog := newProgress(logger)
	ws, err := c.workspace(ctx, root, logger)
	if err != nil {
		return err
	}

	version, err := c.pyrightVersion(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if _, err := ws.AddDependency(ctx, pyrightPackage+"@"+version, true); err != nil {
		return err
	}
	ws.Bootstrap(ctx)
	checkInstalled(ws, logger)
	prog.done("pyright ready", "version", version, "manager", ws.Manager())

	res, err := ws.Run(ctx, binary, args...)
	if err != nil {
		return err
	}
	if !res.Success() {
		return &ExitError{Code: res.ExitCode}
	}
	return nil
}

func (c *CLI) workspace(ctx context.Context, root string, logger *log.Logger) (*project.Workspace, error) {
	return project.New(ctx, project.Options{
		Root:             root,
		Provisioner:      c.provisioner(logger),
		PreferredManager: c.settings().PackageManager,
		Finder:           c.finder,
		Runner:           c.runner,
		Logger:           logger,
	})
}

// pyrightVersion returns the configured version, asking the npm registry
// when it is "latest".
func (c *CLI) pyrightVersion(ctx context.Context, cfg *config.Config, logger *log.Logger) (string, error) {
	if !cfg.WantsLatestPyright() {
		return cfg.PyrightVersion, nil
	}
	client := npm.NewClient(c.httpCache())
	if c.npmRegistry != "" {
		client = client.WithBaseURL(c.npmRegistry)
	}
	version, err := client.LatestVersion(ctx, pyrightPackage, cfg.ForceDownload)
	if err != nil {
		return "", err
	}
	logger.Debug("resolved latest pyright", "version", version)
	return version, nil
}

// checkInstalled warns early when best-effort setup left pyright out of the
// manifest. The run itself still decides the outcome.
func checkInstalled(ws *project.Workspace, logger *log.Logger) {
	m, err := ws.Manifest()
	if err != nil {
		logger.Warn("cannot read package.json", "err", err)
		return
	}
	if v, ok := m.Dependency(pyrightPackage); ok {
		logger.Debug("pyright recorded in package.json", "range", v)
		return
	}
	logger.Warn("pyright is missing from package.json, the run will likely fail", "manager", ws.Manager())
}
