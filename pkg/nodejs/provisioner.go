package nodejs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/pyright-node/pkg/errors"
	"github.com/matzehuels/pyright-node/pkg/integrations"
)

// Source records where a runtime came from.
type Source int

const (
	SourceSystem Source = iota
	SourceDownloaded
)

func (s Source) String() string {
	if s == SourceDownloaded {
		return "downloaded"
	}
	return "system"
}

// Runtime is a verified, executable node binary.
type Runtime struct {
	BinaryPath string
	Source     Source
	// Version is empty for system runtimes.
	Version string
}

// BinDir is the directory holding the node binary. Package managers shipped
// with a downloaded runtime live next to it.
func (r *Runtime) BinDir() string {
	return filepath.Dir(r.BinaryPath)
}

// Sentinel values for Options.Version.
const (
	VersionLatest = "latest"
	VersionLTS    = "lts"
)

const (
	unofficialPrefix = "unofficial-builds."
	officialHost     = "nodejs.org"
)

type Options struct {
	// Dir receives downloaded runtimes. The provisioner creates it if needed
	// but never removes it.
	Dir string
	// Version is "latest" (the default), "lts", or a pinned release such as
	// "v22.11.0".
	Version string
	// ForceDownload ignores any node already on PATH or in Dir.
	ForceDownload bool
	// Catalog resolves "latest" and supplies the download base URL.
	Catalog *Catalog
	// Client streams archives. Defaults to a plain client.
	Client *integrations.Client
	// Host defaults to DetectHost().
	Host *Host
	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, error)
	Logger   *log.Logger
}

// Provisioner binds a node runtime: the one on PATH when present, otherwise
// a release downloaded into Options.Dir. It is not safe for concurrent use.
type Provisioner struct {
	opts    Options
	host    Host
	logger  *log.Logger
	runtime *Runtime
}

func NewProvisioner(opts Options) *Provisioner {
	if opts.Catalog == nil {
		opts.Catalog = NewCatalog(CatalogOptions{Client: opts.Client, Logger: opts.Logger})
	}
	if opts.Client == nil {
		opts.Client = integrations.NewClient(nil, nil)
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Version == "" {
		opts.Version = VersionLatest
	}
	host := DetectHost()
	if opts.Host != nil {
		host = *opts.Host
	}
	opts.Catalog = opts.Catalog.ForTarget(host.Target())
	return &Provisioner{opts: opts, host: host, logger: loggerOrDiscard(opts.Logger)}
}

// Provision returns the bound runtime, resolving it on first use.
func (p *Provisioner) Provision(ctx context.Context) (*Runtime, error) {
	if p.runtime != nil {
		return p.runtime, nil
	}
	rt, err := p.provision(ctx)
	if err != nil {
		return nil, err
	}
	p.runtime = rt
	return rt, nil
}

func (p *Provisioner) provision(ctx context.Context) (*Runtime, error) {
	if !p.opts.ForceDownload {
		if path, err := p.opts.LookPath("node"); err == nil {
			p.logger.Debug("using system node", "path", path)
			return &Runtime{BinaryPath: path, Source: SourceSystem}, nil
		}
	}

	version, err := p.resolveVersion(ctx)
	if err != nil {
		return nil, err
	}

	target := p.host.Target()
	if !target.Known() {
		p.logger.Warn("unrecognised host, download will likely fail",
			"os", p.host.OS, "machine", p.host.Machine, "tag", target.Tag())
	}

	name := ArchiveName(version, target)
	binary := filepath.Join(p.opts.Dir, name, "bin", "node")

	if !p.opts.ForceDownload && isExecutable(binary) {
		p.logger.Debug("reusing downloaded node", "path", binary)
		return &Runtime{BinaryPath: binary, Source: SourceDownloaded, Version: version}, nil
	}

	url, err := DownloadURL(p.opts.Catalog.BaseURL(), version, target)
	if err != nil {
		return nil, err
	}
	if err := p.download(ctx, url, name); err != nil {
		return nil, err
	}

	if !isExecutable(binary) {
		return nil, errors.New(errors.ErrCodeRuntimeUnavailable,
			"unable to detect system runtime or download a valid runtime binary")
	}
	p.logger.Info("node ready", "version", version, "path", binary)
	return &Runtime{BinaryPath: binary, Source: SourceDownloaded, Version: version}, nil
}

func (p *Provisioner) resolveVersion(ctx context.Context) (string, error) {
	switch strings.ToLower(strings.TrimSpace(p.opts.Version)) {
	case VersionLatest:
		v, err := p.opts.Catalog.ResolveLatest(ctx)
		if err != nil {
			return "", err
		}
		return v.Version, nil
	case VersionLTS:
		if _, err := p.opts.Catalog.FetchIndex(ctx); err != nil {
			return "", err
		}
		v, ok := p.opts.Catalog.LatestLTS()
		if !ok {
			return "", errors.New(errors.ErrCodeNotFound, "no LTS release in the node index")
		}
		return v.Version, nil
	default:
		return NormalizeVersion(p.opts.Version)
	}
}

// download streams the archive at url and moves its top-level directory into
// place. Extraction happens in a staging directory so that an interrupted
// download never leaves a half-written runtime behind.
func (p *Provisioner) download(ctx context.Context, url, name string) error {
	if err := os.MkdirAll(p.opts.Dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeRuntimeUnavailable, err, "create runtime directory")
	}

	body, size, err := p.opts.Client.Stream(ctx, url)
	if err != nil {
		return fmt.Errorf("download node: %w", err)
	}
	defer body.Close()

	if size > 0 {
		p.logger.Info("downloading node", "url", url, "size", humanize.Bytes(uint64(size)))
	} else {
		p.logger.Info("downloading node", "url", url)
	}

	staging, err := os.MkdirTemp(p.opts.Dir, ".download-")
	if err != nil {
		return errors.Wrap(errors.ErrCodeRuntimeUnavailable, err, "create staging directory")
	}
	defer os.RemoveAll(staging)

	counter := &countingReader{r: body}
	if err := extractTarGz(counter, staging); err != nil {
		return errors.Wrap(errors.ErrCodeRuntimeUnavailable, err, "extract %s", url)
	}
	p.logger.Debug("archive extracted", "read", humanize.Bytes(uint64(counter.n)))

	final := filepath.Join(p.opts.Dir, name)
	if err := os.RemoveAll(final); err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(staging, name), final); err != nil {
		return errors.Wrap(errors.ErrCodeRuntimeUnavailable, err,
			"unable to detect system runtime or download a valid runtime binary")
	}
	return nil
}

// ArchiveName is the release's top-level directory and file stem, e.g.
// node-v22.11.0-linux-x64.
func ArchiveName(version string, target Target) string {
	name := "node-" + version
	if tag := target.Tag(); tag != "" {
		name += "-" + tag
	}
	return name
}

// DownloadURL builds the archive URL for version under base. musl builds are
// hosted on the unofficial-builds mirror of the official site; custom
// mirrors are used as given.
func DownloadURL(base, version string, target Target) (string, error) {
	root, err := releaseRoot(base, target)
	if err != nil {
		return "", err
	}
	return integrations.JoinURL(root, version, ArchiveName(version, target)+".tar.gz"), nil
}

// releaseRoot is the base URL that lists and hosts builds for target. The
// official site publishes musl builds, and their index, on unofficial-builds.
func releaseRoot(base string, target Target) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", errors.New(errors.ErrCodeInvalidConfig, "invalid node mirror %q", base)
	}
	if target.Musl && u.Host == officialHost {
		u.Host = unofficialPrefix + u.Host
	}
	return u.String(), nil
}

func isExecutable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}
	return fi.Mode().Perm()&0o111 != 0
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
