package npm

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/matzehuels/pyright-node/pkg/errors"
	"github.com/matzehuels/pyright-node/pkg/httputil"
	"github.com/matzehuels/pyright-node/pkg/integrations"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// abbreviatedAccept requests the abbreviated ("corgi") metadata document,
// which carries dist-tags and the version list without per-version readmes.
const abbreviatedAccept = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8"

type PackageInfo struct {
	Name     string            `json:"name"`
	Latest   string            `json:"latest"`
	DistTags map[string]string `json:"dist_tags"`
	Versions []string          `json:"versions"`
}

type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a registry client backed by cache. A nil cache disables
// caching.
func NewClient(cache *httputil.Cache) *Client {
	return &Client{
		Client:  integrations.NewClient(cache.Namespace("npm:"), map[string]string{"Accept": abbreviatedAccept}),
		baseURL: DefaultRegistry,
	}
}

// WithBaseURL points the client at a different registry (a mirror or a test
// server).
func (c *Client) WithBaseURL(base string) *Client {
	cp := *c
	cp.baseURL = strings.TrimRight(base, "/")
	return &cp
}

func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = strings.ToLower(strings.TrimSpace(pkg))
	if err := errors.ValidateNpmPackageName(pkg); err != nil {
		return nil, err
	}

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// LatestVersion returns the version the registry tags as "latest" for pkg.
func (c *Client) LatestVersion(ctx context.Context, pkg string, refresh bool) (string, error) {
	info, err := c.FetchPackage(ctx, pkg, refresh)
	if err != nil {
		return "", err
	}
	return info.Latest, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data registryResponse
	if err := c.Get(ctx, integrations.JoinURL(c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return fmt.Errorf("npm package %s: %w", pkg, err)
		}
		return err
	}

	latest := data.DistTags["latest"]
	if latest == "" {
		return errors.New(errors.ErrCodeNotFound, "npm package %s has no latest dist-tag", pkg)
	}
	if _, ok := data.Versions[latest]; !ok {
		return errors.New(errors.ErrCodeNotFound, "npm package %s: latest version %s not published", pkg, latest)
	}

	versions := slices.Collect(maps.Keys(data.Versions))
	slices.SortFunc(versions, func(a, b string) int {
		return semver.Compare("v"+a, "v"+b)
	})

	*info = PackageInfo{
		Name:     data.Name,
		Latest:   latest,
		DistTags: data.DistTags,
		Versions: versions,
	}
	return nil
}

type registryResponse struct {
	Name     string                    `json:"name"`
	DistTags map[string]string         `json:"dist-tags"`
	Versions map[string]versionDetails `json:"versions"`
}

type versionDetails struct {
	Version string `json:"version"`
}
