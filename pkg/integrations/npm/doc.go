// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// The bootstrapper pins a pyright version by default. When the user asks for
// "latest", this package resolves the version through the registry's
// dist-tags (https://registry.npmjs.org/<pkg>).
//
// # Usage
//
//	client := npm.NewClient(cache)
//	version, err := client.LatestVersion(ctx, "pyright", false)
//
// # Caching
//
// Responses are cached under the "npm:" namespace of the shared
// [httputil.Cache]. Pass refresh=true to bypass the cache.
//
// # Version Selection
//
// Only the "latest" dist-tag is used for resolution; [PackageInfo.Versions]
// lists every published version sorted by semantic version.
//
// [httputil.Cache]: github.com/matzehuels/pyright-node/pkg/httputil.Cache
package npm
