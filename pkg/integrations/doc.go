// Package integrations provides HTTP clients for the remote services the
// bootstrapper talks to.
//
// # Overview
//
// The [Client] type carries the shared plumbing: default headers, a
// User-Agent derived from build info, an optional [httputil.Cache], and
// retries for transport failures. Source-specific clients live in
// subpackages:
//
//   - [npm]: npm registry dist-tags, used to resolve "latest" tool versions
//
// The Node.js release index and archive downloads are served by the same
// [Client] from package nodejs.
//
// # Error policy
//
// Every non-2xx response is a hard failure reported as a structured error
// (NOT_FOUND for 404, NETWORK_ERROR otherwise) and is not retried. Only
// transport errors raised before a response arrives are retried, and only
// for JSON requests made through [Client.Cached]. Archive streams are never
// retried.
//
// [npm]: github.com/matzehuels/pyright-node/pkg/integrations/npm
package integrations
