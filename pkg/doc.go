// Package pkg holds the libraries behind the pyright-node launcher.
//
// # Overview
//
// pyright-node starts the pyright type checker and language server from an
// environment that has no Node.js installed. The pkg directory is organized
// into a few layers:
//
//  1. [nodejs] - runtime provisioning (host detection, release index, download)
//  2. [pkgmgr] - package manager discovery and selection
//  3. [project] - the ephemeral npm project pyright is installed into
//  4. [proc] - subprocess execution with exit-code and best-effort reporting
//  5. [integrations] and [httputil] - HTTP clients, retries and disk caching
//
// # Flow
//
//	nodejs.Provisioner.Provision
//	         ↓
//	project.New (bind runtime, select manager, repair package.json)
//	         ↓
//	Workspace.AddDependency + Workspace.Bootstrap
//	         ↓
//	Workspace.Run (pyright or pyright-langserver)
//
// Errors carry a code from [errors] so the command line can print a short
// message while logs keep the wrapped cause.
//
// [nodejs]: github.com/matzehuels/pyright-node/pkg/nodejs
// [pkgmgr]: github.com/matzehuels/pyright-node/pkg/pkgmgr
// [project]: github.com/matzehuels/pyright-node/pkg/project
// [proc]: github.com/matzehuels/pyright-node/pkg/proc
// [integrations]: github.com/matzehuels/pyright-node/pkg/integrations
// [httputil]: github.com/matzehuels/pyright-node/pkg/httputil
// [errors]: github.com/matzehuels/pyright-node/pkg/errors
package pkg
