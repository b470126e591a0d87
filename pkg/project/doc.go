// Package project manages the ephemeral npm project that pyright is
// installed into.
//
// A [Workspace] is rooted at a directory owned by the caller. Construction
// binds a node runtime, selects a package manager and makes sure a usable
// package.json exists, running the manager's init when the manifest is
// missing, empty or a directory. After that, [Workspace.AddDependency],
// [Workspace.Bootstrap] and [Workspace.Run] can be called in any order.
//
// Setup commands are best-effort: their exit codes are returned as
// [proc.BestEffort] values and logged, but never turned into errors. Only
// [Workspace.Run] reports an exit code the caller is expected to act on.
//
// A Workspace is not safe for concurrent use. Separate workspaces with
// separate roots are independent.
package project
