// Package pkgmgr discovers JavaScript package managers and picks the one a
// workspace drives.
//
// Probing checks each [Kind] in a fixed order (yarn, yarnpkg, pnpm, npm),
// optionally restricted to one directory such as the runtime's bin dir.
// [Registry.Select] then honours an explicit preference or falls back to the
// first manager found. A preference that was not found is an error, never a
// silent fallback.
package pkgmgr
