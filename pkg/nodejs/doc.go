// Package nodejs provisions a Node.js runtime.
//
// # Overview
//
// Three pieces cooperate:
//
//   - [Resolve] maps a host OS name and machine string to a distribution
//     [Target] ("linux-x64", "osx-arm64", "linux-x64-musl", ...).
//   - [Catalog] reads the release index (index.json) once and answers
//     "latest", "latest LTS" and version lookups.
//   - [Provisioner] binds a [Runtime]: node from PATH when available,
//     otherwise a release archive downloaded and unpacked into a runtime
//     directory that is reused by later runs.
//
// # Unknown hosts
//
// Resolution never fails. An unrecognised OS or architecture is dropped from
// the tag, which produces a narrower archive name. The download then fails
// with a NOT_FOUND error from the server, which is the signal callers
// report.
//
// # musl
//
// On x86-64 Linux hosts that use musl libc, the "-musl" build is fetched
// from unofficial-builds.nodejs.org.
package nodejs
