package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const manifestName = "package.json"

// ManifestState is what construction found at the manifest path.
type ManifestState int

const (
	ManifestOK ManifestState = iota
	ManifestMissing
	ManifestEmpty
	ManifestDirectory
)

func (s ManifestState) String() string {
	switch s {
	case ManifestOK:
		return "ok"
	case ManifestMissing:
		return "missing"
	case ManifestEmpty:
		return "empty"
	case ManifestDirectory:
		return "directory"
	default:
		return fmt.Sprintf("ManifestState(%d)", int(s))
	}
}

// NeedsInit reports whether the manager's init has to run.
func (s ManifestState) NeedsInit() bool { return s != ManifestOK }

func inspectManifest(path string) (ManifestState, error) {
	fi, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ManifestMissing, nil
	case err != nil:
		return ManifestOK, err
	case fi.IsDir():
		return ManifestDirectory, nil
	case fi.Size() == 0:
		return ManifestEmpty, nil
	}
	return ManifestOK, nil
}

// clearManifest removes whatever inspectManifest flagged as unusable.
func clearManifest(path string, state ManifestState) error {
	switch state {
	case ManifestDirectory:
		return os.RemoveAll(path)
	case ManifestEmpty:
		return os.Remove(path)
	}
	return nil
}

// Manifest is the part of package.json the workspace reads back.
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

func readManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}

// Dependency returns the version range recorded for name in any of the
// dependency sections, runtime dependencies first.
func (m *Manifest) Dependency(name string) (string, bool) {
	for _, section := range []map[string]string{m.Dependencies, m.DevDependencies, m.PeerDependencies} {
		if v, ok := section[name]; ok {
			return v, true
		}
	}
	return "", false
}
