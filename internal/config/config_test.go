package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/matzehuels/pyright-node/pkg/errors"
)

// isolate clears every bound variable and points the config dir at an empty
// temp directory.
func isolate(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("HOME", dir)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, file, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if file != "" {
		t.Errorf("file = %q, want none", file)
	}
	if diff := cmp.Diff(Default(), *cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasSuffix(cfg.RuntimeDir, filepath.Join("pyright-node", "runtimes")) {
		t.Errorf("RuntimeDir = %s", cfg.RuntimeDir)
	}
}

func TestLoadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("NODE_PKG_MANAGER", "PNPM")
	t.Setenv("PREBUILT", "1")
	t.Setenv("PYRIGHT_PYTHON_FORCE_VERSION", "latest")
	t.Setenv("PYRIGHT_NODE_VERSION", "22.11.0")
	t.Setenv("NODEJS_ORG_MIRROR", "https://npmmirror.com/mirrors/node/")
	t.Setenv("PYRIGHT_NODE_CACHE_TTL", "30m")

	cfg, _, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PackageManager != "pnpm" {
		t.Errorf("PackageManager = %q, want pnpm", cfg.PackageManager)
	}
	if !cfg.ForceDownload {
		t.Error("PREBUILT=1 should force download")
	}
	if !cfg.WantsLatestPyright() {
		t.Error("PYRIGHT_PYTHON_FORCE_VERSION=latest should request latest")
	}
	if cfg.NodeVersion != "22.11.0" {
		t.Errorf("NodeVersion = %q", cfg.NodeVersion)
	}
	if cfg.NodeMirror != "https://npmmirror.com/mirrors/node" {
		t.Errorf("NodeMirror = %q", cfg.NodeMirror)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %v, want 30m", cfg.CacheTTL)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
package_manager = "yarn"
node_version = "lts"
cache_ttl = "2h"
`)

	cfg, file, err := Load(LoadOptions{File: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if file != path {
		t.Errorf("file = %q, want %q", file, path)
	}
	if cfg.PackageManager != "yarn" || cfg.NodeVersion != "lts" || cfg.CacheTTL != 2*time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadDefaultFileLocation(t *testing.T) {
	isolate(t)
	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`package_manager = "npm"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, file, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if file != path || cfg.PackageManager != "npm" {
		t.Errorf("file = %q, cfg = %+v", file, cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `package_manager = "yarn"`)

	cfg, _, err := Load(LoadOptions{File: path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PackageManager != "yarn" {
		t.Errorf("file should beat defaults, got %q", cfg.PackageManager)
	}

	t.Setenv("NODE_PKG_MANAGER", "pnpm")
	cfg, _, err = Load(LoadOptions{File: path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PackageManager != "pnpm" {
		t.Errorf("env should beat file, got %q", cfg.PackageManager)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("package-manager", "", "")
	flags.Bool("force-download", false, "")
	if err := flags.Parse([]string{"--package-manager", "npm"}); err != nil {
		t.Fatal(err)
	}
	cfg, _, err = Load(LoadOptions{File: path, Flags: flags})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PackageManager != "npm" {
		t.Errorf("flag should beat env, got %q", cfg.PackageManager)
	}
	if cfg.ForceDownload {
		t.Error("unset flag should not override the default")
	}
}

func TestLoadPrebuiltValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"0", false},
		{"", false},
		{"yes", false},
		{"/opt/prebuilt", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			isolate(t)
			t.Setenv("PREBUILT", tt.value)

			cfg, _, err := Load(LoadOptions{})
			if err != nil {
				t.Fatalf("Load() with PREBUILT=%q error: %v", tt.value, err)
			}
			if cfg.ForceDownload != tt.want {
				t.Errorf("PREBUILT=%q: ForceDownload = %v, want %v", tt.value, cfg.ForceDownload, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{"bad node version", map[string]string{"PYRIGHT_NODE_VERSION": "newest"}, ""},
		{"bad mirror", map[string]string{"NODEJS_ORG_MIRROR": "ftp://example.com"}, ""},
		{"negative ttl", map[string]string{"PYRIGHT_NODE_CACHE_TTL": "-1h"}, ""},
		{"unknown key", nil, `colour = "blue"`},
		{"bad toml", nil, `package_manager = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := LoadOptions{}
			if tt.file != "" {
				opts.File = writeConfig(t, tt.file)
			}
			if _, _, err := Load(opts); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, _, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.toml")})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	isolate(t)
	want := Default()
	want.PackageManager = "pnpm"
	want.CacheTTL = 90 * time.Minute

	out, err := want.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	var raw map[string]any
	if _, err := toml.Decode(out, &raw); err != nil {
		t.Fatalf("encoded config is not valid TOML: %v\n%s", err, out)
	}

	cfg, _, err := Load(LoadOptions{File: writeConfig(t, out)})
	if err != nil {
		t.Fatalf("Load(encoded) error: %v", err)
	}
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar(KeyPackageManager); got != "NODE_PKG_MANAGER" {
		t.Errorf("EnvVar(package_manager) = %q", got)
	}
}
