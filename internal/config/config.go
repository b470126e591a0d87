// Package config loads pyright-node settings from flags, the environment and
// an optional TOML file, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/pyright-node/pkg/errors"
	"github.com/matzehuels/pyright-node/pkg/httputil"
	"github.com/matzehuels/pyright-node/pkg/nodejs"
)

const (
	appName        = "pyright-node"
	configFileName = "config.toml"

	// DefaultPyrightVersion is installed unless a version is forced.
	DefaultPyrightVersion = "1.1.390"
	// PyrightLatest asks the npm registry for the current release.
	PyrightLatest = "latest"
)

// Config keys. Each is bound to the environment variable in envBindings and,
// where the CLI exposes one, to a flag.
const (
	KeyPackageManager = "package_manager"
	KeyForceDownload  = "force_download"
	KeyPyrightVersion = "pyright_version"
	KeyNodeVersion    = "node_version"
	KeyNodeMirror     = "node_mirror"
	KeyRuntimeDir     = "runtime_dir"
	KeyCacheTTL       = "cache_ttl"
	KeyLogFile        = "log_file"
)

var envBindings = map[string]string{
	KeyPackageManager: "NODE_PKG_MANAGER",
	KeyForceDownload:  "PREBUILT",
	KeyPyrightVersion: "PYRIGHT_PYTHON_FORCE_VERSION",
	KeyNodeVersion:    "PYRIGHT_NODE_VERSION",
	KeyNodeMirror:     "NODEJS_ORG_MIRROR",
	KeyRuntimeDir:     "PYRIGHT_NODE_RUNTIME_DIR",
	KeyCacheTTL:       "PYRIGHT_NODE_CACHE_TTL",
	KeyLogFile:        "PYRIGHT_NODE_LOG_FILE",
}

// EnvVar returns the environment variable bound to key.
func EnvVar(key string) string { return envBindings[key] }

type Config struct {
	PackageManager string        `mapstructure:"package_manager"`
	ForceDownload  bool          `mapstructure:"force_download"`
	PyrightVersion string        `mapstructure:"pyright_version"`
	NodeVersion    string        `mapstructure:"node_version"`
	NodeMirror     string        `mapstructure:"node_mirror"`
	RuntimeDir     string        `mapstructure:"runtime_dir"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	LogFile        string        `mapstructure:"log_file"`
}

func Default() Config {
	return Config{
		PyrightVersion: DefaultPyrightVersion,
		NodeVersion:    nodejs.VersionLatest,
		NodeMirror:     nodejs.DefaultBaseURL,
		RuntimeDir:     defaultRuntimeDir(),
		CacheTTL:       time.Hour,
	}
}

func defaultRuntimeDir() string {
	dir, err := httputil.DefaultDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(dir, "runtimes")
}

type LoadOptions struct {
	// File overrides the config file location. It must exist when set.
	File string
	// Flags are bound by name: "package-manager" binds package_manager.
	Flags *pflag.FlagSet
}

// Path is the default config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// Load resolves the effective configuration. It returns the config file
// that was read, or "" when none was.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyPackageManager, def.PackageManager)
	v.SetDefault(KeyForceDownload, def.ForceDownload)
	v.SetDefault(KeyPyrightVersion, def.PyrightVersion)
	v.SetDefault(KeyNodeVersion, def.NodeVersion)
	v.SetDefault(KeyNodeMirror, def.NodeMirror)
	v.SetDefault(KeyRuntimeDir, def.RuntimeDir)
	v.SetDefault(KeyCacheTTL, def.CacheTTL)
	v.SetDefault(KeyLogFile, def.LogFile)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "bind %s", env)
		}
	}

	file, err := loadFile(v, opts.File)
	if err != nil {
		return nil, "", err
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, "", err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, file, nil
}

var decodeHook = mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	lenientBool,
)

// lenientBool reads switches such as PREBUILT the way other tools set them:
// "1" or "true" turns them on, any other text leaves them off.
var lenientBool mapstructure.DecodeHookFuncType = func(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	on, err := strconv.ParseBool(strings.TrimSpace(data.(string)))
	if err != nil {
		return false, nil
	}
	return on, nil
}

func loadFile(v *viper.Viper, explicit string) (string, error) {
	path := explicit
	if path == "" {
		p, err := Path()
		if err != nil {
			return "", nil
		}
		path = p
	}

	var m map[string]any
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if os.IsNotExist(err) && explicit == "" {
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	for key := range m {
		if _, ok := envBindings[key]; !ok {
			return "", errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, key)
		}
	}
	if err := v.MergeConfigMap(m); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "merge config %s", path)
	}
	return path, nil
}

// bindFlags binds every flag whose name maps to a known key. Only flags the
// user actually set take precedence over the environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key := range envBindings {
		f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "bind flag --%s", f.Name)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.PackageManager = strings.ToLower(strings.TrimSpace(c.PackageManager))
	c.PyrightVersion = strings.TrimSpace(c.PyrightVersion)
	if c.PyrightVersion == "" {
		c.PyrightVersion = DefaultPyrightVersion
	}
	c.NodeVersion = strings.ToLower(strings.TrimSpace(c.NodeVersion))
	if c.NodeVersion == "" {
		c.NodeVersion = nodejs.VersionLatest
	}
	c.NodeMirror = strings.TrimRight(strings.TrimSpace(c.NodeMirror), "/")
	if c.NodeMirror == "" {
		c.NodeMirror = nodejs.DefaultBaseURL
	}
}

func (c *Config) Validate() error {
	switch c.NodeVersion {
	case nodejs.VersionLatest, nodejs.VersionLTS:
	default:
		if _, err := nodejs.NormalizeVersion(c.NodeVersion); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", KeyNodeVersion)
		}
	}
	if err := errors.ValidateURL(c.NodeMirror); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", KeyNodeMirror)
	}
	if c.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative", KeyCacheTTL)
	}
	if c.RuntimeDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "%s must not be empty", KeyRuntimeDir)
	}
	return nil
}

// WantsLatestPyright reports whether the registry must be consulted.
func (c *Config) WantsLatestPyright() bool {
	return strings.EqualFold(c.PyrightVersion, PyrightLatest)
}

// Encode writes c as TOML in the config file format.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	err := toml.NewEncoder(&b).Encode(fileFormat{
		PackageManager: c.PackageManager,
		ForceDownload:  c.ForceDownload,
		PyrightVersion: c.PyrightVersion,
		NodeVersion:    c.NodeVersion,
		NodeMirror:     c.NodeMirror,
		RuntimeDir:     c.RuntimeDir,
		CacheTTL:       c.CacheTTL.String(),
		LogFile:        c.LogFile,
	})
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}

type fileFormat struct {
	PackageManager string `toml:"package_manager"`
	ForceDownload  bool   `toml:"force_download"`
	PyrightVersion string `toml:"pyright_version"`
	NodeVersion    string `toml:"node_version"`
	NodeMirror     string `toml:"node_mirror"`
	RuntimeDir     string `toml:"runtime_dir"`
	CacheTTL       string `toml:"cache_ttl"`
	LogFile        string `toml:"log_file"`
}
