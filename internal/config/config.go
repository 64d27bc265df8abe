package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds deployment parameters shared by the sdb binaries.
type Config struct {
	// InstallDir is the absolute path of the system installation tree.
	InstallDir string `yaml:"install_dir"`
	// ServiceName is the name of the supervised service unit.
	ServiceName string `yaml:"service_name"`
	// ServiceUser is the dedicated system account owning the installation.
	ServiceUser string `yaml:"service_user"`
	// Interpreter is the interpreter used to provision the isolated runtime.
	Interpreter string `yaml:"interpreter"`
	// ReleaseName is the base name of produced release archives.
	ReleaseName string `yaml:"release_name"`
}

const (
	// DefaultConfigFilename is the default filename for deployment settings.
	DefaultConfigFilename = "sdb-deploy.yaml"

	// DefaultInstallDir is the default system installation directory.
	DefaultInstallDir = "/opt/swiftdevbot"

	// DefaultServiceName is the default supervised service unit name.
	DefaultServiceName = "swiftdevbot"

	// DefaultServiceUser is the default dedicated system account.
	DefaultServiceUser = "swiftdevbot"

	// DefaultInterpreter is the default interpreter for runtime provisioning.
	DefaultInterpreter = "python3"

	// DefaultReleaseName is the default base name for release archives.
	DefaultReleaseName = "swiftdevbot"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInstallDirNotAbsolute is returned when the install directory is relative.
	errInstallDirNotAbsolute = errors.New("install directory must be an absolute path")
	// errServiceNameInvalid is returned when the service name contains path separators.
	errServiceNameInvalid = errors.New("service name must not contain path separators")
)

// Default returns a validated configuration with all fields at their defaults.
func Default() *Config {
	cfg := new(Config)
	// Validate never fails on an empty config: it only fills defaults.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault reads configuration from the provided path.
// A missing settings file is not an error: defaults apply in that case.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.InstallDir == "" {
		cfg.InstallDir = DefaultInstallDir
	}

	if !filepath.IsAbs(cfg.InstallDir) {
		return fmt.Errorf("%s: %w", cfg.InstallDir, errInstallDirNotAbsolute)
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}

	if strings.ContainsRune(cfg.ServiceName, os.PathSeparator) {
		return fmt.Errorf("%s: %w", cfg.ServiceName, errServiceNameInvalid)
	}

	if cfg.ServiceUser == "" {
		cfg.ServiceUser = DefaultServiceUser
	}

	if cfg.Interpreter == "" {
		cfg.Interpreter = DefaultInterpreter
	}

	if cfg.ReleaseName == "" {
		cfg.ReleaseName = DefaultReleaseName
	}

	return nil
}
