// Package config loads boards settings from config.yaml, environment
// variables and command-line flags, and resolves the configuration and data
// directories.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// FileName is the configuration file inside the config directory.
const FileName = "config.yaml"

// Config keys.
const (
	KeyBackend  = "backend"
	KeyDataDir  = "data_dir"
	KeyLogLevel = "log_level"
)

// Defaults.
const (
	DefaultBackend  = types.BackendSQLite
	DefaultLogLevel = "info"
)

// Flags carries command-line overrides. Empty values do not override.
type Flags struct {
	ConfigDir string
	DataDir   string
	LogLevel  string
}

// Settings is the resolved configuration.
type Settings struct {
	ConfigDir string `yaml:"-"`
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
	LogLevel  string `yaml:"log_level"`
}

// Store returns the store configuration for Attach.
func (s *Settings) Store() types.Config {
	return types.Config{Backend: s.Backend, DataDir: s.DataDir}
}

// Load resolves the config directory, writes a default config.yaml there on
// first run, and merges it with environment variables and flags. A missing
// config.yaml is not an error.
func Load(flags Flags) (*Settings, error) {
	configDir, err := ResolveConfigDir(flags.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	if _, err := WriteDefault(configDir, ""); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(KeyBackend, DefaultBackend)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("BOARDS")
	for _, key := range []string{KeyBackend, KeyDataDir, KeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := ResolveDataDir(flags.DataDir, v.GetString(KeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	s := &Settings{
		ConfigDir: configDir,
		Backend:   v.GetString(KeyBackend),
		DataDir:   dataDir,
		LogLevel:  v.GetString(KeyLogLevel),
	}
	if flags.LogLevel != "" {
		s.LogLevel = flags.LogLevel
	}
	if err := s.Store().Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filepath.Join(configDir, FileName), err)
	}
	return s, nil
}

// WriteDefault creates configDir and writes a default config.yaml into it
// unless one already exists. dataDir is recorded when non-empty. Reports
// whether a file was written.
func WriteDefault(configDir, dataDir string) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(Settings{Backend: DefaultBackend, DataDir: dataDir, LogLevel: DefaultLogLevel})
	if err != nil {
		return false, fmt.Errorf("encode config: %w", err)
	}
	header := []byte("# boards configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
