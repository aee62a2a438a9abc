// Package env resolves the process-wide values a cargo build script is
// given, so the rest of targetdep can take them as an explicit Config.
package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	KeyCargo       = "CARGO"
	KeyOutDir      = "OUT_DIR"
	KeyManifestDir = "CARGO_MANIFEST_DIR"
)

// Config holds the build environment targetdep runs in.
type Config struct {
	Cargo       string // cargo executable
	OutDir      string // scratch root owned by the parent build
	ManifestDir string // parent package root, optional
}

// ConfigError reports a required configuration value that is absent.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("missing required env var %q; targetdep is meant to be used from a build script", e.Key)
}

// LookupFunc looks up a single configuration key, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load builds a Config from lookup. CARGO and OUT_DIR are required.
func Load(lookup LookupFunc) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	c := &Config{
		Cargo:       get(KeyCargo),
		OutDir:      get(KeyOutDir),
		ManifestDir: get(KeyManifestDir),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEnviron builds a Config from the process environment.
func FromEnviron() (*Config, error) {
	return Load(os.LookupEnv)
}

// LoadFile builds a Config from the process environment, falling back to
// the values of the dotenv file at path for keys the environment lacks.
func LoadFile(path string) (*Config, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return Load(Overlay(os.LookupEnv, vals))
}

// Overlay returns a LookupFunc that asks lookup first and falls back to vals.
func Overlay(lookup LookupFunc, vals map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok && v != "" {
			return v, true
		}
		v, ok := vals[key]
		return v, ok
	}
}

// Validate checks that all required values are present.
func (c *Config) Validate() error {
	if c.Cargo == "" {
		return &ConfigError{Key: KeyCargo}
	}
	if c.OutDir == "" {
		return &ConfigError{Key: KeyOutDir}
	}
	return nil
}

// TargetDepsDir returns the directory every isolated target dir lives under.
func (c *Config) TargetDepsDir() string {
	return filepath.Join(c.OutDir, "target-deps")
}
