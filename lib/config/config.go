// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "SDC_CONFIG"

// ErrNotConfigured is returned by [Load] when SDC_CONFIG is unset.
var ErrNotConfigured = errors.New("config: " + EnvironmentVariable + " environment variable not set")

// Config is the user configuration.
type Config struct {
	// Author is the default meta.json author.
	Author string `yaml:"author"`

	// Email is the default meta.json email.
	Email string `yaml:"email"`

	// Server is the base URL of the container server.
	Server string `yaml:"server"`

	// Key is the container server API token.
	Key string `yaml:"key"`

	// Store is the local container repository directory.
	Store string `yaml:"store"`

	// Compression is the local repository blob compression: zstd,
	// lz4, or none.
	Compression string `yaml:"compression"`

	// ArchiveCompression is the entry method for written archives:
	// store or deflate.
	ArchiveCompression string `yaml:"archive_compression"`
}

var (
	compressionValues        = []string{"zstd", "lz4", "none"}
	archiveCompressionValues = []string{"store", "deflate"}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	store := ""
	if homeDir, err := os.UserHomeDir(); err == nil {
		store = filepath.Join(homeDir, ".local", "share", "sdc", "store")
	}
	return &Config{
		Store:              store,
		Compression:        "zstd",
		ArchiveCompression: "store",
	}
}

// Load loads configuration from the file named by SDC_CONFIG.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, ErrNotConfigured
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path. Fields absent from the file
// keep their [Default] values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	for _, field := range []*string{
		&c.Author,
		&c.Email,
		&c.Server,
		&c.Key,
		&c.Store,
		&c.Compression,
		&c.ArchiveCompression,
	} {
		*field = expandVars(*field)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} from the environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Server != "" {
		parsed, err := url.Parse(c.Server)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			errs = append(errs, fmt.Errorf("server must be an http or https URL, got %q", c.Server))
		}
	}
	if !slices.Contains(compressionValues, c.Compression) {
		errs = append(errs, fmt.Errorf("compression must be one of: %v", compressionValues))
	}
	if !slices.Contains(archiveCompressionValues, c.ArchiveCompression) {
		errs = append(errs, fmt.Errorf("archive_compression must be one of: %v", archiveCompressionValues))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HasRemote reports whether both server and key are set.
func (c *Config) HasRemote() bool {
	return c.Server != "" && c.Key != ""
}
