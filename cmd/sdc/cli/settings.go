// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/scidatacontainer/scidatacontainer/lib/config"
	"github.com/scidatacontainer/scidatacontainer/lib/container"
	"github.com/scidatacontainer/scidatacontainer/lib/containerstore"
	"github.com/scidatacontainer/scidatacontainer/lib/itemcodec"
	"github.com/scidatacontainer/scidatacontainer/lib/remote"
	"github.com/scidatacontainer/scidatacontainer/lib/schemacheck"
)

// Settings holds the flags every command accepts. Embed it in a
// params struct; it binds --config and --verbose itself.
//
// Exported so that reflection in [BindFlags] sees the embedded field.
type Settings struct {
	ConfigPath string
	Verbose    bool

	loaded *config.Config
}

// AddFlags registers --config and --verbose.
func (s *Settings) AddFlags(flagSet *pflag.FlagSet) {
	s.loaded = nil
	flagSet.StringVar(&s.ConfigPath, "config", "", "configuration file (default: $"+config.EnvironmentVariable+")")
	flagSet.BoolVarP(&s.Verbose, "verbose", "v", false, "log at debug level")
}

// LogLevel implements [LevelProvider].
func (s Settings) LogLevel() slog.Level {
	if s.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Config loads the configuration from --config, then $SDC_CONFIG,
// falling back to config.Default when neither is set.
func (s *Settings) Config() (*config.Config, error) {
	if s.loaded != nil {
		return s.loaded, nil
	}
	var (
		cfg *config.Config
		err error
	)
	if s.ConfigPath != "" {
		cfg, err = config.LoadFile(s.ConfigPath)
	} else {
		cfg, err = config.Load()
		if errors.Is(err, config.ErrNotConfigured) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return nil, Validation("%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid configuration: %w", err)
	}
	s.loaded = cfg
	return cfg, nil
}

// ContainerOptions builds container options from the configuration:
// author and email defaults, schema validation, and the archive entry
// method.
func (s *Settings) ContainerOptions(logger *slog.Logger) (container.Options, error) {
	cfg, err := s.Config()
	if err != nil {
		return container.Options{}, err
	}
	compression, err := container.ParseCompression(cfg.ArchiveCompression)
	if err != nil {
		return container.Options{}, Validation("%w", err)
	}
	validator, err := schemacheck.New(logger)
	if err != nil {
		return container.Options{}, Internal("loading schemas: %w", err)
	}
	return container.Options{
		Registry:  itemcodec.NewRegistry(),
		Defaults:  container.Defaults{Author: cfg.Author, Email: cfg.Email},
		Validator: validator,
		Archive:   container.ArchiveOptions{Compression: compression},
		Logger:    logger,
	}, nil
}

// RemoteClient returns a client for the configured server.
func (s *Settings) RemoteClient(logger *slog.Logger) (*remote.Client, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	client, err := remote.New(remote.Config{Server: cfg.Server, Key: cfg.Key, Logger: logger})
	if err != nil {
		return nil, Validation("%w (set server and key in the configuration file)", err)
	}
	return client, nil
}

// OpenStore opens the configured local container repository. The
// caller must Close it.
func (s *Settings) OpenStore(logger *slog.Logger) (*containerstore.Store, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	if cfg.Store == "" {
		return nil, Validation("no local store directory configured")
	}
	compression, err := containerstore.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, Validation("%w", err)
	}
	store, err := containerstore.Open(containerstore.Config{
		Root:        cfg.Store,
		Compression: compression,
		Logger:      logger,
	})
	if err != nil {
		return nil, Internal("%w", err)
	}
	return store, nil
}
