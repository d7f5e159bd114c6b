// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package zdc implements the sdc subcommands that create, inspect, and
// modify container archive files (.zdc) on disk.
//
// Every command reads the archive strictly: a stored hash that does not
// match the items is an error. Commands that modify a container write
// it back atomically and refresh a previously stored hash so the file
// stays verifiable.
package zdc

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/scidatacontainer/scidatacontainer/cmd/sdc/cli"
	"github.com/scidatacontainer/scidatacontainer/lib/codec"
	"github.com/scidatacontainer/scidatacontainer/lib/container"
	"github.com/scidatacontainer/scidatacontainer/lib/itemcodec"
)

// Commands returns the file-level commands. They are attached directly
// to the root command rather than grouped.
func Commands() []*cli.Command {
	return []*cli.Command{
		createCommand(),
		showCommand(),
		listCommand(),
		catCommand(),
		putCommand(),
		removeCommand(),
		hashCommand(),
		closeCommand(),
		freezeCommand(),
		verifyCommand(),
	}
}

// fileParams is embedded by commands that operate on one archive.
type fileParams struct {
	cli.Settings
}

// load reads the archive at path with options derived from settings.
func load(settings *cli.Settings, path string, logger *slog.Logger) (*container.Container, error) {
	options, err := settings.ContainerOptions(logger)
	if err != nil {
		return nil, err
	}
	c, err := container.ReadFile(path, options)
	if err != nil {
		return nil, cli.Classify(err)
	}
	return c, nil
}

// save refreshes a stored hash (the items may have changed) and
// writes c back to path.
func save(c *container.Container, path string, logger *slog.Logger) error {
	if c.Hash() != "" && !c.Static() {
		if _, err := c.ComputeHash(); err != nil {
			return cli.Classify(err)
		}
	}
	if err := c.WriteFile(path); err != nil {
		return cli.Classify(err)
	}
	logger.Debug("container written", "path", path, "uuid", c.UUID(), "kind", c.Kind().String())
	return nil
}

// readItemFile reads the file supplying an item. JSON items may be
// written as JSONC (comments and trailing commas); they are reduced to
// plain JSON before decoding.
func readItemFile(itemPath, filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, cli.Classify(fmt.Errorf("reading %s: %w", filePath, err))
	}
	if itemcodec.Suffix(itemPath) == itemcodec.JSONSuffix {
		data = jsonc.ToJSON(data)
	}
	return data, nil
}

// readRecordFile reads a JSONC file holding a content or meta record.
func readRecordFile(filePath string) (map[string]any, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, cli.Classify(fmt.Errorf("reading %s: %w", filePath, err))
	}
	value, err := codec.UnmarshalJSON(jsonc.ToJSON(data))
	if err != nil {
		return nil, cli.Validation("parsing %s: %w", filePath, err)
	}
	record, ok := value.(map[string]any)
	if !ok {
		return nil, cli.Validation("%s: expected a JSON object", filePath)
	}
	return record, nil
}

// parseItemSpec splits "path=file".
func parseItemSpec(spec string) (string, string, error) {
	itemPath, filePath, ok := strings.Cut(spec, "=")
	if !ok || itemPath == "" || filePath == "" {
		return "", "", cli.Validation("invalid --item %q (want path=file)", spec)
	}
	return itemPath, filePath, nil
}
