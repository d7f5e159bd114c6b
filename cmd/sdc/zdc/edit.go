// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package zdc

import (
	"context"
	"log/slog"

	"github.com/scidatacontainer/scidatacontainer/cmd/sdc/cli"
)

func putCommand() *cli.Command {
	var params fileParams

	return &cli.Command{
		Name:    "put",
		Summary: "Add or replace an item",
		Usage:   "sdc put <file> <path> <source-file> [flags]",
		Description: `Store the contents of source-file at path inside the container,
replacing any existing item. JSON items may be given as JSONC.

Replacing content.json or meta.json re-validates the record. Static
containers cannot be modified.`,
		Examples: []cli.Example{
			{
				Description: "Append a measurement to an open container",
				Command:     "sdc put series.zdc data/step-002.json step-002.json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 3, "sdc put <file> <path> <source-file>"); err != nil {
				return err
			}
			archivePath, itemPath, sourcePath := args[0], args[1], args[2]
			c, err := load(&params.Settings, archivePath, logger)
			if err != nil {
				return err
			}
			data, err := readItemFile(itemPath, sourcePath)
			if err != nil {
				return err
			}
			if err := c.Set(itemPath, data); err != nil {
				return cli.Classify(err)
			}
			logger.Info("item stored", "path", archivePath, "item", itemPath, "size", len(data))
			return save(c, archivePath, logger)
		},
	}
}

func removeCommand() *cli.Command {
	var params fileParams

	return &cli.Command{
		Name:    "rm",
		Summary: "Delete an item",
		Usage:   "sdc rm <file> <path> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 2, "sdc rm <file> <path>"); err != nil {
				return err
			}
			c, err := load(&params.Settings, args[0], logger)
			if err != nil {
				return err
			}
			if !c.Has(args[1]) {
				return cli.NotFound("%s has no item %s", args[0], args[1])
			}
			if err := c.Delete(args[1]); err != nil {
				return cli.Classify(err)
			}
			logger.Info("item deleted", "path", args[0], "item", args[1])
			return save(c, args[0], logger)
		},
	}
}

func hashCommand() *cli.Command {
	var params fileParams

	return &cli.Command{
		Name:    "hash",
		Summary: "Compute and store the content hash",
		Usage:   "sdc hash <file> [flags]",
		Description: `Compute the canonical hash over all items and store it in
content.json. The hash excludes the UUID, timestamps, and the hash field
itself, so two containers with identical items share a hash.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc hash <file>"); err != nil {
				return err
			}
			c, err := load(&params.Settings, args[0], logger)
			if err != nil {
				return err
			}
			sum, err := c.ComputeHash()
			if err != nil {
				return cli.Classify(err)
			}
			if !c.Static() {
				if err := save(c, args[0], logger); err != nil {
					return err
				}
			}
			cli.Printf(ctx, "%s\n", sum)
			return nil
		},
	}
}

func closeCommand() *cli.Command {
	var params fileParams

	return &cli.Command{
		Name:    "close",
		Summary: "Mark an open multi-step container complete",
		Usage:   "sdc close <file> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc close <file>"); err != nil {
				return err
			}
			c, err := load(&params.Settings, args[0], logger)
			if err != nil {
				return err
			}
			if err := c.Close(); err != nil {
				return cli.Classify(err)
			}
			if err := save(c, args[0], logger); err != nil {
				return err
			}
			cli.Printf(ctx, "%s\n", c.Kind())
			return nil
		},
	}
}

func freezeCommand() *cli.Command {
	var params fileParams

	return &cli.Command{
		Name:    "freeze",
		Summary: "Make a container static (irreversible)",
		Usage:   "sdc freeze <file> [flags]",
		Description: `Mark the container static and complete, and store its hash. A static
container can never be modified again; publish a new container that
replaces it instead.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc freeze <file>"); err != nil {
				return err
			}
			c, err := load(&params.Settings, args[0], logger)
			if err != nil {
				return err
			}
			if c.Static() {
				return cli.Conflict("%s is already static", args[0])
			}
			sum, err := c.Freeze()
			if err != nil {
				return cli.Classify(err)
			}
			if err := save(c, args[0], logger); err != nil {
				return err
			}
			logger.Info("container frozen", "path", args[0], "uuid", c.UUID(), "hash", sum)
			cli.Printf(ctx, "%s\n", sum)
			return nil
		},
	}
}
