// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package store implements the "sdc store" subcommands for the local
// container repository configured by the "store" setting.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/scidatacontainer/scidatacontainer/cmd/sdc/cli"
	"github.com/scidatacontainer/scidatacontainer/lib/container"
	"github.com/scidatacontainer/scidatacontainer/lib/containerstore"
)

// Command returns the "store" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "store",
		Summary: "Manage the local container repository",
		Description: `Keep container archives in a local repository keyed by UUID.

Archives are stored compressed (zstd by default, configurable as lz4 or
none) with a checksum verified on every read. A static container is
stored once: putting the identical container again does nothing, and
putting a different container with the same UUID is a conflict.`,
		Subcommands: []*cli.Command{
			putCommand(),
			getCommand(),
			listCommand(),
			removeCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Keep a frozen container",
				Command:     "sdc store put reference.zdc",
			},
			{
				Description: "List static containers of one type",
				Command:     "sdc store ls --type scan --static",
			},
			{
				Description: "Write a stored container back to a file",
				Command:     "sdc store get 0b7f5d2e-3c1a-4e8b-9a55-2f9c0d4b6e13 -o reference.zdc",
			},
		},
	}
}

// formatSize returns a human-readable size.
func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

type putParams struct {
	cli.Settings
	cli.JSONOutput
}

func putCommand() *cli.Command {
	var params putParams

	return &cli.Command{
		Name:    "put",
		Summary: "Add a container archive to the repository",
		Usage:   "sdc store put <file> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc store put <file>"); err != nil {
				return err
			}
			options, err := params.ContainerOptions(logger)
			if err != nil {
				return err
			}
			c, err := container.ReadFile(args[0], options)
			if err != nil {
				return cli.Classify(err)
			}
			store, err := params.OpenStore(logger)
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.Put(ctx, c)
			if err != nil {
				return cli.Classify(err)
			}
			if done, err := params.EmitJSON(ctx, record); done {
				return err
			}
			cli.Printf(ctx, "%s\n", record.UUID)
			return nil
		},
	}
}

type getParams struct {
	cli.Settings
	OutputPath string `json:"-" flag:"output,o" desc:"output file (default: <uuid>.zdc)"`
}

func getCommand() *cli.Command {
	var params getParams

	return &cli.Command{
		Name:    "get",
		Summary: "Write a stored container to a file",
		Usage:   "sdc store get <uuid> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc store get <uuid>"); err != nil {
				return err
			}
			options, err := params.ContainerOptions(logger)
			if err != nil {
				return err
			}
			store, err := params.OpenStore(logger)
			if err != nil {
				return err
			}
			defer store.Close()

			c, err := store.Get(ctx, args[0], options)
			if err != nil {
				return cli.Classify(err)
			}
			outPath := params.OutputPath
			if outPath == "" {
				outPath = c.UUID() + ".zdc"
			}
			if err := c.WriteFile(outPath); err != nil {
				return cli.Classify(err)
			}
			cli.Printf(ctx, "%s\n", outPath)
			return nil
		},
	}
}

type listParams struct {
	cli.Settings
	cli.JSONOutput
	Type   string `json:"type"   flag:"type"   desc:"only containers of this type name"`
	Static bool   `json:"static" flag:"static" desc:"only static containers"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "ls",
		Summary: "List stored containers",
		Usage:   "sdc store ls [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 0, "sdc store ls [flags]"); err != nil {
				return err
			}
			store, err := params.OpenStore(logger)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(ctx, containerstore.Filter{TypeName: params.Type, Static: params.Static})
			if err != nil {
				return cli.Classify(err)
			}
			if done, err := params.EmitJSON(ctx, records); done {
				return err
			}

			writer := tabwriter.NewWriter(cli.Output(ctx), 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "UUID\tTYPE\tKIND\tSIZE\tSTORED\tTITLE")
			for _, record := range records {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
					record.UUID,
					record.TypeName,
					strings.TrimSuffix(record.Kind.String(), " Container"),
					formatSize(record.Size),
					container.Timestamp(record.StoredAt),
					record.Title,
				)
			}
			return writer.Flush()
		},
	}
}

type removeParams struct {
	cli.Settings
}

func removeCommand() *cli.Command {
	var params removeParams

	return &cli.Command{
		Name:    "rm",
		Summary: "Remove a container from the repository",
		Usage:   "sdc store rm <uuid>... [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("at least one UUID is required\n\nUsage: sdc store rm <uuid>...")
			}
			store, err := params.OpenStore(logger)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(ctx, id); err != nil {
					return cli.Classify(err)
				}
			}
			return nil
		},
	}
}
