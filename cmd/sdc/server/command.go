// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements "sdc upload" and "sdc download", which
// transfer container archives to and from the configured container
// server.
package server

import (
	"context"
	"log/slog"

	"github.com/scidatacontainer/scidatacontainer/cmd/sdc/cli"
	"github.com/scidatacontainer/scidatacontainer/lib/container"
)

// Commands returns the upload and download commands.
func Commands() []*cli.Command {
	return []*cli.Command{
		uploadCommand(),
		downloadCommand(),
	}
}

type uploadParams struct {
	cli.Settings
	cli.JSONOutput
}

type transferResult struct {
	ID   string `json:"id"`
	UUID string `json:"uuid"`
	Path string `json:"path"`
	Kind string `json:"kind"`
}

func uploadCommand() *cli.Command {
	var params uploadParams

	return &cli.Command{
		Name:    "upload",
		Summary: "Upload a container archive to the server",
		Usage:   "sdc upload <file> [flags]",
		Description: `Read and validate a container archive, then upload it to the server
named in the configuration file. The server identifier is printed.

Servers typically reject a second upload of a static container.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc upload <file>"); err != nil {
				return err
			}
			client, err := params.RemoteClient(logger)
			if err != nil {
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
			id, err := c.Upload(ctx, client)
			if err != nil {
				return cli.Classify(err)
			}

			result := transferResult{ID: id, UUID: c.UUID(), Path: args[0], Kind: c.Kind().String()}
			if done, err := params.EmitJSON(ctx, result); done {
				return err
			}
			cli.Printf(ctx, "%s\n", id)
			return nil
		},
	}
}

type downloadParams struct {
	cli.Settings
	cli.JSONOutput
	OutputPath string `json:"-" flag:"output,o" desc:"output file (default: <uuid>.zdc)"`
}

func downloadCommand() *cli.Command {
	var params downloadParams

	return &cli.Command{
		Name:    "download",
		Summary: "Download a container archive from the server",
		Usage:   "sdc download <uuid> [flags]",
		Description: `Download a container by UUID, validate it (including its hash), and
write it to a file.`,
		Examples: []cli.Example{
			{
				Description: "Download to a chosen file",
				Command:     "sdc download 0b7f5d2e-3c1a-4e8b-9a55-2f9c0d4b6e13 -o reference.zdc",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc download <uuid>"); err != nil {
				return err
			}
			client, err := params.RemoteClient(logger)
			if err != nil {
				return err
			}
			options, err := params.ContainerOptions(logger)
			if err != nil {
				return err
			}
			c, err := container.Open(ctx, container.Source{UUID: args[0], Remote: client}, options)
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

			result := transferResult{ID: args[0], UUID: c.UUID(), Path: outPath, Kind: c.Kind().String()}
			if done, err := params.EmitJSON(ctx, result); done {
				return err
			}
			cli.Printf(ctx, "%s\n", outPath)
			return nil
		},
	}
}
