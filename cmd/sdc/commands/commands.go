// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete sdc command tree.
package commands

import (
	"context"
	"log/slog"

	"github.com/scidatacontainer/scidatacontainer/cmd/sdc/cli"
	servercmd "github.com/scidatacontainer/scidatacontainer/cmd/sdc/server"
	storecmd "github.com/scidatacontainer/scidatacontainer/cmd/sdc/store"
	"github.com/scidatacontainer/scidatacontainer/cmd/sdc/zdc"
	"github.com/scidatacontainer/scidatacontainer/lib/version"
)

// Root builds and returns the sdc command tree.
func Root() *cli.Command {
	var subcommands []*cli.Command
	subcommands = append(subcommands, zdc.Commands()...)
	subcommands = append(subcommands, servercmd.Commands()...)
	subcommands = append(subcommands,
		storecmd.Command(),
		&cli.Command{
			Name:    "version",
			Summary: "Print version information",
			Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
				cli.Printf(ctx, "%s %s\n", version.SoftwareName, version.Full())
				return nil
			},
		},
	)

	return &cli.Command{
		Name: "sdc",
		Description: `sdc: scientific data containers.

Bundle measurement data with mandatory metadata into a single archive
(.zdc), track single-step, multi-step, and static lifecycles, verify
content hashes, and exchange containers with a server or a local
repository.

Configuration (author, email, server, key, store) is read from the file
named by --config or $SDC_CONFIG.`,
		Subcommands: subcommands,
		Examples: []cli.Example{
			{
				Description: "Create a container from a data file",
				Command:     "sdc create run.zdc --type scan --title 'Calibration' --item data/values.json=values.json",
			},
			{
				Description: "Summarize a container",
				Command:     "sdc show run.zdc",
			},
			{
				Description: "Freeze and publish",
				Command:     "sdc freeze run.zdc && sdc upload run.zdc",
			},
		},
	}
}
