// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Command sdc creates, inspects, and exchanges scientific data
// containers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/scidatacontainer/scidatacontainer/cmd/sdc/cli"
	"github.com/scidatacontainer/scidatacontainer/cmd/sdc/commands"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := commands.Root().Execute(ctx, os.Args[1:])
	if err == nil {
		return 0
	}
	// Commands that print their own outcome return an ExitError.
	if coder, ok := err.(interface{ ExitCode() int }); ok {
		return coder.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Category.ExitCode()
	}
	return 1
}
