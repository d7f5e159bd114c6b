// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package zdc

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scidatacontainer/scidatacontainer/cmd/sdc/cli"
	"github.com/scidatacontainer/scidatacontainer/lib/container"
)

type showParams struct {
	cli.Settings
	cli.JSONOutput
}

type showResult struct {
	Kind    string         `json:"kind"`
	Content map[string]any `json:"content"`
	Meta    map[string]any `json:"meta"`
	Items   []string       `json:"items"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Summarize a container archive",
		Usage:   "sdc show <file> [flags]",
		Description: `Print the lifecycle kind, type, UUID, hash, timestamps, and author
of a container. With --json, print content.json, meta.json, and the
item paths instead.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc show <file>"); err != nil {
				return err
			}
			c, err := load(&params.Settings, args[0], logger)
			if err != nil {
				return err
			}
			result := showResult{
				Kind:    c.Kind().String(),
				Content: c.Content(),
				Meta:    c.Meta(),
				Items:   c.Paths(),
			}
			if done, err := params.EmitJSON(ctx, result); done {
				return err
			}
			output := cli.Output(ctx)
			styled := output == os.Stdout && cli.IsTerminal(os.Stdout)
			cli.Printf(ctx, "%s\n", renderSummary(c, styled))
			return nil
		},
	}
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Faint(true)
	staticStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// renderSummary returns c.String(), with the heading and field labels
// styled for terminals when styled is set.
func renderSummary(c *container.Container, styled bool) string {
	summary := c.String()
	if !styled {
		return summary
	}
	lines := strings.Split(summary, "\n")
	heading := headingStyle
	if c.Static() {
		heading = staticStyle
	}
	lines[0] = heading.Render(lines[0])
	for index, line := range lines[1:] {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		lines[index+1] = labelStyle.Render(label+":") + value
	}
	return strings.Join(lines, "\n")
}

func listCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "ls",
		Summary: "List the item paths of a container",
		Usage:   "sdc ls <file> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc ls <file>"); err != nil {
				return err
			}
			c, err := load(&params.Settings, args[0], logger)
			if err != nil {
				return err
			}
			paths := c.Paths()
			if done, err := params.EmitJSON(ctx, paths); done {
				return err
			}
			for _, path := range paths {
				cli.Printf(ctx, "%s\n", path)
			}
			return nil
		},
	}
}

func catCommand() *cli.Command {
	var params fileParams

	return &cli.Command{
		Name:    "cat",
		Summary: "Print the stored bytes of one item",
		Usage:   "sdc cat <file> <path> [flags]",
		Examples: []cli.Example{
			{
				Description: "Print the content descriptor",
				Command:     "sdc cat run.zdc content.json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 2, "sdc cat <file> <path>"); err != nil {
				return err
			}
			c, err := load(&params.Settings, args[0], logger)
			if err != nil {
				return err
			}
			data, err := c.Encoded(args[1])
			if err != nil {
				return cli.Classify(err)
			}
			if _, err := cli.Output(ctx).Write(data); err != nil {
				return cli.Internal("writing output: %w", err)
			}
			return nil
		},
	}
}

type verifyResult struct {
	Path     string `json:"path"`
	UUID     string `json:"uuid"`
	Kind     string `json:"kind"`
	Stored   string `json:"stored_hash,omitempty"`
	Computed string `json:"computed_hash"`
	Status   string `json:"status"`
}

func verifyCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "verify",
		Summary: "Check a container's records and hash",
		Usage:   "sdc verify <file> [flags]",
		Description: `Decode a container, validate both records, and compare the stored hash
with a freshly computed one.

Prints "ok" when the hash matches, "unhashed" when no hash is stored,
and "mismatch" (exit code 2) when the items no longer match the hash.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc verify <file>"); err != nil {
				return err
			}
			options, err := params.ContainerOptions(logger)
			if err != nil {
				return err
			}
			options.SkipHashCheck = true
			c, err := container.ReadFile(args[0], options)
			if err != nil {
				return cli.Classify(err)
			}

			stored, computed, err := c.VerifyHash()
			result := verifyResult{
				Path:     args[0],
				UUID:     c.UUID(),
				Kind:     c.Kind().String(),
				Stored:   stored,
				Computed: computed,
				Status:   "ok",
			}
			var integrityErr *container.IntegrityError
			switch {
			case errors.As(err, &integrityErr):
				result.Status = "mismatch"
			case err != nil:
				return cli.Classify(err)
			case stored == "":
				result.Status = "unhashed"
			}

			if done, err := params.EmitJSON(ctx, result); !done {
				cli.Printf(ctx, "%s: %s\n", args[0], result.Status)
				if result.Status == "mismatch" {
					cli.Printf(ctx, "  stored:   %s\n  computed: %s\n", stored, computed)
				}
			} else if err != nil {
				return err
			}
			if result.Status == "mismatch" {
				logger.Warn("hash mismatch", "path", args[0], "stored", stored, "computed", computed)
				return &cli.ExitError{Code: cli.CategoryValidation.ExitCode()}
			}
			return nil
		},
	}
}
