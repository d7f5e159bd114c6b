// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string
	root := &Command{
		Name: "sdc",
		Subcommands: []*Command{
			{
				Name: "show",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "show"
					return nil
				},
			},
			{
				Name: "verify",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "verify"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"verify"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "verify" {
		t.Errorf("dispatched to %q, want %q", called, "verify")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var (
		called       string
		receivedArgs []string
	)
	root := &Command{
		Name: "sdc",
		Subcommands: []*Command{
			{
				Name: "store",
				Subcommands: []*Command{
					{
						Name: "get",
						Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
							called = "store get"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"store", "get", "some-uuid"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "store get" {
		t.Errorf("dispatched to %q, want %q", called, "store get")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "some-uuid" {
		t.Errorf("args = %v, want [some-uuid]", receivedArgs)
	}
}

type testParams struct {
	Title    string   `flag:"title,t" desc:"title"`
	Keywords []string `flag:"keyword" desc:"keyword (repeatable)"`
	Open     bool     `flag:"open" desc:"open container"`
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var (
		params testParams
		target string
	)
	command := &Command{
		Name:   "create",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			target = args[0]
			return nil
		},
	}

	args := []string{"-t", "Calibration, run 2", "--keyword", "a,b", "--keyword", "c", "--open", "out.zdc"}
	if err := command.Execute(context.Background(), args); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if params.Title != "Calibration, run 2" {
		t.Errorf("Title = %q", params.Title)
	}
	if len(params.Keywords) != 2 || params.Keywords[0] != "a,b" {
		t.Errorf("Keywords = %v, want [a,b c]", params.Keywords)
	}
	if !params.Open || target != "out.zdc" {
		t.Errorf("Open = %v, target = %q", params.Open, target)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	var params testParams
	command := &Command{
		Name:   "create",
		Params: func() any { return &params },
		Run:    func(ctx context.Context, args []string, logger *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--titel", "x"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --title?") {
		t.Errorf("error = %q, want suggestion for --title", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error category = %v, want validation", err)
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "sdc",
		Subcommands: []*Command{
			{Name: "freeze", Run: func(ctx context.Context, args []string, logger *slog.Logger) error { return nil }},
		},
	}
	err := root.Execute(context.Background(), []string{"freez"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "freeze"?`) {
		t.Errorf("error = %v, want suggestion for freeze", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "sdc",
		Subcommands: []*Command{{Name: "ls"}},
	}
	if err := root.Execute(context.Background(), nil); err == nil {
		t.Error("expected error when no subcommand given")
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var params testParams
	command := &Command{
		Name:        "create",
		Description: "Create a container.",
		Usage:       "sdc create <out.zdc> [flags]",
		Params:      func() any { return &params },
		Examples: []Example{
			{Description: "Single-step container", Command: "sdc create run.zdc --type scan"},
		},
	}
	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()
	for _, want := range []string{"Create a container.", "sdc create <out.zdc>", "--title", "# Single-step container"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}

func TestOutputFromContext(t *testing.T) {
	var buffer bytes.Buffer
	ctx := WithOutput(context.Background(), &buffer)
	if Output(ctx) != &buffer {
		t.Error("Output(ctx) did not return the injected writer")
	}
	if Output(context.Background()) == nil {
		t.Error("Output() without injection returned nil")
	}
}

func TestEmitJSON(t *testing.T) {
	var buffer bytes.Buffer
	ctx := WithOutput(context.Background(), &buffer)

	output := JSONOutput{}
	if done, _ := output.EmitJSON(ctx, []string{"x"}); done {
		t.Error("EmitJSON without --json reported done")
	}

	output.OutputJSON = true
	var paths []string
	if done, err := output.EmitJSON(ctx, paths); !done || err != nil {
		t.Fatalf("EmitJSON = %v, %v", done, err)
	}
	if strings.TrimSpace(buffer.String()) != "[]" {
		t.Errorf("nil slice encoded as %q, want []", buffer.String())
	}
}
