// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for sdc.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a params struct whose tagged fields
// become flags (see [BindFlags]), and a Run function. The tree is
// assembled in cmd/sdc/commands and dispatched via [Command.Execute],
// which handles flag parsing, subcommand routing, logger setup, and
// structured help output with examples.
//
// Unknown subcommands and flags get a "did you mean" suggestion based
// on Levenshtein distance (threshold 3).
//
// [Settings] carries the flags shared by every command (--config,
// --verbose) and turns the loaded configuration into
// container.Options, a remote client, or a local store.
//
// Errors returned by commands are classified into [ToolError]
// categories by [Classify]; cmd/sdc maps categories to exit codes.
package cli
