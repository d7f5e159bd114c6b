// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"context"
	"log/slog"

	"github.com/scidatacontainer/scidatacontainer/lib/clock"
	"github.com/scidatacontainer/scidatacontainer/lib/itemcodec"
)

// SchemaValidator checks a mandatory record against a schema. The
// schema ID has the form "content/<modelVersion>" or
// "meta/<modelVersion>". A nil or empty result means the record is
// valid; the error return is reserved for failures of the validator
// itself.
type SchemaValidator interface {
	Validate(schemaID string, record map[string]any) (violations []string, err error)
}

// RemoteStore transfers container archives to and from a server.
// Upload returns the identifier the server reports, which may be
// empty when the server does not echo one.
type RemoteStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	Download(ctx context.Context, id string) ([]byte, error)
}

// Defaults supplies values for user metadata fields that the caller
// did not set. Typically filled from the user's configuration file.
type Defaults struct {
	Author string
	Email  string
}

// Options configures container construction and encoding. The zero
// value is usable: it selects a fresh built-in codec registry, the
// real clock, slog.Default, strict hash checking, and stored (not
// deflated) archive entries.
type Options struct {
	// Registry resolves item paths to codecs. Nil selects
	// itemcodec.NewRegistry().
	Registry *itemcodec.Registry

	// Defaults fills author and email in meta.json.
	Defaults Defaults

	// Validator, when set, checks both mandatory records after
	// default-filling.
	Validator SchemaValidator

	// SkipHashCheck disables verification of a hash present in
	// content.json during construction.
	SkipHashCheck bool

	// Archive controls the ZIP encoding and the decode limits.
	Archive ArchiveOptions

	// Clock stamps created and modified. Nil selects the real clock.
	Clock clock.Clock

	// Logger receives warnings such as unknown item suffixes. Nil
	// selects slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = itemcodec.NewRegistry()
	}
	o.Clock = clock.OrReal(o.Clock)
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Archive = o.Archive.withDefaults()
	return o
}
