// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package schemacheck validates the mandatory container records
// against embedded JSON Schemas.
//
// Schemas are identified as "<record>/<version>", e.g.
// "content/1.0.0" or "meta/1.0.0". An exact ID is always preferred.
// When the ID names no embedded schema, the validator tries every
// schema for the same record kind (or every schema, if the kind is
// unknown too) and reports the violations of the best fit, logging the
// guess at warning level. A guess never turns a bad record into a
// good one: its violations are returned like any other.
package schemacheck

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// schemaBaseURL prefixes every embedded schema file name to form its
// resource URL. It matches the $id inside each file.
const schemaBaseURL = "https://scidatacontainer.org/schema/"

// Validator checks records against compiled schemas. It implements
// container.SchemaValidator. Safe for concurrent use after New.
type Validator struct {
	schemas map[string]*jsonschema.Schema
	logger  *slog.Logger
}

// New compiles the embedded schemas. A nil logger selects
// slog.Default().
func New(logger *slog.Logger) (*Validator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := schemaFiles.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("listing embedded schemas: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	urls := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		data, err := schemaFiles.ReadFile(path.Join("schemas", name))
		if err != nil {
			return nil, fmt.Errorf("reading schema %s: %w", name, err)
		}
		document, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing schema %s: %w", name, err)
		}
		url := schemaBaseURL + name
		if err := compiler.AddResource(url, document); err != nil {
			return nil, fmt.Errorf("adding schema %s: %w", name, err)
		}
		urls[schemaID(name)] = url
	}

	schemas := make(map[string]*jsonschema.Schema, len(urls))
	for id, url := range urls {
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", id, err)
		}
		schemas[id] = schema
	}
	return &Validator{schemas: schemas, logger: logger}, nil
}

// schemaID converts "content-1.0.0.json" to "content/1.0.0".
func schemaID(fileName string) string {
	base := strings.TrimSuffix(fileName, ".json")
	kind, version, _ := strings.Cut(base, "-")
	return kind + "/" + version
}

// IDs returns the IDs of all known schemas in sorted order.
func (v *Validator) IDs() []string {
	ids := make([]string, 0, len(v.schemas))
	for id := range v.schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks record against the schema named by schemaID and
// returns the violations found, nil when the record is valid.
func (v *Validator) Validate(schemaID string, record map[string]any) ([]string, error) {
	if schema, ok := v.schemas[schemaID]; ok {
		return violations(schema, record), nil
	}

	guessed, found := v.Guess(schemaID, record)
	if guessed == "" {
		return nil, fmt.Errorf("no schema available for %q", schemaID)
	}
	v.logger.Warn("schema not found, validated against best match",
		"requested", schemaID,
		"guessed", guessed,
		"violations", len(found),
	)
	return found, nil
}

// Guess returns the schema that fits record best, with its
// violations. Candidates share the record kind of requestedID (the
// part before "/") when any such schema exists. Ties go to the highest
// ID in sort order, which prefers newer versions.
func (v *Validator) Guess(requestedID string, record map[string]any) (string, []string) {
	kind, _, _ := strings.Cut(requestedID, "/")
	candidates := make([]string, 0, len(v.schemas))
	for _, id := range v.IDs() {
		if strings.HasPrefix(id, kind+"/") {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		candidates = v.IDs()
	}

	best := ""
	var bestViolations []string
	for index := len(candidates) - 1; index >= 0; index-- {
		id := candidates[index]
		found := violations(v.schemas[id], record)
		if best == "" || len(found) < len(bestViolations) {
			best, bestViolations = id, found
		}
	}
	return best, bestViolations
}

// violations runs schema against record and returns one message per
// failing leaf of the validation output, prefixed with the instance
// location.
func violations(schema *jsonschema.Schema, record map[string]any) []string {
	err := schema.Validate(any(record))
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}

	var found []string
	for _, unit := range validationErr.BasicOutput().Errors {
		if unit.Error == nil {
			continue
		}
		location := unit.InstanceLocation
		if location == "" {
			location = "/"
		}
		found = append(found, location+": "+unit.Error.String())
	}
	if len(found) == 0 {
		found = []string{validationErr.Error()}
	}
	return found
}
