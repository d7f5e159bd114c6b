// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/scidatacontainer/scidatacontainer/lib/itemcodec"
)

// Container is an in-memory Scientific Data Container. The zero value
// is not usable; construct one with [New], [Decode], [ReadFile],
// [Download], or [Open].
type Container struct {
	items   map[string]item
	static  bool
	options Options
}

// item is one decoded payload and the codec that owns its encoding.
type item struct {
	codec itemcodec.Codec
	value any
}

// New builds a container from an item map. Values may be in-memory
// values accepted by the codec their path resolves to, or []byte in
// that codec's encoded form. content.json and meta.json must be
// present and are default-filled and validated. A nil map is an
// absent data source.
func New(items map[string]any, options Options) (*Container, error) {
	if items == nil {
		return nil, fmt.Errorf("%w: no items given", ErrSourceConflict)
	}
	return build(items, options.withDefaults(), false)
}

// build wraps every item, validates the mandatory records, and
// verifies a stored hash. archived marks items that came from archive
// bytes: codec failures on those are reported as ErrMalformedArchive.
func build(items map[string]any, options Options, archived bool) (*Container, error) {
	c := &Container{
		items:   make(map[string]item, len(items)),
		options: options,
	}

	for _, path := range sortedKeys(items) {
		wrapped, err := c.wrap(path, items[path])
		if err != nil {
			if archived {
				return nil, fmt.Errorf("%w: %w", ErrMalformedArchive, err)
			}
			return nil, err
		}
		c.items[path] = wrapped
	}

	content, err := c.record(ContentPath)
	if err != nil {
		return nil, err
	}
	if err := validateContent(content, options.Clock.Now()); err != nil {
		return nil, err
	}
	meta, err := c.record(MetaPath)
	if err != nil {
		return nil, err
	}
	if err := validateMeta(meta, options.Defaults); err != nil {
		return nil, err
	}
	if err := c.checkSchemas(content, meta); err != nil {
		return nil, err
	}

	if stored, _ := content["hash"].(string); stored != "" && !options.SkipHashCheck {
		actual, err := c.digest()
		if err != nil {
			return nil, err
		}
		if actual != stored {
			return nil, &IntegrityError{Expected: stored, Actual: actual}
		}
	}

	c.static = content["static"].(bool)
	return c, nil
}

// wrap resolves the codec for path and converts value into that
// codec's decoded form. []byte values are decoded directly; anything
// else is normalized by an encode/decode round trip.
func (c *Container) wrap(path string, value any) (item, error) {
	if err := checkPath(path); err != nil {
		return item{}, err
	}
	codec, known := c.options.Registry.Resolve(path)
	if !known {
		c.options.Logger.Warn("unknown item suffix, storing raw bytes",
			"path", path,
			"suffix", itemcodec.Suffix(path),
		)
	}

	data, isBytes := value.([]byte)
	if !isBytes {
		encoded, err := codec.Encode(value)
		if err != nil {
			return item{}, fmt.Errorf("item %s: %w", path, err)
		}
		data = encoded
	}
	decoded, err := codec.Decode(data)
	if err != nil {
		return item{}, fmt.Errorf("item %s: %w", path, err)
	}
	return item{codec: codec, value: decoded}, nil
}

// checkPath accepts relative slash-separated paths without empty, "."
// or ".." segments.
func checkPath(path string) error {
	if path == "" || strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	for segment := range strings.SplitSeq(path, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return nil
}

// record returns a mandatory record as a JSON object.
func (c *Container) record(path string) (map[string]any, error) {
	entry, ok := c.items[path]
	if !ok {
		return nil, missingField(path, "")
	}
	object, ok := entry.value.(map[string]any)
	if !ok {
		return nil, invalidField(path, "")
	}
	return object, nil
}

func (c *Container) checkSchemas(content, meta map[string]any) error {
	if c.options.Validator == nil {
		return nil
	}
	version, _ := content["modelVersion"].(string)
	for _, check := range []struct {
		path     string
		schemaID string
		record   map[string]any
	}{
		{ContentPath, "content/" + version, content},
		{MetaPath, "meta/" + version, meta},
	} {
		violations, err := c.options.Validator.Validate(check.schemaID, check.record)
		if err != nil {
			return fmt.Errorf("validating %s: %w", check.path, err)
		}
		if len(violations) > 0 {
			return &SchemaError{Record: check.path, SchemaID: check.schemaID, Violations: violations}
		}
	}
	return nil
}

// content returns the validated content descriptor.
func (c *Container) content() map[string]any {
	return c.items[ContentPath].value.(map[string]any)
}

func (c *Container) meta() map[string]any {
	return c.items[MetaPath].value.(map[string]any)
}

// Has reports whether an item exists at path.
func (c *Container) Has(path string) bool {
	_, ok := c.items[path]
	return ok
}

// Get returns a copy of the decoded value stored at path. Changing the
// copy does not change the container; use [Container.Set].
func (c *Container) Get(path string) (any, error) {
	entry, ok := c.items[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	data, err := entry.codec.Encode(entry.value)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	value, err := entry.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return value, nil
}

// Encoded returns the archived bytes of the item at path.
func (c *Container) Encoded(path string) ([]byte, error) {
	entry, ok := c.items[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	data, err := entry.codec.Encode(entry.value)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	return data, nil
}

// Set stores value at path, replacing any existing item. Replacing
// content.json or meta.json re-runs default-filling and validation on
// the new record; content.json may not be set with static=true, which
// only [Container.Freeze] can do, and keeps the current identity (see
// carryIdentity).
func (c *Container) Set(path string, value any) error {
	if c.static {
		return fmt.Errorf("setting %s: %w", path, ErrImmutable)
	}
	wrapped, err := c.wrap(path, value)
	if err != nil {
		return err
	}

	switch path {
	case ContentPath:
		record, ok := wrapped.value.(map[string]any)
		if !ok {
			return invalidField(ContentPath, "")
		}
		if truthy(record["static"]) {
			return fmt.Errorf("static is set only by Freeze: %w", invalidField(ContentPath, "static"))
		}
		if err := carryIdentity(c.content(), record); err != nil {
			return err
		}
		if err := validateContent(record, c.options.Clock.Now()); err != nil {
			return err
		}
		if err := c.checkSchemas(record, c.meta()); err != nil {
			return err
		}
	case MetaPath:
		record, ok := wrapped.value.(map[string]any)
		if !ok {
			return invalidField(MetaPath, "")
		}
		if err := validateMeta(record, c.options.Defaults); err != nil {
			return err
		}
		if err := c.checkSchemas(c.content(), record); err != nil {
			return err
		}
	}

	c.items[path] = wrapped
	return nil
}

// carryIdentity copies uuid and created from the current descriptor
// into a replacement that omits them. A complete container stays
// complete, and keeps its modified time unless the replacement names
// one.
func carryIdentity(current, replacement map[string]any) error {
	for _, field := range []string{"uuid", "created"} {
		if value, present := replacement[field]; !present || !truthy(value) {
			replacement[field] = current[field]
		}
	}
	if complete, _ := current["complete"].(bool); !complete {
		return nil
	}
	if value, present := replacement["complete"]; present && !truthy(value) {
		return fmt.Errorf("reopening a complete container: %w", ErrImmutable)
	}
	replacement["complete"] = true
	if _, present := replacement["modified"]; !present {
		replacement["modified"] = current["modified"]
	}
	return nil
}

// Delete removes the item at path. Deleting an absent path is a no-op;
// the two mandatory records cannot be deleted.
func (c *Container) Delete(path string) error {
	if c.static {
		return fmt.Errorf("deleting %s: %w", path, ErrImmutable)
	}
	if path == ContentPath || path == MetaPath {
		return fmt.Errorf("deleting mandatory record: %w", missingField(path, ""))
	}
	delete(c.items, path)
	return nil
}

// Paths returns all item paths in lexicographic order. This order is
// the iteration order for hashing and archive encoding.
func (c *Container) Paths() []string {
	return sortedKeys(c.items)
}

// Content returns a copy of the content descriptor.
func (c *Container) Content() map[string]any { return cloneObject(c.content()) }

// Meta returns a copy of the user metadata record.
func (c *Container) Meta() map[string]any { return cloneObject(c.meta()) }

func cloneObject(object map[string]any) map[string]any {
	return cloneValue(object).(map[string]any)
}

// cloneValue deep-copies a decoded JSON value.
func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		copied := make(map[string]any, len(typed))
		for key, element := range typed {
			copied[key] = cloneValue(element)
		}
		return copied
	case []any:
		copied := make([]any, len(typed))
		for index, element := range typed {
			copied[index] = cloneValue(element)
		}
		return copied
	case []byte:
		return bytes.Clone(typed)
	default:
		return typed
	}
}

// UUID returns the container identifier.
func (c *Container) UUID() string {
	id, _ := c.content()["uuid"].(string)
	return id
}

// Hash returns the stored hash, or "" when none has been computed.
func (c *Container) Hash() string {
	sum, _ := c.content()["hash"].(string)
	return sum
}

// Static reports whether the container is frozen.
func (c *Container) Static() bool { return c.static }

// Complete reports whether the container is closed for further steps.
func (c *Container) Complete() bool {
	complete, _ := c.content()["complete"].(bool)
	return complete
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
