// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"context"
	"fmt"
)

// Source names where a container comes from. Exactly one of Items,
// File, and UUID must be set; UUID requires Remote.
type Source struct {
	Items  map[string]any
	File   string
	UUID   string
	Remote RemoteStore
}

func (s Source) count() int {
	count := 0
	if s.Items != nil {
		count++
	}
	if s.File != "" {
		count++
	}
	if s.UUID != "" {
		count++
	}
	return count
}

// Open builds a container from whichever source is set.
func Open(ctx context.Context, source Source, options Options) (*Container, error) {
	if count := source.count(); count != 1 {
		return nil, fmt.Errorf("%w: %d sources given", ErrSourceConflict, count)
	}
	switch {
	case source.Items != nil:
		return New(source.Items, options)
	case source.File != "":
		return ReadFile(source.File, options)
	default:
		return Download(ctx, source.Remote, source.UUID, options)
	}
}
