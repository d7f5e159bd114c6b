// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"fmt"
	"os"

	"github.com/scidatacontainer/scidatacontainer/lib/atomicfile"
)

// WriteFile encodes the container and atomically writes it to path.
func (c *Container) WriteFile(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return fmt.Errorf("writing container: %w", err)
	}
	return nil
}

// ReadFile reads and decodes a container archive from path.
func ReadFile(path string, options Options) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading container: %w", err)
	}
	c, err := Decode(data, options)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return c, nil
}
