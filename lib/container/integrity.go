// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// volatileFields are the content descriptor fields excluded from the
// hash input, together with hash itself.
var volatileFields = []string{"uuid", "created", "modified", "hash"}

// digest computes the canonical hash without storing it. The content
// descriptor is left exactly as it was found.
func (c *Container) digest() (string, error) {
	content := c.content()
	saved := make(map[string]any, len(volatileFields))
	for _, field := range volatileFields {
		saved[field] = content[field]
		content[field] = nil
	}
	defer func() {
		for field, value := range saved {
			content[field] = value
		}
	}()

	paths := c.Paths()
	fingerprints := make([]string, 0, len(paths))
	for _, path := range paths {
		entry := c.items[path]
		fingerprint, err := entry.codec.Fingerprint(entry.value)
		if err != nil {
			return "", fmt.Errorf("fingerprinting %s: %w", path, err)
		}
		fingerprints = append(fingerprints, fingerprint)
	}

	sum := sha256.Sum256([]byte(strings.Join(fingerprints, " ")))
	return hex.EncodeToString(sum[:]), nil
}

// ComputeHash computes the canonical hash and stores it in the content
// descriptor. It is permitted on static containers, where it
// reproduces the hash stored by Freeze.
func (c *Container) ComputeHash() (string, error) {
	sum, err := c.digest()
	if err != nil {
		return "", err
	}
	c.content()["hash"] = sum
	return sum, nil
}

// VerifyHash recomputes the hash and compares it with the stored one
// without modifying the container. stored is "" when no hash has been
// computed; in that case no comparison is made and err is nil.
func (c *Container) VerifyHash() (stored, actual string, err error) {
	stored = c.Hash()
	actual, err = c.digest()
	if err != nil {
		return stored, "", err
	}
	if stored != "" && stored != actual {
		return stored, actual, &IntegrityError{Expected: stored, Actual: actual}
	}
	return stored, actual, nil
}

// Freeze makes the container static: static and complete are set and
// the hash is computed over the final descriptor, so the stored hash
// verifies when the archive is read back. Freezing a static container
// again recomputes the same hash. There is no way back.
func (c *Container) Freeze() (string, error) {
	content := c.content()
	previousStatic, previousComplete := content["static"], content["complete"]
	content["static"] = true
	content["complete"] = true

	sum, err := c.ComputeHash()
	if err != nil {
		content["static"], content["complete"] = previousStatic, previousComplete
		return "", err
	}
	c.static = true
	return sum, nil
}

// Close marks an open multi-step container complete and stamps the
// final modified time. Closing a complete container is a no-op.
func (c *Container) Close() error {
	if c.static {
		return fmt.Errorf("closing: %w", ErrImmutable)
	}
	content := c.content()
	if complete, _ := content["complete"].(bool); complete {
		return nil
	}
	content["complete"] = true
	content["modified"] = Timestamp(c.options.Clock.Now())
	return nil
}
