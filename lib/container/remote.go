// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"context"
	"errors"
	"fmt"
)

// Upload encodes the container and sends it to store. It returns the
// identifier reported by the server, or the container UUID when the
// server does not report one.
func (c *Container) Upload(ctx context.Context, store RemoteStore) (string, error) {
	if store == nil {
		return "", errors.New("uploading container: no remote store configured")
	}
	data, err := c.Encode()
	if err != nil {
		return "", err
	}
	id, err := store.Upload(ctx, c.UUID()+".zdc", data)
	if err != nil {
		return "", fmt.Errorf("uploading container %s: %w", c.UUID(), err)
	}
	if id == "" {
		id = c.UUID()
	}
	return id, nil
}

// Download fetches the container with the given identifier from store
// and decodes it.
func Download(ctx context.Context, store RemoteStore, id string, options Options) (*Container, error) {
	if store == nil {
		return nil, errors.New("downloading container: no remote store configured")
	}
	data, err := store.Download(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("downloading container %s: %w", id, err)
	}
	c, err := Decode(data, options)
	if err != nil {
		return nil, fmt.Errorf("decoding container %s: %w", id, err)
	}
	return c, nil
}
