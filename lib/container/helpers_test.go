// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/scidatacontainer/scidatacontainer/lib/clock"
)

var epoch = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testOptions returns options with a fake clock at epoch and a
// discarding logger.
func testOptions() (Options, *clock.FakeClock) {
	fake := clock.Fake(epoch)
	return Options{Clock: fake, Logger: discardLogger()}, fake
}

// minimalItems returns the smallest valid item map.
func minimalItems() map[string]any {
	return map[string]any{
		ContentPath: map[string]any{"containerType": map[string]any{"name": "x"}},
		MetaPath:    map[string]any{"title": "t", "author": "a"},
	}
}

func mustNew(t *testing.T, items map[string]any, options Options) *Container {
	t.Helper()
	c, err := New(items, options)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func mustEncode(t *testing.T, c *Container) []byte {
	t.Helper()
	data, err := c.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

// captureLogger returns a logger writing JSON lines into the returned
// buffer.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buffer bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buffer, nil)), &buffer
}

// memoryRemote is an in-memory RemoteStore keyed by the archive's
// container UUID.
type memoryRemote struct {
	blobs    map[string][]byte
	uploaded []string
	failWith error
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{blobs: make(map[string][]byte)}
}

func (m *memoryRemote) Upload(_ context.Context, name string, data []byte) (string, error) {
	if m.failWith != nil {
		return "", m.failWith
	}
	id := strings.TrimSuffix(name, ".zdc")
	m.blobs[id] = append([]byte(nil), data...)
	m.uploaded = append(m.uploaded, name)
	return "", nil
}

func (m *memoryRemote) Download(_ context.Context, id string) ([]byte, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	data, ok := m.blobs[id]
	if !ok {
		return nil, fmt.Errorf("no container %s", id)
	}
	return data, nil
}
