// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenRequiresExactlyOneSource(t *testing.T) {
	options, _ := testOptions()
	ctx := context.Background()

	if _, err := Open(ctx, Source{}, options); !errors.Is(err, ErrSourceConflict) {
		t.Errorf("Open with no source = %v, want ErrSourceConflict", err)
	}
	both := Source{Items: minimalItems(), File: "x.zdc"}
	if _, err := Open(ctx, both, options); !errors.Is(err, ErrSourceConflict) {
		t.Errorf("Open with two sources = %v, want ErrSourceConflict", err)
	}
}

func TestOpenFromEachSource(t *testing.T) {
	options, _ := testOptions()
	ctx := context.Background()

	fromItems, err := Open(ctx, Source{Items: minimalItems()}, options)
	if err != nil {
		t.Fatalf("Open(items): %v", err)
	}

	path := filepath.Join(t.TempDir(), "c.zdc")
	if err := fromItems.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	fromFile, err := Open(ctx, Source{File: path}, options)
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if fromFile.UUID() != fromItems.UUID() {
		t.Errorf("file uuid = %s, want %s", fromFile.UUID(), fromItems.UUID())
	}

	remote := newMemoryRemote()
	if _, err := fromItems.Upload(ctx, remote); err != nil {
		t.Fatal(err)
	}
	fromRemote, err := Open(ctx, Source{UUID: fromItems.UUID(), Remote: remote}, options)
	if err != nil {
		t.Fatalf("Open(uuid): %v", err)
	}
	if fromRemote.UUID() != fromItems.UUID() {
		t.Errorf("remote uuid = %s, want %s", fromRemote.UUID(), fromItems.UUID())
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.zdc"), Options{})
	if err == nil {
		t.Fatal("ReadFile of missing file succeeded")
	}
}

func TestUploadDownload(t *testing.T) {
	options, _ := testOptions()
	ctx := context.Background()
	c := mustNew(t, itemsWithData(), options)
	if _, err := c.Freeze(); err != nil {
		t.Fatal(err)
	}

	remote := newMemoryRemote()
	id, err := c.Upload(ctx, remote)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if id != c.UUID() {
		t.Errorf("Upload id = %s, want container uuid %s", id, c.UUID())
	}
	if len(remote.uploaded) != 1 || remote.uploaded[0] != c.UUID()+".zdc" {
		t.Errorf("uploaded names = %v", remote.uploaded)
	}

	downloaded, err := Download(ctx, remote, id, options)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if downloaded.Hash() != c.Hash() || !downloaded.Static() {
		t.Errorf("downloaded hash/static = %s/%v", downloaded.Hash(), downloaded.Static())
	}
}

func TestRemoteErrorsPropagate(t *testing.T) {
	options, _ := testOptions()
	ctx := context.Background()
	c := mustNew(t, minimalItems(), options)

	transport := errors.New("503 Service Unavailable")
	remote := newMemoryRemote()
	remote.failWith = transport
	if _, err := c.Upload(ctx, remote); !errors.Is(err, transport) {
		t.Errorf("Upload error = %v, want wrapped transport error", err)
	}
	if _, err := Download(ctx, remote, "x", options); !errors.Is(err, transport) {
		t.Errorf("Download error = %v, want wrapped transport error", err)
	}
	if _, err := c.Upload(ctx, nil); err == nil {
		t.Error("Upload with nil store succeeded")
	}
}
