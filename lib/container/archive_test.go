// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/scidatacontainer/scidatacontainer/lib/codec"
)

func TestEncodeWritesEntriesInPathOrder(t *testing.T) {
	options, _ := testOptions()
	c := mustNew(t, itemsWithData(), options)
	data := mustEncode(t, c)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	var names []string
	for _, file := range reader.File {
		names = append(names, file.Name)
		if !file.Modified.Equal(entryTimestamp) {
			t.Errorf("%s modified = %v, want %v", file.Name, file.Modified, entryTimestamp)
		}
		if file.Method != zip.Store {
			t.Errorf("%s method = %d, want Store", file.Name, file.Method)
		}
	}
	if !reflect.DeepEqual(names, c.Paths()) {
		t.Errorf("entry order = %v, want %v", names, c.Paths())
	}
}

func TestEncodeIsReproducible(t *testing.T) {
	options, _ := testOptions()
	c := mustNew(t, itemsWithData(), options)
	if !bytes.Equal(mustEncode(t, c), mustEncode(t, c)) {
		t.Error("encoding the same container twice gave different bytes")
	}
}

func TestRoundTrip(t *testing.T) {
	options, _ := testOptions()
	original := mustNew(t, itemsWithData(), options)
	if err := original.Set("data/values.cbor", map[string]any{"n": 3}); err != nil {
		t.Fatal(err)
	}
	if err := original.Set("data/setup.yaml", map[string]any{"laser": "on"}); err != nil {
		t.Fatal(err)
	}

	decoded, err := Decode(mustEncode(t, original), options)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(decoded.Paths(), original.Paths()) {
		t.Fatalf("paths = %v, want %v", decoded.Paths(), original.Paths())
	}
	for _, path := range original.Paths() {
		want, _ := original.Encoded(path)
		got, _ := decoded.Encoded(path)
		if !bytes.Equal(got, want) {
			t.Errorf("%s differs after round trip:\n got %s\nwant %s", path, got, want)
		}
	}
	if !reflect.DeepEqual(decoded.Content(), original.Content()) {
		t.Errorf("content = %v, want %v", decoded.Content(), original.Content())
	}
}

func TestRoundTripDeflate(t *testing.T) {
	options, _ := testOptions()
	options.Archive.Compression = Deflate
	c := mustNew(t, itemsWithData(), options)
	data := mustEncode(t, c)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range reader.File {
		if file.Method != zip.Deflate {
			t.Errorf("%s method = %d, want Deflate", file.Name, file.Method)
		}
	}
	decoded, err := Decode(data, options)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.UUID() != c.UUID() {
		t.Errorf("uuid = %s, want %s", decoded.UUID(), c.UUID())
	}
}

func TestParseCompression(t *testing.T) {
	for input, want := range map[string]Compression{"": Store, "store": Store, "deflate": Deflate} {
		got, err := ParseCompression(input)
		if err != nil || got != want {
			t.Errorf("ParseCompression(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseCompression("bzip2"); err == nil {
		t.Error("ParseCompression(bzip2) succeeded")
	}
}

// buildArchive writes raw entries into a ZIP archive, bypassing the
// container so that malformed inputs can be produced.
func buildArchive(t *testing.T, entries [][2]string) []byte {
	t.Helper()
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	for _, entry := range entries {
		entryWriter, err := writer.Create(entry[0])
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entryWriter.Write([]byte(entry[1])); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return buffer.Bytes()
}

const (
	validContent = `{"containerType": {"name": "x"}}`
	validMeta    = `{"author": "a", "title": "t"}`
)

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("definitely not a zip archive")},
		{"empty input", nil},
		{"broken content JSON", buildArchive(t, [][2]string{
			{ContentPath, `{"containerType": `},
			{MetaPath, validMeta},
		})},
		{"broken text entry", buildArchive(t, [][2]string{
			{ContentPath, validContent},
			{MetaPath, validMeta},
			{"data/notes.txt", "\xff\xfe"},
		})},
		{"duplicate entries", buildArchive(t, [][2]string{
			{ContentPath, validContent},
			{MetaPath, validMeta},
			{MetaPath, validMeta},
		})},
		{"absolute entry name", buildArchive(t, [][2]string{
			{ContentPath, validContent},
			{MetaPath, validMeta},
			{"/etc/passwd.txt", "x"},
		})},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			options, _ := testOptions()
			_, err := Decode(test.data, options)
			if !errors.Is(err, ErrMalformedArchive) {
				t.Fatalf("Decode error = %v, want ErrMalformedArchive", err)
			}
		})
	}
}

func TestDecodeValidationIsNotMalformed(t *testing.T) {
	options, _ := testOptions()
	data := buildArchive(t, [][2]string{{ContentPath, validContent}})
	_, err := Decode(data, options)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("Decode error = %v, want ErrMissingField", err)
	}
	if errors.Is(err, ErrMalformedArchive) {
		t.Error("missing meta.json reported as malformed archive")
	}
}

func TestDecodeLimits(t *testing.T) {
	data := buildArchive(t, [][2]string{
		{ContentPath, validContent},
		{MetaPath, validMeta},
		{"data/big.txt", string(bytes.Repeat([]byte("a"), 4096))},
	})

	options, _ := testOptions()
	options.Archive.MaxEntrySize = 1024
	if _, err := Decode(data, options); !errors.Is(err, ErrMalformedArchive) {
		t.Errorf("Decode with entry limit = %v, want ErrMalformedArchive", err)
	}

	options, _ = testOptions()
	options.Archive.MaxEntries = 2
	if _, err := Decode(data, options); !errors.Is(err, ErrMalformedArchive) {
		t.Errorf("Decode with count limit = %v, want ErrMalformedArchive", err)
	}

	options, _ = testOptions()
	if _, err := Decode(data, options); err != nil {
		t.Errorf("Decode with default limits: %v", err)
	}
}

func TestDecodeSkipsDirectoryEntries(t *testing.T) {
	options, _ := testOptions()
	data := buildArchive(t, [][2]string{
		{ContentPath, validContent},
		{"data/", ""},
		{MetaPath, validMeta},
	})
	c, err := Decode(data, options)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Has("data/") {
		t.Error("directory entry became an item")
	}
}

// storedContent reads content.json from a container file without
// running validation, so timestamps are exactly as written.
func storedContent(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	items, err := readArchive(data, ArchiveOptions{}.withDefaults())
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := items[ContentPath].([]byte)
	value, err := codec.UnmarshalJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	return value.(map[string]any)
}

func TestMultiStepLifecycle(t *testing.T) {
	options, fake := testOptions()
	path := filepath.Join(t.TempDir(), "run.zdc")

	items := minimalItems()
	items[ContentPath] = map[string]any{"containerType": map[string]any{"name": "x"}, "complete": false}
	items["data/step1.txt"] = "first"
	first := mustNew(t, items, options)
	if err := first.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	created := first.Content()["created"]

	fake.Advance(90 * time.Minute)
	second, err := ReadFile(path, options)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := second.Set("data/step2.txt", "second"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := second.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fake.Advance(time.Hour)
	stored, err := ReadFile(path, options)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if stored.UUID() != first.UUID() {
		t.Errorf("uuid changed across steps: %s vs %s", stored.UUID(), first.UUID())
	}
	if stored.Content()["created"] != created {
		t.Errorf("created = %v, want %v", stored.Content()["created"], created)
	}
	if stored.Complete() {
		t.Error("complete = true, want false")
	}
	if !stored.Has("data/step1.txt") || !stored.Has("data/step2.txt") {
		t.Errorf("paths = %v, want both steps", stored.Paths())
	}

	onDisk := storedContent(t, path)
	if onDisk["modified"] != Timestamp(epoch.Add(90*time.Minute)) {
		t.Errorf("written modified = %v, want second step time", onDisk["modified"])
	}
	if onDisk["created"] != Timestamp(epoch) {
		t.Errorf("written created = %v, want first step time", onDisk["created"])
	}
}
