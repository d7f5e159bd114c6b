// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// Compression selects how archive entries are stored.
type Compression int

const (
	// Store writes entries uncompressed.
	Store Compression = iota
	// Deflate compresses entries with DEFLATE.
	Deflate
)

// String returns "store" or "deflate".
func (c Compression) String() string {
	switch c {
	case Store:
		return "store"
	case Deflate:
		return "deflate"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// ParseCompression parses "store" or "deflate". The empty string is
// Store.
func ParseCompression(value string) (Compression, error) {
	switch value {
	case "", "store":
		return Store, nil
	case "deflate":
		return Deflate, nil
	default:
		return 0, fmt.Errorf("unknown archive compression %q (want store or deflate)", value)
	}
}

const (
	// DefaultMaxEntries bounds the number of entries read from one
	// archive.
	DefaultMaxEntries = 65536

	// DefaultMaxEntrySize bounds the uncompressed size of one entry.
	DefaultMaxEntrySize = int64(1 << 30)
)

// ArchiveOptions controls archive encoding and the limits applied when
// decoding.
type ArchiveOptions struct {
	Compression  Compression
	MaxEntries   int
	MaxEntrySize int64
}

func (o ArchiveOptions) withDefaults() ArchiveOptions {
	if o.MaxEntries <= 0 {
		o.MaxEntries = DefaultMaxEntries
	}
	if o.MaxEntrySize <= 0 {
		o.MaxEntrySize = DefaultMaxEntrySize
	}
	return o
}

// entryTimestamp is written as the modification time of every entry
// so that equal containers encode to equal bytes.
var entryTimestamp = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Encode serializes the container as a ZIP archive with one entry per
// item, in lexicographic path order.
func (c *Container) Encode() ([]byte, error) {
	method := zip.Store
	if c.options.Archive.Compression == Deflate {
		method = zip.Deflate
	}

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	for _, path := range c.Paths() {
		entry := c.items[path]
		data, err := entry.codec.Encode(entry.value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", path, err)
		}
		header := &zip.FileHeader{
			Name:     path,
			Method:   method,
			Modified: entryTimestamp,
		}
		header.SetMode(0o644)
		entryWriter, err := writer.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("creating archive entry %s: %w", path, err)
		}
		if _, err := entryWriter.Write(data); err != nil {
			return nil, fmt.Errorf("writing archive entry %s: %w", path, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finishing archive: %w", err)
	}
	return buffer.Bytes(), nil
}

// Decode reads a container from ZIP archive bytes. The items go
// through the same validation and hash verification as [New].
func Decode(data []byte, options Options) (*Container, error) {
	options = options.withDefaults()
	items, err := readArchive(data, options.Archive)
	if err != nil {
		return nil, err
	}
	return build(items, options, true)
}

// readArchive returns the raw bytes of every file entry keyed by entry
// name. Directory entries are skipped.
func readArchive(data []byte, limits ArchiveOptions) (map[string]any, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArchive, err)
	}
	if len(reader.File) > limits.MaxEntries {
		return nil, fmt.Errorf("%w: %d entries exceeds limit of %d",
			ErrMalformedArchive, len(reader.File), limits.MaxEntries)
	}

	items := make(map[string]any, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if _, duplicate := items[file.Name]; duplicate {
			return nil, fmt.Errorf("%w: duplicate entry %s", ErrMalformedArchive, file.Name)
		}
		payload, err := readEntry(file, limits.MaxEntrySize)
		if err != nil {
			return nil, err
		}
		items[file.Name] = payload
	}
	return items, nil
}

func readEntry(file *zip.File, limit int64) ([]byte, error) {
	if file.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%w: entry %s is %d bytes, limit %d",
			ErrMalformedArchive, file.Name, file.UncompressedSize64, limit)
	}
	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening entry %s: %w", ErrMalformedArchive, file.Name, err)
	}
	defer reader.Close()

	payload, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading entry %s: %w", ErrMalformedArchive, file.Name, err)
	}
	if int64(len(payload)) > limit {
		return nil, fmt.Errorf("%w: entry %s exceeds %d bytes", ErrMalformedArchive, file.Name, limit)
	}
	return payload, nil
}
