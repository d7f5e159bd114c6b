// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package containerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/scidatacontainer/scidatacontainer/lib/atomicfile"
	"github.com/scidatacontainer/scidatacontainer/lib/clock"
	"github.com/scidatacontainer/scidatacontainer/lib/codec"
	"github.com/scidatacontainer/scidatacontainer/lib/container"
	"github.com/scidatacontainer/scidatacontainer/lib/sqlitepool"
)

var (
	// ErrNotFound is returned when no container with the given UUID
	// is stored.
	ErrNotFound = errors.New("containerstore: container not found")

	// ErrConflict is returned when a Put would replace a stored
	// static container with different content.
	ErrConflict = errors.New("containerstore: static container already stored with different content")

	// ErrCorrupt is returned when a blob fails its checksum or cannot
	// be decompressed.
	ErrCorrupt = errors.New("containerstore: stored blob is corrupt")

	// ErrInvalidUUID is returned for identifiers that are not UUIDs.
	ErrInvalidUUID = errors.New("containerstore: invalid container UUID")
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS containers (
	uuid      TEXT PRIMARY KEY,
	type_name TEXT NOT NULL,
	static    INTEGER NOT NULL,
	hash      TEXT,
	stored_at INTEGER NOT NULL,
	record    BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS containers_type_name ON containers (type_name);
`

// Record describes one stored container. It is persisted as CBOR in
// the catalog.
type Record struct {
	UUID        string         `cbor:"uuid"                  json:"uuid"`
	TypeName    string         `cbor:"type_name"             json:"type_name"`
	Title       string         `cbor:"title"                 json:"title"`
	Author      string         `cbor:"author"                json:"author"`
	Keywords    []string       `cbor:"keywords,omitempty"    json:"keywords,omitempty"`
	Kind        container.Kind `cbor:"kind"                  json:"kind"`
	Hash        string         `cbor:"hash,omitempty"        json:"hash,omitempty"`
	Size        int64          `cbor:"size"                  json:"size"`
	StoredSize  int64          `cbor:"stored_size"           json:"stored_size"`
	Checksum    Checksum       `cbor:"checksum"              json:"checksum"`
	Compression Compression    `cbor:"compression"           json:"compression"`
	StoredAt    time.Time      `cbor:"stored_at"             json:"stored_at"`
}

// Config configures a Store.
type Config struct {
	// Root is the repository directory. Created if missing.
	Root string

	// Compression is the preferred blob compression.
	Compression Compression

	// PoolSize is the catalog connection pool size.
	PoolSize int

	// Clock stamps Record.StoredAt. Nil selects the real clock.
	Clock clock.Clock

	// Logger receives store and delete events. Nil selects
	// slog.Default().
	Logger *slog.Logger
}

// Store is a local container repository. Safe for concurrent use.
type Store struct {
	root        string
	compression Compression
	pool        *sqlitepool.Pool
	clock       clock.Clock
	logger      *slog.Logger
}

// Open opens (creating if needed) the repository at config.Root. The
// caller must Close it.
func Open(config Config) (*Store, error) {
	if config.Root == "" {
		return nil, errors.New("containerstore: Root is required")
	}
	if err := os.MkdirAll(filepath.Join(config.Root, "blobs"), 0o755); err != nil {
		return nil, fmt.Errorf("containerstore: creating %s: %w", config.Root, err)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     filepath.Join(config.Root, "catalog.db"),
		PoolSize: config.PoolSize,
		Schema:   catalogSchema,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("containerstore: %w", err)
	}
	return &Store{
		root:        config.Root,
		compression: config.Compression,
		pool:        pool,
		clock:       clock.OrReal(config.Clock),
		logger:      logger,
	}, nil
}

// Close releases the catalog.
func (s *Store) Close() error {
	return s.pool.Close()
}

// blobPath names a blob by UUID, checksum prefix and compression, so
// a replacement never overwrites the blob the committed catalog row
// points at.
func (s *Store) blobPath(record Record) string {
	name := record.UUID + "-" + record.Checksum.String()[:16] + "." + record.Compression.String()
	return filepath.Join(s.root, "blobs", record.UUID[:2], name)
}

func checkUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidUUID, id)
	}
	return nil
}

// Put stores c under its UUID and returns the catalog record.
func (s *Store) Put(ctx context.Context, c *container.Container) (Record, error) {
	id := c.UUID()
	if err := checkUUID(id); err != nil {
		return Record{}, err
	}
	data, err := c.Encode()
	if err != nil {
		return Record{}, fmt.Errorf("encoding container %s: %w", id, err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return Record{}, err
	}
	defer s.pool.Put(conn)

	record, previous, written, err := s.put(conn, c, data)
	if err != nil {
		if written != "" {
			os.Remove(written)
		}
		return Record{}, err
	}
	if previous == nil && written == "" {
		return record, nil
	}
	if previous != nil && written != "" {
		if old := s.blobPath(*previous); old != written {
			if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("removing replaced blob", "uuid", id, "path", old, "error", err)
			}
		}
	}

	s.logger.Info("container stored",
		"uuid", id,
		"kind", record.Kind.String(),
		"size", record.Size,
		"stored_size", record.StoredSize,
		"compression", record.Compression.String(),
	)
	return record, nil
}

// put runs the catalog transaction for Put. It returns the record of
// the replaced row (nil when there was none) and the path of a newly
// written blob ("" when the blob on disk was reused). Both are nil/""
// when a static container was already stored. The caller removes a
// written blob when err is non-nil, after the transaction has rolled
// back.
func (s *Store) put(conn *sqlite.Conn, c *container.Container, data []byte) (record Record, previous *Record, written string, err error) {
	id := c.UUID()
	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return Record{}, nil, "", fmt.Errorf("containerstore: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	existing, found, err := lookup(conn, id)
	if err != nil {
		return Record{}, nil, "", err
	}
	if found && existing.Kind == container.Static {
		if c.Static() && c.Hash() == existing.Hash {
			s.logger.Debug("static container already stored", "uuid", id)
			return existing, nil, "", nil
		}
		return Record{}, nil, "", fmt.Errorf("%w: %s (stored hash %s)", ErrConflict, id, existing.Hash)
	}
	if found {
		previous = &existing
	}

	stored, algorithm, err := compress(data, s.compression)
	if err != nil {
		return Record{}, nil, "", fmt.Errorf("compressing container %s: %w", id, err)
	}
	record = describe(c)
	record.Size = int64(len(data))
	record.StoredSize = int64(len(stored))
	record.Checksum = checksumOf(data)
	record.Compression = algorithm
	record.StoredAt = s.clock.Now().UTC()

	path := s.blobPath(record)
	if previous != nil && s.blobPath(*previous) == path {
		path = ""
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Record{}, nil, "", fmt.Errorf("creating blob directory: %w", err)
		}
		if err := atomicfile.Write(path, stored, 0o644); err != nil {
			return Record{}, nil, "", fmt.Errorf("storing container %s: %w", id, err)
		}
	}

	encoded, err := codec.Marshal(record)
	if err != nil {
		return Record{}, nil, path, fmt.Errorf("encoding record for %s: %w", id, err)
	}
	err = sqlitex.Execute(conn, `INSERT OR REPLACE INTO containers
		(uuid, type_name, static, hash, stored_at, record)
		VALUES (?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
		Args: []any{
			record.UUID,
			record.TypeName,
			record.Kind == container.Static,
			record.Hash,
			record.StoredAt.UnixNano(),
			encoded,
		},
	})
	if err != nil {
		return Record{}, nil, path, fmt.Errorf("containerstore: writing catalog row for %s: %w", id, err)
	}
	return record, previous, path, nil
}

// describe extracts the catalog fields from a container.
func describe(c *container.Container) Record {
	content, meta := c.Content(), c.Meta()
	containerType, _ := content["containerType"].(map[string]any)
	typeName, _ := containerType["name"].(string)
	title, _ := meta["title"].(string)
	author, _ := meta["author"].(string)

	var keywords []string
	if list, ok := meta["keywords"].([]any); ok {
		for _, keyword := range list {
			if text, ok := keyword.(string); ok {
				keywords = append(keywords, text)
			}
		}
	}
	return Record{
		UUID:     c.UUID(),
		TypeName: typeName,
		Title:    title,
		Author:   author,
		Keywords: keywords,
		Kind:     c.Kind(),
		Hash:     c.Hash(),
	}
}

// Record returns the catalog record for id.
func (s *Store) Record(ctx context.Context, id string) (Record, error) {
	if err := checkUUID(id); err != nil {
		return Record{}, err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return Record{}, err
	}
	defer s.pool.Put(conn)

	record, found, err := lookup(conn, id)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return record, nil
}

// Archive returns the verified archive bytes of a stored container.
func (s *Store) Archive(ctx context.Context, id string) ([]byte, Record, error) {
	record, err := s.Record(ctx, id)
	if err != nil {
		return nil, Record{}, err
	}
	stored, err := os.ReadFile(s.blobPath(record))
	if err != nil {
		return nil, Record{}, fmt.Errorf("reading blob for %s: %w", id, err)
	}
	data, err := decompress(stored, record.Compression, int(record.Size))
	if err != nil {
		return nil, Record{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, id, err)
	}
	if sum := checksumOf(data); sum != record.Checksum {
		return nil, Record{}, fmt.Errorf("%w: %s: checksum %s, want %s", ErrCorrupt, id, sum, record.Checksum)
	}
	return data, record, nil
}

// Get loads a stored container.
func (s *Store) Get(ctx context.Context, id string, options container.Options) (*container.Container, error) {
	data, _, err := s.Archive(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := container.Decode(data, options)
	if err != nil {
		return nil, fmt.Errorf("decoding stored container %s: %w", id, err)
	}
	return c, nil
}

// Delete removes a stored container.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := checkUUID(id); err != nil {
		return err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	record, err := deleteRow(conn, id)
	if err != nil {
		return err
	}
	if err := os.Remove(s.blobPath(record)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob for %s: %w", id, err)
	}
	s.logger.Info("container deleted", "uuid", id)
	return nil
}

// deleteRow removes the catalog row for id and returns what it held.
func deleteRow(conn *sqlite.Conn, id string) (record Record, err error) {
	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return Record{}, fmt.Errorf("containerstore: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	record, found, err := lookup(conn, id)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	err = sqlitex.Execute(conn, "DELETE FROM containers WHERE uuid = ?", &sqlitex.ExecOptions{
		Args: []any{id},
	})
	if err != nil {
		return Record{}, fmt.Errorf("containerstore: deleting catalog row for %s: %w", id, err)
	}
	return record, nil
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	TypeName string
	Static   bool
}

// List returns catalog records in store order.
func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	query := "SELECT record FROM containers WHERE 1 = 1"
	var args []any
	if filter.TypeName != "" {
		query += " AND type_name = ?"
		args = append(args, filter.TypeName)
	}
	if filter.Static {
		query += " AND static = 1"
	}
	query += " ORDER BY stored_at, uuid"

	var records []Record
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			record, err := scanRecord(stmt)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("containerstore: listing: %w", err)
	}
	return records, nil
}

func lookup(conn *sqlite.Conn, id string) (Record, bool, error) {
	var (
		record Record
		found  bool
	)
	err := sqlitex.Execute(conn, "SELECT record FROM containers WHERE uuid = ?", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			scanned, err := scanRecord(stmt)
			if err != nil {
				return err
			}
			record, found = scanned, true
			return nil
		},
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("containerstore: looking up %s: %w", id, err)
	}
	return record, found, nil
}

func scanRecord(stmt *sqlite.Stmt) (Record, error) {
	data := make([]byte, stmt.ColumnLen(0))
	stmt.ColumnBytes(0, data)
	var record Record
	if err := codec.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("decoding catalog record: %w", err)
	}
	return record, nil
}
