// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package containerstore keeps a local repository of container
// archives, keyed by container UUID.
//
// Layout under the root directory:
//
//	catalog.db                              SQLite catalog, one row per container
//	blobs/<xx>/<uuid>-<sum>.<compression>   archive bytes, optionally compressed
//
// A blob name carries a checksum prefix, so a replacement is written
// beside the blob the committed row points at and the old blob is
// removed only after the catalog transaction commits.
//
// Each catalog row carries a few indexed columns (uuid, type name,
// static flag, content hash, store time) and the full [Record] as a
// CBOR blob. Archive bytes are compressed with zstd or LZ4 when that
// makes them smaller, and a BLAKE3 keyed checksum of the uncompressed
// archive is verified on every read.
//
// The repository follows the same rule a server applies to uploads: a
// static container is stored once. Putting it again with the same
// content hash is a no-op; putting anything else under its UUID fails
// with [ErrConflict]. Non-static containers are replaced on each Put,
// which is how multi-step containers accumulate revisions locally.
package containerstore
