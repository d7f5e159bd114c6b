// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package container implements the Scientific Data Container: a ZIP
// archive of named items plus two mandatory JSON records, content.json
// (the content descriptor) and meta.json (user metadata).
//
// A [Container] is built from exactly one source: an item map
// ([New]), archive bytes ([Decode], [ReadFile]), or a remote
// identifier ([Download]). [Open] accepts a [Source] and enforces that
// exactly one is set. Every constructor runs the same path: each item
// is wrapped by the codec its path suffix resolves to, both records
// are validated and default-filled, an optional [SchemaValidator]
// checks them, and a supplied hash is verified against a fresh
// computation unless [Options.SkipHashCheck] is set.
//
// # Lifecycle
//
// The content descriptor's static and complete flags drive a small
// state machine:
//
//	Open Multi-Step    static=false complete=false   modified refreshed on every load
//	Closed/Single-Step static=false complete=true    modified frozen
//	Static             static=true  complete=true    no mutation of any item
//
// [Container.Close] moves an open container to closed.
// [Container.Freeze] computes the hash and makes the container static.
// Static is terminal: nothing in this package clears it.
//
// # Hash
//
// [Container.ComputeHash] digests the per-item fingerprints, joined by
// single spaces in lexicographic path order, with SHA-256. The uuid,
// created, modified, and hash fields of the content descriptor are
// nulled while the fingerprints are taken and restored afterwards, so
// the hash identifies content rather than a particular revision.
//
// Containers are not safe for concurrent mutation.
package container
