// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package itemcodec maps container item paths to the codecs that turn
// in-memory values into archived bytes and back.
//
// A [Codec] is a fixed capability set: Encode, Decode, and
// Fingerprint. The [Registry] binds file suffixes (the text after the
// last "." of an item path) to codecs. Dispatch is a pure lookup;
// capability presence is guaranteed by the interface at registration
// time rather than probed per call.
//
// [NewRegistry] returns a registry pre-loaded with the built-in codecs:
//
//	json        canonical JSON, generic JSON value model (immutable)
//	txt log pgm UTF-8 text, string values
//	bin         raw bytes, []byte values
//	cbor        deterministic CBOR
//	yaml yml    YAML
//
// The json suffix cannot be re-bound: the two mandatory container
// records (content.json and meta.json) depend on it.
//
// Paths whose suffix is not registered resolve to the raw codec with
// known=false. The container logs a warning in that case instead of
// rejecting the item, so archives written by newer software with
// payload types this registry does not understand still load.
//
// Registries are ordinary values passed explicitly to the container
// constructors. There is no package-level registry: each process or
// test builds its own.
package itemcodec
