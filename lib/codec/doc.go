// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the deterministic encodings shared by the
// container packages.
//
// Two serialization formats are used, with a clear boundary:
//
//   - JSON for everything that ends up inside a container archive:
//     the content.json and meta.json records and every .json item.
//     [MarshalJSON] produces a canonical form (sorted object keys,
//     four-space indentation, no HTML escaping, no trailing newline)
//     so that the same logical value always yields the same bytes and
//     therefore the same item fingerprint. [UnmarshalJSON] decodes
//     into the generic JSON model and keeps numbers as json.Number so
//     that integer and decimal literals round-trip exactly.
//   - CBOR for local on-disk records (the container repository index)
//     and .cbor items. The encoder uses Core Deterministic Encoding
//     (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
//     indefinite-length items.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(record)
//	err = codec.Unmarshal(data, &record)
//
//	data, err := codec.MarshalJSON(value)
//	value, err := codec.UnmarshalJSON(data)
//
// # Struct Tag Rules
//
// Types serialized only as CBOR use `cbor` tags. Types that may be
// serialized as both JSON and CBOR use `json` tags; fxamacker/cbor
// reads `json` tags as fallback when `cbor` tags are absent. Never use
// both on the same field.
package codec
