// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package itemcodec

import (
	"crypto/sha256"
	"encoding/hex"
)

// Codec converts one kind of item payload between its in-memory value
// and its archived bytes.
//
// Implementations must be deterministic: encoding the same value twice
// yields the same bytes, and Fingerprint is a stable digest of the
// item's content. Decode(Encode(v)) must yield a value that encodes to
// the same bytes again.
type Codec interface {
	// Name is a short identifier for diagnostics (e.g. "json").
	Name() string

	// Encode converts an in-memory value to archived bytes. Returns an
	// error if the value has a type the codec does not accept.
	Encode(value any) ([]byte, error)

	// Decode converts archived bytes back to an in-memory value.
	Decode(data []byte) (any, error)

	// Fingerprint returns a stable hex digest of the value's content.
	// The container hash is computed over these fingerprints.
	Fingerprint(value any) (string, error)
}

// FingerprintBytes returns the lowercase hex SHA-256 digest of data.
// It is the default fingerprint of every built-in codec, applied to
// the encoded bytes.
func FingerprintBytes(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// encodedFingerprint fingerprints a value by encoding it with codec
// and digesting the bytes.
func encodedFingerprint(codec Codec, value any) (string, error) {
	data, err := codec.Encode(value)
	if err != nil {
		return "", err
	}
	return FingerprintBytes(data), nil
}
