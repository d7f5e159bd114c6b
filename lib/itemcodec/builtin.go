// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package itemcodec

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/scidatacontainer/scidatacontainer/lib/codec"
)

// JSON is the codec for .json items, including the mandatory
// content.json and meta.json records. Decoded values use the generic
// JSON model (map[string]any, []any, string, bool, nil, json.Number);
// encoding is the canonical form of [codec.MarshalJSON].
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Encode(value any) ([]byte, error) {
	data, err := codec.MarshalJSON(value)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return data, nil
}

func (JSON) Decode(data []byte) (any, error) {
	value, err := codec.UnmarshalJSON(data)
	if err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	return value, nil
}

func (j JSON) Fingerprint(value any) (string, error) {
	return encodedFingerprint(j, value)
}

// Text is the codec for UTF-8 text items (.txt, .log, .pgm). Values
// are strings; []byte values are accepted if they are valid UTF-8.
type Text struct{}

func (Text) Name() string { return "text" }

func (Text) Encode(value any) ([]byte, error) {
	switch typed := value.(type) {
	case string:
		return []byte(typed), nil
	case []byte:
		if !utf8.Valid(typed) {
			return nil, fmt.Errorf("encoding text: value is not valid UTF-8")
		}
		return bytes.Clone(typed), nil
	case fmt.Stringer:
		return []byte(typed.String()), nil
	default:
		return nil, fmt.Errorf("encoding text: unsupported value type %T", value)
	}
}

func (Text) Decode(data []byte) (any, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("decoding text: data is not valid UTF-8")
	}
	return string(data), nil
}

func (t Text) Fingerprint(value any) (string, error) {
	return encodedFingerprint(t, value)
}

// Raw is the identity codec for binary items (.bin) and the fallback
// for unregistered suffixes. Values are []byte; strings are accepted
// and stored as their bytes.
type Raw struct{}

func (Raw) Name() string { return "raw" }

func (Raw) Encode(value any) ([]byte, error) {
	switch typed := value.(type) {
	case []byte:
		return bytes.Clone(typed), nil
	case string:
		return []byte(typed), nil
	default:
		return nil, fmt.Errorf("encoding raw bytes: unsupported value type %T", value)
	}
}

func (Raw) Decode(data []byte) (any, error) {
	return bytes.Clone(data), nil
}

func (r Raw) Fingerprint(value any) (string, error) {
	return encodedFingerprint(r, value)
}

// CBOR is the codec for .cbor items, using Core Deterministic
// Encoding. Decoded maps are map[string]any.
type CBOR struct{}

func (CBOR) Name() string { return "cbor" }

func (CBOR) Encode(value any) ([]byte, error) {
	data, err := codec.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding CBOR: %w", err)
	}
	return data, nil
}

func (CBOR) Decode(data []byte) (any, error) {
	if err := codec.Wellformed(data); err != nil {
		return nil, fmt.Errorf("decoding CBOR: %w", err)
	}
	var value any
	if err := codec.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decoding CBOR: %w", err)
	}
	return value, nil
}

func (c CBOR) Fingerprint(value any) (string, error) {
	return encodedFingerprint(c, value)
}

// YAML is the codec for .yaml and .yml items. Mappings are emitted
// with sorted keys, so the encoding of a decoded value is stable.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

func (YAML) Encode(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buffer.Bytes(), nil
}

func (YAML) Decode(data []byte) (any, error) {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}
	return value, nil
}

func (y YAML) Fingerprint(value any) (string, error) {
	return encodedFingerprint(y, value)
}
