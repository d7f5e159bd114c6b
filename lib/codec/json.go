// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// jsonIndent is the indentation used for canonical JSON.
const jsonIndent = "    "

// MarshalJSON encodes v as canonical JSON: object keys sorted, four
// space indentation, HTML characters left unescaped, no trailing
// newline. Maps with string keys are sorted by encoding/json itself;
// structs keep their declaration order, so values that must hash
// identically regardless of origin should be normalized with
// [NormalizeJSON] first.
func MarshalJSON(v any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", jsonIndent)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a single JSON value into the generic JSON
// model: map[string]any, []any, string, bool, nil, and json.Number.
// Trailing data after the value is an error.
func UnmarshalJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}
	return value, nil
}

// NormalizeJSON converts an arbitrary Go value into the generic JSON
// model by encoding and decoding it. Structs become maps, typed slices
// become []any, and numbers become json.Number.
func NormalizeJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return UnmarshalJSON(data)
}
