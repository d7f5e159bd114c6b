// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package containerstore

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a blob is stored on disk. The numeric
// values are persisted in catalog records.
type Compression uint8

const (
	// CompressionNone stores archive bytes as they are.
	CompressionNone Compression = 0

	// CompressionLZ4 uses LZ4 block compression. Fast, moderate
	// ratio.
	CompressionLZ4 Compression = 1

	// CompressionZstd uses zstd at the default level. Better ratio
	// for the JSON and text that dominate most containers.
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4", or "zstd". The empty string
// selects zstd.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd", "":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, lz4, or zstd)", name)
	}
}

// errIncompressible signals that compression would not shrink the
// data; the blob is then stored uncompressed.
var errIncompressible = errors.New("data is incompressible")

// zstd encoders and decoders are safe for concurrent use and costly
// to build, so one of each is shared.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("containerstore: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("containerstore: zstd decoder initialization failed: " + err.Error())
	}
}

// compress returns data compressed with the preferred algorithm and
// the algorithm actually used, falling back to CompressionNone when
// compression does not help.
func compress(data []byte, preferred Compression) ([]byte, Compression, error) {
	var (
		compressed []byte
		err        error
	)
	switch preferred {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZstd:
		compressed, err = compressZstd(data)
	default:
		return nil, 0, fmt.Errorf("unsupported compression: %v", preferred)
	}
	if errors.Is(err, errIncompressible) {
		return data, CompressionNone, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return compressed, preferred, nil
}

// decompress reverses compress. size is the uncompressed length and is
// checked exactly.
func decompress(stored []byte, algorithm Compression, size int) ([]byte, error) {
	switch algorithm {
	case CompressionNone:
		if len(stored) != size {
			return nil, fmt.Errorf("stored blob is %d bytes, expected %d", len(stored), size)
		}
		return stored, nil
	case CompressionLZ4:
		return decompressLZ4(stored, size)
	case CompressionZstd:
		return decompressZstd(stored, size)
	default:
		return nil, fmt.Errorf("unsupported compression: %v", algorithm)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(compressed []byte, size int) ([]byte, error) {
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != size {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
	}
	return destination, nil
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, size int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != size {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
	}
	return result, nil
}

// MarshalJSON renders the algorithm name.
func (c Compression) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}
