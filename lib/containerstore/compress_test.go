// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package containerstore

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte(`{"gain": 2.5, "channel": "A"}`+"\n"), 200)
	for _, preferred := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(preferred.String(), func(t *testing.T) {
			stored, used, err := compress(data, preferred)
			if err != nil {
				t.Fatalf("compress: %v", err)
			}
			if used != preferred {
				t.Errorf("algorithm = %v, want %v", used, preferred)
			}
			if preferred != CompressionNone && len(stored) >= len(data) {
				t.Errorf("compressed size %d not smaller than %d", len(stored), len(data))
			}
			restored, err := decompress(stored, used, len(data))
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if !bytes.Equal(restored, data) {
				t.Error("round trip changed the data")
			}
		})
	}
}

func TestIncompressibleFallsBackToNone(t *testing.T) {
	data := make([]byte, 4096)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}
	for _, preferred := range []Compression{CompressionLZ4, CompressionZstd} {
		stored, used, err := compress(data, preferred)
		if err != nil {
			t.Fatalf("compress(%v): %v", preferred, err)
		}
		if used != CompressionNone || !bytes.Equal(stored, data) {
			t.Errorf("compress(%v) of random data used %v, want none", preferred, used)
		}
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	if _, err := decompress([]byte("abc"), CompressionNone, 4); err == nil {
		t.Error("size mismatch accepted")
	}
	stored, _, _ := compress(bytes.Repeat([]byte("a"), 1000), CompressionZstd)
	if _, err := decompress(stored, CompressionZstd, 999); err == nil {
		t.Error("zstd size mismatch accepted")
	}
}

func TestParseCompression(t *testing.T) {
	tests := map[string]Compression{
		"":     CompressionZstd,
		"zstd": CompressionZstd,
		"lz4":  CompressionLZ4,
		"none": CompressionNone,
	}
	for input, want := range tests {
		got, err := ParseCompression(input)
		if err != nil || got != want {
			t.Errorf("ParseCompression(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("ParseCompression(gzip) succeeded")
	}
}

func TestChecksumIsKeyed(t *testing.T) {
	first := checksumOf([]byte("archive"))
	if first != checksumOf([]byte("archive")) {
		t.Error("checksum is not deterministic")
	}
	if first == checksumOf([]byte("archivf")) {
		t.Error("different data produced the same checksum")
	}
	if len(first.String()) != 64 {
		t.Errorf("String() length = %d, want 64", len(first.String()))
	}
}
