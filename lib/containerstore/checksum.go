// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package containerstore

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Checksum is the BLAKE3 keyed hash of an uncompressed archive.
type Checksum [32]byte

func (c Checksum) String() string {
	return hex.EncodeToString(c[:])
}

// blobDomainKey keys the BLAKE3 hasher so that blob checksums cannot
// collide with BLAKE3 hashes computed for other purposes. The bytes
// are the ASCII domain name, zero-padded to 32.
var blobDomainKey = [32]byte{
	's', 'c', 'i', 'd', 'a', 't', 'a', 'c', 'o', 'n', 't', 'a', 'i', 'n', 'e', 'r',
	'.', 's', 't', 'o', 'r', 'e', '.', 'b', 'l', 'o', 'b', 0, 0, 0, 0, 0,
}

func checksumOf(data []byte) Checksum {
	hasher, err := blake3.NewKeyed(blobDomainKey[:])
	if err != nil {
		panic("containerstore: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var sum Checksum
	copy(sum[:], hasher.Sum(nil))
	return sum
}

// MarshalJSON renders the checksum as lowercase hex.
func (c Checksum) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}
