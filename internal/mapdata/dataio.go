// Package mapdata implements the static map tables of the game world:
// the tile extent and obstacle layer, the region map with its three
// back ends, the safe-zone layer and the per-tile container types used
// on top of them. All of the data is immutable once constructed and
// shared freely; construction failures indicate corrupt baked data and
// abort the boot.
package mapdata

import (
	"fmt"
	"io"
)

// BytesPerID is the encoded size of one region ID in the baked blobs.
const BytesPerID = 3

// ReadUint16 reads a little-endian uint16.
func ReadUint16(r io.ByteReader) (uint16, error) {
	lo, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	hi, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// ReadInt16 reads a little-endian int16.
func ReadInt16(r io.ByteReader) (int16, error) {
	v, err := ReadUint16(r)
	return int16(v), err
}

// ReadUint32 reads a little-endian uint32.
func ReadUint32(r io.ByteReader) (uint32, error) {
	lo, err := ReadUint16(r)
	if err != nil {
		return 0, err
	}
	hi, err := ReadUint16(r)
	if err != nil {
		return 0, err
	}
	return uint32(lo) | uint32(hi)<<16, nil
}

// ReadInt32 reads a little-endian int32.
func ReadInt32(r io.ByteReader) (int32, error) {
	v, err := ReadUint32(r)
	return int32(v), err
}

// AppendUint16 appends a little-endian uint16.
func AppendUint16(dst []byte, v uint16) []byte {
	return append(dst, byte(v), byte(v>>8))
}

// AppendID24 appends a region ID in the 24-bit little-endian encoding.
// IDs that do not fit 24 bits are a hard error: the baked format cannot
// represent them.
func AppendID24(dst []byte, id RegionID) ([]byte, error) {
	if id>>24 != 0 {
		return nil, fmt.Errorf("region ID %d does not fit 24 bits", id)
	}
	return append(dst, byte(id), byte(id>>8), byte(id>>16)), nil
}

// ID24 decodes a region ID from its 24-bit little-endian encoding.
func ID24(b []byte) RegionID {
	_ = b[2]
	return RegionID(b[0]) | RegionID(b[1])<<8 | RegionID(b[2])<<16
}
