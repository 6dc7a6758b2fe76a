package catalog

import (
	"encoding/binary"
	"math"
)

// Key names for a collection's scalar metadata (spec §6 "KV catalog
// keys"). All multi-byte values are little-endian.
const (
	KeyCurrentVersion      = "m:current_version"
	KeyLastIndexedVersion  = "m:last_indexed_version"
	KeyCountIndexed        = "m:count_indexed"
	KeyCountUnindexed      = "m:count_unindexed"
	KeyValuesRange         = "m:values_range"
	KeyValuesUpperBound    = "m:values_upper_bound"
	KeyAverageDocLength    = "m:average_document_length"
	KeyHighestInternalID   = "m:highest_internal_id"
)

// EmbeddingKeyPrefix prefixes a caller-assigned vector id to form the
// "e:<vector_id_bytes>" embedding-offset key.
const EmbeddingKeyPrefix = "e:"

// EmbeddingKey builds the "e:<vector_id_bytes>" key for id.
func EmbeddingKey(id uint64) []byte {
	buf := make([]byte, len(EmbeddingKeyPrefix)+8)
	copy(buf, EmbeddingKeyPrefix)
	binary.LittleEndian.PutUint64(buf[len(EmbeddingKeyPrefix):], id)
	return buf
}

// EmbeddingOffset is the value stored under an EmbeddingKey: the byte
// offset of the vector's prop record and the version it was written in.
type EmbeddingOffset struct {
	Offset  uint32
	Version uint32
}

// Encode serializes an EmbeddingOffset as two little-endian u32s.
func (e EmbeddingOffset) Encode() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], e.Offset)
	binary.LittleEndian.PutUint32(buf[4:8], e.Version)
	return buf
}

// DecodeEmbeddingOffset parses the layout written by Encode.
func DecodeEmbeddingOffset(data []byte) (EmbeddingOffset, bool) {
	if len(data) < 8 {
		return EmbeddingOffset{}, false
	}
	return EmbeddingOffset{
		Offset:  binary.LittleEndian.Uint32(data[0:4]),
		Version: binary.LittleEndian.Uint32(data[4:8]),
	}, true
}

// BranchParentKey builds the "b:<branch>:p:" key followed by version
// as 4 little-endian bytes; it records the parent of version on branch
// (spec §4.3:
// "persists the parent pointer to the KV catalog").
func BranchParentKey(branch string, version uint32) []byte {
	buf := make([]byte, 0, len(branch)+24)
	buf = append(buf, 'b', ':')
	buf = append(buf, branch...)
	buf = append(buf, ':', 'p', ':')
	buf = binary.LittleEndian.AppendUint32(buf, version)
	return buf
}

// BranchTipKey builds the "b:<branch>:tip" key recording a branch's
// current version (distinct from the collection-wide current_version
// key so multi-branch collections can track each branch independently).
func BranchTipKey(branch string) []byte {
	return append([]byte("b:"+branch+":"), "tip"...)
}

// PutU32 encodes v as little-endian for storage under a scalar key.
func PutU32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

// GetU32 decodes a little-endian u32, returning ok=false if data is
// too short (the key has never been written).
func GetU32(data []byte) (uint32, bool) {
	if len(data) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data), true
}

// PutF32 encodes v as little-endian for storage under a scalar key.
func PutF32(v float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}

// GetF32 decodes a little-endian f32, returning ok=false if data is
// too short.
func GetF32(data []byte) (float32, bool) {
	if len(data) < 4 {
		return 0, false
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(data)), true
}

// PutF32Pair encodes two little-endian f32s back to back, used for
// KeyValuesRange's (min, max) pair.
func PutF32Pair(a, b float32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(a))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(b))
	return buf
}

// GetF32Pair decodes two little-endian f32s, returning ok=false if
// data is too short.
func GetF32Pair(data []byte) (a, b float32, ok bool) {
	if len(data) < 8 {
		return 0, 0, false
	}
	a = math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
	b = math.Float32frombits(binary.LittleEndian.Uint32(data[4:8]))
	return a, b, true
}
