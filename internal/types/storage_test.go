package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_UnsignedByte_EncodeDecode_RoundTrips(t *testing.T) {
	s := &Storage{Kind: StorageUnsignedByte, MagU32: 12345, QuantVec: []byte{1, 2, 3, 255}}

	decoded, err := DecodeStorage(s.Encode())

	require.NoError(t, err)
	assert.Equal(t, s.Kind, decoded.Kind)
	assert.Equal(t, s.MagU32, decoded.MagU32)
	assert.Equal(t, s.QuantVec, decoded.QuantVec)
}

func TestStorage_SubByte_EncodeDecode_RoundTrips(t *testing.T) {
	s := &Storage{
		Kind:       StorageSubByte,
		Resolution: 4,
		MagF32:     1.5,
		SubVec:     [][]byte{{0xFF}, {0x0F}, {0xAA}, {0x00}},
	}

	decoded, err := DecodeStorage(s.Encode())

	require.NoError(t, err)
	assert.Equal(t, s.Resolution, decoded.Resolution)
	assert.InDelta(t, s.MagF32, decoded.MagF32, 1e-6)
	assert.Equal(t, s.SubVec, decoded.SubVec)
}

func TestStorage_HalfPrecisionFP_EncodeDecode_RoundTrips(t *testing.T) {
	s := &Storage{Kind: StorageHalfPrecisionFP, MagF32: 3.0, HalfVec: []float32{1.5, -2.25, 0, 100}}

	decoded, err := DecodeStorage(s.Encode())

	require.NoError(t, err)
	require.Len(t, decoded.HalfVec, 4)
	for i, v := range s.HalfVec {
		assert.InDelta(t, v, decoded.HalfVec[i], 0.01)
	}
}

func TestStorage_FullPrecisionFP_EncodeDecode_RoundTrips(t *testing.T) {
	s := &Storage{Kind: StorageFullPrecisionFP, MagF32: 9.0, FullVec: []float32{1.23456, -9.87654, 0}}

	decoded, err := DecodeStorage(s.Encode())

	require.NoError(t, err)
	assert.Equal(t, s.FullVec, decoded.FullVec)
}

func TestDecodeStorage_EmptyData_ReturnsError(t *testing.T) {
	_, err := DecodeStorage(nil)
	require.Error(t, err)
}

func TestDecodeStorage_TruncatedPayload_ReturnsError(t *testing.T) {
	s := &Storage{Kind: StorageUnsignedByte, MagU32: 1, QuantVec: []byte{1, 2, 3}}
	encoded := s.Encode()

	_, err := DecodeStorage(encoded[:len(encoded)-2])

	require.Error(t, err)
}

func TestDecodeStorage_InvalidVariant_ReturnsError(t *testing.T) {
	_, err := DecodeStorage([]byte{99, 0, 0, 0, 0})
	require.Error(t, err)
}

func TestStorageKind_String(t *testing.T) {
	tests := []struct {
		kind StorageKind
		want string
	}{
		{StorageUnsignedByte, "UnsignedByte"},
		{StorageSubByte, "SubByte"},
		{StorageHalfPrecisionFP, "HalfPrecisionFP"},
		{StorageFullPrecisionFP, "FullPrecisionFP"},
		{StorageKind(200), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestFloat16RoundTrip_PreservesCommonValues(t *testing.T) {
	values := []float32{0, 1, -1, 0.5, -0.5, 3.14159, -100.25, 65504, -65504}
	for _, v := range values {
		got := Float16ToFloat32(Float32ToFloat16(v))
		tol := float32(0.001)
		if v != 0 {
			tol = absf32(v) * 0.001 // half precision has ~3 significant decimal digits
			if tol < 0.001 {
				tol = 0.001
			}
		}
		assert.InDelta(t, v, got, float64(tol), "value %v", v)
	}
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestFloat32ToFloat16_FlushesSubnormalsToZero(t *testing.T) {
	tiny := float32(1e-10)
	got := Float16ToFloat32(Float32ToFloat16(tiny))
	assert.Equal(t, float32(0), got)
}
