package quant

import (
	"math"

	bitset "github.com/bits-and-blooms/bitset"

	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

// Quantize maps vec into the storage representation selected by kind,
// mapping each component through vr (ignored for the float-preserving
// kinds) and, for SubByte, packing resolution bits per component
// (spec §4.5: "quantize(&[f32], storage_type, values_range) ->
// Storage").
func Quantize(vec []float32, kind types.StorageKind, vr ValuesRange, resolution uint8) (*types.Storage, error) {
	switch kind {
	case types.StorageUnsignedByte:
		return quantizeUnsignedByte(vec, vr), nil
	case types.StorageSubByte:
		return quantizeSubByte(vec, vr, resolution), nil
	case types.StorageHalfPrecisionFP:
		return quantizeHalf(vec), nil
	case types.StorageFullPrecisionFP:
		return quantizeFull(vec), nil
	default:
		return nil, coreerrors.InvalidParams("unknown storage kind for quantize", nil)
	}
}

// Dequantize reconstructs a float32 vector from s by reversing the
// mapping Quantize used for s.Kind. The float kinds come back exactly;
// UnsignedByte and SubByte come back within their quantization step
// (values outside vr come back clamped to it), and SubByte's length is
// rounded up to a multiple of 8.
func Dequantize(s *types.Storage, vr ValuesRange) ([]float32, error) {
	switch s.Kind {
	case types.StorageUnsignedByte:
		return dequantizeUnsignedByte(s, vr), nil
	case types.StorageSubByte:
		return dequantizeSubByte(s, vr), nil
	case types.StorageHalfPrecisionFP:
		return append([]float32(nil), s.HalfVec...), nil
	case types.StorageFullPrecisionFP:
		return append([]float32(nil), s.FullVec...), nil
	default:
		return nil, coreerrors.InvalidParams("unknown storage kind for dequantize", nil)
	}
}

func scaleToLevels(v float32, vr ValuesRange, levels float32) float32 {
	span := vr.Max - vr.Min
	if span == 0 {
		return 0
	}
	frac := clamp01((v - vr.Min) / span)
	return float32(math.Round(float64(frac * levels)))
}

func unscaleFromLevels(q float32, vr ValuesRange, levels float32) float32 {
	if levels == 0 {
		return vr.Min
	}
	return vr.Min + (q/levels)*(vr.Max-vr.Min)
}

func magnitudeSquared(vec []float32) float32 {
	var sum float32
	for _, v := range vec {
		sum += v * v
	}
	return sum
}

func quantizeUnsignedByte(vec []float32, vr ValuesRange) *types.Storage {
	quant := make([]byte, len(vec))
	var magU32 uint32
	for i, v := range vec {
		q := byte(scaleToLevels(v, vr, 255))
		quant[i] = q
		magU32 += uint32(q) * uint32(q)
	}
	return &types.Storage{Kind: types.StorageUnsignedByte, MagU32: magU32, QuantVec: quant}
}

func dequantizeUnsignedByte(s *types.Storage, vr ValuesRange) []float32 {
	out := make([]float32, len(s.QuantVec))
	for i, q := range s.QuantVec {
		out[i] = unscaleFromLevels(float32(q), vr, 255)
	}
	return out
}

// quantizeSubByte packs resolution bits per component into resolution
// bit-planes. A bitset.BitSet per plane is used to accumulate set bits
// during construction (spec §4.5 "SubByte (resolution in bits,
// packed)"); the durable plane format is a plain byte slice matching
// the on-disk layout in internal/types.Storage, so each plane is
// flattened to bytes once quantization completes.
func quantizeSubByte(vec []float32, vr ValuesRange, resolution uint8) *types.Storage {
	n := len(vec)
	levels := float32((uint32(1) << resolution) - 1)
	planes := make([]*bitset.BitSet, resolution)
	for b := range planes {
		planes[b] = bitset.New(uint(n))
	}

	for i, v := range vec {
		q := uint32(scaleToLevels(v, vr, levels))
		for b := uint8(0); b < resolution; b++ {
			if (q>>b)&1 == 1 {
				planes[b].Set(uint(i))
			}
		}
	}

	byteLen := (n + 7) / 8
	subVec := make([][]byte, resolution)
	for b, plane := range planes {
		packed := make([]byte, byteLen)
		for i := 0; i < n; i++ {
			if plane.Test(uint(i)) {
				packed[i/8] |= 1 << uint(i%8)
			}
		}
		subVec[b] = packed
	}

	return &types.Storage{
		Kind:       types.StorageSubByte,
		Resolution: resolution,
		MagF32:     magnitudeSquared(vec),
		SubVec:     subVec,
	}
}

func dequantizeSubByte(s *types.Storage, vr ValuesRange) []float32 {
	if len(s.SubVec) == 0 {
		return nil
	}
	byteLen := len(s.SubVec[0])
	n := byteLen * 8
	levels := float32((uint32(1) << s.Resolution) - 1)
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		var q uint32
		for b, plane := range s.SubVec {
			bit := (plane[i/8] >> uint(i%8)) & 1
			q |= uint32(bit) << uint(b)
		}
		out[i] = unscaleFromLevels(float32(q), vr, levels)
	}
	return out
}

func quantizeHalf(vec []float32) *types.Storage {
	return &types.Storage{Kind: types.StorageHalfPrecisionFP, MagF32: magnitudeSquared(vec), HalfVec: append([]float32(nil), vec...)}
}

func quantizeFull(vec []float32) *types.Storage {
	return &types.Storage{Kind: types.StorageFullPrecisionFP, MagF32: magnitudeSquared(vec), FullVec: append([]float32(nil), vec...)}
}
