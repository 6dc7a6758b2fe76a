package types

import (
	"encoding/binary"
	"math"

	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
)

// StorageKind is the on-disk discriminator for a quantized embedding's
// representation. Values match the reference layout exactly (spec §4.5,
// §9 "Multi-variant storage"): a 1-byte tag precedes the payload.
type StorageKind uint8

const (
	StorageUnsignedByte    StorageKind = 0
	StorageSubByte         StorageKind = 1
	StorageHalfPrecisionFP StorageKind = 2
	StorageFullPrecisionFP StorageKind = 3
)

// String implements fmt.Stringer for log fields.
func (k StorageKind) String() string {
	switch k {
	case StorageUnsignedByte:
		return "UnsignedByte"
	case StorageSubByte:
		return "SubByte"
	case StorageHalfPrecisionFP:
		return "HalfPrecisionFP"
	case StorageFullPrecisionFP:
		return "FullPrecisionFP"
	default:
		return "Unknown"
	}
}

// Storage is the tagged-union quantized embedding. Only the fields
// relevant to Kind are populated; quantizers in internal/quant produce
// these, distance kernels dispatch on Kind once per query.
type Storage struct {
	Kind StorageKind

	// MagU32 is the precomputed magnitude for UnsignedByte storage (an
	// integer sum-of-squares, matching the reference's u32 field).
	MagU32 uint32
	// MagF32 is the precomputed magnitude for SubByte/Half/Full storage.
	MagF32 float32

	// QuantVec holds one byte per dimension for UnsignedByte.
	QuantVec []byte
	// SubVec holds Resolution inner byte slices for SubByte, each one
	// bit-plane of the packed representation.
	SubVec     [][]byte
	Resolution uint8
	// HalfVec holds one float32 per dimension for HalfPrecisionFP,
	// stored on disk as IEEE-754 binary16.
	HalfVec []float32
	// FullVec holds one float32 per dimension for FullPrecisionFP.
	FullVec []float32
}

// Encode serializes s in the reference on-disk layout: 1-byte tag,
// then a variant-specific payload, all integers little-endian.
func (s *Storage) Encode() []byte {
	switch s.Kind {
	case StorageUnsignedByte:
		buf := make([]byte, 0, 1+4+4+len(s.QuantVec))
		buf = append(buf, byte(StorageUnsignedByte))
		buf = binary.LittleEndian.AppendUint32(buf, s.MagU32)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.QuantVec)))
		buf = append(buf, s.QuantVec...)
		return buf
	case StorageSubByte:
		buf := make([]byte, 0, 64)
		buf = append(buf, byte(StorageSubByte))
		buf = append(buf, s.Resolution)
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(s.MagF32))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.SubVec)))
		for _, plane := range s.SubVec {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(plane)))
			buf = append(buf, plane...)
		}
		return buf
	case StorageHalfPrecisionFP:
		buf := make([]byte, 0, 1+4+4+len(s.HalfVec)*2)
		buf = append(buf, byte(StorageHalfPrecisionFP))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(s.MagF32))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.HalfVec)))
		for _, v := range s.HalfVec {
			buf = binary.LittleEndian.AppendUint16(buf, Float32ToFloat16(v))
		}
		return buf
	case StorageFullPrecisionFP:
		buf := make([]byte, 0, 1+4+4+len(s.FullVec)*4)
		buf = append(buf, byte(StorageFullPrecisionFP))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(s.MagF32))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.FullVec)))
		for _, v := range s.FullVec {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
		return buf
	default:
		return nil
	}
}

// DecodeStorage parses the layout written by Encode.
func DecodeStorage(data []byte) (*Storage, error) {
	if len(data) < 1 {
		return nil, coreerrors.DeserializationError("empty storage record", nil)
	}
	kind := StorageKind(data[0])
	rest := data[1:]

	readU32 := func() (uint32, error) {
		if len(rest) < 4 {
			return 0, coreerrors.DeserializationError("truncated storage record", nil)
		}
		v := binary.LittleEndian.Uint32(rest)
		rest = rest[4:]
		return v, nil
	}

	switch kind {
	case StorageUnsignedByte:
		mag, err := readU32()
		if err != nil {
			return nil, err
		}
		n, err := readU32()
		if err != nil {
			return nil, err
		}
		if uint32(len(rest)) < n {
			return nil, coreerrors.DeserializationError("truncated UnsignedByte payload", nil)
		}
		vec := append([]byte(nil), rest[:n]...)
		return &Storage{Kind: kind, MagU32: mag, QuantVec: vec}, nil
	case StorageSubByte:
		if len(rest) < 1 {
			return nil, coreerrors.DeserializationError("truncated SubByte header", nil)
		}
		resolution := rest[0]
		rest = rest[1:]
		magBits, err := readU32()
		if err != nil {
			return nil, err
		}
		n, err := readU32()
		if err != nil {
			return nil, err
		}
		planes := make([][]byte, 0, n)
		for i := uint32(0); i < n; i++ {
			planeLen, err := readU32()
			if err != nil {
				return nil, err
			}
			if uint32(len(rest)) < planeLen {
				return nil, coreerrors.DeserializationError("truncated SubByte plane", nil)
			}
			planes = append(planes, append([]byte(nil), rest[:planeLen]...))
			rest = rest[planeLen:]
		}
		return &Storage{Kind: kind, Resolution: resolution, MagF32: math.Float32frombits(magBits), SubVec: planes}, nil
	case StorageHalfPrecisionFP:
		magBits, err := readU32()
		if err != nil {
			return nil, err
		}
		n, err := readU32()
		if err != nil {
			return nil, err
		}
		vec := make([]float32, 0, n)
		for i := uint32(0); i < n; i++ {
			if len(rest) < 2 {
				return nil, coreerrors.DeserializationError("truncated HalfPrecisionFP payload", nil)
			}
			bits := binary.LittleEndian.Uint16(rest)
			rest = rest[2:]
			vec = append(vec, Float16ToFloat32(bits))
		}
		return &Storage{Kind: kind, MagF32: math.Float32frombits(magBits), HalfVec: vec}, nil
	case StorageFullPrecisionFP:
		magBits, err := readU32()
		if err != nil {
			return nil, err
		}
		n, err := readU32()
		if err != nil {
			return nil, err
		}
		vec := make([]float32, 0, n)
		for i := uint32(0); i < n; i++ {
			bits, err := readU32()
			if err != nil {
				return nil, err
			}
			vec = append(vec, math.Float32frombits(bits))
		}
		return &Storage{Kind: kind, MagF32: math.Float32frombits(magBits), FullVec: vec}, nil
	default:
		return nil, coreerrors.DeserializationError("invalid storage variant", nil).WithDetail("kind", kind.String())
	}
}

// Float32ToFloat16 converts to IEEE-754 binary16 bits, round-to-nearest-even.
func Float32ToFloat16(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xFF) - 127 + 15
	mant := bits & 0x7FFFFF

	switch {
	case exp <= 0:
		if exp < -10 {
			return sign
		}
		mant |= 0x800000
		shift := uint32(14 - exp)
		h := mant >> shift
		rem := mant & (1<<shift - 1)
		half := uint32(1) << (shift - 1)
		if rem > half || (rem == half && h&1 == 1) {
			h++
		}
		return sign | uint16(h)
	case exp >= 0x1F:
		if (bits>>23)&0xFF == 0xFF {
			if mant != 0 {
				return sign | 0x7E00
			}
			return sign | 0x7C00
		}
		return sign | 0x7C00
	default:
		h := uint32(exp)<<10 | mant>>13
		rem := mant & 0x1FFF
		if rem > 0x1000 || (rem == 0x1000 && h&1 == 1) {
			h++
		}
		return sign | uint16(h)
	}
}

// Float16ToFloat32 converts IEEE-754 binary16 bits back to float32.
func Float16ToFloat32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1F
	mant := uint32(h & 0x3FF)

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		exp++
		mant &= 0x3FF
	case 0x1F:
		if mant == 0 {
			return math.Float32frombits(sign | 0x7F800000)
		}
		return math.Float32frombits(sign | 0x7F800000 | mant<<13)
	}

	exp32 := exp - 15 + 127
	return math.Float32frombits(sign | exp32<<23 | mant<<13)
}
