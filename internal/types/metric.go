package types

import (
	"encoding/binary"
	"math"

	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
)

// MetricKind selects the distance function used by a search (spec §4.5).
type MetricKind uint8

const (
	MetricCosineSimilarity MetricKind = 0
	MetricCosineDistance   MetricKind = 1
	MetricEuclideanDistance MetricKind = 2
	MetricHammingDistance  MetricKind = 3
	MetricDotProductDistance MetricKind = 4
)

// MetricResult is the tagged union produced by a distance kernel. Ordering
// always follows "higher similarity first" (spec §4.5): HigherIsBetter
// reports whether a larger Value ranks first for this Kind, and Compare
// implements that convention directly so callers never branch on Kind.
type MetricResult struct {
	Kind  MetricKind
	Value float32
}

// HigherIsBetter reports whether a larger Value is a better match.
// Similarities rank higher-is-better; distances are inherently
// lower-is-better, so callers negate them internally at compare sites
// (spec §4.5) — Compare below does exactly that.
func (m MetricResult) HigherIsBetter() bool {
	switch m.Kind {
	case MetricCosineSimilarity:
		return true
	default:
		return false
	}
}

// rank returns a value where "larger is always better", regardless of Kind.
func (m MetricResult) rank() float32 {
	if m.HigherIsBetter() {
		return m.Value
	}
	return -m.Value
}

// Compare returns true if m ranks ahead of other ("m should come first").
func (m MetricResult) Compare(other MetricResult) bool {
	return m.rank() > other.rank()
}

// Encode serializes m as a 1-byte tag plus a little-endian float32,
// matching the reference's 5-byte MetricResult record exactly.
func (m MetricResult) Encode() []byte {
	buf := make([]byte, 5)
	buf[0] = byte(m.Kind)
	binary.LittleEndian.PutUint32(buf[1:], math.Float32bits(m.Value))
	return buf
}

// DecodeMetricResult parses the layout written by Encode.
func DecodeMetricResult(data []byte) (MetricResult, error) {
	if len(data) < 5 {
		return MetricResult{}, coreerrors.DeserializationError("truncated MetricResult record", nil)
	}
	kind := MetricKind(data[0])
	if kind > MetricDotProductDistance {
		return MetricResult{}, coreerrors.DeserializationError("invalid MetricResult variant", nil)
	}
	value := math.Float32frombits(binary.LittleEndian.Uint32(data[1:5]))
	return MetricResult{Kind: kind, Value: value}, nil
}
