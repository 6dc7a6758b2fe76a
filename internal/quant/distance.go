package quant

import (
	"math"
	"math/bits"

	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

// Distance computes the MetricResult between two raw float32 vectors
// under kind (spec §4.5 "Distance metrics"). Callers holding Storage
// values dequantize first; re-ranking always recomputes against raw
// vectors, never quantized ones.
func Distance(a, b []float32, kind types.MetricKind) (types.MetricResult, error) {
	switch kind {
	case types.MetricCosineSimilarity:
		return types.MetricResult{Kind: kind, Value: cosineSimilarity(a, b)}, nil
	case types.MetricCosineDistance:
		return types.MetricResult{Kind: kind, Value: 1 - cosineSimilarity(a, b)}, nil
	case types.MetricEuclideanDistance:
		return types.MetricResult{Kind: kind, Value: euclideanDistance(a, b)}, nil
	case types.MetricHammingDistance:
		return types.MetricResult{Kind: kind, Value: hammingDistance(a, b)}, nil
	case types.MetricDotProductDistance:
		return types.MetricResult{Kind: kind, Value: -dotProduct(a, b)}, nil
	default:
		return types.MetricResult{}, coreerrors.InvalidParams("unknown metric kind", nil)
	}
}

func dotProduct(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(a []float32) float32 {
	return float32(math.Sqrt(float64(magnitudeSquared(a))))
}

func cosineSimilarity(a, b []float32) float32 {
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return dotProduct(a, b) / (na * nb)
}

func euclideanDistance(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return float32(math.Sqrt(float64(sum)))
}

// hammingDistance counts differing sign bits between the two vectors,
// treating each component as a binary feature (value > 0). Used for
// binary/hashed embeddings rather than dense float vectors.
func hammingDistance(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var diff int
	for i := 0; i < n; i++ {
		if (a[i] > 0) != (b[i] > 0) {
			diff++
		}
	}
	return float32(diff)
}

// HammingDistanceBytes counts differing bits between two equal-length
// byte slices, the packed-bit fast path used when comparing SubByte or
// UnsignedByte storage directly without dequantizing.
func HammingDistanceBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	diff := 0
	for i := 0; i < n; i++ {
		diff += bits.OnesCount8(a[i] ^ b[i])
	}
	return diff
}
