package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricResult_EncodeDecode_RoundTrips(t *testing.T) {
	m := MetricResult{Kind: MetricEuclideanDistance, Value: 3.5}

	decoded, err := DecodeMetricResult(m.Encode())

	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestMetricResult_HigherIsBetter(t *testing.T) {
	tests := []struct {
		kind MetricKind
		want bool
	}{
		{MetricCosineSimilarity, true},
		{MetricCosineDistance, false},
		{MetricEuclideanDistance, false},
		{MetricHammingDistance, false},
		{MetricDotProductDistance, false},
	}
	for _, tt := range tests {
		got := MetricResult{Kind: tt.kind}.HigherIsBetter()
		assert.Equal(t, tt.want, got, "kind %v", tt.kind)
	}
}

func TestMetricResult_Compare_SimilarityRanksLargerValueFirst(t *testing.T) {
	better := MetricResult{Kind: MetricCosineSimilarity, Value: 0.9}
	worse := MetricResult{Kind: MetricCosineSimilarity, Value: 0.1}

	assert.True(t, better.Compare(worse))
	assert.False(t, worse.Compare(better))
}

func TestMetricResult_Compare_DistanceRanksSmallerValueFirst(t *testing.T) {
	better := MetricResult{Kind: MetricEuclideanDistance, Value: 0.1}
	worse := MetricResult{Kind: MetricEuclideanDistance, Value: 9.0}

	assert.True(t, better.Compare(worse))
	assert.False(t, worse.Compare(better))
}

func TestDecodeMetricResult_TruncatedData_ReturnsError(t *testing.T) {
	_, err := DecodeMetricResult([]byte{0, 1, 2})
	require.Error(t, err)
}

func TestDecodeMetricResult_InvalidTag_ReturnsError(t *testing.T) {
	_, err := DecodeMetricResult([]byte{99, 0, 0, 0, 0})
	require.Error(t, err)
}
