package tfidf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDF_ZeroTotalDocsReturnsZero(t *testing.T) {
	assert.Equal(t, float32(0), IDF(0, 0))
}

func TestIDF_RareTermScoresHigherThanCommonTerm(t *testing.T) {
	rare := IDF(100, 1)
	common := IDF(100, 90)
	assert.Greater(t, rare, common)
}

func TestScoreSimplified_ScalesWithTF(t *testing.T) {
	low := ScoreSimplified(1.0, 1, 8)
	high := ScoreSimplified(1.0, 10, 8)
	assert.Greater(t, high, low)
}

func TestScoreStandard_PenalizesLongerDocuments(t *testing.T) {
	short := ScoreStandard(1.0, 2, 10, 20, 1.2, 0.75)
	long := ScoreStandard(1.0, 2, 100, 20, 1.2, 0.75)
	assert.Greater(t, short, long)
}

func TestScoreStandard_SaturatesWithHighTF(t *testing.T) {
	low := ScoreStandard(1.0, 1, 20, 20, 1.2, 0.75)
	high := ScoreStandard(1.0, 1000, 20, 20, 1.2, 0.75)
	assert.Less(t, high-low, float32(3.0))
}
