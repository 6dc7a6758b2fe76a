package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLevelTable_EndsAtOne(t *testing.T) {
	table := BuildLevelTable(5, 4.0)
	assert.InDelta(t, 1.0, table[len(table)-1], 1e-9)
}

func TestBuildLevelTable_MonotonicallyIncreasing(t *testing.T) {
	table := BuildLevelTable(5, 4.0)
	for i := 1; i < len(table); i++ {
		assert.Greater(t, table[i], table[i-1])
	}
}

func TestLevelTable_Sample_ZeroAlwaysLevelZero(t *testing.T) {
	table := BuildLevelTable(5, 4.0)
	assert.Equal(t, 0, table.Sample(0))
}

func TestLevelTable_Sample_NearOneIsTopLevel(t *testing.T) {
	table := BuildLevelTable(5, 4.0)
	assert.Equal(t, 5, table.Sample(0.9999999))
}

func TestBuildLevelTable_InvalidFactorFallsBackToDefault(t *testing.T) {
	withDefault := BuildLevelTable(3, 4.0)
	withInvalid := BuildLevelTable(3, 0.5)
	assert.Equal(t, withDefault, withInvalid)
}
