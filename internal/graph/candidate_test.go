package graph

import (
	"testing"

	"github.com/Aman-CERP/vectorcore/internal/types"
	"github.com/stretchr/testify/assert"
)

func simResult(v float32) types.MetricResult {
	return types.MetricResult{Kind: types.MetricCosineSimilarity, Value: v}
}

func TestCandidateSet_Insert_KeepsBestFirstOrder(t *testing.T) {
	cs := NewCandidateSet(3)
	cs.Insert(Candidate{Offset: 1, Result: simResult(0.5)})
	cs.Insert(Candidate{Offset: 2, Result: simResult(0.9)})
	cs.Insert(Candidate{Offset: 3, Result: simResult(0.2)})

	items := cs.Items()
	assert.Equal(t, types.FileOffset(2), items[0].Offset)
	assert.Equal(t, types.FileOffset(1), items[1].Offset)
	assert.Equal(t, types.FileOffset(3), items[2].Offset)
}

func TestCandidateSet_Insert_EvictsWorstPastCapacity(t *testing.T) {
	cs := NewCandidateSet(2)
	cs.Insert(Candidate{Offset: 1, Result: simResult(0.5)})
	cs.Insert(Candidate{Offset: 2, Result: simResult(0.9)})
	kept := cs.Insert(Candidate{Offset: 3, Result: simResult(0.1)})

	assert.False(t, kept)
	assert.Equal(t, 2, cs.Len())
	items := cs.Items()
	assert.Equal(t, types.FileOffset(2), items[0].Offset)
	assert.Equal(t, types.FileOffset(1), items[1].Offset)
}

func TestCandidateSet_Worst_ReportsLowestRanked(t *testing.T) {
	cs := NewCandidateSet(5)
	cs.Insert(Candidate{Offset: 1, Result: simResult(0.5)})
	cs.Insert(Candidate{Offset: 2, Result: simResult(0.9)})

	worst, ok := cs.Worst()
	assert.True(t, ok)
	assert.Equal(t, types.FileOffset(1), worst.Offset)
}

func TestCandidateSet_Worst_EmptySetReturnsFalse(t *testing.T) {
	cs := NewCandidateSet(5)
	_, ok := cs.Worst()
	assert.False(t, ok)
}

func TestCandidateSet_Seen_TracksInsertedOffsets(t *testing.T) {
	cs := NewCandidateSet(5)
	assert.False(t, cs.Seen(1))
	cs.Insert(Candidate{Offset: 1, Result: simResult(0.5)})
	assert.True(t, cs.Seen(1))
}
