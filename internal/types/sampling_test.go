package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSamplingState_Record_IncrementsMatchingThresholds(t *testing.T) {
	s := NewSamplingState()

	s.Record(0.35)

	counts, total := s.Snapshot()
	assert.Equal(t, uint64(1), total)
	// 0.35 >= 0.1, 0.2, 0.3 but not 0.4, 0.5
	for i, th := range SampleThresholds {
		if th > 0 && th <= 0.3 {
			assert.Equal(t, uint64(1), counts[i], "threshold %v", th)
		} else {
			assert.Equal(t, uint64(0), counts[i], "threshold %v", th)
		}
	}
}

func TestSamplingState_Record_NegativeValueTalliesNegativeThresholds(t *testing.T) {
	s := NewSamplingState()

	s.Record(-0.6)

	counts, _ := s.Snapshot()
	for i, th := range SampleThresholds {
		if th < 0 {
			assert.Equal(t, uint64(1), counts[i], "threshold %v", th)
		} else {
			assert.Equal(t, uint64(0), counts[i], "threshold %v", th)
		}
	}
}

func TestSamplingState_MarkConfigured_OnlyFirstCallerSucceeds(t *testing.T) {
	s := NewSamplingState()

	first := s.MarkConfigured()
	second := s.MarkConfigured()

	assert.True(t, first)
	assert.False(t, second)
	assert.True(t, s.IsConfigured())
}

func TestSamplingState_IsConfigured_DefaultsFalse(t *testing.T) {
	s := NewSamplingState()
	assert.False(t, s.IsConfigured())
}
