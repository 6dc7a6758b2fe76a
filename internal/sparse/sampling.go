package sparse

import "sync/atomic"

// candidateBounds are the ten values_upper_bound candidates considered
// during calibration (spec §3 "Sparse Index Node": "thresholds 1...9,
// with 10 as overflow bucket" — read here as magnitudes 0.1...1.0, with
// 10.0 the fallback when even 1.0 fails to clear the margin).
var candidateBounds = [10]float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

const overflowBound float32 = 10.0

// SamplingState tallies, for each candidate bound, how many sampled
// values were at or below it, so calibration can pick the tightest
// bound whose excess fraction clears the configured margin.
type SamplingState struct {
	counts     [10]atomic.Uint64
	total      atomic.Uint64
	configured atomic.Bool
}

// NewSamplingState returns a zeroed, unconfigured sampling state.
func NewSamplingState() *SamplingState { return &SamplingState{} }

// Record tallies value (assumed non-negative, a sparse vector weight)
// against every candidate bound it does not exceed.
func (s *SamplingState) Record(value float32) {
	s.total.Add(1)
	for i, bound := range candidateBounds {
		if value <= bound {
			s.counts[i].Add(1)
		}
	}
}

func (s *SamplingState) snapshot() (counts [10]uint64, total uint64) {
	for i := range s.counts {
		counts[i] = s.counts[i].Load()
	}
	return counts, s.total.Load()
}

// MarkConfigured transitions false->true exactly once; only its caller
// performs calibration.
func (s *SamplingState) MarkConfigured() bool {
	return s.configured.CompareAndSwap(false, true)
}

// Calibrate picks the tightest candidate bound whose fraction of
// exceeding samples is within clampMarginPercent, falling back to
// overflowBound when even the widest candidate (1.0) fails to clear
// the margin (spec boundary: "Calibration where all values exceed 1.0
// => values_upper_bound = 10.0").
func Calibrate(s *SamplingState, clampMarginPercent float32) float32 {
	counts, total := s.snapshot()
	if total == 0 {
		return candidateBounds[len(candidateBounds)-1]
	}
	marginFrac := float64(clampMarginPercent) / 100.0
	for i, bound := range candidateBounds {
		exceeding := total - counts[i]
		if float64(exceeding)/float64(total) <= marginFrac {
			return bound
		}
	}
	return overflowBound
}
