package types

import "sync/atomic"

// SampleThresholds are the signed value buckets a transaction's
// sampling pass tallies occurrences into before calibration picks
// quantization bounds (spec §4.6 "Sampling", §9 "Sampling thresholds":
// "ten thresholds at ±0.1...±0.5 and ±1.0", "thresholds 1...9, with 10
// as overflow bucket" — resolved in DESIGN.md as the ten signed values
// below, where ±0.5 is the outermost explicit bucket and its tail mass
// also bounds anything beyond it, up to and including ±1.0).
var SampleThresholds = [10]float32{-0.5, -0.4, -0.3, -0.2, -0.1, 0.1, 0.2, 0.3, 0.4, 0.5}

// SamplingState tallies how many sampled values fall at or beyond each
// threshold in SampleThresholds, and how many samples were taken in
// total. Counters are atomic so concurrent inserters can update them
// without a shared lock (spec §4.6: sampling runs inline with insert,
// not as a separate pass).
type SamplingState struct {
	Counts    [10]atomic.Uint64
	Total     atomic.Uint64
	Configured atomic.Bool
}

// NewSamplingState returns a zeroed, unconfigured sampling state.
func NewSamplingState() *SamplingState {
	return &SamplingState{}
}

// Record tallies value against every threshold it meets or exceeds in
// magnitude and direction, and increments Total.
func (s *SamplingState) Record(value float32) {
	s.Total.Add(1)
	for i, t := range SampleThresholds {
		if (t < 0 && value <= t) || (t > 0 && value >= t) {
			s.Counts[i].Add(1)
		}
	}
}

// Snapshot returns the current counts and total as plain values,
// safe to read while other goroutines continue calling Record.
func (s *SamplingState) Snapshot() (counts [10]uint64, total uint64) {
	for i := range s.Counts {
		counts[i] = s.Counts[i].Load()
	}
	total = s.Total.Load()
	return counts, total
}

// MarkConfigured records that calibration has consumed this sampling
// pass and derived quantization bounds from it. Idempotent: returns
// true only the first time it transitions false -> true, so exactly
// one caller performs calibration.
func (s *SamplingState) MarkConfigured() bool {
	return s.Configured.CompareAndSwap(false, true)
}

// IsConfigured reports whether calibration has already run.
func (s *SamplingState) IsConfigured() bool {
	return s.Configured.Load()
}
