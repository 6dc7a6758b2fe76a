package quant

import "github.com/Aman-CERP/vectorcore/internal/types"

// ValuesRange is the symmetric-or-asymmetric clamp window a Scalar,
// SubByte, or packed quantizer maps float values into before encoding
// (spec §4.5 "values_range pair").
type ValuesRange struct {
	Min float32
	Max float32
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Calibrate derives a ValuesRange from a sampling pass (spec §4.6:
// "the first threshold where the tail-mass percentage is
// <= clamp_margin_percent picks the values_range on each side").
// It scans SampleThresholds from the smallest magnitude outward on
// each side and returns the first (tightest) threshold whose
// tail mass clears the margin; if none do, it falls back to the
// outermost threshold on that side.
func Calibrate(s *types.SamplingState, clampMarginPercent float32) ValuesRange {
	counts, total := s.Snapshot()
	if total == 0 {
		return ValuesRange{Min: -1, Max: 1}
	}

	tailPct := func(i int) float32 { return float32(counts[i]) / float32(total) * 100 }

	negBound, posBound := float32(-1), float32(1)

	// Negative thresholds are listed from largest to smallest magnitude
	// (-0.5 ... -0.1); scan in reverse to try smallest magnitude first.
	for i := len(types.SampleThresholds) - 1; i >= 0; i-- {
		th := types.SampleThresholds[i]
		if th >= 0 {
			continue
		}
		if tailPct(i) <= clampMarginPercent {
			negBound = th
			break
		}
		negBound = th
	}

	// Positive thresholds are listed smallest to largest magnitude
	// (0.1 ... 0.5); scan forward.
	for i, th := range types.SampleThresholds {
		if th <= 0 {
			continue
		}
		if tailPct(i) <= clampMarginPercent {
			posBound = th
			break
		}
		posBound = th
	}

	return ValuesRange{Min: negBound, Max: posBound}
}
