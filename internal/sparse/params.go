package sparse

// Params configures a sparse index's quantization and calibration
// behavior (spec §4.7, §3 "Sparse Index Node").
type Params struct {
	// Bits is the quantized-key width; keys range over [0, 1<<Bits - 1].
	Bits uint8
	// SampleThreshold is the number of buffered values before
	// calibration derives ValuesUpperBound and flips is_configured.
	SampleThreshold int
	// ClampMarginPercent bounds the fraction of sampled values allowed
	// to exceed the chosen ValuesUpperBound.
	ClampMarginPercent float32
	// RegimeThreshold is the quantized query value above which a query
	// dimension uses the high-weight regime (iterate every key) instead
	// of the low-weight regime (iterate only keys >= RegimeThreshold,
	// spec §4.7 "Query"). This build uses a single configured value for
	// both the regime boundary and the low-regime's early-terminate
	// floor, since the spec names both `low_threshold` and
	// `early_terminate_value` without relating them precisely.
	RegimeThreshold uint8
	// PageCapacity is the fixed posting-page size backing each pagepool.
	PageCapacity int
	// RerankingFactor scales k into the candidate count considered
	// before final top-k truncation (spec §4.7 "select top k ·
	// reranking_factor").
	RerankingFactor float64
}

// DefaultParams mirrors spec §4.7's running example: 8-bit quantized
// keys, an early-terminate floor at 10% of the key range.
func DefaultParams() Params {
	return Params{
		Bits:                8,
		SampleThreshold:     1000,
		ClampMarginPercent:  5.0,
		RegimeThreshold:     25,
		PageCapacity:        64,
		RerankingFactor:     2.0,
	}
}

func (p Params) maxKey() uint8 {
	return uint8((1 << p.Bits) - 1)
}
