package tfidf

// Params configures a text index's scoring and calibration behavior
// (spec §4.8).
type Params struct {
	K1 float32
	B  float32
	// Bits scales the simplified scoring formula's denominator (spec
	// §4.8 "score += idf * tf / (1 << bits)"); unused by the standard
	// formula.
	Bits uint8
	// UseStandardBM25 selects ScoreStandard over ScoreSimplified (spec
	// §9 Open Question: "implementers should expose both and default
	// to the standard BM25 formula").
	UseStandardBM25 bool
	// SampleThreshold is the number of buffered documents before
	// calibration commits AverageDocumentLength and flips
	// is_configured (spec §4.8 "Calibration").
	SampleThreshold int
	RerankingFactor float64
}

// DefaultParams mirrors conventional Okapi BM25 constants.
func DefaultParams() Params {
	return Params{
		K1:              1.2,
		B:               0.75,
		Bits:            8,
		UseStandardBM25: true,
		SampleThreshold: 1000,
		RerankingFactor: 2.0,
	}
}
