package graph

import "math"

// Params holds the fixed-at-creation tuning knobs of a proximity-graph
// index (spec §4.6 "Parameters"). They do not change after the index
// is created.
type Params struct {
	NumLayers            int
	NeighborsCount       int
	Level0NeighborsCount int
	EfConstruction       int
	EfSearch             int
	// LevelFactor is the geometric factor the level-probability table
	// is generated from (spec default 4.0).
	LevelFactor float64
	// ReRankingFactor scales k for the candidate pool re-ranked with
	// full-precision distance (spec §4.6 step 4, §4.10).
	ReRankingFactor float64
	// SampleThreshold is the number of vectors buffered before
	// calibration commits a values_range (spec §4.6 "Calibration").
	SampleThreshold int
	// ClampMarginPercent is the sampling tail-mass cutoff (spec §4.6).
	ClampMarginPercent float32
}

// DefaultParams mirrors the teacher's Default*Config habit
// (store.DefaultVectorStoreConfig), picking values from spec's own
// worked example (§9 "Create HNSW index (dim=4, scalar quantization,
// num_layers=3...)") generalized to reasonable production defaults.
func DefaultParams() Params {
	return Params{
		NumLayers:            5,
		NeighborsCount:       32,
		Level0NeighborsCount: 64,
		EfConstruction:       128,
		EfSearch:             64,
		LevelFactor:          4.0,
		ReRankingFactor:      2.0,
		SampleThreshold:      1000,
		ClampMarginPercent:   5.0,
	}
}

// LevelTable is a precomputed cumulative distribution over
// [0, NumLayers] used to sample a target insertion layer (spec §4.6
// "a level-probability table generated from a geometric factor").
type LevelTable []float64

// BuildLevelTable returns the cumulative probability table for
// numLayers+1 levels weighted by factor^-level, normalized to sum 1.
// A larger factor concentrates more mass at layer 0, matching HNSW's
// usual exponential layer-count falloff.
func BuildLevelTable(numLayers int, factor float64) LevelTable {
	if factor <= 1 {
		factor = 4.0
	}
	weights := make([]float64, numLayers+1)
	total := 0.0
	for l := 0; l <= numLayers; l++ {
		weights[l] = math.Pow(factor, -float64(l))
		total += weights[l]
	}
	table := make(LevelTable, numLayers+1)
	cum := 0.0
	for l, w := range weights {
		cum += w / total
		table[l] = cum
	}
	return table
}

// Sample maps a uniform draw r in [0,1) to a target layer using the
// cumulative table.
func (t LevelTable) Sample(r float64) int {
	for l, cum := range t {
		if r < cum {
			return l
		}
	}
	return len(t) - 1
}
