package collection

import "github.com/Aman-CERP/vectorcore/internal/types"

// DenseOptions parameterizes the dense-vector (proximity-graph) index
// a collection may own (spec §3 "Collection": "dense-vector options
// (dimension, enabled flag)").
type DenseOptions struct {
	Enabled bool
	// Dimension is the fixed component count every dense vector in
	// this collection must have.
	Dimension int
	Metric    types.MetricKind
	Storage   types.StorageKind
	// Resolution is the per-component bit width for StorageSubByte;
	// ignored for other storage kinds.
	Resolution uint8
}

// DefaultDenseOptions mirrors the teacher's Default*Config habit
// (store.DefaultVectorStoreConfig): cosine similarity over
// unsigned-byte quantized storage, the common case for embeddings.
func DefaultDenseOptions(dimension int) DenseOptions {
	return DenseOptions{
		Enabled:   true,
		Dimension: dimension,
		Metric:    types.MetricCosineSimilarity,
		Storage:   types.StorageUnsignedByte,
	}
}

// SparseOptions parameterizes the sparse inverted index.
type SparseOptions struct {
	Enabled bool
	// QuantizationBits is the per-dimension quantized-key width (spec
	// §3 "Sparse Index Node": "Quantization maps float value in
	// [0, values_upper_bound] to [0, (1<<bits)-1]").
	QuantizationBits uint8
	ValuesUpperBound float32
	// EarlyTerminateValue bounds the low-weight query regime's walk
	// (spec §4.7 "low query-weight regime").
	EarlyTerminateValue uint8
}

// DefaultSparseOptions matches spec §4.7's running example: 8-bit
// quantized keys, values bounded to [0, 1].
func DefaultSparseOptions() SparseOptions {
	return SparseOptions{
		Enabled:             true,
		QuantizationBits:    8,
		ValuesUpperBound:    1.0,
		EarlyTerminateValue: 1,
	}
}

// TextOptions parameterizes the TF-IDF/BM25 index.
type TextOptions struct {
	Enabled    bool
	StoreRaw   bool
	K1         float32
	B          float32
	// UseStandardBM25 selects ScoreStandard over ScoreSimplified as
	// the default scoring formula (DESIGN.md Open Question #2).
	UseStandardBM25 bool
}

// DefaultTextOptions follows the conventional Okapi BM25 constants.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Enabled:         true,
		K1:              1.2,
		B:               0.75,
		UseStandardBM25: true,
	}
}

// Config carries collection-level sizing/replication hints (spec §3:
// "configuration (max_vectors, replication_factor hint)"). Neither
// field is enforced by this module directly — max_vectors informs
// pre-allocation and capacity checks upstream, replication_factor is
// a hint consumed by an external placement layer, per the Non-goal on
// distributed replication/sharding.
type Config struct {
	MaxVectors          uint64
	ReplicationFactorHint uint32
}

// DefaultConfig mirrors the teacher's zero-value-is-usable defaults
// habit: unbounded capacity, no replication hint.
func DefaultConfig() Config {
	return Config{MaxVectors: 0, ReplicationFactorHint: 1}
}
