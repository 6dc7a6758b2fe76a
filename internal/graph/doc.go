// Package graph implements the layered proximity-graph (dense ANN)
// index: insertion with greedy descent and best-first per-layer
// search, neighbor diversification pruning, metadata-filtered
// traversal, and re-ranking against raw vectors.
package graph
