// Package sparse implements the sparse inverted index: a 16-way radix
// trie keyed on a vector's dimension indices, with quantized-value
// postings stored in versioned pagepools (spec §4.7).
package sparse
