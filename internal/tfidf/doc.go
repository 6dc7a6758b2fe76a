// Package tfidf implements the TF-IDF/BM25 text index: a radix trie
// keyed on a term hash, versioned per-term posting lists, and the two
// BM25 scoring formulas named in the spec (spec §4.8).
package tfidf
