// Package query implements the Query Executor: it wraps the three
// concrete index searchers (dense proximity graph, sparse inverted
// index, TF-IDF/BM25), tokenizes raw text for the text index, fans
// batch queries out across a bounded worker pool, and resolves vector
// neighbor lookups (spec §4.10, §6 RPC surface ann_query,
// batch_ann_query, fetch_vector_neighbors, bm25_query).
package query
