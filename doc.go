// Package shard implements a lazy, partitioned collection abstraction.
//
// Users build a chain of transformations over a Dataset whose elements are
// split across independent partitions. Chains of narrow (shuffle-free)
// transformations are fused into a single composed function, so the number
// of submissions to the execution Backend is bounded by the number of
// shuffle boundaries rather than the number of user-level calls. Keyed data
// is redistributed across partitions by a deterministic hash partitioner,
// with generic key-based aggregation (the combiner protocol) performed
// during the shuffle. Results are materialized through a staged bulk
// transfer rather than element-by-element retrieval.
//
// The execution Backend which actually runs a submitted function over a
// partition is pluggable; an in-process parallel implementation is provided
// by the backend/local package. Data sources live under datasource/.
package shard
