package shard

import (
	"context"
)

// Source produces the partitions of a base or materialized dataset. A
// partition's Iterator is consumed at most once per materialization.
type Source interface {
	NumPartitions() int
	Partition(ctx context.Context, partition int) (Iterator, error)
}

// Backend is the execution contract consumed by the core. The core decides
// what function to submit and where the shuffle boundaries fall; the Backend
// decides how work actually runs.
type Backend interface {
	// Submit applies a fused PartitionOperation to one partition of src,
	// returning the lazy output sequence. preservesPartitioning indicates
	// that fn cannot alter the key of any record.
	Submit(ctx context.Context, src Source, partition int, fn PartitionOperation, preservesPartitioning bool) (Iterator, error)
	// Exchange consumes a Source whose partitions yield Bucket elements and
	// gathers, for each of numPartitions destinations, every bucket addressed
	// to it from every source partition. Exchange is an all-to-all barrier:
	// it returns only once every source partition's bucketing has finished.
	Exchange(ctx context.Context, src Source, numPartitions int) (Source, error)
	// Cache materializes src once, returning a Source which replays it
	Cache(ctx context.Context, src Source) (Source, error)
	// Union concatenates the partitions of two Sources
	Union(a Source, b Source) Source
	// Cartesian produces the cross product of two Sources. The product is
	// computed over individual unbatched elements even where the Backend's
	// storage groups elements into Batch containers for transport.
	Cartesian(a Source, b Source) Source
}
