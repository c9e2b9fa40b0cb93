// Package memory implements a slice-backed data source
package memory

import (
	"context"

	"github.com/go-shard/shard"
)

// Parallelize splits a slice across numPartitions partitions of a new
// Dataset (the Context default if zero). Elements keep their slice order
// within each partition.
func Parallelize(ctx *shard.Context, data []interface{}, numPartitions int) *shard.Dataset {
	if numPartitions < 1 {
		numPartitions = ctx.DefaultParallelism()
	}
	return ctx.FromSource(NewSource(data, numPartitions))
}

// Source serves the partitions of an in-memory slice
type Source struct {
	parts [][]interface{}
}

// NewSource chunks data contiguously into numPartitions partitions
func NewSource(data []interface{}, numPartitions int) *Source {
	if numPartitions < 1 {
		numPartitions = 1
	}
	parts := make([][]interface{}, numPartitions)
	base := len(data) / numPartitions
	rem := len(data) % numPartitions
	start := 0
	for i := range parts {
		n := base
		if i < rem {
			n++
		}
		parts[i] = data[start : start+n]
		start += n
	}
	return &Source{parts: parts}
}

// NumPartitions returns the number of partitions in this Source
func (s *Source) NumPartitions() int {
	return len(s.parts)
}

// Partition returns an Iterator over one partition's elements
func (s *Source) Partition(ctx context.Context, partition int) (shard.Iterator, error) {
	return shard.NewSliceIterator(s.parts[partition]), nil
}
