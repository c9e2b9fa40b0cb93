// Package local implements the shard execution Backend in-process, running
// independent workers in parallel across partitions.
package local

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-shard/shard"
	serrors "github.com/go-shard/shard/errors"
	"github.com/go-shard/shard/logging"
	"golang.org/x/sync/errgroup"
)

// batchSize is the number of elements grouped per Batch container in
// materialized storage
const batchSize = 16

// Backend executes fused partition operations in-process
type Backend struct {
	submissions uint64
}

// New creates a local Backend
func New() *Backend {
	return &Backend{}
}

// Submissions returns the number of Submit calls this Backend has served.
// With fusion, one materialization performs exactly one submission per
// partition per shuffle-free segment, independent of the number of
// user-level transformation calls.
func (b *Backend) Submissions() uint64 {
	return atomic.LoadUint64(&b.submissions)
}

// Submit applies fn to one partition of src
func (b *Backend) Submit(ctx context.Context, src shard.Source, partition int, fn shard.PartitionOperation, preservesPartitioning bool) (shard.Iterator, error) {
	atomic.AddUint64(&b.submissions, 1)
	logging.Logf(logging.DebugLevel, "local: submitting partition %d (preservesPartitioning=%t)", partition, preservesPartitioning)
	in, err := src.Partition(ctx, partition)
	if err != nil {
		return nil, err
	}
	out, err := fn(in)
	if err != nil {
		// no retry at this layer; the failure surfaces tagged with the
		// originating partition
		return nil, serrors.PartitionError{Partition: partition, Cause: err}
	}
	return out, nil
}

// Exchange gathers, for each destination partition, every bucket addressed
// to it from every source partition. Every source partition's bucketing
// finishes before any destination is served; a failure during this phase is
// fatal to the stage.
func (b *Backend) Exchange(ctx context.Context, src shard.Source, numPartitions int) (shard.Source, error) {
	dests := make([][]shard.Pair, numPartitions)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < src.NumPartitions(); p++ {
		p := p
		g.Go(func() error {
			it, err := src.Partition(gctx, p)
			if err != nil {
				return err
			}
			for it.HasNext() {
				el, err := it.Next()
				if _, ok := err.(serrors.EndOfIteratorError); ok {
					break
				} else if err != nil {
					return err
				}
				bucket, ok := el.(shard.Bucket)
				if !ok {
					return serrors.PartitionError{Partition: p, Cause: serrors.NotBucketError{Value: el}}
				}
				// whole buckets append atomically, so pair order within one
				// source partition's contribution is preserved
				mu.Lock()
				dests[bucket.Dest] = append(dests[bucket.Dest], bucket.Pairs...)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &pairsSource{dests: dests}, nil
}

// Cache materializes src once, storing elements grouped into Batch
// containers for transport efficiency
func (b *Backend) Cache(ctx context.Context, src shard.Source) (shard.Source, error) {
	parts := make([][]interface{}, src.NumPartitions())
	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < src.NumPartitions(); p++ {
		p := p
		g.Go(func() error {
			it, err := src.Partition(gctx, p)
			if err != nil {
				return err
			}
			elems, err := shard.Drain(it)
			if err != nil {
				return err
			}
			batched := make([]interface{}, 0, len(elems)/batchSize+1)
			for len(elems) > 0 {
				n := batchSize
				if n > len(elems) {
					n = len(elems)
				}
				batched = append(batched, shard.Batch{Items: elems[:n]})
				elems = elems[n:]
			}
			parts[p] = batched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logging.Logf(logging.DebugLevel, "local: cached %d partitions", len(parts))
	return &cachedSource{parts: parts}, nil
}

// Union concatenates the partitions of two Sources
func (b *Backend) Union(a shard.Source, other shard.Source) shard.Source {
	return &unionSource{a: a, b: other}
}

// Cartesian produces the cross product of two Sources as Tuple2 elements,
// computed over individual unbatched elements
func (b *Backend) Cartesian(a shard.Source, other shard.Source) shard.Source {
	return &cartesianSource{a: a, b: other}
}

// pairsSource serves the gathered output of an exchange
type pairsSource struct {
	dests [][]shard.Pair
}

func (s *pairsSource) NumPartitions() int {
	return len(s.dests)
}

func (s *pairsSource) Partition(ctx context.Context, partition int) (shard.Iterator, error) {
	pairs := s.dests[partition]
	elems := make([]interface{}, len(pairs))
	for i, p := range pairs {
		elems[i] = p
	}
	return shard.NewSliceIterator(elems), nil
}

// cachedSource replays materialized partitions. Storage is batched; normal
// reads unbatch transparently, while Cartesian consumes the raw stream.
type cachedSource struct {
	parts [][]interface{}
}

func (s *cachedSource) NumPartitions() int {
	return len(s.parts)
}

func (s *cachedSource) Partition(ctx context.Context, partition int) (shard.Iterator, error) {
	return shard.NewSliceIterator(unbatch(s.parts[partition])), nil
}

// rawPartition exposes the batched storage without unwrapping
func (s *cachedSource) rawPartition(partition int) []interface{} {
	return s.parts[partition]
}

func unbatch(elems []interface{}) []interface{} {
	out := make([]interface{}, 0, len(elems))
	for _, el := range elems {
		if batch, ok := el.(shard.Batch); ok {
			out = append(out, batch.Items...)
		} else {
			out = append(out, el)
		}
	}
	return out
}

type unionSource struct {
	a shard.Source
	b shard.Source
}

func (s *unionSource) NumPartitions() int {
	return s.a.NumPartitions() + s.b.NumPartitions()
}

func (s *unionSource) Partition(ctx context.Context, partition int) (shard.Iterator, error) {
	if partition < s.a.NumPartitions() {
		return s.a.Partition(ctx, partition)
	}
	return s.b.Partition(ctx, partition-s.a.NumPartitions())
}

// cartesianSource crosses partition i/b.N of a with partition i%b.N of b.
// Either side's stream may carry Batch containers from cached storage; the
// product is always computed over their individual items.
type cartesianSource struct {
	a shard.Source
	b shard.Source
}

func (s *cartesianSource) NumPartitions() int {
	return s.a.NumPartitions() * s.b.NumPartitions()
}

func (s *cartesianSource) Partition(ctx context.Context, partition int) (shard.Iterator, error) {
	bn := s.b.NumPartitions()
	left, err := s.rawElements(ctx, s.a, partition/bn)
	if err != nil {
		return nil, err
	}
	right, err := s.rawElements(ctx, s.b, partition%bn)
	if err != nil {
		return nil, err
	}
	left = unbatch(left)
	right = unbatch(right)
	out := make([]interface{}, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			out = append(out, shard.Tuple2{First: l, Second: r})
		}
	}
	return shard.NewSliceIterator(out), nil
}

func (s *cartesianSource) rawElements(ctx context.Context, src shard.Source, partition int) ([]interface{}, error) {
	if cached, ok := src.(*cachedSource); ok {
		return cached.rawPartition(partition), nil
	}
	it, err := src.Partition(ctx, partition)
	if err != nil {
		return nil, err
	}
	return shard.Drain(it)
}
