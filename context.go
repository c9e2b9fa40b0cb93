package shard

import (
	"context"
	"runtime"
	"sync"

	"github.com/go-shard/shard/errors"
	"github.com/go-shard/shard/logging"
	"golang.org/x/sync/errgroup"
)

// Options configures a Context
type Options struct {
	// DefaultParallelism is the partition count used when an operation is
	// given a partition count of zero. Defaults to runtime.NumCPU().
	DefaultParallelism int
	// KeyHasher is the hash function used by default-partitioned shuffles.
	// Defaults to HashKey.
	KeyHasher KeyHasher
	// StagingDir is where transient bulk-collection stores are created.
	// Defaults to the system temp directory.
	StagingDir string
}

// Context owns a transformation DAG and the Backend which executes it.
// All Datasets combined by a binary operation must share one Context.
type Context struct {
	backend            Backend
	graph              *graph
	defaultParallelism int
	hasher             KeyHasher
	stagingDir         string

	mu           sync.Mutex
	materialized map[nodeID]Source // cached nodes, computed once
}

// NewContext creates a Context backed by the given Backend
func NewContext(backend Backend, opts *Options) *Context {
	if opts == nil {
		opts = &Options{}
	}
	parallelism := opts.DefaultParallelism
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}
	hasher := opts.KeyHasher
	if hasher == nil {
		hasher = HashKey
	}
	return &Context{
		backend:            backend,
		graph:              newGraph(),
		defaultParallelism: parallelism,
		hasher:             hasher,
		stagingDir:         opts.StagingDir,
		materialized:       make(map[nodeID]Source),
	}
}

// FromSource creates a Dataset over the partitions of a Source
func (c *Context) FromSource(src Source) *Dataset {
	return &Dataset{ctx: c, id: c.graph.addSource(src, nil)}
}

// DefaultParallelism returns the partition count used when operations are
// given a partition count of zero
func (c *Context) DefaultParallelism() int {
	return c.defaultParallelism
}

// partitionerFor builds the Context's default hash partitioner over
// numPartitions partitions (or DefaultParallelism if zero)
func (c *Context) partitionerFor(numPartitions int) Partitioner {
	if numPartitions < 1 {
		numPartitions = c.defaultParallelism
	}
	return NewHashPartitioner(numPartitions, c.hasher)
}

// sourceFor resolves a node into a Source, materializing shuffle and cache
// boundaries along the way. Narrow nodes resolve to a lazy jobSource so
// that actions like Take only submit the partitions they touch.
func (c *Context) sourceFor(ctx context.Context, id nodeID) (Source, error) {
	c.mu.Lock()
	if src, ok := c.materialized[id]; ok {
		c.mu.Unlock()
		return src, nil
	}
	c.mu.Unlock()
	n := c.graph.node(id)
	var src Source
	switch n.kind {
	case kindSource:
		src = n.source
	case kindNarrow:
		up, err := c.sourceFor(ctx, n.upstream)
		if err != nil {
			return nil, err
		}
		src = &jobSource{backend: c.backend, src: up, fn: n.fn, preserves: n.preserves}
	case kindExchange:
		up, err := c.sourceFor(ctx, n.upstream)
		if err != nil {
			return nil, err
		}
		logging.Logf(logging.DebugLevel, "exchanging %d source partitions into %d destinations", up.NumPartitions(), n.exchangeN)
		exchanged, err := c.backend.Exchange(ctx, up, n.exchangeN)
		if err != nil {
			return nil, err
		}
		src = exchanged
	case kindUnion:
		a, err := c.sourceFor(ctx, n.upstream)
		if err != nil {
			return nil, err
		}
		b, err := c.sourceFor(ctx, n.other)
		if err != nil {
			return nil, err
		}
		src = c.backend.Union(a, b)
	case kindCartesian:
		a, err := c.sourceFor(ctx, n.upstream)
		if err != nil {
			return nil, err
		}
		b, err := c.sourceFor(ctx, n.other)
		if err != nil {
			return nil, err
		}
		src = c.backend.Cartesian(a, b)
	}
	if n.cached {
		cached, err := c.backend.Cache(ctx, src)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// another goroutine may have raced us here; reuse its materialization
		if prior, ok := c.materialized[id]; ok {
			cached = prior
		} else {
			c.materialized[id] = cached
		}
		c.mu.Unlock()
		src = cached
	}
	return src, nil
}

// runEach applies f to every partition of src, in parallel, one independent
// worker per partition. Errors are tagged with the partition they arose in.
func (c *Context) runEach(ctx context.Context, src Source, f func(partition int, it Iterator) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < src.NumPartitions(); p++ {
		p := p
		g.Go(func() error {
			it, err := src.Partition(gctx, p)
			if err != nil {
				return tagPartitionError(p, err)
			}
			if err := f(p, it); err != nil {
				return tagPartitionError(p, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func tagPartitionError(partition int, err error) error {
	if _, ok := err.(errors.PartitionError); ok {
		return err
	}
	return errors.PartitionError{Partition: partition, Cause: err}
}

// jobSource lazily submits a fused narrow segment to the Backend, one
// partition at a time
type jobSource struct {
	backend   Backend
	src       Source
	fn        PartitionOperation
	preserves bool
}

func (j *jobSource) NumPartitions() int {
	return j.src.NumPartitions()
}

func (j *jobSource) Partition(ctx context.Context, partition int) (Iterator, error) {
	return j.backend.Submit(ctx, j.src, partition, j.fn, j.preserves)
}
