package shard

import (
	"context"

	"github.com/go-shard/shard/errors"
	"github.com/go-shard/shard/internal/stagefile"
	"github.com/go-shard/shard/logging"
)

// Collect materializes every partition's elements in partition-index order.
// No ordering is guaranteed across partitions beyond index order, and none
// within a partition beyond source sequence order. Results move through a
// staged bulk transfer rather than element-by-element retrieval; the staging
// store is removed unconditionally, including on early abort.
func (d *Dataset) Collect(ctx context.Context) ([]interface{}, error) {
	src, err := d.ctx.sourceFor(ctx, d.id)
	if err != nil {
		return nil, err
	}
	store, err := stagefile.NewStore(d.ctx.stagingDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		// unconditional release; a failed removal must not fail a
		// computation that already delivered its data
		if err := store.Remove(); err != nil {
			logging.Logf(logging.WarnLevel, "failed to remove staging store: %v", err)
		}
	}()
	err = d.ctx.runEach(ctx, src, func(partition int, it Iterator) error {
		return stagePartition(store, partition, it)
	})
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0)
	for p := 0; p < src.NumPartitions(); p++ {
		elems, err := store.Read(p)
		if err != nil {
			return nil, err
		}
		out = append(out, elems...)
	}
	return out, nil
}

func stagePartition(store *stagefile.Store, partition int, it Iterator) error {
	w, err := store.Create(partition)
	if err != nil {
		return err
	}
	for it.HasNext() {
		el, err := it.Next()
		if isEndOfIterator(err) {
			break
		} else if err != nil {
			w.Close()
			return err
		}
		if err := w.Write(el); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

// Take returns the first n elements of the Dataset, scanning partitions
// strictly one at a time in index order and stopping as soon as n elements
// have been accumulated. Slow when many small partitions must be scanned;
// use Collect for the whole Dataset instead.
func (d *Dataset) Take(ctx context.Context, n int) ([]interface{}, error) {
	out := make([]interface{}, 0, n)
	if n <= 0 {
		return out, nil
	}
	src, err := d.ctx.sourceFor(ctx, d.id)
	if err != nil {
		return nil, err
	}
	for p := 0; p < src.NumPartitions() && len(out) < n; p++ {
		elems, err := d.collectPartition(ctx, src, p)
		if err != nil {
			return nil, err
		}
		out = append(out, elems...)
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// collectPartition stages and reads back a single partition
func (d *Dataset) collectPartition(ctx context.Context, src Source, partition int) ([]interface{}, error) {
	store, err := stagefile.NewStore(d.ctx.stagingDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Remove(); err != nil {
			logging.Logf(logging.WarnLevel, "failed to remove staging store: %v", err)
		}
	}()
	it, err := src.Partition(ctx, partition)
	if err != nil {
		return nil, tagPartitionError(partition, err)
	}
	if err := stagePartition(store, partition, it); err != nil {
		return nil, tagPartitionError(partition, err)
	}
	return store.Read(partition)
}

// First returns the first element of the Dataset
func (d *Dataset) First(ctx context.Context) (interface{}, error) {
	elems, err := d.Take(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, errors.EmptyDatasetError{}
	}
	return elems[0], nil
}

// Reduce combines the Dataset's elements with an associative binary
// operator. A reduction over zero elements has no identity and returns an
// errors.EmptyDatasetError.
func (d *Dataset) Reduce(ctx context.Context, fn func(a interface{}, b interface{}) interface{}) (interface{}, error) {
	partials, err := d.mapPartitions(func(in Iterator) (Iterator, error) {
		var acc interface{}
		seen := false
		for in.HasNext() {
			el, err := in.Next()
			if isEndOfIterator(err) {
				break
			} else if err != nil {
				return nil, err
			}
			if !seen {
				acc = el
				seen = true
			} else {
				acc = fn(acc, el)
			}
		}
		if !seen {
			return EmptyIterator(), nil
		}
		return NewSliceIterator([]interface{}{acc}), nil
	}, false).Collect(ctx)
	if err != nil {
		return nil, err
	}
	if len(partials) == 0 {
		return nil, errors.EmptyDatasetError{}
	}
	acc := partials[0]
	for _, el := range partials[1:] {
		acc = fn(acc, el)
	}
	return acc, nil
}

// Fold aggregates each partition from the caller-supplied zero value, then
// folds the per-partition results, again starting from zero. Unlike Reduce,
// Fold never fails on an empty Dataset: zero is its identity.
func (d *Dataset) Fold(ctx context.Context, zero interface{}, fn func(acc interface{}, el interface{}) interface{}) (interface{}, error) {
	partials, err := d.mapPartitions(func(in Iterator) (Iterator, error) {
		acc := zero
		for in.HasNext() {
			el, err := in.Next()
			if isEndOfIterator(err) {
				break
			} else if err != nil {
				return nil, err
			}
			acc = fn(acc, el)
		}
		return NewSliceIterator([]interface{}{acc}), nil
	}, false).Collect(ctx)
	if err != nil {
		return nil, err
	}
	acc := zero
	for _, el := range partials {
		acc = fn(acc, el)
	}
	return acc, nil
}

// Count returns the number of elements in the Dataset
func (d *Dataset) Count(ctx context.Context) (int64, error) {
	partials, err := d.mapPartitions(func(in Iterator) (Iterator, error) {
		var n int64
		for in.HasNext() {
			_, err := in.Next()
			if isEndOfIterator(err) {
				break
			} else if err != nil {
				return nil, err
			}
			n++
		}
		return NewSliceIterator([]interface{}{n}), nil
	}, false).Collect(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, el := range partials {
		total += el.(int64)
	}
	return total, nil
}

// Foreach applies fn to every element, forcing evaluation
func (d *Dataset) Foreach(ctx context.Context, fn func(el interface{}) error) error {
	src, err := d.ctx.sourceFor(ctx, d.id)
	if err != nil {
		return err
	}
	return d.ctx.runEach(ctx, src, func(partition int, it Iterator) error {
		for it.HasNext() {
			el, err := it.Next()
			if isEndOfIterator(err) {
				break
			} else if err != nil {
				return err
			}
			if err := fn(el); err != nil {
				return err
			}
		}
		return nil
	})
}

// CollectAsMap materializes a Dataset of Pairs as a map. Later occurrences
// of a key overwrite earlier ones.
func (d *Dataset) CollectAsMap(ctx context.Context) (map[interface{}]interface{}, error) {
	elems, err := d.Collect(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[interface{}]interface{}, len(elems))
	for _, el := range elems {
		p, err := asPair(el)
		if err != nil {
			return nil, err
		}
		out[p.Key] = p.Value
	}
	return out, nil
}
