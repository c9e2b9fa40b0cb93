package shard

import (
	"context"
	"sync"
)

// An Accumulator is an alternative reduction technique, which siphons data
// from partitions into a custom data structure. The result is itself an
// Accumulator rather than a Dataset, ending the chain. The advantage is full
// control over the reduction, which can yield substantial performance
// benefits. Accumulation is performed locally within each partition, then the
// per-partition results are merged on the caller, so Accumulators are best
// utilized for smaller results; ReduceByKey shuffles and is more efficient
// when the result itself is large.
type Accumulator interface {
	Accumulate(el interface{}) error // Accumulate adds an element to this Accumulator
	Merge(o Accumulator) error       // Merge merges another Accumulator into this one
}

// Accumulate drains the Dataset into Accumulators built by facc, one per
// partition, and merges them into a single result. Merge order across
// partitions is unspecified.
func (d *Dataset) Accumulate(ctx context.Context, facc func() Accumulator) (Accumulator, error) {
	src, err := d.ctx.sourceFor(ctx, d.id)
	if err != nil {
		return nil, err
	}
	total := facc()
	var mu sync.Mutex
	err = d.ctx.runEach(ctx, src, func(partition int, it Iterator) error {
		acc := facc()
		for it.HasNext() {
			el, err := it.Next()
			if isEndOfIterator(err) {
				break
			} else if err != nil {
				return err
			}
			if err := acc.Accumulate(el); err != nil {
				return err
			}
		}
		mu.Lock()
		defer mu.Unlock()
		return total.Merge(acc)
	})
	if err != nil {
		return nil, err
	}
	return total, nil
}
