package shard

import (
	"context"
)

// Combiner is the three-function generic aggregation protocol from which
// every keyed operation is derived. Create turns a value into a combiner on
// a key's first occurrence; MergeValue folds subsequent values within the
// same partition, strictly left to right; MergeCombiners merges combiners
// arriving from different source partitions, and must be associative and
// order-independent since no cross-partition ordering is guaranteed.
//
// Ownership rule: the fold loop exclusively owns every combiner value it
// holds. MergeValue and MergeCombiners may mutate their first (accumulator)
// argument in place and return it, but must never mutate the incoming value
// or the second combiner.
type Combiner struct {
	Create         func(v interface{}) interface{}
	MergeValue     func(c interface{}, v interface{}) interface{}
	MergeCombiners func(a interface{}, b interface{}) interface{}
}

func reduceCombiner(fn func(a interface{}, b interface{}) interface{}) Combiner {
	return Combiner{
		Create:         func(v interface{}) interface{} { return v },
		MergeValue:     fn,
		MergeCombiners: fn,
	}
}

// CombineByKey aggregates a Dataset of Pairs into one Pair{key, combiner}
// per key, in three phases: a map-side combine within each source partition,
// a shuffle of the (key, combiner) pairs, and a reduce-side combine at each
// destination. A numPartitions of zero selects the Context default.
func (d *Dataset) CombineByKey(comb Combiner, numPartitions int) *Dataset {
	p := d.ctx.partitionerFor(numPartitions)
	combined := d.mapPartitions(combineLocallyOp(comb), false)
	return combined.shuffle(p).mapPartitions(mergeCombinersOp(comb), true)
}

// shuffle redistributes a Dataset of Pairs with a local bucketing pass
// followed by the Backend's exchange phase
func (d *Dataset) shuffle(p Partitioner) *Dataset {
	bucketed := d.mapPartitions(bucketOp(p), false)
	return &Dataset{ctx: d.ctx, id: d.ctx.graph.addExchange(bucketed.id, p)}
}

// PartitionBy redistributes a Dataset of Pairs across p's partitions without
// aggregation. Repeated calls with the same partitioner place a given key in
// the same destination.
func (d *Dataset) PartitionBy(p Partitioner) *Dataset {
	return d.shuffle(p)
}

// ReduceByKey merges the values for each key using an associative reduce
// function. Merging happens locally within each partition before the
// shuffle, like a MapReduce combiner.
func (d *Dataset) ReduceByKey(fn func(a interface{}, b interface{}) interface{}, numPartitions int) *Dataset {
	return d.CombineByKey(reduceCombiner(fn), numPartitions)
}

// GroupByKey groups the values for each key into a single []interface{}
func (d *Dataset) GroupByKey(numPartitions int) *Dataset {
	return d.CombineByKey(Combiner{
		Create: func(v interface{}) interface{} {
			return []interface{}{v}
		},
		MergeValue: func(c interface{}, v interface{}) interface{} {
			return append(c.([]interface{}), v)
		},
		MergeCombiners: func(a interface{}, b interface{}) interface{} {
			return append(a.([]interface{}), b.([]interface{})...)
		},
	}, numPartitions)
}

// Distinct returns a Dataset containing this Dataset's distinct elements
func (d *Dataset) Distinct(numPartitions int) *Dataset {
	keepFirst := func(a interface{}, b interface{}) interface{} { return a }
	return d.Map(func(el interface{}) (interface{}, error) {
		return Pair{Key: el, Value: nil}, nil
	}).ReduceByKey(keepFirst, numPartitions).Map(func(el interface{}) (interface{}, error) {
		p, err := asPair(el)
		if err != nil {
			return nil, err
		}
		return p.Key, nil
	})
}

// ReduceByKeyLocally merges the values for each key using an associative
// reduce function, collapsing the shuffle and reduce-side phases into a
// single in-process merge pass and returning the aggregate directly to the
// caller. Intended for small results where a shuffle round-trip is wasteful.
func (d *Dataset) ReduceByKeyLocally(ctx context.Context, fn func(a interface{}, b interface{}) interface{}) (map[interface{}]interface{}, error) {
	combined := d.mapPartitions(combineLocallyOp(reduceCombiner(fn)), false)
	elems, err := combined.Collect(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[interface{}]interface{})
	for _, el := range elems {
		p, err := asPair(el)
		if err != nil {
			return nil, err
		}
		if c, ok := out[p.Key]; ok {
			out[p.Key] = fn(c, p.Value)
		} else {
			out[p.Key] = p.Value
		}
	}
	return out, nil
}

// CountByValue returns the count of each unique element
func (d *Dataset) CountByValue(ctx context.Context) (map[interface{}]int64, error) {
	pairs := d.Map(func(el interface{}) (interface{}, error) {
		return Pair{Key: el, Value: int64(1)}, nil
	})
	counts, err := pairs.ReduceByKeyLocally(ctx, func(a interface{}, b interface{}) interface{} {
		return a.(int64) + b.(int64)
	})
	if err != nil {
		return nil, err
	}
	out := make(map[interface{}]int64, len(counts))
	for k, v := range counts {
		out[k] = v.(int64)
	}
	return out, nil
}

// CountByKey returns the number of elements for each key
func (d *Dataset) CountByKey(ctx context.Context) (map[interface{}]int64, error) {
	return d.Map(func(el interface{}) (interface{}, error) {
		p, err := asPair(el)
		if err != nil {
			return nil, err
		}
		return p.Key, nil
	}).CountByValue(ctx)
}
