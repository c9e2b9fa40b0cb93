package shard

import (
	"log"

	"github.com/go-shard/shard/errors"
)

// Dataset is an immutable handle into a Context's transformation DAG. Every
// transformation produces a new Dataset; nothing executes until an action
// (Collect, Take, Reduce, ...) materializes the chain.
type Dataset struct {
	ctx *Context
	id  nodeID
}

// Context returns the Context this Dataset was created on
func (d *Dataset) Context() *Context {
	return d.ctx
}

// NumPartitions returns the number of partitions in this Dataset
func (d *Dataset) NumPartitions() int {
	return d.ctx.graph.numPartitions(d.id)
}

func (d *Dataset) mapPartitions(fn PartitionOperation, preserves bool) *Dataset {
	return &Dataset{ctx: d.ctx, id: d.ctx.graph.addNarrow(d.id, fn, preserves)}
}

// MapPartitions transforms each partition's element sequence wholesale
func (d *Dataset) MapPartitions(fn PartitionOperation) *Dataset {
	return d.mapPartitions(fn, false)
}

// MapPartitionsPreserving is MapPartitions with the caller's assertion that
// fn cannot alter the key of any record
func (d *Dataset) MapPartitionsPreserving(fn PartitionOperation) *Dataset {
	return d.mapPartitions(fn, true)
}

// Map transforms each element
func (d *Dataset) Map(fn MapOperation) *Dataset {
	return d.mapPartitions(mapOp(fn), false)
}

// MapPreserving is Map with the caller's assertion that fn cannot alter the
// key of any record
func (d *Dataset) MapPreserving(fn MapOperation) *Dataset {
	return d.mapPartitions(mapOp(fn), true)
}

// Filter retains only the elements for which fn returns true
func (d *Dataset) Filter(fn FilterOperation) *Dataset {
	return d.mapPartitions(filterOp(fn), false)
}

// FlatMap turns each element into zero or more elements
func (d *Dataset) FlatMap(fn FlatMapOperation) *Dataset {
	return d.mapPartitions(flatMapOp(fn), false)
}

// MapValues passes each Pair's value through fn without changing keys,
// retaining the Dataset's partitioning
func (d *Dataset) MapValues(fn MapOperation) *Dataset {
	return d.mapPartitions(mapOp(func(el interface{}) (interface{}, error) {
		p, err := asPair(el)
		if err != nil {
			return nil, err
		}
		v, err := fn(p.Value)
		if err != nil {
			return nil, err
		}
		return Pair{Key: p.Key, Value: v}, nil
	}), true)
}

// FlatMapValues passes each Pair's value through a flatMap function without
// changing keys, retaining the Dataset's partitioning
func (d *Dataset) FlatMapValues(fn FlatMapOperation) *Dataset {
	return d.mapPartitions(flatMapOp(func(el interface{}) ([]interface{}, error) {
		p, err := asPair(el)
		if err != nil {
			return nil, err
		}
		vs, err := fn(p.Value)
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(vs))
		for i, v := range vs {
			out[i] = Pair{Key: p.Key, Value: v}
		}
		return out, nil
	}), true)
}

// Glom coalesces each partition's elements into a single slice element
func (d *Dataset) Glom() *Dataset {
	return d.mapPartitions(func(in Iterator) (Iterator, error) {
		elems, err := Drain(in)
		if err != nil {
			return nil, err
		}
		if elems == nil {
			elems = []interface{}{}
		}
		return NewSliceIterator([]interface{}{elems}), nil
	}, false)
}

// Cache marks this Dataset as a materialization boundary: its output is
// computed once, retained by the Backend, and reused by every downstream
// consumer. Fusion never crosses a cached Dataset.
func (d *Dataset) Cache() *Dataset {
	d.ctx.graph.setCached(d.id)
	return d
}

// Union concatenates this Dataset's partitions with another's
func (d *Dataset) Union(other *Dataset) *Dataset {
	if d.ctx != other.ctx {
		log.Panicf("cannot union Datasets from different Contexts")
	}
	return &Dataset{ctx: d.ctx, id: d.ctx.graph.addUnion(d.id, other.id)}
}

// Cartesian produces the cross product of two Datasets as Tuple2 elements
func (d *Dataset) Cartesian(other *Dataset) *Dataset {
	if d.ctx != other.ctx {
		log.Panicf("cannot cross Datasets from different Contexts")
	}
	return &Dataset{ctx: d.ctx, id: d.ctx.graph.addCartesian(d.id, other.id)}
}

// GroupBy groups elements by fn(element) into Pair{key, []values}
func (d *Dataset) GroupBy(fn MapOperation, numPartitions int) *Dataset {
	return d.Map(func(el interface{}) (interface{}, error) {
		k, err := fn(el)
		if err != nil {
			return nil, err
		}
		return Pair{Key: k, Value: el}, nil
	}).GroupByKey(numPartitions)
}

func asPair(el interface{}) (Pair, error) {
	p, ok := el.(Pair)
	if !ok {
		return Pair{}, errors.NotPairError{Value: el}
	}
	return p, nil
}
