package shard

// MapOperation - A generic function for transforming a single element
type MapOperation func(el interface{}) (interface{}, error)

// FilterOperation - A generic function for determining whether or not an element should be retained
type FilterOperation func(el interface{}) (bool, error)

// FlatMapOperation - A generic function for turning one element into zero or more elements
type FlatMapOperation func(el interface{}) ([]interface{}, error)

// PartitionOperation - A function applied to one partition's element sequence,
// returning a lazy, single-pass-consumable sequence of output elements.
// Narrow chains of PartitionOperations are fused into a single composed
// operation before submission to the Backend.
type PartitionOperation func(in Iterator) (Iterator, error)

// KeyHasher - A deterministic function from a record key to a 64-bit hash.
// Two Datasets intended for a keyed join or cogroup must use the identical
// KeyHasher and partition count.
type KeyHasher func(key interface{}) uint64

// composeOperations fuses two narrow PartitionOperations into g(f(iterator))
func composeOperations(f PartitionOperation, g PartitionOperation) PartitionOperation {
	return func(in Iterator) (Iterator, error) {
		mid, err := f(in)
		if err != nil {
			return nil, err
		}
		return g(mid)
	}
}

func mapOp(fn MapOperation) PartitionOperation {
	return func(in Iterator) (Iterator, error) {
		return &mapIterator{in: in, fn: fn}, nil
	}
}

func filterOp(fn FilterOperation) PartitionOperation {
	return func(in Iterator) (Iterator, error) {
		return &filterIterator{in: in, fn: fn}, nil
	}
}

func flatMapOp(fn FlatMapOperation) PartitionOperation {
	return func(in Iterator) (Iterator, error) {
		return &flatMapIterator{in: in, fn: fn}, nil
	}
}
