package shard

// Map-side shuffle operations. Each runs within one source partition as part
// of a fused narrow segment; the exchange itself is the Backend's
// responsibility.

// bucketOp buckets keyed elements by destination partition. Bucketing is a
// single local pass: O(partition size) time, and O(partition size) additional
// memory for the in-flight buckets, which is the documented scalability
// limit of the shuffle's local phase. Pair order within a bucket follows
// source arrival order.
func bucketOp(p Partitioner) PartitionOperation {
	return func(in Iterator) (Iterator, error) {
		grouped := make([][]Pair, p.NumPartitions())
		for in.HasNext() {
			el, err := in.Next()
			if isEndOfIterator(err) {
				break
			} else if err != nil {
				return nil, err
			}
			pr, err := asPair(el)
			if err != nil {
				return nil, err
			}
			dest := p.PartitionFor(pr.Key)
			grouped[dest] = append(grouped[dest], pr)
		}
		out := make([]interface{}, 0, len(grouped))
		for dest, pairs := range grouped {
			if len(pairs) > 0 {
				out = append(out, Bucket{Dest: dest, Pairs: pairs})
			}
		}
		return NewSliceIterator(out), nil
	}
}

// combineLocallyOp folds (key, value) pairs into (key, combiner) pairs - the
// map-side combine which shrinks data volume before a shuffle. Keys are
// emitted in first-seen order.
func combineLocallyOp(comb Combiner) PartitionOperation {
	return func(in Iterator) (Iterator, error) {
		state := make(map[interface{}]interface{})
		order := make([]interface{}, 0)
		for in.HasNext() {
			el, err := in.Next()
			if isEndOfIterator(err) {
				break
			} else if err != nil {
				return nil, err
			}
			pr, err := asPair(el)
			if err != nil {
				return nil, err
			}
			if c, ok := state[pr.Key]; ok {
				state[pr.Key] = comb.MergeValue(c, pr.Value)
			} else {
				state[pr.Key] = comb.Create(pr.Value)
				order = append(order, pr.Key)
			}
		}
		out := make([]interface{}, len(order))
		for i, k := range order {
			out[i] = Pair{Key: k, Value: state[k]}
		}
		return NewSliceIterator(out), nil
	}
}

// mergeCombinersOp folds (key, combiner) pairs arriving from different
// source partitions at one destination - the reduce-side combine
func mergeCombinersOp(comb Combiner) PartitionOperation {
	return func(in Iterator) (Iterator, error) {
		state := make(map[interface{}]interface{})
		order := make([]interface{}, 0)
		for in.HasNext() {
			el, err := in.Next()
			if isEndOfIterator(err) {
				break
			} else if err != nil {
				return nil, err
			}
			pr, err := asPair(el)
			if err != nil {
				return nil, err
			}
			if c, ok := state[pr.Key]; ok {
				state[pr.Key] = comb.MergeCombiners(c, pr.Value)
			} else {
				state[pr.Key] = pr.Value
				order = append(order, pr.Key)
			}
		}
		out := make([]interface{}, len(order))
		for i, k := range order {
			out[i] = Pair{Key: k, Value: state[k]}
		}
		return NewSliceIterator(out), nil
	}
}
