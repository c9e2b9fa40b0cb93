package shard

import (
	"fmt"

	"github.com/go-shard/shard/errors"
)

// joins are derived from Cogroup: tag each record with its source side,
// union the streams, group the tagged union by key, then split each key's
// grouped values back into a left list and a right list.

const (
	leftSide = iota
	rightSide
)

// sideValue tags a record's value with the side it came from. sideValues
// exist only between the tagging map and the post-group split, inside one
// fused segment; they never reach user code or the staging buffer.
type sideValue struct {
	side  int
	value interface{}
}

// checkPartitioners reports a configuration error when both Datasets carry
// a known, incompatible partitioning. This is detected before the shuffle
// executes.
func checkPartitioners(a *Dataset, b *Dataset) error {
	pa := a.ctx.graph.node(a.id).partitioner
	pb := b.ctx.graph.node(b.id).partitioner
	if pa != nil && pb != nil && !pa.Compatible(pb) {
		return errors.PartitionerMismatchError{
			Left:  fmt.Sprintf("%v", pa),
			Right: fmt.Sprintf("%v", pb),
		}
	}
	return nil
}

func tagSide(d *Dataset, side int) *Dataset {
	return d.MapValues(func(v interface{}) (interface{}, error) {
		return sideValue{side: side, value: v}, nil
	})
}

// Cogroup produces, for each key in either Dataset, a Pair whose value is a
// CoGrouped holding the key's values from each side in arrival order
func (d *Dataset) Cogroup(other *Dataset, numPartitions int) (*Dataset, error) {
	if d.ctx != other.ctx {
		return nil, fmt.Errorf("cannot cogroup Datasets from different Contexts")
	}
	if err := checkPartitioners(d, other); err != nil {
		return nil, err
	}
	union := tagSide(d, leftSide).Union(tagSide(other, rightSide))
	grouped := union.GroupByKey(numPartitions)
	return grouped.MapValues(func(v interface{}) (interface{}, error) {
		cg := CoGrouped{Left: []interface{}{}, Right: []interface{}{}}
		for _, tagged := range v.([]interface{}) {
			sv, ok := tagged.(sideValue)
			if !ok {
				return nil, fmt.Errorf("cogrouped value %v is not side-tagged", tagged)
			}
			if sv.side == leftSide {
				cg.Left = append(cg.Left, sv.value)
			} else {
				cg.Right = append(cg.Right, sv.value)
			}
		}
		return cg, nil
	}), nil
}

// Join produces, for each key present on both sides, the cross product of
// left and right values as individual Pair{key, Tuple2} records. Keys with
// an empty side yield no output.
func (d *Dataset) Join(other *Dataset, numPartitions int) (*Dataset, error) {
	grouped, err := d.Cogroup(other, numPartitions)
	if err != nil {
		return nil, err
	}
	return grouped.FlatMapValues(func(v interface{}) ([]interface{}, error) {
		cg := v.(CoGrouped)
		out := make([]interface{}, 0, len(cg.Left)*len(cg.Right))
		for _, l := range cg.Left {
			for _, r := range cg.Right {
				out = append(out, Tuple2{First: l, Second: r})
			}
		}
		return out, nil
	}), nil
}

// LeftOuterJoin is Join, except a key with no right values emits one
// Pair{key, Tuple2{left, Absent}} per left value
func (d *Dataset) LeftOuterJoin(other *Dataset, numPartitions int) (*Dataset, error) {
	grouped, err := d.Cogroup(other, numPartitions)
	if err != nil {
		return nil, err
	}
	return grouped.FlatMapValues(func(v interface{}) ([]interface{}, error) {
		cg := v.(CoGrouped)
		out := make([]interface{}, 0, len(cg.Left))
		for _, l := range cg.Left {
			if len(cg.Right) == 0 {
				out = append(out, Tuple2{First: l, Second: Absent})
				continue
			}
			for _, r := range cg.Right {
				out = append(out, Tuple2{First: l, Second: r})
			}
		}
		return out, nil
	}), nil
}

// RightOuterJoin is Join, except a key with no left values emits one
// Pair{key, Tuple2{Absent, right}} per right value
func (d *Dataset) RightOuterJoin(other *Dataset, numPartitions int) (*Dataset, error) {
	grouped, err := d.Cogroup(other, numPartitions)
	if err != nil {
		return nil, err
	}
	return grouped.FlatMapValues(func(v interface{}) ([]interface{}, error) {
		cg := v.(CoGrouped)
		out := make([]interface{}, 0, len(cg.Right))
		for _, r := range cg.Right {
			if len(cg.Left) == 0 {
				out = append(out, Tuple2{First: Absent, Second: r})
				continue
			}
			for _, l := range cg.Left {
				out = append(out, Tuple2{First: l, Second: r})
			}
		}
		return out, nil
	}), nil
}
